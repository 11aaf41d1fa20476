package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"multiMart/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayoutRepository struct {
	DB *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{
		DB: db,
	}
}

func (r *PayoutRepository) Create(ctx context.Context, payout *domain.Payout) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(payout).Error; err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}

	return nil
}

func (r *PayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Payout, error) {
	var payout domain.Payout

	err := conn(ctx, r.DB).Where("id = ?", id).First(&payout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payout{}, domain.ErrPayoutNotFound
		}
		return domain.Payout{}, fmt.Errorf("failed to find payout: %w", err)
	}

	return payout, nil
}

func (r *PayoutRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Payout, error) {
	payouts := []domain.Payout{}

	if err := conn(ctx, r.DB).Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&payouts).Error; err != nil {
		return nil, fmt.Errorf("failed to find payouts: %w", err)
	}

	return payouts, nil
}

// MarkProcessed settles a pending payout. A payout already settled reports
// ErrStatusConflict.
func (r *PayoutRepository) MarkProcessed(ctx context.Context, id uuid.UUID, status domain.PayoutStatus, at time.Time) error {
	result := conn(ctx, r.DB).Model(&domain.Payout{}).
		Where("id = ? AND status = ?", id, domain.PayoutStatusPending).
		Updates(map[string]any{
			"status":       status,
			"processed_at": at,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to process payout: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrStatusConflict
	}

	return nil
}
