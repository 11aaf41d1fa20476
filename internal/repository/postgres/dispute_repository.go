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

type DisputeRepository struct {
	DB *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) *DisputeRepository {
	return &DisputeRepository{
		DB: db,
	}
}

func (r *DisputeRepository) Create(ctx context.Context, dispute *domain.Dispute) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(dispute).Error; err != nil {
		return fmt.Errorf("failed to create dispute: %w", err)
	}

	return nil
}

func (r *DisputeRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Dispute, error) {
	var dispute domain.Dispute

	err := conn(ctx, r.DB).Where("id = ?", id).First(&dispute).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Dispute{}, domain.ErrDisputeNotFound
		}
		return domain.Dispute{}, fmt.Errorf("failed to find dispute: %w", err)
	}

	return dispute, nil
}

func (r *DisputeRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Dispute, error) {
	disputes := []domain.Dispute{}

	if err := conn(ctx, r.DB).Where("user_id = ?", userID).Order("created_at DESC").Find(&disputes).Error; err != nil {
		return nil, fmt.Errorf("failed to find disputes: %w", err)
	}

	return disputes, nil
}

func (r *DisputeRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Dispute, error) {
	disputes := []domain.Dispute{}

	if err := conn(ctx, r.DB).Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&disputes).Error; err != nil {
		return nil, fmt.Errorf("failed to find disputes: %w", err)
	}

	return disputes, nil
}

func (r *DisputeRepository) UpdateResolution(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution *string) error {
	result := conn(ctx, r.DB).Model(&domain.Dispute{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"resolution": resolution,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update dispute: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDisputeNotFound
	}

	return nil
}
