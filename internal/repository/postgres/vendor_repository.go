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

type VendorRepository struct {
	DB *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{
		DB: db,
	}
}

func (r *VendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(vendor).Error; err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}

	return nil
}

func (r *VendorRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Vendor, error) {
	var vendor domain.Vendor

	err := conn(ctx, r.DB).Where("id = ?", id).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Vendor{}, domain.ErrVendorNotFound
		}
		return domain.Vendor{}, fmt.Errorf("failed to find vendor: %w", err)
	}

	return vendor, nil
}

// FindByUserID returns the oldest vendor profile of the user.
func (r *VendorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (domain.Vendor, error) {
	var vendor domain.Vendor

	err := conn(ctx, r.DB).Where("user_id = ?", userID).Order("created_at ASC").First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Vendor{}, domain.ErrVendorNotFound
		}
		return domain.Vendor{}, fmt.Errorf("failed to find vendor: %w", err)
	}

	return vendor, nil
}

func (r *VendorRepository) FindAll(ctx context.Context, status domain.VendorStatus) ([]domain.Vendor, error) {
	var vendors []domain.Vendor

	q := conn(ctx, r.DB).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("failed to find vendors: %w", err)
	}

	return vendors, nil
}

func (r *VendorRepository) Update(ctx context.Context, vendor *domain.Vendor) error {
	vendor.UpdatedAt = time.Now()

	result := conn(ctx, r.DB).Model(&domain.Vendor{}).Where("id = ? AND user_id = ?", vendor.ID, vendor.UserID).
		Select("business_name", "description", "market_id", "updated_at").
		Updates(vendor)
	if result.Error != nil {
		return fmt.Errorf("failed to update vendor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrVendorNotFound
	}

	return nil
}

func (r *VendorRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VendorStatus) error {
	result := conn(ctx, r.DB).Model(&domain.Vendor{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update vendor status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrVendorNotFound
	}

	return nil
}
