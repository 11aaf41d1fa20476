package postgres

import (
	"context"
	"fmt"

	"multiMart/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		DB: db,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]domain.Review, error) {
	reviews := []domain.Review{}

	err := conn(ctx, r.DB).Where("product_id = ?", productID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	return reviews, nil
}

// AverageRating returns the mean rating and the review count of a product.
func (r *ReviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (float64, int64, error) {
	var agg struct {
		Average *float64
		Count   int64
	}

	err := conn(ctx, r.DB).Model(&domain.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	if agg.Average == nil {
		return 0, agg.Count, nil
	}
	return *agg.Average, agg.Count, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result := conn(ctx, r.DB).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Review{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}

	return nil
}
