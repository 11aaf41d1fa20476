package review

import (
	"context"
	"strings"

	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"

	"github.com/google/uuid"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]domain.Review, error)
	AverageRating(ctx context.Context, productID uuid.UUID) (float64, int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type ProductChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ReviewService struct {
	reviewRepo ReviewRepository
	products   ProductChecker
}

func NewReviewService(reviewRepo ReviewRepository, products ProductChecker) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		products:   products,
	}
}

// Create stores a review. A user may review the same product more than once.
func (s *ReviewService) Create(ctx context.Context, userID, productID uuid.UUID, rating int, comment string) (domain.Review, error) {
	if rating < 1 || rating > 5 {
		return domain.Review{}, apperror.Validation("rating must be between 1 and 5")
	}

	if err := s.requireProduct(ctx, productID); err != nil {
		return domain.Review{}, err
	}

	review := domain.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviewRepo.Create(ctx, &review); err != nil {
		logger.Error("Failed to create review", "error", err)
		return domain.Review{}, err
	}

	return review, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID) (domain.ProductReviews, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return domain.ProductReviews{}, err
	}

	reviews, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		logger.Error("Failed to find reviews", "error", err)
		return domain.ProductReviews{}, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	avg, count, err := s.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		logger.Error("Failed to aggregate ratings", "error", err)
		return domain.ProductReviews{}, err
	}

	return domain.ProductReviews{
		Reviews:       reviews,
		AverageRating: avg,
		Count:         int(count),
	}, nil
}

func (s *ReviewService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.reviewRepo.Delete(ctx, id, userID)
}

func (s *ReviewService) requireProduct(ctx context.Context, productID uuid.UUID) error {
	ok, err := s.products.Exists(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProductNotFound
	}
	return nil
}
