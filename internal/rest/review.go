package rest

import (
	"context"
	"time"

	"multiMart/domain"
	"multiMart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ReviewService interface {
	Create(ctx context.Context, userID, productID uuid.UUID, rating int, comment string) (domain.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) (domain.ProductReviews, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type ReviewHandler struct {
	reviewService ReviewService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewReviewHandler(reviewService ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		timeout:       defaultTimeout,
	}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}
	productID, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	var req CreateReviewRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	r, err := h.reviewService.Create(ctx, userID, productID, req.Rating, req.Comment)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "Review created successfully", r)
}

func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	productID, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	reviews, err := h.reviewService.ListByProduct(ctx, productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.reviewService.Delete(ctx, id, userID); err != nil {
		return response.Error(c, err)
	}

	return okMessage(c, "Review deleted successfully")
}
