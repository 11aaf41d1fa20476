package rest

import (
	"context"
	"time"

	"multiMart/domain"
	"multiMart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PayoutService interface {
	Request(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (domain.Payout, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Payout, error)
	Process(ctx context.Context, id uuid.UUID, status domain.PayoutStatus) (domain.Payout, error)
}

type PayoutHandler struct {
	payoutService PayoutService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewPayoutHandler(payoutService PayoutService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
		validator:     validator.New(),
		timeout:       defaultTimeout,
	}
}

type RequestPayoutRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ProcessPayoutRequest struct {
	Status domain.PayoutStatus `json:"status" validate:"required,oneof=processed failed"`
}

func (h *PayoutHandler) Request(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req RequestPayoutRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	p, err := h.payoutService.Request(ctx, vendorID, req.Amount)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "Payout requested successfully", p)
}

func (h *PayoutHandler) ListMine(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	payouts, err := h.payoutService.ListForVendor(ctx, vendorID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Payouts retrieved successfully", payouts)
}

func (h *PayoutHandler) Process(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	var req ProcessPayoutRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	p, err := h.payoutService.Process(ctx, id, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Payout processed successfully", p)
}
