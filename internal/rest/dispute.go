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

type DisputeService interface {
	Open(ctx context.Context, userID, orderID, vendorID uuid.UUID, reason string) (domain.Dispute, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Dispute, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Dispute, error)
	Resolve(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution string) (domain.Dispute, error)
}

type DisputeHandler struct {
	disputeService DisputeService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewDisputeHandler(disputeService DisputeService) *DisputeHandler {
	return &DisputeHandler{
		disputeService: disputeService,
		validator:      validator.New(),
		timeout:        defaultTimeout,
	}
}

type OpenDisputeRequest struct {
	OrderID  uuid.UUID `json:"order_id" validate:"required"`
	VendorID uuid.UUID `json:"vendor_id" validate:"required"`
	Reason   string    `json:"reason" validate:"required,max=2000"`
}

type ResolveDisputeRequest struct {
	Status     domain.DisputeStatus `json:"status" validate:"required,oneof=open under_review resolved"`
	Resolution string               `json:"resolution" validate:"max=2000"`
}

func (h *DisputeHandler) Open(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req OpenDisputeRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	d, err := h.disputeService.Open(ctx, userID, req.OrderID, req.VendorID, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "Dispute opened successfully", d)
}

func (h *DisputeHandler) ListMine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	disputes, err := h.disputeService.ListMine(ctx, userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Disputes retrieved successfully", disputes)
}

func (h *DisputeHandler) ListForVendor(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	disputes, err := h.disputeService.ListForVendor(ctx, vendorID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Disputes retrieved successfully", disputes)
}

func (h *DisputeHandler) Resolve(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	var req ResolveDisputeRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	d, err := h.disputeService.Resolve(ctx, id, req.Status, req.Resolution)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Dispute updated successfully", d)
}
