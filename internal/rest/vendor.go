package rest

import (
	"context"
	"time"

	"multiMart/business/vendor"
	"multiMart/domain"
	"multiMart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type VendorService interface {
	Apply(ctx context.Context, userID uuid.UUID, in vendor.ApplyInput) (domain.Vendor, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vendor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Vendor, error)
	Update(ctx context.Context, ownerUserID uuid.UUID, in vendor.UpdateInput) (domain.Vendor, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.VendorStatus) (domain.Vendor, error)
	List(ctx context.Context, status domain.VendorStatus) ([]domain.Vendor, error)
}

type VendorHandler struct {
	vendorService VendorService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewVendorHandler(vendorService VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
		validator:     validator.New(),
		timeout:       defaultTimeout,
	}
}

type ApplyVendorRequest struct {
	BusinessName string `json:"business_name" validate:"required,max=255"`
	Description  string `json:"description"`
	MarketID     string `json:"market_id" validate:"max=64"`
}

type UpdateVendorRequest struct {
	BusinessName *string `json:"business_name" validate:"omitempty,max=255"`
	Description  *string `json:"description"`
	MarketID     *string `json:"market_id" validate:"omitempty,max=64"`
}

type VendorStatusRequest struct {
	Status domain.VendorStatus `json:"status" validate:"required,oneof=pending approved suspended"`
}

func (h *VendorHandler) Apply(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req ApplyVendorRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	v, err := h.vendorService.Apply(ctx, userID, vendor.ApplyInput{
		BusinessName: req.BusinessName,
		Description:  req.Description,
		MarketID:     req.MarketID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "Vendor profile created successfully", v)
}

func (h *VendorHandler) GetMine(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	v, err := h.vendorService.GetByID(ctx, vendorID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Vendor retrieved successfully", v)
}

func (h *VendorHandler) UpdateMine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req UpdateVendorRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	v, err := h.vendorService.Update(ctx, userID, vendor.UpdateInput{
		BusinessName: req.BusinessName,
		Description:  req.Description,
		MarketID:     req.MarketID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Vendor updated successfully", v)
}

func (h *VendorHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	vendors, err := h.vendorService.List(ctx, domain.VendorStatus(c.QueryParam("status")))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Vendors retrieved successfully", vendors)
}

func (h *VendorHandler) SetStatus(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	var req VendorStatusRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	v, err := h.vendorService.SetStatus(ctx, id, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Vendor status updated successfully", v)
}
