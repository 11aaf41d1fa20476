package rest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	// The stored key is "{userID}:{key}" in a varchar(255) column.
	maxIdempotencyKeyLength = 200
)

type (
	OrdersHandler struct {
		validate      *validator.Validate
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		CreateOrder(ctx context.Context, in domain.CreateOrderInput) (domain.PlacedOrder, error)
		FindAll(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
		FindOne(ctx context.Context, id, userID uuid.UUID) (domain.Order, error)
		FindVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]domain.Order, error)
		UpdateStatus(ctx context.Context, orderID, vendorID uuid.UUID, status domain.OrderStatus) (domain.Order, error)
		CancelOwnOrder(ctx context.Context, orderID, userID uuid.UUID) (domain.Order, error)
	}

	OrderItemInput struct {
		ProductID uuid.UUID `json:"product_id" validate:"required"`
		Quantity  int       `json:"quantity" validate:"required,min=1"`
	}

	CreateOrderRequest struct {
		Items            []OrderItemInput       `json:"items" validate:"required,min=1,dive"`
		ShippingAddress  domain.ShippingAddress `json:"shipping_address" validate:"required"`
		PaymentReference *string                `json:"payment_reference" validate:"omitempty,max=255"`
	}

	UpdateOrderStatusRequest struct {
		Status domain.OrderStatus `json:"status" validate:"required"`
	}
)

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		validate:      validator.New(),
		ordersService: ordersService,
		timeout:       defaultTimeout,
	}
}

func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	idempotencyKey := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		return response.Error(c, apperror.BadRequest(fmt.Sprintf("%s must be at most %d characters", HeaderIdempotencyKey, maxIdempotencyKeyLength)))
	}

	var req CreateOrderRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return response.Error(c, err)
	}

	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	placed, err := h.ordersService.CreateOrder(ctx, domain.CreateOrderInput{
		UserID:           userID,
		Items:            lines,
		ShippingAddress:  req.ShippingAddress,
		PaymentReference: req.PaymentReference,
		IdempotencyKey:   idempotencyKey,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "Order created successfully", placed)
}

func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	orders, err := h.ordersService.FindAll(ctx, userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Orders retrieved successfully", orders)
}

func (h *OrdersHandler) GetOrderByID(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.FindOne(ctx, orderID, userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Order retrieved successfully", order)
}

func (h *OrdersHandler) GetVendorOrders(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	orders, err := h.ordersService.FindVendorOrders(ctx, vendorID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Vendor orders retrieved successfully", orders)
}

func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	var req UpdateOrderStatusRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.UpdateStatus(ctx, orderID, vendorID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Order status updated successfully", order)
}

func (h *OrdersHandler) CancelOrder(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.CancelOwnOrder(ctx, orderID, userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Order cancelled successfully", order)
}
