package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"
	"multiMart/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrdersRepository interface {
	Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (domain.Order, error)
	FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (domain.Order, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Order, error)
	FindVendorOrder(ctx context.Context, orderID, vendorID uuid.UUID) (domain.Order, error)
	FindStatusForVendor(ctx context.Context, orderID, vendorID uuid.UUID) (domain.OrderStatus, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error
}

// ProductRepository is the slice of the catalog that order placement touches.
type ProductRepository interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IdempotencyStore tracks in-flight and completed Idempotency-Keys.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Complete(ctx context.Context, key, orderID string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type Config struct {
	StrictTransitions bool
	IdempotencyTTL    time.Duration
}

type OrdersService struct {
	orderRepo   OrdersRepository
	productRepo ProductRepository
	tx          Transactor
	idempotency IdempotencyStore
	cfg         Config
}

// NewOrdersService wires the service. idempotency may be nil, in which case
// replays are still caught by the stored key but in-flight duplicates are not.
func NewOrdersService(orderRepo OrdersRepository, productRepo ProductRepository, tx Transactor, idempotency IdempotencyStore, cfg Config) *OrdersService {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}
	return &OrdersService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		tx:          tx,
		idempotency: idempotency,
		cfg:         cfg,
	}
}

func validateOrderInput(in domain.CreateOrderInput) error {
	if len(in.Items) == 0 {
		return domain.ErrEmptyOrder
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return domain.ErrInvalidQuantity
		}
		if line.ProductID == uuid.Nil {
			return apperror.Validation("product id is required")
		}
	}
	if !in.ShippingAddress.Complete() {
		return domain.ErrInvalidAddress
	}
	return nil
}

func (s *OrdersService) CreateOrder(ctx context.Context, in domain.CreateOrderInput) (domain.PlacedOrder, error) {
	if err := validateOrderInput(in); err != nil {
		metrics.OrderCreateFailures.WithLabelValues(metrics.ReasonInvalid).Inc()
		return domain.PlacedOrder{}, err
	}

	if in.IdempotencyKey == "" {
		return s.placeOrder(ctx, in, nil)
	}

	scoped := in.UserID.String() + ":" + in.IdempotencyKey

	existing, err := s.orderRepo.FindByIdempotencyKey(ctx, in.UserID, scoped)
	if err == nil {
		logger.Info("Replaying order for idempotency key", "order_id", existing.ID.String())
		return placedOrder(existing), nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return domain.PlacedOrder{}, err
	}

	if s.idempotency == nil {
		return s.placeOrderOnce(ctx, in, scoped)
	}

	orderID, reserved, err := s.idempotency.Reserve(ctx, scoped, s.cfg.IdempotencyTTL)
	if err != nil {
		logger.Warn("Idempotency store unavailable, relying on database key", "error", err)
		return s.placeOrderOnce(ctx, in, scoped)
	}
	if !reserved {
		if orderID == "" {
			return domain.PlacedOrder{}, domain.ErrOrderInProgress
		}
		return s.replay(ctx, orderID, in.UserID)
	}

	placed, err := s.placeOrderOnce(ctx, in, scoped)
	if err != nil {
		if relErr := s.idempotency.Release(context.WithoutCancel(ctx), scoped); relErr != nil {
			logger.Warn("Failed to release idempotency key", "error", relErr)
		}
		return domain.PlacedOrder{}, err
	}

	if err := s.idempotency.Complete(context.WithoutCancel(ctx), scoped, placed.Order.ID.String(), s.cfg.IdempotencyTTL); err != nil {
		logger.Warn("Failed to store idempotency result", "error", err)
	}

	return placed, nil
}

// placeOrderOnce places the order under key. Losing the unique-key race to a
// concurrent request returns that request's order.
func (s *OrdersService) placeOrderOnce(ctx context.Context, in domain.CreateOrderInput, key string) (domain.PlacedOrder, error) {
	placed, err := s.placeOrder(ctx, in, &key)
	if errors.Is(err, domain.ErrOrderInProgress) {
		if existing, findErr := s.orderRepo.FindByIdempotencyKey(ctx, in.UserID, key); findErr == nil {
			return placedOrder(existing), nil
		}
	}
	return placed, err
}

func (s *OrdersService) replay(ctx context.Context, orderID string, userID uuid.UUID) (domain.PlacedOrder, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("invalid stored order id %q: %w", orderID, err)
	}

	order, err := s.orderRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return domain.PlacedOrder{}, err
	}

	return placedOrder(order), nil
}

// placeOrder checks and reserves stock for every line, then writes the order
// and its items, all in one transaction. Any failure leaves stock untouched.
func (s *OrdersService) placeOrder(ctx context.Context, in domain.CreateOrderInput, idempotencyKey *string) (domain.PlacedOrder, error) {
	var order domain.Order

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		total := decimal.Zero
		items := make([]domain.OrderItem, 0, len(in.Items))

		for _, line := range in.Items {
			product, err := s.productRepo.FindActiveByID(ctx, line.ProductID)
			if err != nil {
				return err
			}

			if line.Quantity > product.StockQuantity {
				return domain.ErrInsufficientStock
			}

			ok, err := s.productRepo.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrInsufficientStock
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, domain.OrderItem{
				ProductID:       product.ID,
				Quantity:        line.Quantity,
				PriceAtPurchase: product.Price,
			})
		}

		order = domain.Order{
			UserID:           in.UserID,
			TotalAmount:      total,
			Status:           domain.OrderStatusPending,
			ShippingAddress:  datatypes.NewJSONType(in.ShippingAddress),
			PaymentReference: in.PaymentReference,
			IdempotencyKey:   idempotencyKey,
		}

		return s.orderRepo.Create(ctx, &order, items)
	})
	if err != nil {
		metrics.OrderCreateFailures.WithLabelValues(failureReason(err)).Inc()
		if !apperror.IsNotFound(err) && !apperror.IsBadRequest(err) && !apperror.IsConflict(err) {
			logger.Error("Failed to create order", "error", err, "user_id", in.UserID.String())
		}
		return domain.PlacedOrder{}, err
	}

	metrics.OrdersCreated.Inc()
	logger.Info("Order created", "order_id", order.ID.String(), "user_id", in.UserID.String(), "total", order.TotalAmount.String())

	return placedOrder(order), nil
}

func failureReason(err error) string {
	switch {
	case apperror.IsNotFound(err):
		return metrics.ReasonNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.ReasonInsufficientStock
	case apperror.IsBadRequest(err), apperror.IsConflict(err):
		return metrics.ReasonInvalid
	default:
		return metrics.ReasonInternal
	}
}

func placedOrder(order domain.Order) domain.PlacedOrder {
	items := order.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	return domain.PlacedOrder{Order: order, Items: items}
}

func (s *OrdersService) FindAll(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to find orders", "error", err)
		return nil, err
	}
	return orders, nil
}

// FindOne returns the order only to its owner; other callers get not found.
func (s *OrdersService) FindOne(ctx context.Context, id, userID uuid.UUID) (domain.Order, error) {
	return s.orderRepo.FindByIDAndUser(ctx, id, userID)
}

func (s *OrdersService) FindVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]domain.Order, error) {
	orders, err := s.orderRepo.FindByVendor(ctx, vendorID)
	if err != nil {
		logger.Error("Failed to find vendor orders", "error", err)
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the status of an order holding at least one of the
// vendor's products. In strict mode the transition table applies.
func (s *OrdersService) UpdateStatus(ctx context.Context, orderID, vendorID uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.ErrInvalidStatus
	}

	current, err := s.orderRepo.FindStatusForVendor(ctx, orderID, vendorID)
	if err != nil {
		return domain.Order{}, err
	}

	if s.cfg.StrictTransitions && !current.CanTransitionTo(status) {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, current, status); err != nil {
		return domain.Order{}, err
	}

	logger.Info("Order status updated", "order_id", orderID.String(), "vendor_id", vendorID.String(), "from", string(current), "to", string(status))

	return s.orderRepo.FindVendorOrder(ctx, orderID, vendorID)
}

// CancelOwnOrder lets the buyer cancel a pending order and returns the
// reserved stock in the same transaction.
func (s *OrdersService) CancelOwnOrder(ctx context.Context, orderID, userID uuid.UUID) (domain.Order, error) {
	var order domain.Order

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDAndUser(ctx, orderID, userID)
		if err != nil {
			return err
		}

		if order.Status != domain.OrderStatusPending {
			return domain.ErrInvalidTransition
		}

		if err := s.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusPending, domain.OrderStatusCancelled); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := s.productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = domain.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	logger.Info("Order cancelled by buyer", "order_id", orderID.String())
	return order, nil
}
