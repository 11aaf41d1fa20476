package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"multiMart/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// orderRow is one (order x order_item) row of the left join. Item columns
// are null for an order without items.
type orderRow struct {
	OrderID          uuid.UUID
	UserID           uuid.UUID
	TotalAmount      decimal.Decimal
	Status           domain.OrderStatus
	ShippingAddress  datatypes.JSONType[domain.ShippingAddress]
	PaymentReference *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ItemID           uuid.NullUUID
	ItemProductID    uuid.NullUUID
	ItemQuantity     *int
	ItemPrice        decimal.NullDecimal
	ItemPosition     *int
	ItemCreatedAt    *time.Time
}

const orderRowColumns = `o.id AS order_id, o.user_id, o.total_amount, o.status, o.shipping_address,
	o.payment_reference, o.created_at, o.updated_at,
	oi.id AS item_id, oi.product_id AS item_product_id, oi.quantity AS item_quantity,
	oi.price_at_purchase AS item_price, oi.position AS item_position, oi.created_at AS item_created_at`

// Create inserts the order and then its items under the new order id.
func (r *OrdersRepository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	db := conn(ctx, r.DB)

	if err := db.Omit("Items", "User").Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrOrderInProgress
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		items[i].Position = i
	}
	if len(items) > 0 {
		if err := db.Omit("Product").Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
	}

	order.Items = items
	return nil
}

func (r *OrdersRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []orderRow
	err := conn(ctx, r.DB).Table("orders AS o").
		Select(orderRowColumns).
		Joins("LEFT JOIN order_items oi ON oi.order_id = o.id").
		Where("o.user_id = ?", userID).
		Order("o.created_at DESC, o.id, oi.position").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return groupOrderRows(rows), nil
}

// FindByIDAndUser looks the order up by id and owner in one predicate.
func (r *OrdersRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("context error: %w", err)
	}

	var rows []orderRow
	err := conn(ctx, r.DB).Table("orders AS o").
		Select(orderRowColumns).
		Joins("LEFT JOIN order_items oi ON oi.order_id = o.id").
		Where("o.id = ? AND o.user_id = ?", id, userID).
		Order("oi.position").
		Scan(&rows).Error
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to find order: %w", err)
	}

	orders := groupOrderRows(rows)
	if len(orders) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	return orders[0], nil
}

func (r *OrdersRepository) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (domain.Order, error) {
	var order domain.Order

	err := conn(ctx, r.DB).
		Select("id").
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to find order: %w", err)
	}

	return r.FindByIDAndUser(ctx, order.ID, userID)
}

// FindByVendor returns orders holding at least one of the vendor's products,
// each carrying only that vendor's items.
func (r *OrdersRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []orderRow
	err := r.vendorRows(ctx, vendorID).
		Order("o.created_at DESC, o.id, oi.position").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find vendor orders: %w", err)
	}

	return groupOrderRows(rows), nil
}

func (r *OrdersRepository) FindVendorOrder(ctx context.Context, orderID, vendorID uuid.UUID) (domain.Order, error) {
	var rows []orderRow
	err := r.vendorRows(ctx, vendorID).
		Where("o.id = ?", orderID).
		Order("oi.position").
		Scan(&rows).Error
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to find vendor order: %w", err)
	}

	orders := groupOrderRows(rows)
	if len(orders) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	return orders[0], nil
}

func (r *OrdersRepository) vendorRows(ctx context.Context, vendorID uuid.UUID) *gorm.DB {
	return conn(ctx, r.DB).Table("orders AS o").
		Select(orderRowColumns).
		Joins("JOIN order_items oi ON oi.order_id = o.id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("p.vendor_id = ?", vendorID)
}

// FindStatusForVendor returns the order status if vendorID owns a product in
// the order. Any other case is reported as not found.
func (r *OrdersRepository) FindStatusForVendor(ctx context.Context, orderID, vendorID uuid.UUID) (domain.OrderStatus, error) {
	var status string

	result := conn(ctx, r.DB).Table("orders AS o").
		Select("o.status").
		Joins("JOIN order_items oi ON oi.order_id = o.id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("o.id = ? AND p.vendor_id = ?", orderID, vendorID).
		Limit(1).
		Scan(&status)
	if result.Error != nil {
		return "", fmt.Errorf("failed to find order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", domain.ErrOrderNotFound
	}

	return domain.OrderStatus(status), nil
}

// UpdateStatus moves the order from one status to another. The row must
// still hold from; otherwise the change lost a race and ErrStatusConflict
// is returned.
func (r *OrdersRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error {
	result := conn(ctx, r.DB).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrStatusConflict
	}

	return nil
}

// OrderHasVendor reports whether the order contains a product of vendorID.
func (r *OrdersRepository) OrderHasVendor(ctx context.Context, orderID, vendorID uuid.UUID) (bool, error) {
	var count int64

	err := conn(ctx, r.DB).Table("order_items oi").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("oi.order_id = ? AND p.vendor_id = ?", orderID, vendorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check order vendor: %w", err)
	}

	return count > 0, nil
}

func groupOrderRows(rows []orderRow) []domain.Order {
	orders := make([]domain.Order, 0)
	index := make(map[uuid.UUID]int)

	for _, row := range rows {
		i, ok := index[row.OrderID]
		if !ok {
			orders = append(orders, domain.Order{
				Base:             domain.Base{ID: row.OrderID},
				UserID:           row.UserID,
				TotalAmount:      row.TotalAmount,
				Status:           row.Status,
				ShippingAddress:  row.ShippingAddress,
				PaymentReference: row.PaymentReference,
				Items:            []domain.OrderItem{},
				CreatedAt:        row.CreatedAt,
				UpdatedAt:        row.UpdatedAt,
			})
			i = len(orders) - 1
			index[row.OrderID] = i
		}

		if !row.ItemID.Valid {
			continue
		}

		item := domain.OrderItem{
			Base:            domain.Base{ID: row.ItemID.UUID},
			OrderID:         row.OrderID,
			ProductID:       row.ItemProductID.UUID,
			PriceAtPurchase: row.ItemPrice.Decimal,
		}
		if row.ItemQuantity != nil {
			item.Quantity = *row.ItemQuantity
		}
		if row.ItemPosition != nil {
			item.Position = *row.ItemPosition
		}
		if row.ItemCreatedAt != nil {
			item.CreatedAt = *row.ItemCreatedAt
		}
		orders[i].Items = append(orders[i].Items, item)
	}

	return orders
}
