package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions is the strict transition table. Terminal states map to nil.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: nil,
	OrderStatusCancelled: nil,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the strict table allows s -> next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ShippingAddress struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// Complete reports whether every address field is filled in.
func (a ShippingAddress) Complete() bool {
	for _, f := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

type Order struct {
	Base
	UserID           uuid.UUID                           `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	User             *User                               `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TotalAmount      decimal.Decimal                     `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	Status           OrderStatus                         `gorm:"column:status;type:varchar(20);not null;default:pending;index" json:"status"`
	ShippingAddress  datatypes.JSONType[ShippingAddress] `gorm:"column:shipping_address;not null" json:"shipping_address"`
	PaymentReference *string                             `gorm:"column:payment_reference;type:varchar(255)" json:"payment_reference,omitempty"`
	IdempotencyKey   *string                             `gorm:"column:idempotency_key;type:varchar(255);uniqueIndex" json:"-"`
	Items            []OrderItem                         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt        time.Time                           `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time                           `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is the price and quantity snapshot of one product at purchase time.
type OrderItem struct {
	Base
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Quantity        int             `gorm:"column:quantity;not null;check:quantity >= 1" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(12,2);not null" json:"price_at_purchase"`
	Position        int             `gorm:"column:position;not null" json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderLine is one requested product in a new order.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

type CreateOrderInput struct {
	UserID           uuid.UUID
	Items            []OrderLine
	ShippingAddress  ShippingAddress
	PaymentReference *string
	IdempotencyKey   string
}

// PlacedOrder is what order creation hands back: the order and its items.
type PlacedOrder struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}
