package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductVariants maps a variant dimension (size, color) to its options.
type ProductVariants map[string][]string

type Product struct {
	Base
	VendorID      uuid.UUID                           `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendor_id"`
	Owner         *Vendor                             `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
	Name          string                              `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description   string                              `gorm:"column:description;type:text" json:"description"`
	Price         decimal.Decimal                     `gorm:"column:price;type:numeric(12,2);not null;check:price >= 0" json:"price"`
	StockQuantity int                                 `gorm:"column:stock_quantity;not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	Category      string                              `gorm:"column:category;type:varchar(100);index" json:"category"`
	Images        datatypes.JSONSlice[string]         `gorm:"column:images" json:"images"`
	Variants      datatypes.JSONType[ProductVariants] `gorm:"column:variants" json:"variants"`
	IsActive      bool                                `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time                           `json:"created_at"`
	UpdatedAt     time.Time                           `json:"updated_at"`

	Vendor *VendorSummary `gorm:"-" json:"vendor,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductChanges holds the fields a vendor may change; nil means untouched.
type ProductChanges struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	Category      *string
	Images        *[]string
	Variants      *ProductVariants
	IsActive      *bool
}

func (c ProductChanges) Empty() bool {
	return c.Name == nil && c.Description == nil && c.Price == nil && c.StockQuantity == nil &&
		c.Category == nil && c.Images == nil && c.Variants == nil && c.IsActive == nil
}
