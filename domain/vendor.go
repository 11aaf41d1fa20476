package domain

import (
	"time"

	"github.com/google/uuid"
)

type VendorStatus string

const (
	VendorStatusPending   VendorStatus = "pending"
	VendorStatusApproved  VendorStatus = "approved"
	VendorStatusSuspended VendorStatus = "suspended"
)

func (s VendorStatus) Valid() bool {
	switch s {
	case VendorStatusPending, VendorStatusApproved, VendorStatusSuspended:
		return true
	}
	return false
}

type Vendor struct {
	Base
	UserID       uuid.UUID    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	User         *User        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BusinessName string       `gorm:"column:business_name;type:varchar(255);not null" json:"business_name"`
	Description  string       `gorm:"column:description;type:text" json:"description"`
	Status       VendorStatus `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	MarketID     string       `gorm:"column:market_id;type:varchar(64)" json:"market_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// VendorSummary is the public slice of a vendor embedded in product detail.
type VendorSummary struct {
	ID           uuid.UUID `json:"id"`
	BusinessName string    `json:"business_name"`
	Description  string    `json:"description"`
}

func (v Vendor) Summary() *VendorSummary {
	return &VendorSummary{
		ID:           v.ID,
		BusinessName: v.BusinessName,
		Description:  v.Description,
	}
}
