package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusProcessed PayoutStatus = "processed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

type Payout struct {
	Base
	VendorID    uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendor_id"`
	Vendor      *Vendor         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Status      PayoutStatus    `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	ProcessedAt *time.Time      `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Payout) TableName() string {
	return "payouts"
}
