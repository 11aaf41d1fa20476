package domain

import (
	"time"

	"github.com/google/uuid"
)

type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "open"
	DisputeStatusUnderReview DisputeStatus = "under_review"
	DisputeStatusResolved    DisputeStatus = "resolved"
)

func (s DisputeStatus) Valid() bool {
	switch s {
	case DisputeStatusOpen, DisputeStatusUnderReview, DisputeStatusResolved:
		return true
	}
	return false
}

type Dispute struct {
	Base
	OrderID    uuid.UUID     `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	Order      *Order        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID     uuid.UUID     `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	User       *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	VendorID   uuid.UUID     `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendor_id"`
	Vendor     *Vendor       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Reason     string        `gorm:"column:reason;type:text;not null" json:"reason"`
	Status     DisputeStatus `gorm:"column:status;type:varchar(20);not null;default:open" json:"status"`
	Resolution *string       `gorm:"column:resolution;type:text" json:"resolution,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (Dispute) TableName() string {
	return "disputes"
}
