package domain

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	Base
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"-"`
	Rating    int       `gorm:"column:rating;not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment   string    `gorm:"column:comment;type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

type ProductReviews struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	Count         int      `json:"count"`
}
