package domain

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Base
	SenderID   uuid.UUID `gorm:"column:sender_id;type:uuid;not null;index" json:"sender_id"`
	Sender     *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	ReceiverID uuid.UUID `gorm:"column:receiver_id;type:uuid;not null;index" json:"receiver_id"`
	Receiver   *User     `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`
	Content    string    `gorm:"column:content;type:text;not null" json:"content"`
	IsRead     bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
