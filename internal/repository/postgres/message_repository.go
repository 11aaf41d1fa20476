package postgres

import (
	"context"
	"fmt"

	"multiMart/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{
		DB: db,
	}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// Conversation returns the messages exchanged by two users, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, userID, otherID uuid.UUID) ([]domain.Message, error) {
	messages := []domain.Message{}

	err := conn(ctx, r.DB).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}

	return messages, nil
}

func (r *MessageRepository) Inbox(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	messages := []domain.Message{}

	if err := conn(ctx, r.DB).Where("receiver_id = ?", userID).Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to find inbox: %w", err)
	}

	return messages, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id, receiverID uuid.UUID) error {
	result := conn(ctx, r.DB).Model(&domain.Message{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark message read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrMessageNotFound
	}

	return nil
}
