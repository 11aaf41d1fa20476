package message

import (
	"context"
	"errors"
	"strings"

	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"

	"github.com/google/uuid"
)

const maxContentLength = 4000

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	Conversation(ctx context.Context, userID, otherID uuid.UUID) ([]domain.Message, error)
	Inbox(ctx context.Context, userID uuid.UUID) ([]domain.Message, error)
	MarkRead(ctx context.Context, id, receiverID uuid.UUID) error
}

type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

type MessageService struct {
	messageRepo MessageRepository
	users       UserLookup
}

func NewMessageService(messageRepo MessageRepository, users UserLookup) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		users:       users,
	}
}

func (s *MessageService) Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, apperror.Validation("content is required")
	}
	if len(content) > maxContentLength {
		return domain.Message{}, apperror.Validation("content is too long")
	}
	if senderID == receiverID {
		return domain.Message{}, apperror.BadRequest("cannot send a message to yourself")
	}

	if _, err := s.users.FindByID(ctx, receiverID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Message{}, err
		}
		logger.Error("Failed to find receiver", "error", err)
		return domain.Message{}, err
	}

	m := domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, &m); err != nil {
		logger.Error("Failed to send message", "error", err)
		return domain.Message{}, err
	}

	return m, nil
}

// Conversation lists messages between the two users, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID uuid.UUID) ([]domain.Message, error) {
	return orEmpty(s.messageRepo.Conversation(ctx, userID, otherID))
}

func (s *MessageService) Inbox(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	return orEmpty(s.messageRepo.Inbox(ctx, userID))
}

// MarkRead flags a message as read. Only its receiver can do that.
func (s *MessageService) MarkRead(ctx context.Context, id, receiverID uuid.UUID) error {
	return s.messageRepo.MarkRead(ctx, id, receiverID)
}

func orEmpty(messages []domain.Message, err error) ([]domain.Message, error) {
	if err != nil {
		logger.Error("Failed to find messages", "error", err)
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}
