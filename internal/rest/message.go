package rest

import (
	"context"
	"time"

	"multiMart/domain"
	"multiMart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type MessageService interface {
	Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (domain.Message, error)
	Conversation(ctx context.Context, userID, otherID uuid.UUID) ([]domain.Message, error)
	Inbox(ctx context.Context, userID uuid.UUID) ([]domain.Message, error)
	MarkRead(ctx context.Context, id, receiverID uuid.UUID) error
}

type MessageHandler struct {
	messageService MessageService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewMessageHandler(messageService MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		validator:      validator.New(),
		timeout:        defaultTimeout,
	}
}

type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" validate:"required"`
	Content    string    `json:"content" validate:"required"`
}

func (h *MessageHandler) Send(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req SendMessageRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	m, err := h.messageService.Send(ctx, userID, req.ReceiverID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "Message sent successfully", m)
}

func (h *MessageHandler) Inbox(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	messages, err := h.messageService.Inbox(ctx, userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Messages retrieved successfully", messages)
}

func (h *MessageHandler) Conversation(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}
	otherID, err := uuidParam(c, "userId")
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	messages, err := h.messageService.Conversation(ctx, userID, otherID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Conversation retrieved successfully", messages)
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.messageService.MarkRead(ctx, id, userID); err != nil {
		return response.Error(c, err)
	}

	return okMessage(c, "Message marked as read")
}
