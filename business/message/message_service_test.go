package message

import (
	"context"
	"strings"
	"testing"

	"multiMart/domain"
	"multiMart/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memMessages struct {
	stored []domain.Message
}

func (m *memMessages) Create(_ context.Context, msg *domain.Message) error {
	msg.ID = uuid.New()
	m.stored = append(m.stored, *msg)
	return nil
}

func (m *memMessages) Conversation(_ context.Context, userID, otherID uuid.UUID) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.stored {
		if (msg.SenderID == userID && msg.ReceiverID == otherID) || (msg.SenderID == otherID && msg.ReceiverID == userID) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessages) Inbox(_ context.Context, userID uuid.UUID) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.stored {
		if msg.ReceiverID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessages) MarkRead(_ context.Context, id, receiverID uuid.UUID) error {
	for i := range m.stored {
		if m.stored[i].ID == id && m.stored[i].ReceiverID == receiverID {
			m.stored[i].IsRead = true
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

type knownUsers map[uuid.UUID]bool

func (k knownUsers) FindByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	if !k[id] {
		return domain.User{}, domain.ErrUserNotFound
	}
	return domain.User{Base: domain.Base{ID: id}}, nil
}

func TestSend_Validation(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	svc := NewMessageService(&memMessages{}, knownUsers{alice: true, bob: true})
	ctx := context.Background()

	_, err := svc.Send(ctx, alice, bob, "   ")
	assert.True(t, apperror.IsBadRequest(err))

	_, err = svc.Send(ctx, alice, bob, strings.Repeat("x", maxContentLength+1))
	assert.True(t, apperror.IsBadRequest(err))

	_, err = svc.Send(ctx, alice, alice, "hi me")
	assert.True(t, apperror.IsBadRequest(err))

	_, err = svc.Send(ctx, alice, uuid.New(), "hello?")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestConversationInboxAndRead(t *testing.T) {
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	store := &memMessages{}
	svc := NewMessageService(store, knownUsers{alice: true, bob: true, carol: true})
	ctx := context.Background()

	m1, err := svc.Send(ctx, alice, bob, "is the kettle in stock?")
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob, alice, "yes")
	require.NoError(t, err)
	_, err = svc.Send(ctx, carol, bob, "unrelated")
	require.NoError(t, err)

	conv, err := svc.Conversation(ctx, alice, bob)
	require.NoError(t, err)
	assert.Len(t, conv, 2)

	inbox, err := svc.Inbox(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	empty, err := svc.Inbox(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)

	assert.ErrorIs(t, svc.MarkRead(ctx, m1.ID, alice), domain.ErrMessageNotFound)
	require.NoError(t, svc.MarkRead(ctx, m1.ID, bob))
	assert.True(t, store.stored[0].IsRead)
}
