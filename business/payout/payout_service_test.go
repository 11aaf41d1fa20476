package payout

import (
	"context"
	"testing"
	"time"

	"multiMart/domain"
	"multiMart/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPayoutRepo struct {
	mock.Mock
}

func (m *mockPayoutRepo) Create(ctx context.Context, p *domain.Payout) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPayoutRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Payout, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Payout), args.Error(1)
}

func (m *mockPayoutRepo) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Payout, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]domain.Payout), args.Error(1)
}

func (m *mockPayoutRepo) MarkProcessed(ctx context.Context, id uuid.UUID, status domain.PayoutStatus, at time.Time) error {
	return m.Called(ctx, id, status, at).Error(0)
}

func TestRequest_AmountMustBePositive(t *testing.T) {
	repo := &mockPayoutRepo{}
	svc := NewPayoutService(repo)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.Request(ctx, uuid.New(), amount)
		assert.True(t, apperror.IsBadRequest(err))
	}

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payout")).Return(nil)
	p, err := svc.Request(ctx, uuid.New(), decimal.RequireFromString("120.504"))
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusPending, p.Status)
	assert.Equal(t, "120.5", p.Amount.String())
}

func TestProcess(t *testing.T) {
	repo := &mockPayoutRepo{}
	svc := NewPayoutService(repo)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()
	id := uuid.New()

	_, err := svc.Process(ctx, id, domain.PayoutStatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(domain.Payout{}, domain.ErrPayoutNotFound)
	_, err = svc.Process(ctx, missing, domain.PayoutStatusProcessed)
	assert.ErrorIs(t, err, domain.ErrPayoutNotFound)

	repo.On("FindByID", mock.Anything, id).Return(domain.Payout{Status: domain.PayoutStatusProcessed, ProcessedAt: &fixed}, nil)
	repo.On("MarkProcessed", mock.Anything, id, domain.PayoutStatusProcessed, fixed).Return(nil).Once()
	got, err := svc.Process(ctx, id, domain.PayoutStatusProcessed)
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusProcessed, got.Status)

	repo.On("MarkProcessed", mock.Anything, id, domain.PayoutStatusFailed, fixed).Return(domain.ErrStatusConflict)
	_, err = svc.Process(ctx, id, domain.PayoutStatusFailed)
	assert.ErrorIs(t, err, domain.ErrStatusConflict)
}
