package dispute

import (
	"context"
	"testing"

	"multiMart/domain"
	"multiMart/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDisputeRepo struct {
	mock.Mock
}

func (m *mockDisputeRepo) Create(ctx context.Context, d *domain.Dispute) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDisputeRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Dispute, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Dispute, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Dispute, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]domain.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) UpdateResolution(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution *string) error {
	return m.Called(ctx, id, status, resolution).Error(0)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (domain.Order, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrders) OrderHasVendor(ctx context.Context, orderID, vendorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID, vendorID)
	return args.Bool(0), args.Error(1)
}

func TestOpen_RequiresOwnOrderWithVendorProduct(t *testing.T) {
	repo := &mockDisputeRepo{}
	orders := &mockOrders{}
	svc := NewDisputeService(repo, orders)
	ctx := context.Background()
	userID, orderID, vendorID, otherVendor := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	_, err := svc.Open(ctx, userID, orderID, vendorID, " ")
	assert.True(t, apperror.IsBadRequest(err))

	strangerOrder := uuid.New()
	orders.On("FindByIDAndUser", mock.Anything, strangerOrder, userID).Return(domain.Order{}, domain.ErrOrderNotFound)
	_, err = svc.Open(ctx, userID, strangerOrder, vendorID, "broken")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	orders.On("FindByIDAndUser", mock.Anything, orderID, userID).Return(domain.Order{}, nil)
	orders.On("OrderHasVendor", mock.Anything, orderID, otherVendor).Return(false, nil)
	_, err = svc.Open(ctx, userID, orderID, otherVendor, "broken")
	assert.ErrorIs(t, err, domain.ErrVendorNotFound)

	orders.On("OrderHasVendor", mock.Anything, orderID, vendorID).Return(true, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Dispute")).Return(nil)
	d, err := svc.Open(ctx, userID, orderID, vendorID, "arrived broken")
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeStatusOpen, d.Status)
	assert.Equal(t, vendorID, d.VendorID)
}

func TestResolve_NeedsResolutionText(t *testing.T) {
	repo := &mockDisputeRepo{}
	svc := NewDisputeService(repo, &mockOrders{})
	ctx := context.Background()
	id := uuid.New()

	_, err := svc.Resolve(ctx, id, "closed", "")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.Resolve(ctx, id, domain.DisputeStatusResolved, "  ")
	assert.True(t, apperror.IsBadRequest(err))

	repo.On("UpdateResolution", mock.Anything, id, domain.DisputeStatusUnderReview, (*string)(nil)).Return(nil)
	repo.On("FindByID", mock.Anything, id).Return(domain.Dispute{Status: domain.DisputeStatusUnderReview}, nil)
	got, err := svc.Resolve(ctx, id, domain.DisputeStatusUnderReview, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeStatusUnderReview, got.Status)
}
