package review

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

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) AverageRating(ctx context.Context, productID uuid.UUID) (float64, int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

type stubProducts map[uuid.UUID]bool

func (s stubProducts) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return s[id], nil
}

func TestCreate_RatingBoundsAndProductExistence(t *testing.T) {
	repo := &mockReviewRepo{}
	productID := uuid.New()
	svc := NewReviewService(repo, stubProducts{productID: true})
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(ctx, uuid.New(), productID, rating, "")
		assert.True(t, apperror.IsBadRequest(err), "rating %d", rating)
	}

	_, err := svc.Create(ctx, uuid.New(), uuid.New(), 5, "great")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil)
	r, err := svc.Create(ctx, uuid.New(), productID, 4, "  solid  ")
	require.NoError(t, err)
	assert.Equal(t, "solid", r.Comment)
	assert.Equal(t, 4, r.Rating)
}

func TestListByProduct_IncludesAverage(t *testing.T) {
	repo := &mockReviewRepo{}
	productID := uuid.New()
	svc := NewReviewService(repo, stubProducts{productID: true})

	repo.On("FindByProduct", mock.Anything, productID).Return([]domain.Review{{Rating: 5}, {Rating: 4}}, nil)
	repo.On("AverageRating", mock.Anything, productID).Return(4.5, int64(2), nil)

	got, err := svc.ListByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Len(t, got.Reviews, 2)
	assert.Equal(t, 4.5, got.AverageRating)
	assert.Equal(t, 2, got.Count)
}
