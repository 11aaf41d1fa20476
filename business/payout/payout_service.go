package payout

import (
	"context"
	"time"

	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayoutRepository interface {
	Create(ctx context.Context, payout *domain.Payout) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.Payout, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Payout, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, status domain.PayoutStatus, at time.Time) error
}

type PayoutService struct {
	payoutRepo PayoutRepository
	now        func() time.Time
}

func NewPayoutService(payoutRepo PayoutRepository) *PayoutService {
	return &PayoutService{
		payoutRepo: payoutRepo,
		now:        time.Now,
	}
}

func (s *PayoutService) Request(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (domain.Payout, error) {
	if !amount.IsPositive() {
		return domain.Payout{}, apperror.Validation("amount must be greater than 0")
	}

	p := domain.Payout{
		VendorID: vendorID,
		Amount:   amount.Round(2),
		Status:   domain.PayoutStatusPending,
	}
	if err := s.payoutRepo.Create(ctx, &p); err != nil {
		logger.Error("Failed to create payout", "error", err)
		return domain.Payout{}, err
	}

	logger.Info("Payout requested", "payout_id", p.ID.String(), "vendor_id", vendorID.String(), "amount", p.Amount.String())
	return p, nil
}

func (s *PayoutService) ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Payout, error) {
	payouts, err := s.payoutRepo.FindByVendor(ctx, vendorID)
	if err != nil {
		logger.Error("Failed to find payouts", "error", err)
		return nil, err
	}
	if payouts == nil {
		payouts = []domain.Payout{}
	}
	return payouts, nil
}

// Process settles a pending payout as processed or failed. Settling twice
// is a conflict.
func (s *PayoutService) Process(ctx context.Context, id uuid.UUID, status domain.PayoutStatus) (domain.Payout, error) {
	if status != domain.PayoutStatusProcessed && status != domain.PayoutStatusFailed {
		return domain.Payout{}, domain.ErrInvalidStatus
	}

	if _, err := s.payoutRepo.FindByID(ctx, id); err != nil {
		return domain.Payout{}, err
	}

	if err := s.payoutRepo.MarkProcessed(ctx, id, status, s.now()); err != nil {
		return domain.Payout{}, err
	}

	logger.Info("Payout processed", "payout_id", id.String(), "status", string(status))
	return s.payoutRepo.FindByID(ctx, id)
}
