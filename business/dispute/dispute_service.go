package dispute

import (
	"context"
	"strings"

	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"

	"github.com/google/uuid"
)

type DisputeRepository interface {
	Create(ctx context.Context, dispute *domain.Dispute) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.Dispute, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Dispute, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Dispute, error)
	UpdateResolution(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution *string) error
}

// OrderLookup answers the ownership questions a dispute depends on.
type OrderLookup interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (domain.Order, error)
	OrderHasVendor(ctx context.Context, orderID, vendorID uuid.UUID) (bool, error)
}

type DisputeService struct {
	disputeRepo DisputeRepository
	orders      OrderLookup
}

func NewDisputeService(disputeRepo DisputeRepository, orders OrderLookup) *DisputeService {
	return &DisputeService{
		disputeRepo: disputeRepo,
		orders:      orders,
	}
}

// Open raises a dispute on one of the user's orders against a vendor whose
// product is in that order.
func (s *DisputeService) Open(ctx context.Context, userID, orderID, vendorID uuid.UUID, reason string) (domain.Dispute, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Dispute{}, apperror.Validation("reason is required")
	}

	if _, err := s.orders.FindByIDAndUser(ctx, orderID, userID); err != nil {
		return domain.Dispute{}, err
	}

	ok, err := s.orders.OrderHasVendor(ctx, orderID, vendorID)
	if err != nil {
		return domain.Dispute{}, err
	}
	if !ok {
		return domain.Dispute{}, domain.ErrVendorNotFound
	}

	d := domain.Dispute{
		OrderID:  orderID,
		UserID:   userID,
		VendorID: vendorID,
		Reason:   reason,
		Status:   domain.DisputeStatusOpen,
	}
	if err := s.disputeRepo.Create(ctx, &d); err != nil {
		logger.Error("Failed to create dispute", "error", err)
		return domain.Dispute{}, err
	}

	logger.Info("Dispute opened", "dispute_id", d.ID.String(), "order_id", orderID.String())
	return d, nil
}

func (s *DisputeService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Dispute, error) {
	return nonNil(s.disputeRepo.FindByUser(ctx, userID))
}

func (s *DisputeService) ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.Dispute, error) {
	return nonNil(s.disputeRepo.FindByVendor(ctx, vendorID))
}

// Resolve moves a dispute to status. Closing it as resolved needs a resolution text.
func (s *DisputeService) Resolve(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution string) (domain.Dispute, error) {
	if !status.Valid() {
		return domain.Dispute{}, domain.ErrInvalidStatus
	}

	resolution = strings.TrimSpace(resolution)
	if status == domain.DisputeStatusResolved && resolution == "" {
		return domain.Dispute{}, apperror.Validation("resolution is required to resolve a dispute")
	}

	var text *string
	if resolution != "" {
		text = &resolution
	}

	if err := s.disputeRepo.UpdateResolution(ctx, id, status, text); err != nil {
		return domain.Dispute{}, err
	}

	logger.Info("Dispute updated", "dispute_id", id.String(), "status", string(status))
	return s.disputeRepo.FindByID(ctx, id)
}

func nonNil(disputes []domain.Dispute, err error) ([]domain.Dispute, error) {
	if err != nil {
		logger.Error("Failed to find disputes", "error", err)
		return nil, err
	}
	if disputes == nil {
		disputes = []domain.Dispute{}
	}
	return disputes, nil
}
