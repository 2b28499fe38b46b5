package queue

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/ledger"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

// QueueService handles the queue's non-claim lifecycle: manual insertion,
// exclusion and restore, plus the read side for seller views.
type QueueService struct {
	queueRepo   queue.QueueItemRepository
	claimRepo   queue.ClaimRepository
	metricsRepo ledger.SaleMetricsRepository
	logger      *zap.Logger
}

// NewQueueService creates a new QueueService
func NewQueueService(
	queueRepo queue.QueueItemRepository,
	claimRepo queue.ClaimRepository,
	metricsRepo ledger.SaleMetricsRepository,
	logger *zap.Logger,
) *QueueService {
	return &QueueService{
		queueRepo:   queueRepo,
		claimRepo:   claimRepo,
		metricsRepo: metricsRepo,
		logger:      logger,
	}
}

// Enqueue inserts a queue item for an automatically sourced sale event.
// Duplicate sale ids and duplicate pending fingerprints are refused.
func (s *QueueService) Enqueue(ctx context.Context, sale queue.SaleSnapshot, revenueUSD, costUSD decimal.Decimal) (*QueueItemResponse, error) {
	return s.enqueue(ctx, sale, queue.ItemSourceAutomatic, revenueUSD, costUSD, ledger.CurrencySourceComputed)
}

// ManualEnqueue inserts a staff-entered queue item with manually entered
// figures.
func (s *QueueService) ManualEnqueue(ctx context.Context, req ManualEnqueueRequest) (*QueueItemResponse, error) {
	sale := queue.SaleSnapshot{
		SaleID:            req.SaleID,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		Campaign:          req.Campaign,
		Channel:           req.Channel,
		Amount:            req.Amount,
		Currency:          req.Currency,
		OccurredAt:        req.OccurredAt,
		ExternalPaymentID: req.ExternalPaymentID,
		ExternalInvoiceID: req.ExternalInvoiceID,
	}
	return s.enqueue(ctx, sale, queue.ItemSourceManual, req.RevenueUSD, req.CostUSD, ledger.CurrencySourceManualEntry)
}

func (s *QueueService) enqueue(ctx context.Context, sale queue.SaleSnapshot, source queue.ItemSource, revenueUSD, costUSD decimal.Decimal, metricsSource ledger.CurrencySource) (*QueueItemResponse, error) {
	existing, err := s.queueRepo.FindBySaleID(ctx, sale.SaleID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("QUEUE_ALREADY_PENDING", "Sale is already in the queue")
	}

	dup, err := s.queueRepo.FindPendingByFingerprint(ctx, sale.Fingerprint())
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if dup != nil {
		return nil, shared.NewDomainError("QUEUE_ALREADY_PENDING", "A matching sale is already pending in the queue")
	}

	item, err := queue.NewQueueItem(sale, source)
	if err != nil {
		return nil, err
	}

	metrics, err := ledger.NewSaleMetrics(sale.SaleID, revenueUSD, costUSD, metricsSource)
	if err != nil {
		return nil, err
	}
	metrics.Currency = sale.Currency
	metrics.Channel = sale.Channel
	metrics.Campaign = sale.Campaign
	metrics.SubsAmount = sale.Amount

	if err := s.queueRepo.SaveWithLockAndEvents(ctx, item, item.GetDomainEvents()); err != nil {
		return nil, err
	}
	item.ClearDomainEvents()

	if err := s.metricsRepo.Save(ctx, metrics); err != nil {
		return nil, err
	}

	s.logger.Info("sale queued",
		zap.String("sale_id", sale.SaleID.String()),
		zap.String("source", string(source)),
		zap.String("campaign", sale.Campaign),
	)

	response := ToQueueItemResponse(item)
	return &response, nil
}

// Exclude removes a pending item from the claimable queue
func (s *QueueService) Exclude(ctx context.Context, req ExcludeRequest) error {
	item, err := s.queueRepo.FindByID(ctx, req.QueueItemID)
	if err != nil {
		return err
	}

	if err := item.Exclude(req.Reason, req.Actor); err != nil {
		return err
	}

	if err := s.queueRepo.SaveWithLockAndEvents(ctx, item, item.GetDomainEvents()); err != nil {
		return err
	}
	item.ClearDomainEvents()

	s.logger.Info("queue item excluded",
		zap.String("queue_item_id", item.ID.String()),
		zap.String("reason", req.Reason),
	)
	return nil
}

// Restore returns an excluded item to the pending queue. Refused when a
// claim already exists for the sale.
func (s *QueueService) Restore(ctx context.Context, saleID uuid.UUID) error {
	item, err := s.queueRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		return err
	}

	claimed, err := s.claimRepo.ExistsBySaleID(ctx, saleID)
	if err != nil {
		return err
	}
	if claimed {
		return shared.NewDomainError("CLAIM_EXISTS", "Sale already has a claim and cannot be restored")
	}

	if err := item.Restore(); err != nil {
		return err
	}

	if err := s.queueRepo.SaveWithLockAndEvents(ctx, item, item.GetDomainEvents()); err != nil {
		return err
	}
	item.ClearDomainEvents()

	s.logger.Info("queue item restored", zap.String("sale_id", saleID.String()))
	return nil
}

// GetBySaleID returns the queue item for a sale
func (s *QueueService) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*QueueItemResponse, error) {
	item, err := s.queueRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToQueueItemResponse(item)
	return &response, nil
}

// ListPending returns pending queue items for the win room view
func (s *QueueService) ListPending(ctx context.Context, filter shared.Filter) ([]QueueItemResponse, error) {
	items, err := s.queueRepo.FindByStatus(ctx, queue.ItemStatusPending, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]QueueItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToQueueItemResponse(&items[i]))
	}
	return responses, nil
}

// GetClaim returns the claim for a sale
func (s *QueueService) GetClaim(ctx context.Context, saleID uuid.UUID) (*ClaimDetailResponse, error) {
	claim, err := s.claimRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToClaimDetailResponse(claim)
	return &response, nil
}

// ListClaimsBySeller returns a seller's claims
func (s *QueueService) ListClaimsBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]ClaimDetailResponse, error) {
	claims, err := s.claimRepo.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ClaimDetailResponse, 0, len(claims))
	for i := range claims {
		responses = append(responses, ToClaimDetailResponse(&claims[i]))
	}
	return responses, nil
}
