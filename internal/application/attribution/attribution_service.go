package attribution

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/queue"
)

// SplitRequest carries the input for an admin share split
type SplitRequest struct {
	ClaimID          uuid.UUID
	CloserSellerID   uuid.UUID
	CloserShare      decimal.Decimal
	AssistedSellerID *uuid.UUID
	AssistedShare    decimal.Decimal
}

// ReassignRequest carries the input for handing a sale to a new closer
type ReassignRequest struct {
	SaleID      uuid.UUID
	NewSellerID uuid.UUID
	Actor       uuid.UUID
}

// AttributionResponse is the read model for an attribution
type AttributionResponse struct {
	ID               uuid.UUID                `json:"id"`
	SaleID           uuid.UUID                `json:"sale_id"`
	ClaimID          uuid.UUID                `json:"claim_id"`
	CloserSellerID   uuid.UUID                `json:"closer_seller_id"`
	AssistedSellerID *uuid.UUID               `json:"assisted_seller_id,omitempty"`
	CloserShare      decimal.Decimal          `json:"closer_share"`
	AssistedShare    decimal.Decimal          `json:"assisted_share"`
	ResolvedFrom     attribution.ResolvedFrom `json:"resolved_from"`
}

// ToAttributionResponse maps an attribution aggregate to its response shape
func ToAttributionResponse(a *attribution.Attribution) AttributionResponse {
	return AttributionResponse{
		ID:               a.ID,
		SaleID:           a.SaleID,
		ClaimID:          a.ClaimID,
		CloserSellerID:   a.CloserSellerID,
		AssistedSellerID: a.AssistedSellerID,
		CloserShare:      a.CloserShare,
		AssistedShare:    a.AssistedShare,
		ResolvedFrom:     a.ResolvedFrom,
	}
}

// AttributionService rewrites who gets credit for a claimed sale. Every write
// regenerates the share entry fan-out the reporting side sums over.
type AttributionService struct {
	attributionRepo attribution.AttributionRepository
	claimRepo       queue.ClaimRepository
	logger          *zap.Logger
}

// NewAttributionService creates a new AttributionService
func NewAttributionService(
	attributionRepo attribution.AttributionRepository,
	claimRepo queue.ClaimRepository,
	logger *zap.Logger,
) *AttributionService {
	return &AttributionService{
		attributionRepo: attributionRepo,
		claimRepo:       claimRepo,
		logger:          logger,
	}
}

// Split rewrites the attribution as an admin-entered closer/assisted split
func (s *AttributionService) Split(ctx context.Context, req SplitRequest) (*AttributionResponse, error) {
	attr, err := s.attributionRepo.FindByClaimID(ctx, req.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := attr.SetSplit(req.CloserSellerID, req.CloserShare, req.AssistedSellerID, req.AssistedShare); err != nil {
		return nil, err
	}

	if err := s.attributionRepo.SaveWithLockAndEvents(ctx, attr, attr.GetDomainEvents()); err != nil {
		return nil, err
	}
	attr.ClearDomainEvents()

	s.logger.Info("attribution split",
		zap.String("sale_id", attr.SaleID.String()),
		zap.String("closer", attr.CloserSellerID.String()),
		zap.String("closer_share", attr.CloserShare.String()),
	)

	response := ToAttributionResponse(attr)
	return &response, nil
}

// Reassign hands the full attribution to a different closer and updates the
// claim's displayed owner. The resulting claimed event is tagged as a
// reassignment so listeners do not double-count the win.
func (s *AttributionService) Reassign(ctx context.Context, req ReassignRequest) (*AttributionResponse, error) {
	attr, err := s.attributionRepo.FindBySaleID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}

	if err := attr.Reassign(req.NewSellerID); err != nil {
		return nil, err
	}

	claim, err := s.claimRepo.FindBySaleID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}
	if err := claim.SetDisplayOwner(req.NewSellerID); err != nil {
		return nil, err
	}
	claim.AddDomainEvent(queue.NewItemClaimedEvent(claim, true))

	if err := s.attributionRepo.SaveWithLockAndEvents(ctx, attr, attr.GetDomainEvents()); err != nil {
		return nil, err
	}
	attr.ClearDomainEvents()

	if err := s.claimRepo.SaveWithLockAndEvents(ctx, claim, claim.GetDomainEvents()); err != nil {
		return nil, err
	}
	claim.ClearDomainEvents()

	s.logger.Info("attribution reassigned",
		zap.String("sale_id", req.SaleID.String()),
		zap.String("new_seller", req.NewSellerID.String()),
		zap.String("actor", req.Actor.String()),
	)

	response := ToAttributionResponse(attr)
	return &response, nil
}

// GetBySaleID returns the attribution for a sale
func (s *AttributionService) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*AttributionResponse, error) {
	attr, err := s.attributionRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToAttributionResponse(attr)
	return &response, nil
}
