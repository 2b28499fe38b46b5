package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/shared"
)

// ClaimType represents the kind of sale being claimed
type ClaimType string

const (
	ClaimTypeFirstSales  ClaimType = "FIRST_SALES"
	ClaimTypeRemarketing ClaimType = "REMARKETING"
	ClaimTypeUpgrade     ClaimType = "UPGRADE"
	ClaimTypeInstallment ClaimType = "INSTALLMENT"
)

// IsValid checks if the claim type is valid
func (t ClaimType) IsValid() bool {
	switch t {
	case ClaimTypeFirstSales, ClaimTypeRemarketing, ClaimTypeUpgrade, ClaimTypeInstallment:
		return true
	}
	return false
}

// String returns the string representation of ClaimType
func (t ClaimType) String() string {
	return string(t)
}

// Claim is the record of a seller taking credit for a sale. At most one
// claim exists per sale, enforced by a unique constraint on sale_id and the
// locked claim transaction.
type Claim struct {
	shared.BaseAggregateRoot

	SaleID            uuid.UUID
	QueueItemID       uuid.UUID
	ClaimedBy         uuid.UUID
	ClaimType         ClaimType
	AttributionSource string

	// Finance snapshot carried forward from the queue item at claim time,
	// kept in sync with it on later finance updates
	Finance           FinanceSnapshot
	InstallmentPlanID *uuid.UUID

	ClaimedAt time.Time
}

// NewClaim creates a claim for a pending queue item
func NewClaim(item *QueueItem, sellerID uuid.UUID, claimType ClaimType, attributionSource string, installmentPlanID *uuid.UUID) (*Claim, error) {
	if item == nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Queue item cannot be nil")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if !claimType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CLAIM_TYPE", "Invalid claim type")
	}
	if claimType == ClaimTypeInstallment && installmentPlanID == nil {
		return nil, shared.NewDomainError("INSTALLMENT_PLAN_REQUIRED",
			"Installment claims require an existing installment plan")
	}

	c := &Claim{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            item.Sale.SaleID,
		QueueItemID:       item.ID,
		ClaimedBy:         sellerID,
		ClaimType:         claimType,
		AttributionSource: attributionSource,
		Finance:           item.Finance,
		InstallmentPlanID: installmentPlanID,
		ClaimedAt:         time.Now(),
	}

	if installmentPlanID != nil {
		c.Finance.InstallmentPlanID = installmentPlanID
	}

	c.AddDomainEvent(NewItemClaimedEvent(c, false))

	return c, nil
}

// UpdateFinance applies a finance status update to the claim-side snapshot
func (c *Claim) UpdateFinance(status FinanceStatus, approvedBy *uuid.UUID, notes string, installmentPlanID *uuid.UUID) error {
	if err := c.Finance.ApplyFinanceUpdate(status, approvedBy, notes, installmentPlanID); err != nil {
		return err
	}
	if installmentPlanID != nil {
		c.InstallmentPlanID = installmentPlanID
	}
	c.Touch()
	return nil
}

// MarkFinanceProblem flags the claim with finance status PROBLEM and appends
// an explanatory note. Used by the refund ledger on full refunds.
func (c *Claim) MarkFinanceProblem(note string) {
	now := time.Now()
	c.Finance.Status = FinanceStatusProblem
	c.Finance.AppendNote(note)
	c.Finance.UpdatedAt = &now
	c.Touch()
}

// SetDisplayOwner updates the displayed owner after an attribution reassignment
func (c *Claim) SetDisplayOwner(sellerID uuid.UUID) error {
	if sellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	c.ClaimedBy = sellerID
	c.Touch()
	return nil
}
