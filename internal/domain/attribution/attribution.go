package attribution

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

// Share sum tolerance bounds. Shares are stored as decimals in [0,1]; when an
// assisted seller is present the sum must land within one thousandth of 1.
var (
	shareSumLower = decimal.RequireFromString("0.999")
	shareSumUpper = decimal.RequireFromString("1.001")
)

// ResolvedFrom records how the current attribution was decided
type ResolvedFrom string

const (
	// ResolvedFromClaim is the automatic 100/0 attribution written at claim time
	ResolvedFromClaim ResolvedFrom = "CLAIM"
	// ResolvedFromAdminManual is an admin-entered split
	ResolvedFromAdminManual ResolvedFrom = "ADMIN_MANUAL"
	// ResolvedFromManual is a manual reassignment to a different closer
	ResolvedFromManual ResolvedFrom = "MANUAL"
)

// IsValid checks if the value is a valid ResolvedFrom
func (r ResolvedFrom) IsValid() bool {
	switch r {
	case ResolvedFromClaim, ResolvedFromAdminManual, ResolvedFromManual:
		return true
	}
	return false
}

// String returns the string representation of ResolvedFrom
func (r ResolvedFrom) String() string {
	return string(r)
}

// ShareRole identifies a seller's role in a share entry
type ShareRole string

const (
	ShareRoleCloser   ShareRole = "CLOSER"
	ShareRoleAssisted ShareRole = "ASSISTED"
)

// ShareEntry is the per-seller fan-out row reporting sums over. Entries are
// regenerated (delete and reinsert) every time the attribution changes.
type ShareEntry struct {
	ID            uuid.UUID
	AttributionID uuid.UUID
	SaleID        uuid.UUID
	SellerID      uuid.UUID
	Role          ShareRole
	Share         decimal.Decimal
}

// Attribution records who gets credit for a claimed sale and in what
// proportion. Exactly one attribution exists per claimed sale.
type Attribution struct {
	shared.BaseAggregateRoot

	SaleID           uuid.UUID
	ClaimID          uuid.UUID
	CloserSellerID   uuid.UUID
	AssistedSellerID *uuid.UUID
	CloserShare      decimal.Decimal
	AssistedShare    decimal.Decimal
	ResolvedFrom     ResolvedFrom
}

// validateShares enforces the share invariant: with an assisted seller the
// sum must fall within the tolerance window around 1; without one the closer
// holds exactly 1.
func validateShares(closerShare decimal.Decimal, assistedID *uuid.UUID, assistedShare decimal.Decimal) error {
	one := decimal.NewFromInt(1)
	if closerShare.IsNegative() || closerShare.GreaterThan(one) {
		return shared.NewDomainError("SHARE_OUT_OF_RANGE", "Closer share must be between 0 and 1")
	}
	if assistedID == nil {
		if !assistedShare.IsZero() {
			return shared.NewDomainError("SHARE_SUM_INVALID", "Assisted share requires an assisted seller")
		}
		if !closerShare.Equal(one) {
			return shared.NewDomainError("SHARE_SUM_INVALID",
				fmt.Sprintf("Closer share must be exactly 1 without an assisted seller, got %s", closerShare))
		}
		return nil
	}
	if assistedShare.IsNegative() || assistedShare.GreaterThan(one) {
		return shared.NewDomainError("SHARE_OUT_OF_RANGE", "Assisted share must be between 0 and 1")
	}
	sum := closerShare.Add(assistedShare)
	if sum.LessThan(shareSumLower) || sum.GreaterThan(shareSumUpper) {
		return shared.NewDomainError("SHARE_SUM_INVALID",
			fmt.Sprintf("Shares must sum to 1, got %s", sum))
	}
	return nil
}

// NewAttribution creates the automatic 100/0 attribution written when a sale
// is claimed.
func NewAttribution(saleID, claimID, closerSellerID uuid.UUID) (*Attribution, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if claimID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLAIM", "Claim ID cannot be empty")
	}
	if closerSellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Closer seller ID cannot be empty")
	}

	a := &Attribution{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		ClaimID:           claimID,
		CloserSellerID:    closerSellerID,
		CloserShare:       decimal.NewFromInt(1),
		AssistedShare:     decimal.Zero,
		ResolvedFrom:      ResolvedFromClaim,
	}

	a.AddDomainEvent(NewAttributionResolvedEvent(a))

	return a, nil
}

// SetSplit rewrites the attribution as an admin-entered split between a
// closer and an optional assisted seller.
func (a *Attribution) SetSplit(closerID uuid.UUID, closerShare decimal.Decimal, assistedID *uuid.UUID, assistedShare decimal.Decimal) error {
	if closerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SELLER", "Closer seller ID cannot be empty")
	}
	if assistedID != nil && *assistedID == closerID {
		return shared.NewDomainError("INVALID_SELLER", "Assisted seller must differ from the closer")
	}
	if err := validateShares(closerShare, assistedID, assistedShare); err != nil {
		return err
	}

	a.CloserSellerID = closerID
	a.CloserShare = closerShare
	a.AssistedSellerID = assistedID
	if assistedID == nil {
		a.AssistedShare = decimal.Zero
	} else {
		a.AssistedShare = assistedShare
	}
	a.ResolvedFrom = ResolvedFromAdminManual
	a.Touch()

	a.AddDomainEvent(NewAttributionSplitEvent(a))

	return nil
}

// Reassign hands the full attribution to a different closer
func (a *Attribution) Reassign(newSellerID uuid.UUID) error {
	if newSellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}

	previous := a.CloserSellerID
	a.CloserSellerID = newSellerID
	a.AssistedSellerID = nil
	a.CloserShare = decimal.NewFromInt(1)
	a.AssistedShare = decimal.Zero
	a.ResolvedFrom = ResolvedFromManual
	a.Touch()

	a.AddDomainEvent(NewAttributionReassignedEvent(a, previous))

	return nil
}

// ShareEntries builds the fan-out rows for the current attribution state
func (a *Attribution) ShareEntries() []ShareEntry {
	entries := []ShareEntry{
		{
			ID:            uuid.New(),
			AttributionID: a.ID,
			SaleID:        a.SaleID,
			SellerID:      a.CloserSellerID,
			Role:          ShareRoleCloser,
			Share:         a.CloserShare,
		},
	}
	if a.AssistedSellerID != nil {
		entries = append(entries, ShareEntry{
			ID:            uuid.New(),
			AttributionID: a.ID,
			SaleID:        a.SaleID,
			SellerID:      *a.AssistedSellerID,
			Role:          ShareRoleAssisted,
			Share:         a.AssistedShare,
		})
	}
	return entries
}
