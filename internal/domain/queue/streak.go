package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/shared"
)

// StreakThreshold is the consecutive-claim count that triggers a streak
// achievement event.
const StreakThreshold = 3

// StreakCounterID is the fixed identifier of the singleton streak counter row.
// Modelling the counter as an explicit aggregate keeps its row-lock/optimistic
// lock discipline visible instead of hiding it as ambient global state.
var StreakCounterID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// StreakCounter tracks consecutive claims by the same seller across the whole
// team. It is a singleton aggregate mutated inside every claim transaction.
type StreakCounter struct {
	shared.BaseAggregateRoot

	SellerID      uuid.UUID
	Count         int
	LastClaimedAt *time.Time
}

// NewStreakCounter creates the singleton counter in its initial state
func NewStreakCounter() *StreakCounter {
	base := shared.NewBaseAggregateRoot()
	base.ID = StreakCounterID
	return &StreakCounter{
		BaseAggregateRoot: base,
		SellerID:          uuid.Nil,
		Count:             0,
	}
}

// RecordClaim updates the counter for a claim by the given seller.
// A claim by the same seller increments the streak; a different seller resets
// it to 1. Reaching the threshold raises a StreakReached event exactly once.
func (s *StreakCounter) RecordClaim(sellerID uuid.UUID) error {
	if sellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}

	now := time.Now()
	if s.SellerID == sellerID {
		s.Count++
	} else {
		s.SellerID = sellerID
		s.Count = 1
	}
	s.LastClaimedAt = &now
	s.Touch()

	if s.Count == StreakThreshold {
		s.AddDomainEvent(NewStreakReachedEvent(s))
	}

	return nil
}
