package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

// Achievement is the award granted when a streak threshold is reached
type Achievement struct {
	SellerID uuid.UUID `json:"seller_id"`
	Kind     string    `json:"kind"`
	Count    int       `json:"count"`
}

// AchievementAwarder grants achievements to sellers. Implementations can post
// to the social feed, push a notification, or both.
type AchievementAwarder interface {
	Award(ctx context.Context, a Achievement) error
}

// StreakReachedHandler handles StreakReached events and awards the streak
// achievement at most once per (seller, count) pair. Outbox delivery is
// at-least-once, so the handler dedupes on a deterministic business key.
type StreakReachedHandler struct {
	logger      *zap.Logger
	awarder     AchievementAwarder
	idempotency shared.IdempotencyStore
	ttl         time.Duration
}

// NewStreakReachedHandler creates a new handler for streak reached events
func NewStreakReachedHandler(logger *zap.Logger, idempotency shared.IdempotencyStore) *StreakReachedHandler {
	return &StreakReachedHandler{
		logger:      logger,
		idempotency: idempotency,
		ttl:         shared.DefaultIdempotencyConfig().TTL,
	}
}

// WithAwarder sets the awarder used to grant the achievement
func (h *StreakReachedHandler) WithAwarder(awarder AchievementAwarder) *StreakReachedHandler {
	h.awarder = awarder
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StreakReachedHandler) EventTypes() []string {
	return []string{queue.EventTypeStreakReached}
}

// Handle processes a StreakReachedEvent
func (h *StreakReachedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	streakEvent, ok := event.(*queue.StreakReachedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", queue.EventTypeStreakReached),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			queue.EventTypeStreakReached, event.EventType())
	}

	key := fmt.Sprintf("streak:%s:%d", streakEvent.SellerID, streakEvent.Count)
	if h.idempotency != nil {
		fresh, err := h.idempotency.MarkProcessed(ctx, key, h.ttl)
		if err != nil {
			return fmt.Errorf("idempotency check failed for %s: %w", key, err)
		}
		if !fresh {
			h.logger.Debug("streak achievement already awarded",
				zap.String("dedupe_key", key),
			)
			return nil
		}
	}

	h.logger.Info("streak threshold reached",
		zap.String("seller_id", streakEvent.SellerID.String()),
		zap.Int("count", streakEvent.Count),
	)

	if h.awarder != nil {
		achievement := Achievement{
			SellerID: streakEvent.SellerID,
			Kind:     "claim_streak",
			Count:    streakEvent.Count,
		}
		if err := h.awarder.Award(ctx, achievement); err != nil {
			h.logger.Error("failed to award streak achievement",
				zap.String("seller_id", streakEvent.SellerID.String()),
				zap.Error(err),
			)
			// Awarding failure must not fail event handling
		}
	}

	return nil
}
