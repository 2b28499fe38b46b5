package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/queue"
)

// ClaimRequest carries the input for claiming a sale
type ClaimRequest struct {
	SaleID            uuid.UUID
	SellerID          uuid.UUID
	ClaimType         queue.ClaimType
	AttributionSource string
	InstallmentPlanID *uuid.UUID
}

// ClaimResponse is the result of a successful claim
type ClaimResponse struct {
	ClaimID       uuid.UUID           `json:"claim_id"`
	SaleID        uuid.UUID           `json:"sale_id"`
	QueueItemID   uuid.UUID           `json:"queue_item_id"`
	ClaimedBy     uuid.UUID           `json:"claimed_by"`
	ClaimType     queue.ClaimType     `json:"claim_type"`
	ClaimedAt     time.Time           `json:"claimed_at"`
	StreakCount   int                 `json:"streak_count"`
	StreakReached bool                `json:"streak_reached"`
	FinanceStatus queue.FinanceStatus `json:"finance_status"`
}

// ManualEnqueueRequest carries the input for a staff-added queue item
type ManualEnqueueRequest struct {
	SaleID            uuid.UUID
	CustomerName      string
	CustomerEmail     string
	Campaign          string
	Channel           string
	Amount            decimal.Decimal
	Currency          string
	OccurredAt        time.Time
	ExternalPaymentID string
	ExternalInvoiceID string
	RevenueUSD        decimal.Decimal
	CostUSD           decimal.Decimal
}

// ExcludeRequest carries the input for excluding a pending item
type ExcludeRequest struct {
	QueueItemID uuid.UUID
	Reason      string
	Actor       uuid.UUID
}

// QueueItemResponse is the read model for a queue item
type QueueItemResponse struct {
	ID             uuid.UUID           `json:"id"`
	SaleID         uuid.UUID           `json:"sale_id"`
	CustomerName   string              `json:"customer_name"`
	CustomerEmail  string              `json:"customer_email"`
	Campaign       string              `json:"campaign"`
	Channel        string              `json:"channel"`
	Amount         decimal.Decimal     `json:"amount"`
	Currency       string              `json:"currency"`
	OccurredAt     time.Time           `json:"occurred_at"`
	Status         queue.ItemStatus    `json:"status"`
	Source         queue.ItemSource    `json:"source"`
	FinanceStatus  queue.FinanceStatus `json:"finance_status"`
	FinanceNotes   string              `json:"finance_notes,omitempty"`
	ExcludedReason string              `json:"excluded_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToQueueItemResponse maps a queue item aggregate to its response shape
func ToQueueItemResponse(item *queue.QueueItem) QueueItemResponse {
	return QueueItemResponse{
		ID:             item.ID,
		SaleID:         item.Sale.SaleID,
		CustomerName:   item.Sale.CustomerName,
		CustomerEmail:  item.Sale.CustomerEmail,
		Campaign:       item.Sale.Campaign,
		Channel:        item.Sale.Channel,
		Amount:         item.Sale.Amount,
		Currency:       item.Sale.Currency,
		OccurredAt:     item.Sale.OccurredAt,
		Status:         item.Status,
		Source:         item.Source,
		FinanceStatus:  item.Finance.Status,
		FinanceNotes:   item.Finance.Notes,
		ExcludedReason: item.ExcludedReason,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

// ClaimDetailResponse is the read model for an existing claim
type ClaimDetailResponse struct {
	ID                uuid.UUID           `json:"id"`
	SaleID            uuid.UUID           `json:"sale_id"`
	ClaimedBy         uuid.UUID           `json:"claimed_by"`
	ClaimType         queue.ClaimType     `json:"claim_type"`
	AttributionSource string              `json:"attribution_source,omitempty"`
	FinanceStatus     queue.FinanceStatus `json:"finance_status"`
	FinanceNotes      string              `json:"finance_notes,omitempty"`
	InstallmentPlanID *uuid.UUID          `json:"installment_plan_id,omitempty"`
	ClaimedAt         time.Time           `json:"claimed_at"`
}

// ToClaimDetailResponse maps a claim aggregate to its response shape
func ToClaimDetailResponse(c *queue.Claim) ClaimDetailResponse {
	return ClaimDetailResponse{
		ID:                c.ID,
		SaleID:            c.SaleID,
		ClaimedBy:         c.ClaimedBy,
		ClaimType:         c.ClaimType,
		AttributionSource: c.AttributionSource,
		FinanceStatus:     c.Finance.Status,
		FinanceNotes:      c.Finance.Notes,
		InstallmentPlanID: c.InstallmentPlanID,
		ClaimedAt:         c.ClaimedAt,
	}
}
