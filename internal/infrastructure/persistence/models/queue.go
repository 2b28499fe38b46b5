package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/winroom/backend/internal/domain/queue"
)

// QueueItemModel is the persistence model for claim queue items
type QueueItemModel struct {
	AggregateModel
	SaleID            uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerName      string           `gorm:"type:varchar(255)"`
	CustomerEmail     string           `gorm:"type:varchar(255);index"`
	Campaign          string           `gorm:"type:varchar(255);index"`
	Channel           string           `gorm:"type:varchar(100)"`
	Amount            decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	Currency          string           `gorm:"type:varchar(10);not null"`
	OccurredAt        time.Time        `gorm:"not null;index"`
	ExternalPaymentID string           `gorm:"type:varchar(255)"`
	ExternalInvoiceID string           `gorm:"type:varchar(255)"`
	Fingerprint       string           `gorm:"type:varchar(64);not null;index"`
	Status            queue.ItemStatus `gorm:"type:varchar(20);not null;index"`
	Source            queue.ItemSource `gorm:"type:varchar(20);not null"`

	FinanceStatus     queue.FinanceStatus `gorm:"type:varchar(20);not null;index"`
	FinanceApprovedBy *uuid.UUID          `gorm:"type:uuid"`
	FinanceNotes      string              `gorm:"type:text"`
	InstallmentPlanID *uuid.UUID          `gorm:"type:uuid"`
	FinanceUpdatedAt  *time.Time

	ExcludedReason string     `gorm:"type:text"`
	ExcludedBy     *uuid.UUID `gorm:"type:uuid"`
	ExcludedAt     *time.Time
}

// TableName returns the table name for GORM
func (QueueItemModel) TableName() string {
	return "queue_items"
}

// ToDomain converts the persistence model to a domain QueueItem
func (m *QueueItemModel) ToDomain() *queue.QueueItem {
	item := &queue.QueueItem{
		Sale: queue.SaleSnapshot{
			SaleID:            m.SaleID,
			CustomerName:      m.CustomerName,
			CustomerEmail:     m.CustomerEmail,
			Campaign:          m.Campaign,
			Channel:           m.Channel,
			Amount:            m.Amount,
			Currency:          m.Currency,
			OccurredAt:        m.OccurredAt,
			ExternalPaymentID: m.ExternalPaymentID,
			ExternalInvoiceID: m.ExternalInvoiceID,
		},
		Fingerprint: m.Fingerprint,
		Status:      m.Status,
		Source:      m.Source,
		Finance: queue.FinanceSnapshot{
			Status:            m.FinanceStatus,
			ApprovedBy:        m.FinanceApprovedBy,
			Notes:             m.FinanceNotes,
			InstallmentPlanID: m.InstallmentPlanID,
			UpdatedAt:         m.FinanceUpdatedAt,
		},
		ExcludedReason: m.ExcludedReason,
		ExcludedBy:     m.ExcludedBy,
		ExcludedAt:     m.ExcludedAt,
	}
	m.PopulateAggregateRoot(&item.BaseAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain QueueItem
func (m *QueueItemModel) FromDomain(item *queue.QueueItem) {
	m.FromDomainAggregateRoot(item.BaseAggregateRoot)
	m.SaleID = item.Sale.SaleID
	m.CustomerName = item.Sale.CustomerName
	m.CustomerEmail = item.Sale.CustomerEmail
	m.Campaign = item.Sale.Campaign
	m.Channel = item.Sale.Channel
	m.Amount = item.Sale.Amount
	m.Currency = item.Sale.Currency
	m.OccurredAt = item.Sale.OccurredAt
	m.ExternalPaymentID = item.Sale.ExternalPaymentID
	m.ExternalInvoiceID = item.Sale.ExternalInvoiceID
	m.Fingerprint = item.Fingerprint
	m.Status = item.Status
	m.Source = item.Source
	m.FinanceStatus = item.Finance.Status
	m.FinanceApprovedBy = item.Finance.ApprovedBy
	m.FinanceNotes = item.Finance.Notes
	m.InstallmentPlanID = item.Finance.InstallmentPlanID
	m.FinanceUpdatedAt = item.Finance.UpdatedAt
	m.ExcludedReason = item.ExcludedReason
	m.ExcludedBy = item.ExcludedBy
	m.ExcludedAt = item.ExcludedAt
}

// QueueItemModelFromDomain creates a new persistence model from a domain QueueItem
func QueueItemModelFromDomain(item *queue.QueueItem) *QueueItemModel {
	m := &QueueItemModel{}
	m.FromDomain(item)
	return m
}

// ClaimModel is the persistence model for claims. The unique index on sale_id
// backs the at-most-one-claim-per-sale invariant at the storage level.
type ClaimModel struct {
	AggregateModel
	SaleID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	QueueItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClaimedBy         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClaimType         queue.ClaimType `gorm:"type:varchar(20);not null"`
	AttributionSource string          `gorm:"type:varchar(100)"`

	FinanceStatus     queue.FinanceStatus `gorm:"type:varchar(20);not null;index"`
	FinanceApprovedBy *uuid.UUID          `gorm:"type:uuid"`
	FinanceNotes      string              `gorm:"type:text"`
	InstallmentPlanID *uuid.UUID          `gorm:"type:uuid"`
	FinanceUpdatedAt  *time.Time

	ClaimedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ClaimModel) TableName() string {
	return "claims"
}

// ToDomain converts the persistence model to a domain Claim
func (m *ClaimModel) ToDomain() *queue.Claim {
	claim := &queue.Claim{
		SaleID:            m.SaleID,
		QueueItemID:       m.QueueItemID,
		ClaimedBy:         m.ClaimedBy,
		ClaimType:         m.ClaimType,
		AttributionSource: m.AttributionSource,
		Finance: queue.FinanceSnapshot{
			Status:            m.FinanceStatus,
			ApprovedBy:        m.FinanceApprovedBy,
			Notes:             m.FinanceNotes,
			InstallmentPlanID: m.InstallmentPlanID,
			UpdatedAt:         m.FinanceUpdatedAt,
		},
		InstallmentPlanID: m.InstallmentPlanID,
		ClaimedAt:         m.ClaimedAt,
	}
	m.PopulateAggregateRoot(&claim.BaseAggregateRoot)
	return claim
}

// FromDomain populates the persistence model from a domain Claim
func (m *ClaimModel) FromDomain(claim *queue.Claim) {
	m.FromDomainAggregateRoot(claim.BaseAggregateRoot)
	m.SaleID = claim.SaleID
	m.QueueItemID = claim.QueueItemID
	m.ClaimedBy = claim.ClaimedBy
	m.ClaimType = claim.ClaimType
	m.AttributionSource = claim.AttributionSource
	m.FinanceStatus = claim.Finance.Status
	m.FinanceApprovedBy = claim.Finance.ApprovedBy
	m.FinanceNotes = claim.Finance.Notes
	m.InstallmentPlanID = claim.InstallmentPlanID
	m.FinanceUpdatedAt = claim.Finance.UpdatedAt
	m.ClaimedAt = claim.ClaimedAt
}

// ClaimModelFromDomain creates a new persistence model from a domain Claim
func ClaimModelFromDomain(claim *queue.Claim) *ClaimModel {
	m := &ClaimModel{}
	m.FromDomain(claim)
	return m
}

// StreakCounterModel is the persistence model for the singleton streak counter
type StreakCounterModel struct {
	AggregateModel
	SellerID      uuid.UUID `gorm:"type:uuid;not null"`
	Count         int       `gorm:"not null;default:0"`
	LastClaimedAt *time.Time
}

// TableName returns the table name for GORM
func (StreakCounterModel) TableName() string {
	return "streak_counters"
}

// ToDomain converts the persistence model to a domain StreakCounter
func (m *StreakCounterModel) ToDomain() *queue.StreakCounter {
	counter := &queue.StreakCounter{
		SellerID:      m.SellerID,
		Count:         m.Count,
		LastClaimedAt: m.LastClaimedAt,
	}
	m.PopulateAggregateRoot(&counter.BaseAggregateRoot)
	return counter
}

// FromDomain populates the persistence model from a domain StreakCounter
func (m *StreakCounterModel) FromDomain(counter *queue.StreakCounter) {
	m.FromDomainAggregateRoot(counter.BaseAggregateRoot)
	m.SellerID = counter.SellerID
	m.Count = counter.Count
	m.LastClaimedAt = counter.LastClaimedAt
}

// StreakCounterModelFromDomain creates a new persistence model from a domain StreakCounter
func StreakCounterModelFromDomain(counter *queue.StreakCounter) *StreakCounterModel {
	m := &StreakCounterModel{}
	m.FromDomain(counter)
	return m
}
