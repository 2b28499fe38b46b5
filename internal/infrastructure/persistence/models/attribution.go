package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/winroom/backend/internal/domain/attribution"
)

// AttributionModel is the persistence model for attributions. Exactly one row
// exists per claimed sale.
type AttributionModel struct {
	AggregateModel
	SaleID           uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex"`
	ClaimID          uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex"`
	CloserSellerID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	AssistedSellerID *uuid.UUID               `gorm:"type:uuid;index"`
	CloserShare      decimal.Decimal          `gorm:"type:decimal(6,4);not null"`
	AssistedShare    decimal.Decimal          `gorm:"type:decimal(6,4);not null"`
	ResolvedFrom     attribution.ResolvedFrom `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (AttributionModel) TableName() string {
	return "attributions"
}

// ToDomain converts the persistence model to a domain Attribution
func (m *AttributionModel) ToDomain() *attribution.Attribution {
	a := &attribution.Attribution{
		SaleID:           m.SaleID,
		ClaimID:          m.ClaimID,
		CloserSellerID:   m.CloserSellerID,
		AssistedSellerID: m.AssistedSellerID,
		CloserShare:      m.CloserShare,
		AssistedShare:    m.AssistedShare,
		ResolvedFrom:     m.ResolvedFrom,
	}
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Attribution
func (m *AttributionModel) FromDomain(a *attribution.Attribution) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.SaleID = a.SaleID
	m.ClaimID = a.ClaimID
	m.CloserSellerID = a.CloserSellerID
	m.AssistedSellerID = a.AssistedSellerID
	m.CloserShare = a.CloserShare
	m.AssistedShare = a.AssistedShare
	m.ResolvedFrom = a.ResolvedFrom
}

// AttributionModelFromDomain creates a new persistence model from a domain Attribution
func AttributionModelFromDomain(a *attribution.Attribution) *AttributionModel {
	m := &AttributionModel{}
	m.FromDomain(a)
	return m
}

// ShareEntryModel is the per-seller fan-out row reporting sums over. Rows are
// regenerated whenever the owning attribution changes.
type ShareEntryModel struct {
	ID            uuid.UUID             `gorm:"type:uuid;primary_key"`
	AttributionID uuid.UUID             `gorm:"type:uuid;not null;index"`
	SaleID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	SellerID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Role          attribution.ShareRole `gorm:"type:varchar(20);not null"`
	Share         decimal.Decimal       `gorm:"type:decimal(6,4);not null"`
}

// TableName returns the table name for GORM
func (ShareEntryModel) TableName() string {
	return "attribution_share_entries"
}

// ToDomain converts the persistence model to a domain ShareEntry
func (m *ShareEntryModel) ToDomain() attribution.ShareEntry {
	return attribution.ShareEntry{
		ID:            m.ID,
		AttributionID: m.AttributionID,
		SaleID:        m.SaleID,
		SellerID:      m.SellerID,
		Role:          m.Role,
		Share:         m.Share,
	}
}

// ShareEntryModelFromDomain creates a new persistence model from a domain ShareEntry
func ShareEntryModelFromDomain(e attribution.ShareEntry) *ShareEntryModel {
	return &ShareEntryModel{
		ID:            e.ID,
		AttributionID: e.AttributionID,
		SaleID:        e.SaleID,
		SellerID:      e.SellerID,
		Role:          e.Role,
		Share:         e.Share,
	}
}
