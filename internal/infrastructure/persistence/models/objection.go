package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/winroom/backend/internal/domain/objection"
)

// ObjectionModel is the persistence model for claim objections
type ObjectionModel struct {
	AggregateModel
	SaleID     uuid.UUID                   `gorm:"type:uuid;not null;index"`
	RaisedBy   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Reason     objection.ObjectionReason   `gorm:"type:varchar(20);not null"`
	Details    string                      `gorm:"type:text"`
	Status     objection.ObjectionStatus   `gorm:"type:varchar(20);not null;index"`
	AdminNote  string                      `gorm:"type:text"`
	Action     *objection.ResolutionAction `gorm:"type:varchar(20)"`
	ReassignTo *uuid.UUID                  `gorm:"type:uuid"`
	ResolvedBy *uuid.UUID                  `gorm:"type:uuid"`
	ResolvedAt *time.Time
}

// TableName returns the table name for GORM
func (ObjectionModel) TableName() string {
	return "objections"
}

// ToDomain converts the persistence model to a domain Objection
func (m *ObjectionModel) ToDomain() *objection.Objection {
	o := &objection.Objection{
		SaleID:     m.SaleID,
		RaisedBy:   m.RaisedBy,
		Reason:     m.Reason,
		Details:    m.Details,
		Status:     m.Status,
		AdminNote:  m.AdminNote,
		Action:     m.Action,
		ReassignTo: m.ReassignTo,
		ResolvedBy: m.ResolvedBy,
		ResolvedAt: m.ResolvedAt,
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)
	return o
}

// FromDomain populates the persistence model from a domain Objection
func (m *ObjectionModel) FromDomain(o *objection.Objection) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.SaleID = o.SaleID
	m.RaisedBy = o.RaisedBy
	m.Reason = o.Reason
	m.Details = o.Details
	m.Status = o.Status
	m.AdminNote = o.AdminNote
	m.Action = o.Action
	m.ReassignTo = o.ReassignTo
	m.ResolvedBy = o.ResolvedBy
	m.ResolvedAt = o.ResolvedAt
}

// ObjectionModelFromDomain creates a new persistence model from a domain Objection
func ObjectionModelFromDomain(o *objection.Objection) *ObjectionModel {
	m := &ObjectionModel{}
	m.FromDomain(o)
	return m
}
