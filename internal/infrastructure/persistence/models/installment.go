package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/winroom/backend/internal/domain/installment"
)

// InstallmentPlanModel is the persistence model for installment plans
type InstallmentPlanModel struct {
	AggregateModel
	SaleID            uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex"`
	ClaimID           *uuid.UUID             `gorm:"type:uuid;index"`
	Status            installment.PlanStatus `gorm:"type:varchar(20);not null;index"`
	TotalInstallments int                    `gorm:"not null"`
	TotalAmount       decimal.Decimal        `gorm:"type:decimal(15,2);not null"`
	Currency          string                 `gorm:"type:varchar(10);not null"`

	Payments []InstallmentPaymentModel `gorm:"foreignKey:PlanID"`
}

// TableName returns the table name for GORM
func (InstallmentPlanModel) TableName() string {
	return "installment_plans"
}

// ToDomain converts the persistence model to a domain InstallmentPlan
func (m *InstallmentPlanModel) ToDomain() *installment.InstallmentPlan {
	plan := &installment.InstallmentPlan{
		SaleID:            m.SaleID,
		ClaimID:           m.ClaimID,
		Status:            m.Status,
		TotalInstallments: m.TotalInstallments,
		TotalAmount:       m.TotalAmount,
		Currency:          m.Currency,
	}
	m.PopulateAggregateRoot(&plan.BaseAggregateRoot)
	plan.Payments = make([]installment.InstallmentPayment, len(m.Payments))
	for i := range m.Payments {
		plan.Payments[i] = m.Payments[i].ToDomain()
	}
	return plan
}

// FromDomain populates the persistence model from a domain InstallmentPlan
func (m *InstallmentPlanModel) FromDomain(plan *installment.InstallmentPlan) {
	m.FromDomainAggregateRoot(plan.BaseAggregateRoot)
	m.SaleID = plan.SaleID
	m.ClaimID = plan.ClaimID
	m.Status = plan.Status
	m.TotalInstallments = plan.TotalInstallments
	m.TotalAmount = plan.TotalAmount
	m.Currency = plan.Currency
	m.Payments = make([]InstallmentPaymentModel, len(plan.Payments))
	for i := range plan.Payments {
		m.Payments[i] = *InstallmentPaymentModelFromDomain(&plan.Payments[i])
	}
}

// InstallmentPlanModelFromDomain creates a new persistence model from a domain InstallmentPlan
func InstallmentPlanModelFromDomain(plan *installment.InstallmentPlan) *InstallmentPlanModel {
	m := &InstallmentPlanModel{}
	m.FromDomain(plan)
	return m
}

// InstallmentPaymentModel is the persistence model for one row of a plan's schedule
type InstallmentPaymentModel struct {
	BaseModel
	PlanID         uuid.UUID                 `gorm:"type:uuid;not null;index:idx_payment_plan_number,priority:1"`
	PaymentNumber  int                       `gorm:"not null;index:idx_payment_plan_number,priority:2"`
	DueDate        time.Time                 `gorm:"not null;index"`
	Amount         decimal.Decimal           `gorm:"type:decimal(15,2);not null"`
	Status         installment.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	ToleranceUntil *time.Time
	ToleranceNote  string `gorm:"type:text"`

	PaidAmount  *decimal.Decimal `gorm:"type:decimal(15,2)"`
	PaidChannel string           `gorm:"type:varchar(100)"`
	Notes       string           `gorm:"type:text"`
	SubmittedAt *time.Time

	ReviewedBy   *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt   *time.Time
	RejectReason string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InstallmentPaymentModel) TableName() string {
	return "installment_payments"
}

// ToDomain converts the persistence model to a domain InstallmentPayment
func (m *InstallmentPaymentModel) ToDomain() installment.InstallmentPayment {
	return installment.InstallmentPayment{
		BaseEntity:     m.BaseModel.ToDomain(),
		PlanID:         m.PlanID,
		PaymentNumber:  m.PaymentNumber,
		DueDate:        m.DueDate,
		Amount:         m.Amount,
		Status:         m.Status,
		ToleranceUntil: m.ToleranceUntil,
		ToleranceNote:  m.ToleranceNote,
		PaidAmount:     m.PaidAmount,
		PaidChannel:    m.PaidChannel,
		Notes:          m.Notes,
		SubmittedAt:    m.SubmittedAt,
		ReviewedBy:     m.ReviewedBy,
		ReviewedAt:     m.ReviewedAt,
		RejectReason:   m.RejectReason,
	}
}

// InstallmentPaymentModelFromDomain creates a new persistence model from a domain InstallmentPayment
func InstallmentPaymentModelFromDomain(p *installment.InstallmentPayment) *InstallmentPaymentModel {
	m := &InstallmentPaymentModel{
		PlanID:         p.PlanID,
		PaymentNumber:  p.PaymentNumber,
		DueDate:        p.DueDate,
		Amount:         p.Amount,
		Status:         p.Status,
		ToleranceUntil: p.ToleranceUntil,
		ToleranceNote:  p.ToleranceNote,
		PaidAmount:     p.PaidAmount,
		PaidChannel:    p.PaidChannel,
		Notes:          p.Notes,
		SubmittedAt:    p.SubmittedAt,
		ReviewedBy:     p.ReviewedBy,
		ReviewedAt:     p.ReviewedAt,
		RejectReason:   p.RejectReason,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
