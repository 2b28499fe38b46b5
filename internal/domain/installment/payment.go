package installment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

// PaymentStatus represents the lifecycle state of one installment payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSubmitted PaymentStatus = "SUBMITTED"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
	PaymentStatusOverdue   PaymentStatus = "OVERDUE"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSubmitted, PaymentStatusConfirmed, PaymentStatusRejected, PaymentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsSubmittable reports whether the payment can be (re)submitted
func (s PaymentStatus) IsSubmittable() bool {
	return s == PaymentStatusPending || s == PaymentStatusOverdue || s == PaymentStatusRejected
}

// InstallmentPayment is one row of a plan's schedule. It is an entity owned
// by the plan aggregate, not an aggregate root of its own.
type InstallmentPayment struct {
	shared.BaseEntity

	PlanID         uuid.UUID
	PaymentNumber  int
	DueDate        time.Time
	Amount         decimal.Decimal
	Status         PaymentStatus
	ToleranceUntil *time.Time
	ToleranceNote  string

	// Submission metadata
	PaidAmount  *decimal.Decimal
	PaidChannel string
	Notes       string
	SubmittedAt *time.Time

	// Review metadata
	ReviewedBy   *uuid.UUID
	ReviewedAt   *time.Time
	RejectReason string
}

func newInstallmentPayment(planID uuid.UUID, spec PaymentSpec) InstallmentPayment {
	return InstallmentPayment{
		BaseEntity:    shared.NewBaseEntity(),
		PlanID:        planID,
		PaymentNumber: spec.PaymentNumber,
		DueDate:       spec.DueDate,
		Amount:        spec.Amount,
		Status:        PaymentStatusPending,
	}
}

func (ip *InstallmentPayment) submit(paidAmount *decimal.Decimal, channel, notes string) error {
	if !ip.Status.IsSubmittable() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Payment %d is %s and cannot be submitted", ip.PaymentNumber, ip.Status))
	}
	if paidAmount != nil && !paidAmount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount must be positive")
	}

	now := time.Now()
	ip.Status = PaymentStatusSubmitted
	ip.PaidAmount = paidAmount
	ip.PaidChannel = channel
	if notes != "" {
		ip.Notes = notes
	}
	ip.SubmittedAt = &now
	ip.RejectReason = ""
	ip.Touch()
	return nil
}

func (ip *InstallmentPayment) confirm(actor uuid.UUID) error {
	if ip.Status != PaymentStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Payment %d is %s, only submitted payments can be confirmed", ip.PaymentNumber, ip.Status))
	}
	now := time.Now()
	ip.Status = PaymentStatusConfirmed
	ip.ReviewedBy = &actor
	ip.ReviewedAt = &now
	ip.Touch()
	return nil
}

func (ip *InstallmentPayment) reject(actor uuid.UUID, reason string) error {
	if ip.Status != PaymentStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Payment %d is %s, only submitted payments can be rejected", ip.PaymentNumber, ip.Status))
	}
	now := time.Now()
	ip.Status = PaymentStatusRejected
	ip.ReviewedBy = &actor
	ip.ReviewedAt = &now
	ip.RejectReason = reason
	ip.Touch()
	return nil
}

func (ip *InstallmentPayment) addTolerance(until time.Time, reason string) error {
	if ip.Status != PaymentStatusPending && ip.Status != PaymentStatusOverdue {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Tolerance applies to pending or overdue payments, payment %d is %s", ip.PaymentNumber, ip.Status))
	}
	if until.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Tolerance date cannot be empty")
	}
	ip.ToleranceUntil = &until
	ip.ToleranceNote = reason
	// A tolerated overdue payment reads as pending again
	if ip.Status == PaymentStatusOverdue {
		ip.Status = PaymentStatusPending
	}
	ip.Touch()
	return nil
}

// IsInTolerance reports whether an active grace extension covers the payment
func (ip *InstallmentPayment) IsInTolerance(now time.Time) bool {
	return ip.ToleranceUntil != nil && now.Before(*ip.ToleranceUntil)
}

// IsOverdue reports whether the payment is past due and not covered by an
// active tolerance.
func (ip *InstallmentPayment) IsOverdue(now time.Time) bool {
	if ip.Status != PaymentStatusPending && ip.Status != PaymentStatusOverdue {
		return false
	}
	if ip.IsInTolerance(now) {
		return false
	}
	return now.After(ip.DueDate)
}

func (ip *InstallmentPayment) markOverdueIfDue(now time.Time) bool {
	if ip.Status != PaymentStatusPending {
		return false
	}
	if !ip.IsOverdue(now) {
		return false
	}
	ip.Status = PaymentStatusOverdue
	ip.Touch()
	return true
}
