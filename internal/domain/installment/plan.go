package installment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/winroom/backend/internal/domain/shared"
)

// PlanStatus represents the lifecycle state of an installment plan
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "ACTIVE"
	PlanStatusFrozen    PlanStatus = "FROZEN"
	PlanStatusCancelled PlanStatus = "CANCELLED"
	PlanStatusCompleted PlanStatus = "COMPLETED"
)

// IsValid checks if the status is a valid PlanStatus
func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusActive, PlanStatusFrozen, PlanStatusCancelled, PlanStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of PlanStatus
func (s PlanStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PlanStatus) CanTransitionTo(target PlanStatus) bool {
	switch s {
	case PlanStatusActive:
		return target == PlanStatusFrozen || target == PlanStatusCancelled || target == PlanStatusCompleted
	case PlanStatusFrozen:
		return target == PlanStatusActive
	case PlanStatusCancelled, PlanStatusCompleted:
		return false // Terminal states
	}
	return false
}

// PaymentSpec is the caller-supplied description of one installment payment
type PaymentSpec struct {
	PaymentNumber int
	DueDate       time.Time
	Amount        decimal.Decimal
}

// InstallmentPlan is the deferred-settlement schedule for a sale. At most one
// plan exists per sale; its payments are numbered contiguously from 1.
type InstallmentPlan struct {
	shared.BaseAggregateRoot

	SaleID            uuid.UUID
	ClaimID           *uuid.UUID
	Status            PlanStatus
	TotalInstallments int
	TotalAmount       decimal.Decimal
	Currency          string
	Payments          []InstallmentPayment
}

// NewInstallmentPlan creates an active plan with all payments pending.
// Payment numbers must be exactly the contiguous sequence 1..N.
func NewInstallmentPlan(saleID uuid.UUID, totalInstallments int, totalAmount decimal.Decimal, currency string, payments []PaymentSpec) (*InstallmentPlan, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if totalInstallments < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "A plan needs at least one installment")
	}
	if len(payments) != totalInstallments {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS",
			fmt.Sprintf("Expected %d payments, got %d", totalInstallments, len(payments)))
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}

	seen := make(map[int]bool, len(payments))
	for _, p := range payments {
		if p.PaymentNumber < 1 || p.PaymentNumber > totalInstallments || seen[p.PaymentNumber] {
			return nil, shared.NewDomainError("PAYMENT_NUMBERS_MUST_BE_SEQUENTIAL",
				"Payment numbers must be the contiguous sequence 1..N")
		}
		seen[p.PaymentNumber] = true
		if !p.Amount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_AMOUNT",
				fmt.Sprintf("Payment %d amount must be positive", p.PaymentNumber))
		}
		if p.DueDate.IsZero() {
			return nil, shared.NewDomainError("INVALID_DUE_DATE",
				fmt.Sprintf("Payment %d due date cannot be empty", p.PaymentNumber))
		}
	}

	plan := &InstallmentPlan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		Status:            PlanStatusActive,
		TotalInstallments: totalInstallments,
		TotalAmount:       totalAmount,
		Currency:          currency,
	}

	plan.Payments = make([]InstallmentPayment, 0, len(payments))
	for _, spec := range payments {
		plan.Payments = append(plan.Payments, newInstallmentPayment(plan.ID, spec))
	}

	plan.AddDomainEvent(NewPlanCreatedEvent(plan))

	return plan, nil
}

// LinkClaim ties the plan to the claim that settles through it
func (p *InstallmentPlan) LinkClaim(claimID uuid.UUID) error {
	if claimID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLAIM", "Claim ID cannot be empty")
	}
	p.ClaimID = &claimID
	p.Touch()
	return nil
}

// PaymentByID finds a payment in the plan by its identifier
func (p *InstallmentPlan) PaymentByID(paymentID uuid.UUID) *InstallmentPayment {
	for i := range p.Payments {
		if p.Payments[i].ID == paymentID {
			return &p.Payments[i]
		}
	}
	return nil
}

// SubmitPayment marks a payment as submitted for finance review. Frozen and
// cancelled plans refuse submission.
func (p *InstallmentPlan) SubmitPayment(paymentID uuid.UUID, paidAmount *decimal.Decimal, channel, notes string) error {
	switch p.Status {
	case PlanStatusFrozen:
		return shared.NewDomainError("PLAN_FROZEN_SUBMISSION_BLOCKED", "Plan is frozen, submission is blocked")
	case PlanStatusCancelled:
		return shared.NewDomainError("PLAN_CANCELLED_SUBMISSION_BLOCKED", "Plan is cancelled, submission is blocked")
	case PlanStatusCompleted:
		return shared.NewDomainError("INVALID_STATE", "Plan is already completed")
	}

	payment := p.PaymentByID(paymentID)
	if payment == nil {
		return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment does not belong to this plan")
	}
	if err := payment.submit(paidAmount, channel, notes); err != nil {
		return err
	}
	p.Touch()

	p.AddDomainEvent(NewPaymentSubmittedEvent(p, payment))

	return nil
}

// ConfirmPayment confirms a submitted payment. Confirming the last unconfirmed
// payment completes the plan.
func (p *InstallmentPlan) ConfirmPayment(paymentID, actor uuid.UUID) error {
	if p.Status == PlanStatusFrozen {
		return shared.NewDomainError("PLAN_FROZEN_CONFIRMATION_BLOCKED", "Plan is frozen, confirmation is blocked")
	}
	if p.Status == PlanStatusCancelled {
		return shared.NewDomainError("PLAN_CANCELLED_CONFIRMATION_BLOCKED", "Plan is cancelled, confirmation is blocked")
	}

	payment := p.PaymentByID(paymentID)
	if payment == nil {
		return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment does not belong to this plan")
	}
	if err := payment.confirm(actor); err != nil {
		return err
	}
	p.Touch()

	p.AddDomainEvent(NewPaymentConfirmedEvent(p, payment))

	if p.allConfirmed() && p.Status == PlanStatusActive {
		p.Status = PlanStatusCompleted
		p.AddDomainEvent(NewPlanCompletedEvent(p))
	}

	return nil
}

// RejectPayment rejects a submitted payment with a mandatory reason. The
// payment returns to a resubmittable state.
func (p *InstallmentPlan) RejectPayment(paymentID, actor uuid.UUID, reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason cannot be empty")
	}

	payment := p.PaymentByID(paymentID)
	if payment == nil {
		return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment does not belong to this plan")
	}
	if err := payment.reject(actor, reason); err != nil {
		return err
	}
	p.Touch()

	p.AddDomainEvent(NewPaymentRejectedEvent(p, payment))

	return nil
}

// Freeze suspends an active plan
func (p *InstallmentPlan) Freeze(reason string) error {
	if p.Status != PlanStatusActive {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only active plans can be frozen, plan is %s", p.Status))
	}
	p.Status = PlanStatusFrozen
	p.Touch()
	p.AddDomainEvent(NewPlanStatusChangedEvent(p, reason))
	return nil
}

// Unfreeze reactivates a frozen plan
func (p *InstallmentPlan) Unfreeze() error {
	if p.Status != PlanStatusFrozen {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only frozen plans can be unfrozen, plan is %s", p.Status))
	}
	p.Status = PlanStatusActive
	p.Touch()
	p.AddDomainEvent(NewPlanStatusChangedEvent(p, ""))
	return nil
}

// Cancel terminates an active plan
func (p *InstallmentPlan) Cancel(reason string) error {
	if p.Status != PlanStatusActive {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only active plans can be cancelled, plan is %s", p.Status))
	}
	p.Status = PlanStatusCancelled
	p.Touch()
	p.AddDomainEvent(NewPlanStatusChangedEvent(p, reason))
	return nil
}

// AddTolerance extends the grace date of a pending or overdue payment
func (p *InstallmentPlan) AddTolerance(paymentID uuid.UUID, toleranceUntil time.Time, reason string) error {
	payment := p.PaymentByID(paymentID)
	if payment == nil {
		return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment does not belong to this plan")
	}
	if err := payment.addTolerance(toleranceUntil, reason); err != nil {
		return err
	}
	p.Touch()
	return nil
}

// MarkOverduePayments flips pending payments whose due date passed without an
// active tolerance to overdue. Returns how many changed.
func (p *InstallmentPlan) MarkOverduePayments(now time.Time) int {
	if p.Status != PlanStatusActive {
		return 0
	}
	changed := 0
	for i := range p.Payments {
		if p.Payments[i].markOverdueIfDue(now) {
			changed++
		}
	}
	if changed > 0 {
		p.Touch()
	}
	return changed
}

func (p *InstallmentPlan) allConfirmed() bool {
	for i := range p.Payments {
		if p.Payments[i].Status != PaymentStatusConfirmed {
			return false
		}
	}
	return len(p.Payments) > 0
}
