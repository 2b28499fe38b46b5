package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/winroom/backend/internal/domain/shared"
)

// FinanceStatus represents the finance approval state of a queue item or claim
type FinanceStatus string

const (
	// FinanceStatusWaiting indicates finance has not reviewed the sale yet
	FinanceStatusWaiting FinanceStatus = "WAITING"
	// FinanceStatusApproved indicates finance approved the sale
	FinanceStatusApproved FinanceStatus = "APPROVED"
	// FinanceStatusInstallment indicates the sale settles through an installment plan
	FinanceStatusInstallment FinanceStatus = "INSTALLMENT"
	// FinanceStatusProblem indicates a finance problem (e.g. full refund)
	FinanceStatusProblem FinanceStatus = "PROBLEM"
)

// IsValid checks if the status is a valid FinanceStatus
func (s FinanceStatus) IsValid() bool {
	switch s {
	case FinanceStatusWaiting, FinanceStatusApproved, FinanceStatusInstallment, FinanceStatusProblem:
		return true
	}
	return false
}

// String returns the string representation of FinanceStatus
func (s FinanceStatus) String() string {
	return string(s)
}

// FinanceSnapshot carries the finance fields stored redundantly on both the
// queue item and the claim so pre-claim and post-claim views agree.
type FinanceSnapshot struct {
	Status            FinanceStatus
	ApprovedBy        *uuid.UUID
	Notes             string
	InstallmentPlanID *uuid.UUID
	UpdatedAt         *time.Time
}

// NewFinanceSnapshot returns the initial finance state for a new queue item
func NewFinanceSnapshot() FinanceSnapshot {
	return FinanceSnapshot{Status: FinanceStatusWaiting}
}

// ValidateFinanceUpdate enforces the finance gate: the INSTALLMENT status may
// only be set when an installment plan is linked.
func ValidateFinanceUpdate(status FinanceStatus, installmentPlanID *uuid.UUID) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_FINANCE_STATUS", "Invalid finance status")
	}
	if status == FinanceStatusInstallment && installmentPlanID == nil {
		return shared.NewDomainError("INSTALLMENT_PLAN_REQUIRED",
			"Finance status INSTALLMENT requires a linked installment plan")
	}
	return nil
}

// ApplyFinanceUpdate applies a validated finance update to a snapshot
func (f *FinanceSnapshot) ApplyFinanceUpdate(status FinanceStatus, approvedBy *uuid.UUID, notes string, installmentPlanID *uuid.UUID) error {
	if err := ValidateFinanceUpdate(status, installmentPlanID); err != nil {
		return err
	}
	now := time.Now()
	f.Status = status
	f.ApprovedBy = approvedBy
	if notes != "" {
		f.Notes = notes
	}
	if installmentPlanID != nil {
		f.InstallmentPlanID = installmentPlanID
	}
	f.UpdatedAt = &now
	return nil
}

// AppendNote appends a line to the finance notes
func (f *FinanceSnapshot) AppendNote(note string) {
	if note == "" {
		return
	}
	if f.Notes == "" {
		f.Notes = note
		return
	}
	f.Notes = f.Notes + "\n" + note
}
