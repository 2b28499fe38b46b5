package installment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/attribution"
	"github.com/winroom/backend/internal/domain/installment"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
)

// PaymentSpecRequest describes one payment of a plan being created
type PaymentSpecRequest struct {
	PaymentNumber int             `json:"payment_number"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
}

// CreatePlanRequest carries the input for creating an installment plan
type CreatePlanRequest struct {
	SaleID            uuid.UUID
	TotalInstallments int
	TotalAmount       decimal.Decimal
	Currency          string
	Payments          []PaymentSpecRequest
}

// SubmitPaymentRequest carries a seller's payment submission
type SubmitPaymentRequest struct {
	PaymentID  uuid.UUID
	Actor      uuid.UUID
	ActorStaff bool
	PaidAmount *decimal.Decimal
	Channel    string
	Notes      string
}

// PaymentResponse is the read model for one scheduled payment
type PaymentResponse struct {
	ID             uuid.UUID                 `json:"id"`
	PaymentNumber  int                       `json:"payment_number"`
	DueDate        time.Time                 `json:"due_date"`
	Amount         decimal.Decimal           `json:"amount"`
	Status         installment.PaymentStatus `json:"status"`
	ToleranceUntil *time.Time                `json:"tolerance_until,omitempty"`
	PaidAmount     *decimal.Decimal          `json:"paid_amount,omitempty"`
	PaidChannel    string                    `json:"paid_channel,omitempty"`
	SubmittedAt    *time.Time                `json:"submitted_at,omitempty"`
	RejectReason   string                    `json:"reject_reason,omitempty"`
}

// PlanResponse is the read model for a plan with its schedule
type PlanResponse struct {
	ID                uuid.UUID              `json:"id"`
	SaleID            uuid.UUID              `json:"sale_id"`
	ClaimID           *uuid.UUID             `json:"claim_id,omitempty"`
	Status            installment.PlanStatus `json:"status"`
	TotalInstallments int                    `json:"total_installments"`
	TotalAmount       decimal.Decimal        `json:"total_amount"`
	Currency          string                 `json:"currency"`
	Payments          []PaymentResponse      `json:"payments"`
}

// DashboardResponse is the finance view over all plans
type DashboardResponse struct {
	ActivePlans     int64 `json:"active_plans"`
	FrozenPlans     int64 `json:"frozen_plans"`
	CompletedPlans  int64 `json:"completed_plans"`
	CancelledPlans  int64 `json:"cancelled_plans"`
	AwaitingReview  int64 `json:"awaiting_review"`
	OverduePayments int64 `json:"overdue_payments"`
	InTolerance     int64 `json:"in_tolerance"`
}

// ToPlanResponse maps a plan aggregate to its response shape
func ToPlanResponse(p *installment.InstallmentPlan) PlanResponse {
	payments := make([]PaymentResponse, len(p.Payments))
	for i, pay := range p.Payments {
		payments[i] = PaymentResponse{
			ID:             pay.ID,
			PaymentNumber:  pay.PaymentNumber,
			DueDate:        pay.DueDate,
			Amount:         pay.Amount,
			Status:         pay.Status,
			ToleranceUntil: pay.ToleranceUntil,
			PaidAmount:     pay.PaidAmount,
			PaidChannel:    pay.PaidChannel,
			SubmittedAt:    pay.SubmittedAt,
			RejectReason:   pay.RejectReason,
		}
	}
	return PlanResponse{
		ID:                p.ID,
		SaleID:            p.SaleID,
		ClaimID:           p.ClaimID,
		Status:            p.Status,
		TotalInstallments: p.TotalInstallments,
		TotalAmount:       p.TotalAmount,
		Currency:          p.Currency,
		Payments:          payments,
	}
}

// InstallmentService manages deferred-settlement plans and their payment flow
type InstallmentService struct {
	planRepo        installment.InstallmentPlanRepository
	claimRepo       queue.ClaimRepository
	attributionRepo attribution.AttributionRepository
	logger          *zap.Logger
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(
	planRepo installment.InstallmentPlanRepository,
	claimRepo queue.ClaimRepository,
	attributionRepo attribution.AttributionRepository,
	logger *zap.Logger,
) *InstallmentService {
	return &InstallmentService{
		planRepo:        planRepo,
		claimRepo:       claimRepo,
		attributionRepo: attributionRepo,
		logger:          logger,
	}
}

// CreatePlan creates the plan for a sale. A sale carries at most one plan;
// if the sale is already claimed the plan links to the claim immediately.
func (s *InstallmentService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*PlanResponse, error) {
	exists, err := s.planRepo.ExistsBySaleID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("INSTALLMENT_PLAN_EXISTS", "An installment plan already exists for this sale")
	}

	specs := make([]installment.PaymentSpec, len(req.Payments))
	for i, p := range req.Payments {
		specs[i] = installment.PaymentSpec{
			PaymentNumber: p.PaymentNumber,
			DueDate:       p.DueDate,
			Amount:        p.Amount,
		}
	}

	plan, err := installment.NewInstallmentPlan(req.SaleID, req.TotalInstallments, req.TotalAmount, req.Currency, specs)
	if err != nil {
		return nil, err
	}

	claimed, err := s.claimRepo.ExistsBySaleID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}
	if claimed {
		claim, err := s.claimRepo.FindBySaleID(ctx, req.SaleID)
		if err != nil {
			return nil, err
		}
		if err := plan.LinkClaim(claim.ID); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.SaveWithLockAndEvents(ctx, plan, plan.GetDomainEvents()); err != nil {
		return nil, err
	}
	plan.ClearDomainEvents()

	s.logger.Info("installment plan created",
		zap.String("plan_id", plan.ID.String()),
		zap.String("sale_id", req.SaleID.String()),
		zap.Int("installments", req.TotalInstallments),
	)

	resp := ToPlanResponse(plan)
	return &resp, nil
}

// SubmitPayment records a payment submission for finance review. Sellers may
// only submit against plans whose sale they closed; staff submit freely.
func (s *InstallmentService) SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByPaymentID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	if !req.ActorStaff {
		attr, err := s.attributionRepo.FindBySaleID(ctx, plan.SaleID)
		if err != nil {
			return nil, err
		}
		if attr.CloserSellerID != req.Actor {
			return nil, shared.NewDomainError("NOT_PLAN_OWNER", "Only the closing seller can submit payments for this plan")
		}
	}

	if err := plan.SubmitPayment(req.PaymentID, req.PaidAmount, req.Channel, req.Notes); err != nil {
		return nil, err
	}

	if err := s.planRepo.SaveWithLockAndEvents(ctx, plan, plan.GetDomainEvents()); err != nil {
		return nil, err
	}
	plan.ClearDomainEvents()

	s.logger.Info("installment payment submitted",
		zap.String("plan_id", plan.ID.String()),
		zap.String("payment_id", req.PaymentID.String()),
	)

	resp := ToPlanResponse(plan)
	return &resp, nil
}

// ConfirmPayment confirms a submitted payment. Confirming the last one
// completes the plan.
func (s *InstallmentService) ConfirmPayment(ctx context.Context, paymentID, actor uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := plan.ConfirmPayment(paymentID, actor); err != nil {
		return nil, err
	}

	if err := s.planRepo.SaveWithLockAndEvents(ctx, plan, plan.GetDomainEvents()); err != nil {
		return nil, err
	}
	plan.ClearDomainEvents()

	s.logger.Info("installment payment confirmed",
		zap.String("plan_id", plan.ID.String()),
		zap.String("payment_id", paymentID.String()),
		zap.String("plan_status", plan.Status.String()),
	)

	resp := ToPlanResponse(plan)
	return &resp, nil
}

// RejectPayment rejects a submitted payment with a reason, returning it to a
// resubmittable state.
func (s *InstallmentService) RejectPayment(ctx context.Context, paymentID, actor uuid.UUID, reason string) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := plan.RejectPayment(paymentID, actor, reason); err != nil {
		return nil, err
	}

	if err := s.planRepo.SaveWithLockAndEvents(ctx, plan, plan.GetDomainEvents()); err != nil {
		return nil, err
	}
	plan.ClearDomainEvents()

	s.logger.Info("installment payment rejected",
		zap.String("plan_id", plan.ID.String()),
		zap.String("payment_id", paymentID.String()),
	)

	resp := ToPlanResponse(plan)
	return &resp, nil
}

// Freeze suspends an active plan
func (s *InstallmentService) Freeze(ctx context.Context, planID uuid.UUID, reason string) (*PlanResponse, error) {
	return s.mutatePlan(ctx, planID, func(p *installment.InstallmentPlan) error {
		return p.Freeze(reason)
	})
}

// Unfreeze reactivates a frozen plan
func (s *InstallmentService) Unfreeze(ctx context.Context, planID uuid.UUID) (*PlanResponse, error) {
	return s.mutatePlan(ctx, planID, func(p *installment.InstallmentPlan) error {
		return p.Unfreeze()
	})
}

// Cancel terminates an active plan
func (s *InstallmentService) Cancel(ctx context.Context, planID uuid.UUID, reason string) (*PlanResponse, error) {
	return s.mutatePlan(ctx, planID, func(p *installment.InstallmentPlan) error {
		return p.Cancel(reason)
	})
}

// AddTolerance extends the grace date of a payment
func (s *InstallmentService) AddTolerance(ctx context.Context, paymentID uuid.UUID, until time.Time, reason string) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := plan.AddTolerance(paymentID, until, reason); err != nil {
		return nil, err
	}

	if err := s.planRepo.SaveWithLock(ctx, plan); err != nil {
		return nil, err
	}

	resp := ToPlanResponse(plan)
	return &resp, nil
}

// GetBySaleID returns the plan for a sale
func (s *InstallmentService) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// ListByStatus returns plans in the given state
func (s *InstallmentService) ListByStatus(ctx context.Context, status installment.PlanStatus, filter shared.Filter) ([]PlanResponse, error) {
	plans, err := s.planRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToPlanResponse(&plans[i])
	}
	return responses, nil
}

// Dashboard aggregates the finance installment counters
func (s *InstallmentService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	stats, err := s.planRepo.DashboardStats(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return &DashboardResponse{
		ActivePlans:     stats.ActivePlans,
		FrozenPlans:     stats.FrozenPlans,
		CompletedPlans:  stats.CompletedPlans,
		CancelledPlans:  stats.CancelledPlans,
		AwaitingReview:  stats.AwaitingReview,
		OverduePayments: stats.OverduePayments,
		InTolerance:     stats.InTolerance,
	}, nil
}

// SweepOverdue flips due pending payments of active plans to overdue.
// Ran periodically.
func (s *InstallmentService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	plans, err := s.planRepo.FindByStatus(ctx, installment.PlanStatusActive, shared.Filter{})
	if err != nil {
		return 0, err
	}

	total := 0
	for i := range plans {
		changed := plans[i].MarkOverduePayments(now)
		if changed == 0 {
			continue
		}
		if err := s.planRepo.SaveWithLock(ctx, &plans[i]); err != nil {
			return total, err
		}
		total += changed
	}

	if total > 0 {
		s.logger.Info("overdue sweep finished", zap.Int("payments_marked", total))
	}
	return total, nil
}

func (s *InstallmentService) mutatePlan(ctx context.Context, planID uuid.UUID, fn func(*installment.InstallmentPlan) error) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if err := fn(plan); err != nil {
		return nil, err
	}

	if err := s.planRepo.SaveWithLockAndEvents(ctx, plan, plan.GetDomainEvents()); err != nil {
		return nil, err
	}
	plan.ClearDomainEvents()

	s.logger.Info("installment plan updated",
		zap.String("plan_id", plan.ID.String()),
		zap.String("status", plan.Status.String()),
	)

	resp := ToPlanResponse(plan)
	return &resp, nil
}
