package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	installmentapp "github.com/winroom/backend/internal/application/installment"
	"github.com/winroom/backend/internal/domain/installment"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/interfaces/http/dto"
	"github.com/winroom/backend/internal/interfaces/http/middleware"
	"github.com/winroom/backend/internal/infrastructure/auth"
)

// InstallmentHandler handles installment plan API endpoints
type InstallmentHandler struct {
	BaseHandler
	installmentService *installmentapp.InstallmentService
}

// NewInstallmentHandler creates a new InstallmentHandler
func NewInstallmentHandler(installmentService *installmentapp.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{
		installmentService: installmentService,
	}
}

// PaymentSpecInput represents one scheduled payment in a plan request
// @Description Scheduled payment for plan creation
type PaymentSpecInput struct {
	PaymentNumber int     `json:"payment_number" binding:"required,min=1" example:"1"`
	DueDate       string  `json:"due_date" binding:"required" example:"2026-03-01T00:00:00Z"`
	Amount        float64 `json:"amount" binding:"required,gt=0" example:"500.00"`
}

// CreatePlanRequest represents a request to create an installment plan
// @Description Request body for creating an installment plan
type CreatePlanRequest struct {
	SaleID            string             `json:"sale_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	TotalInstallments int                `json:"total_installments" binding:"required,min=2,max=24" example:"3"`
	TotalAmount       float64            `json:"total_amount" binding:"required,gt=0" example:"1500.00"`
	Currency          string             `json:"currency" binding:"required,len=3" example:"USD"`
	Payments          []PaymentSpecInput `json:"payments" binding:"required,min=2,dive"`
}

// SubmitPaymentRequest represents a seller reporting a payment as made
// @Description Request body for submitting an installment payment
type SubmitPaymentRequest struct {
	PaidAmount *float64 `json:"paid_amount" binding:"omitempty,gt=0" example:"500.00"`
	Channel    string   `json:"channel" binding:"max=100" example:"wire"`
	Notes      string   `json:"notes" binding:"max=500" example:"customer sent proof of transfer"`
}

// RejectPaymentRequest represents staff rejecting a submitted payment
// @Description Request body for rejecting a payment submission
type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"amount does not match bank statement"`
}

// PlanActionRequest represents a freeze or cancel request with a reason
// @Description Request body for freezing or cancelling a plan
type PlanActionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"customer dispute under review"`
}

// ToleranceRequest represents a grace period granted on an overdue payment
// @Description Request body for granting payment tolerance
type ToleranceRequest struct {
	Until  string `json:"until" binding:"required" example:"2026-03-15T00:00:00Z"`
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"customer travelling, promised payment next week"`
}

// CreatePlan godoc
// @ID           createInstallmentPlan
// @Summary      Create an installment plan
// @Description  Set up a payment schedule for a sale. Payment amounts must sum to the plan total.
// @Tags         installments
// @Accept       json
// @Produce      json
// @Param        request body CreatePlanRequest true "Plan definition"
// @Success      201 {object} APIResponse[installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments [post]
func (h *InstallmentHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payments := make([]installmentapp.PaymentSpecRequest, 0, len(req.Payments))
	for _, p := range req.Payments {
		dueDate, err := time.Parse(time.RFC3339, p.DueDate)
		if err != nil {
			h.BadRequest(c, "due_date must be an RFC 3339 timestamp")
			return
		}
		payments = append(payments, installmentapp.PaymentSpecRequest{
			PaymentNumber: p.PaymentNumber,
			DueDate:       dueDate,
			Amount:        toDecimal(p.Amount),
		})
	}

	plan, err := h.installmentService.CreatePlan(c.Request.Context(), installmentapp.CreatePlanRequest{
		SaleID:            uuid.MustParse(req.SaleID),
		TotalInstallments: req.TotalInstallments,
		TotalAmount:       toDecimal(req.TotalAmount),
		Currency:          req.Currency,
		Payments:          payments,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, plan)
}

// SubmitPayment godoc
// @ID           submitInstallmentPayment
// @Summary      Submit an installment payment
// @Description  Report a scheduled payment as paid. Sellers may only submit on their own plans; staff may submit on any.
// @Tags         installments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body SubmitPaymentRequest true "Payment details"
// @Success      200 {object} APIResponse[installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/payments/{id}/submit [post]
func (h *InstallmentHandler) SubmitPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	role := middleware.GetJWTRole(c)
	submitReq := installmentapp.SubmitPaymentRequest{
		PaymentID:  paymentID,
		Actor:      actor,
		ActorStaff: role == auth.RoleStaff || role == auth.RoleAdmin || role == auth.RoleFinance,
		Channel:    req.Channel,
		Notes:      req.Notes,
	}
	if req.PaidAmount != nil {
		submitReq.PaidAmount = toDecimalPtr(*req.PaidAmount)
	}

	plan, err := h.installmentService.SubmitPayment(c.Request.Context(), submitReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}

// ConfirmPayment godoc
// @ID           confirmInstallmentPayment
// @Summary      Confirm a submitted payment
// @Description  Finance confirmation of a submitted payment. Confirming the final payment completes the plan.
// @Tags         installments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/payments/{id}/confirm [post]
func (h *InstallmentHandler) ConfirmPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	plan, err := h.installmentService.ConfirmPayment(c.Request.Context(), paymentID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}

// RejectPayment godoc
// @ID           rejectInstallmentPayment
// @Summary      Reject a submitted payment
// @Description  Send a submitted payment back to pending with a reason
// @Tags         installments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body RejectPaymentRequest true "Rejection reason"
// @Success      200 {object} APIResponse[installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/payments/{id}/reject [post]
func (h *InstallmentHandler) RejectPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	plan, err := h.installmentService.RejectPayment(c.Request.Context(), paymentID, actor, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}

// Freeze godoc
// @ID           freezeInstallmentPlan
// @Summary      Freeze an installment plan
// @Description  Block submissions and confirmations on a plan, e.g. during a dispute
// @Tags         installments
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Param        request body PlanActionRequest true "Freeze reason"
// @Success      200 {object} APIResponse[installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/{id}/freeze [post]
func (h *InstallmentHandler) Freeze(c *gin.Context) {
	h.planAction(c, func(planID uuid.UUID, reason string) (*installmentapp.PlanResponse, error) {
		return h.installmentService.Freeze(c.Request.Context(), planID, reason)
	})
}

// Unfreeze godoc
// @ID           unfreezeInstallmentPlan
// @Summary      Unfreeze an installment plan
// @Tags         installments
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} APIResponse[installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/{id}/unfreeze [post]
func (h *InstallmentHandler) Unfreeze(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	plan, err := h.installmentService.Unfreeze(c.Request.Context(), planID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}

// Cancel godoc
// @ID           cancelInstallmentPlan
// @Summary      Cancel an installment plan
// @Description  Terminally cancel a plan. Cancelled plans accept no further submissions or confirmations.
// @Tags         installments
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Param        request body PlanActionRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/{id}/cancel [post]
func (h *InstallmentHandler) Cancel(c *gin.Context) {
	h.planAction(c, func(planID uuid.UUID, reason string) (*installmentapp.PlanResponse, error) {
		return h.installmentService.Cancel(c.Request.Context(), planID, reason)
	})
}

// AddTolerance godoc
// @ID           addPaymentTolerance
// @Summary      Grant tolerance on an overdue payment
// @Description  Extend the effective due date of a payment, keeping it out of the overdue sweep until the tolerance lapses
// @Tags         installments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body ToleranceRequest true "Tolerance grant"
// @Success      200 {object} APIResponse[installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/payments/{id}/tolerance [post]
func (h *InstallmentHandler) AddTolerance(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req ToleranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	until, err := time.Parse(time.RFC3339, req.Until)
	if err != nil {
		h.BadRequest(c, "until must be an RFC 3339 timestamp")
		return
	}

	plan, err := h.installmentService.AddTolerance(c.Request.Context(), paymentID, until, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}

// GetBySaleID godoc
// @ID           getInstallmentPlanBySaleID
// @Summary      Get the installment plan for a sale
// @Tags         installments
// @Produce      json
// @Param        sale_id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/sales/{sale_id} [get]
func (h *InstallmentHandler) GetBySaleID(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("sale_id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	plan, err := h.installmentService.GetBySaleID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}

// ListByStatus godoc
// @ID           listInstallmentPlansByStatus
// @Summary      List installment plans by status
// @Tags         installments
// @Produce      json
// @Param        status query string true "Plan status" Enums(ACTIVE,FROZEN,CANCELLED,COMPLETED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]installmentapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments [get]
func (h *InstallmentHandler) ListByStatus(c *gin.Context) {
	status := installment.PlanStatus(c.Query("status"))
	if !status.IsValid() {
		h.BadRequest(c, "status must be one of ACTIVE, FROZEN, CANCELLED, COMPLETED")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	plans, err := h.installmentService.ListByStatus(c.Request.Context(), status, shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plans)
}

// Dashboard godoc
// @ID           getInstallmentDashboard
// @Summary      Get the installment dashboard
// @Description  Plan counts by status plus overdue and in-tolerance payment counts
// @Tags         installments
// @Produce      json
// @Success      200 {object} APIResponse[installmentapp.DashboardResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/dashboard [get]
func (h *InstallmentHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.installmentService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// SweepOverdue godoc
// @ID           sweepOverduePayments
// @Summary      Sweep overdue payments
// @Description  Mark every pending payment past its effective due date as overdue. Returns the number of payments flagged.
// @Tags         installments
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/sweep-overdue [post]
func (h *InstallmentHandler) SweepOverdue(c *gin.Context) {
	count, err := h.installmentService.SweepOverdue(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: int64(count)})
}

func (h *InstallmentHandler) planAction(c *gin.Context, fn func(uuid.UUID, string) (*installmentapp.PlanResponse, error)) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	var req PlanActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	plan, err := fn(planID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}
