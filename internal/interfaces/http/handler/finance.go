package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	financeapp "github.com/winroom/backend/internal/application/finance"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/interfaces/http/dto"
)

// FinanceHandler handles the finance review API endpoints
type FinanceHandler struct {
	BaseHandler
	financeService *financeapp.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *financeapp.FinanceService) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
	}
}

// UpdateFinanceStatusRequest represents a finance reviewer's verdict on a sale
// @Description Request body for updating a sale's finance status
type UpdateFinanceStatusRequest struct {
	Status            string  `json:"status" binding:"required,oneof=WAITING APPROVED INSTALLMENT PROBLEM" example:"APPROVED"`
	Notes             string  `json:"notes" binding:"max=500" example:"wire confirmed against invoice"`
	InstallmentPlanID *string `json:"installment_plan_id" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440003"`
}

// UpdateQueueFinance godoc
// @ID           updateQueueFinanceStatus
// @Summary      Update the finance status of a queue item
// @Description  Record the finance team's verdict for a queued sale. Marking a sale INSTALLMENT requires a linked plan.
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Queue Item ID" format(uuid)
// @Param        request body UpdateFinanceStatusRequest true "Finance verdict"
// @Success      200 {object} APIResponse[financeapp.FinanceStateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/queue/{id} [put]
func (h *FinanceHandler) UpdateQueueFinance(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid queue item ID")
		return
	}

	req, approver, ok := h.bindFinanceRequest(c)
	if !ok {
		return
	}

	state, err := h.financeService.UpdateQueueFinance(c.Request.Context(), itemID, financeapp.UpdateFinanceRequest{
		Status:            queue.FinanceStatus(req.Status),
		ApprovedBy:        approver,
		Notes:             req.Notes,
		InstallmentPlanID: parseOptionalUUID(req.InstallmentPlanID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// UpdateClaimFinance godoc
// @ID           updateClaimFinanceStatus
// @Summary      Update the finance status of a claim
// @Description  Record the finance team's verdict on a claimed sale and keep the claim's snapshot in sync
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body UpdateFinanceStatusRequest true "Finance verdict"
// @Success      200 {object} APIResponse[financeapp.FinanceStateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/claims/{id} [put]
func (h *FinanceHandler) UpdateClaimFinance(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID")
		return
	}

	req, approver, ok := h.bindFinanceRequest(c)
	if !ok {
		return
	}

	state, err := h.financeService.UpdateClaimFinance(c.Request.Context(), claimID, financeapp.UpdateFinanceRequest{
		Status:            queue.FinanceStatus(req.Status),
		ApprovedBy:        approver,
		Notes:             req.Notes,
		InstallmentPlanID: parseOptionalUUID(req.InstallmentPlanID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// ListAwaitingReview godoc
// @ID           listClaimsAwaitingReview
// @Summary      List claims awaiting finance review
// @Tags         finance
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]queue.Claim]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/claims [get]
func (h *FinanceHandler) ListAwaitingReview(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	claims, err := h.financeService.ListClaimsAwaitingReview(c.Request.Context(), shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claims)
}

func (h *FinanceHandler) bindFinanceRequest(c *gin.Context) (UpdateFinanceStatusRequest, uuid.UUID, bool) {
	var req UpdateFinanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return req, uuid.Nil, false
	}

	approver, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Reviewer identity required")
		return req, uuid.Nil, false
	}

	return req, approver, true
}

// parseOptionalUUID parses a uuid string pointer already validated by binding
func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id := uuid.MustParse(*s)
	return &id
}
