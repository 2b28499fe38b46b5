package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/winroom/backend/internal/application/ledger"
	"github.com/winroom/backend/internal/domain/ledger"
)

// LedgerHandler handles sale metrics, adjustment and refund API endpoints
type LedgerHandler struct {
	BaseHandler
	metricsService    *ledgerapp.MetricsService
	adjustmentService *ledgerapp.AdjustmentService
	refundService     *ledgerapp.RefundService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(
	metricsService *ledgerapp.MetricsService,
	adjustmentService *ledgerapp.AdjustmentService,
	refundService *ledgerapp.RefundService,
) *LedgerHandler {
	return &LedgerHandler{
		metricsService:    metricsService,
		adjustmentService: adjustmentService,
		refundService:     refundService,
	}
}

// EditMetricsRequest represents a manual correction of a sale's figures
// @Description Request body for manually editing sale metrics
type EditMetricsRequest struct {
	RevenueUSD float64 `json:"revenue_usd" binding:"required,gt=0" example:"1499.00"`
	CostUSD    float64 `json:"cost_usd" binding:"gte=0" example:"210.00"`
	SubsAmount float64 `json:"subs_amount" binding:"gte=0" example:"99.00"`
	Currency   string  `json:"currency" binding:"required,len=3" example:"USD"`
	Channel    string  `json:"channel" example:"stripe"`
	Campaign   string  `json:"campaign" example:"spring-webinar"`
}

// AddAdjustmentRequest represents an extra cost booked against a claim
// @Description Request body for adding a margin adjustment
type AddAdjustmentRequest struct {
	AdditionalCostUSD float64 `json:"additional_cost_usd" binding:"required,gt=0" example:"120.00"`
	Reason            string  `json:"reason" binding:"required,oneof=COMMISSION PARTIAL_REFUND CHARGEBACK OTHER" example:"COMMISSION"`
	Notes             string  `json:"notes" binding:"max=500" example:"partner referral fee"`
}

// ApplyRefundRequest represents a refund against a sale
// @Description Request body for applying a full or partial refund
type ApplyRefundRequest struct {
	SaleID     string   `json:"sale_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	RefundType string   `json:"refund_type" binding:"required,oneof=PARTIAL FULL" example:"PARTIAL"`
	AmountUSD  *float64 `json:"amount_usd" binding:"omitempty,gt=0" example:"250.00"`
	Reason     string   `json:"reason" binding:"required,min=1,max=500" example:"customer cancelled within guarantee window"`
}

// EditMetrics godoc
// @ID           editSaleMetrics
// @Summary      Manually edit a sale's metrics
// @Description  Correct the revenue, cost and subscription figures recorded for a queue item
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id path string true "Queue Item ID" format(uuid)
// @Param        request body EditMetricsRequest true "Corrected figures"
// @Success      200 {object} APIResponse[ledgerapp.SaleMetricsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /queue/{id}/metrics [put]
func (h *LedgerHandler) EditMetrics(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid queue item ID")
		return
	}

	var req EditMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	metrics, err := h.metricsService.ManualEdit(c.Request.Context(), ledgerapp.ManualEditMetricsRequest{
		QueueItemID: itemID,
		RevenueUSD:  toDecimal(req.RevenueUSD),
		CostUSD:     toDecimal(req.CostUSD),
		SubsAmount:  toDecimal(req.SubsAmount),
		Currency:    req.Currency,
		Channel:     req.Channel,
		Campaign:    req.Campaign,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, metrics)
}

// GetMetrics godoc
// @ID           getSaleMetrics
// @Summary      Get the metrics for a sale
// @Tags         ledger
// @Produce      json
// @Param        sale_id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.SaleMetricsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /metrics/sales/{sale_id} [get]
func (h *LedgerHandler) GetMetrics(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("sale_id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	metrics, err := h.metricsService.GetBySaleID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, metrics)
}

// AddAdjustment godoc
// @ID           addClaimAdjustment
// @Summary      Add a margin adjustment to a claim
// @Description  Book an additional cost against a claim. The running total can never push the adjusted margin below zero.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body AddAdjustmentRequest true "Adjustment"
// @Success      201 {object} APIResponse[ledgerapp.AdjustmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /claims/{id}/adjustments [post]
func (h *LedgerHandler) AddAdjustment(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID")
		return
	}

	var req AddAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	adjustment, err := h.adjustmentService.AddAdjustment(c.Request.Context(), ledgerapp.AddAdjustmentRequest{
		ClaimID:           claimID,
		AdditionalCostUSD: toDecimal(req.AdditionalCostUSD),
		Reason:            ledger.AdjustmentReason(req.Reason),
		Notes:             req.Notes,
		Actor:             actor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, adjustment)
}

// ListAdjustments godoc
// @ID           listClaimAdjustments
// @Summary      List the adjustments booked against a claim
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} APIResponse[[]ledgerapp.AdjustmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /claims/{id}/adjustments [get]
func (h *LedgerHandler) ListAdjustments(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID")
		return
	}

	adjustments, err := h.adjustmentService.ListByClaim(c.Request.Context(), claimID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustments)
}

// ClearAdjustments godoc
// @ID           clearClaimAdjustments
// @Summary      Remove all adjustments from a claim
// @Description  Clear every adjustment booked against a claim, restoring its original margin
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /claims/{id}/adjustments [delete]
func (h *LedgerHandler) ClearAdjustments(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID")
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	if err := h.adjustmentService.RemoveAllAdjustments(c.Request.Context(), claimID, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetAdjustedMetrics godoc
// @ID           getClaimAdjustedMetrics
// @Summary      Get the adjusted metrics for a claim
// @Description  Returns the claim's figures after applying every booked adjustment
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.AdjustedMetricsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /claims/{id}/adjusted-metrics [get]
func (h *LedgerHandler) GetAdjustedMetrics(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID")
		return
	}

	metrics, err := h.adjustmentService.GetAdjustedMetrics(c.Request.Context(), claimID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, metrics)
}

// ApplyRefund godoc
// @ID           applyRefund
// @Summary      Apply a refund to a sale
// @Description  Record a partial or full refund. Full refunds zero the sale out and drop it from reporting.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body ApplyRefundRequest true "Refund"
// @Success      200 {object} APIResponse[ledgerapp.RefundResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /refunds [post]
func (h *LedgerHandler) ApplyRefund(c *gin.Context) {
	var req ApplyRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	refundReq := ledgerapp.ApplyRefundRequest{
		SaleID:     uuid.MustParse(req.SaleID),
		RefundType: ledger.RefundType(req.RefundType),
		Reason:     req.Reason,
		Actor:      actor,
	}
	if req.AmountUSD != nil {
		refundReq.AmountUSD = toDecimalPtr(*req.AmountUSD)
	}

	result, err := h.refundService.ApplyRefund(c.Request.Context(), refundReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
