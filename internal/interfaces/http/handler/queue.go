package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	queueapp "github.com/winroom/backend/internal/application/queue"
	"github.com/winroom/backend/internal/domain/queue"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/interfaces/http/dto"
)

// QueueHandler handles claim queue API endpoints
type QueueHandler struct {
	BaseHandler
	queueService *queueapp.QueueService
	claimService *queueapp.ClaimService
}

// NewQueueHandler creates a new QueueHandler
func NewQueueHandler(queueService *queueapp.QueueService, claimService *queueapp.ClaimService) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
		claimService: claimService,
	}
}

// ManualEnqueueRequest represents a request to add a sale to the queue by hand
// @Description Request body for manually queueing a sale
type ManualEnqueueRequest struct {
	SaleID            string  `json:"sale_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CustomerName      string  `json:"customer_name" binding:"required,min=1,max=200" example:"Jane Archer"`
	CustomerEmail     string  `json:"customer_email" binding:"omitempty,email" example:"jane@example.com"`
	Campaign          string  `json:"campaign" example:"spring-webinar"`
	Channel           string  `json:"channel" example:"stripe"`
	Amount            float64 `json:"amount" binding:"required,gt=0" example:"1499.00"`
	Currency          string  `json:"currency" binding:"required,len=3" example:"USD"`
	OccurredAt        string  `json:"occurred_at" binding:"required" example:"2026-02-01T09:30:00Z"`
	ExternalPaymentID string  `json:"external_payment_id" example:"pi_3OaXb2"`
	ExternalInvoiceID string  `json:"external_invoice_id" example:"in_1NpQr7"`
	RevenueUSD        float64 `json:"revenue_usd" binding:"required,gt=0" example:"1499.00"`
	CostUSD           float64 `json:"cost_usd" binding:"gte=0" example:"210.00"`
}

// ClaimSaleRequest represents a seller's claim on a queued sale
// @Description Request body for claiming a sale from the queue
type ClaimSaleRequest struct {
	SaleID            string  `json:"sale_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	ClaimType         string  `json:"claim_type" binding:"required,oneof=FIRST_SALES REMARKETING UPGRADE INSTALLMENT" example:"FIRST_SALES"`
	AttributionSource string  `json:"attribution_source" example:"webinar follow-up call"`
	InstallmentPlanID *string `json:"installment_plan_id" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440003"`
}

// ExcludeItemRequest represents a request to exclude a queue item
// @Description Request body for excluding a queue item from claiming
type ExcludeItemRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"test purchase by staff"`
}

// ManualEnqueue godoc
// @ID           manualEnqueueQueue
// @Summary      Manually queue a sale
// @Description  Add a sale to the claim queue by hand, e.g. for payments that arrived outside the webhook flow
// @Tags         queue
// @Accept       json
// @Produce      json
// @Param        request body ManualEnqueueRequest true "Sale to queue"
// @Success      201 {object} APIResponse[queueapp.QueueItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /queue [post]
func (h *QueueHandler) ManualEnqueue(c *gin.Context) {
	var req ManualEnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	occurredAt, err := time.Parse(time.RFC3339, req.OccurredAt)
	if err != nil {
		h.BadRequest(c, "occurred_at must be an RFC 3339 timestamp")
		return
	}

	item, err := h.queueService.ManualEnqueue(c.Request.Context(), queueapp.ManualEnqueueRequest{
		SaleID:            uuid.MustParse(req.SaleID),
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		Campaign:          req.Campaign,
		Channel:           req.Channel,
		Amount:            toDecimal(req.Amount),
		Currency:          req.Currency,
		OccurredAt:        occurredAt,
		ExternalPaymentID: req.ExternalPaymentID,
		ExternalInvoiceID: req.ExternalInvoiceID,
		RevenueUSD:        toDecimal(req.RevenueUSD),
		CostUSD:           toDecimal(req.CostUSD),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// ListPending godoc
// @ID           listPendingQueue
// @Summary      List pending queue items
// @Description  Get the claimable sales ordered by arrival
// @Tags         queue
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]queueapp.QueueItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /queue [get]
func (h *QueueHandler) ListPending(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	items, err := h.queueService.ListPending(c.Request.Context(), shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// GetBySaleID godoc
// @ID           getQueueItemBySaleID
// @Summary      Get a queue item by sale ID
// @Tags         queue
// @Produce      json
// @Param        sale_id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[queueapp.QueueItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /queue/sales/{sale_id} [get]
func (h *QueueHandler) GetBySaleID(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("sale_id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	item, err := h.queueService.GetBySaleID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Claim godoc
// @ID           claimSale
// @Summary      Claim a queued sale
// @Description  Claim a pending sale for the authenticated seller. A sale can be claimed at most once.
// @Tags         queue
// @Accept       json
// @Produce      json
// @Param        request body ClaimSaleRequest true "Claim details"
// @Success      201 {object} APIResponse[queueapp.ClaimResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /claims [post]
func (h *QueueHandler) Claim(c *gin.Context) {
	var req ClaimSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Seller identity required")
		return
	}

	claimReq := queueapp.ClaimRequest{
		SaleID:            uuid.MustParse(req.SaleID),
		SellerID:          sellerID,
		ClaimType:         queue.ClaimType(req.ClaimType),
		AttributionSource: req.AttributionSource,
	}
	if req.InstallmentPlanID != nil {
		planID, err := uuid.Parse(*req.InstallmentPlanID)
		if err != nil {
			h.BadRequest(c, "Invalid installment plan ID")
			return
		}
		claimReq.InstallmentPlanID = &planID
	}

	claim, err := h.claimService.Claim(c.Request.Context(), claimReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, claim)
}

// GetClaim godoc
// @ID           getClaimBySaleID
// @Summary      Get the claim for a sale
// @Tags         queue
// @Produce      json
// @Param        sale_id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[queueapp.ClaimDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /claims/sales/{sale_id} [get]
func (h *QueueHandler) GetClaim(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("sale_id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	claim, err := h.queueService.GetClaim(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claim)
}

// ListMyClaims godoc
// @ID           listMyClaims
// @Summary      List the authenticated seller's claims
// @Tags         queue
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]queueapp.ClaimDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /claims/mine [get]
func (h *QueueHandler) ListMyClaims(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Seller identity required")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	claims, err := h.queueService.ListClaimsBySeller(c.Request.Context(), sellerID, shared.Filter{
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

// Exclude godoc
// @ID           excludeQueueItem
// @Summary      Exclude a queue item
// @Description  Remove a pending item from the claimable pool, e.g. test or duplicate purchases
// @Tags         queue
// @Accept       json
// @Produce      json
// @Param        id path string true "Queue Item ID" format(uuid)
// @Param        request body ExcludeItemRequest true "Exclusion reason"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /queue/{id}/exclude [post]
func (h *QueueHandler) Exclude(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid queue item ID")
		return
	}

	var req ExcludeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	if err := h.queueService.Exclude(c.Request.Context(), queueapp.ExcludeRequest{
		QueueItemID: itemID,
		Reason:      req.Reason,
		Actor:       actor,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Restore godoc
// @ID           restoreQueueItem
// @Summary      Restore an excluded queue item
// @Description  Put an excluded sale back into the claimable pool
// @Tags         queue
// @Produce      json
// @Param        sale_id path string true "Sale ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /queue/sales/{sale_id}/restore [post]
func (h *QueueHandler) Restore(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("sale_id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.queueService.Restore(c.Request.Context(), saleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
