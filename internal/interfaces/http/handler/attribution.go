package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	attributionapp "github.com/winroom/backend/internal/application/attribution"
)

// AttributionHandler handles attribution share API endpoints
type AttributionHandler struct {
	BaseHandler
	attributionService *attributionapp.AttributionService
}

// NewAttributionHandler creates a new AttributionHandler
func NewAttributionHandler(attributionService *attributionapp.AttributionService) *AttributionHandler {
	return &AttributionHandler{
		attributionService: attributionService,
	}
}

// SplitAttributionRequest represents a request to split credit for a claim
// @Description Request body for splitting attribution between closer and assist
type SplitAttributionRequest struct {
	ClaimID          string  `json:"claim_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CloserSellerID   string  `json:"closer_seller_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	CloserShare      float64 `json:"closer_share" binding:"required,gt=0,lte=1" example:"0.7"`
	AssistedSellerID *string `json:"assisted_seller_id" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	AssistedShare    float64 `json:"assisted_share" binding:"gte=0,lt=1" example:"0.3"`
}

// ReassignAttributionRequest represents a request to hand a sale to a new closer
// @Description Request body for reassigning a sale's attribution
type ReassignAttributionRequest struct {
	SaleID      string `json:"sale_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	NewSellerID string `json:"new_seller_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
}

// Split godoc
// @ID           splitAttribution
// @Summary      Split attribution for a claim
// @Description  Divide credit for a claimed sale between the closer and an assisting seller. Shares must sum to 1.
// @Tags         attribution
// @Accept       json
// @Produce      json
// @Param        request body SplitAttributionRequest true "Share split"
// @Success      200 {object} APIResponse[attributionapp.AttributionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attributions/split [post]
func (h *AttributionHandler) Split(c *gin.Context) {
	var req SplitAttributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	splitReq := attributionapp.SplitRequest{
		ClaimID:        uuid.MustParse(req.ClaimID),
		CloserSellerID: uuid.MustParse(req.CloserSellerID),
		CloserShare:    toDecimal(req.CloserShare),
		AssistedShare:  toDecimal(req.AssistedShare),
	}
	if req.AssistedSellerID != nil {
		assistedID := uuid.MustParse(*req.AssistedSellerID)
		splitReq.AssistedSellerID = &assistedID
	}

	result, err := h.attributionService.Split(c.Request.Context(), splitReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reassign godoc
// @ID           reassignAttribution
// @Summary      Reassign a sale to a new closer
// @Description  Move full credit for a sale to a different seller, typically after a resolved objection
// @Tags         attribution
// @Accept       json
// @Produce      json
// @Param        request body ReassignAttributionRequest true "Reassignment"
// @Success      200 {object} APIResponse[attributionapp.AttributionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attributions/reassign [post]
func (h *AttributionHandler) Reassign(c *gin.Context) {
	var req ReassignAttributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	result, err := h.attributionService.Reassign(c.Request.Context(), attributionapp.ReassignRequest{
		SaleID:      uuid.MustParse(req.SaleID),
		NewSellerID: uuid.MustParse(req.NewSellerID),
		Actor:       actor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetBySaleID godoc
// @ID           getAttributionBySaleID
// @Summary      Get the attribution for a sale
// @Tags         attribution
// @Produce      json
// @Param        sale_id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[attributionapp.AttributionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attributions/sales/{sale_id} [get]
func (h *AttributionHandler) GetBySaleID(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("sale_id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	result, err := h.attributionService.GetBySaleID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
