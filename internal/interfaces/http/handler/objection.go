package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	objectionapp "github.com/winroom/backend/internal/application/objection"
	"github.com/winroom/backend/internal/domain/objection"
	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/interfaces/http/dto"
)

// ObjectionHandler handles ownership objection API endpoints
type ObjectionHandler struct {
	BaseHandler
	objectionService *objectionapp.ObjectionService
}

// NewObjectionHandler creates a new ObjectionHandler
func NewObjectionHandler(objectionService *objectionapp.ObjectionService) *ObjectionHandler {
	return &ObjectionHandler{
		objectionService: objectionService,
	}
}

// RaiseObjectionRequest represents a seller disputing a claimed sale
// @Description Request body for raising an objection against a claim
type RaiseObjectionRequest struct {
	SaleID  string `json:"sale_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Reason  string `json:"reason" binding:"required,oneof=WRONG_OWNER DUPLICATE REFUND OTHER" example:"WRONG_OWNER"`
	Details string `json:"details" binding:"max=1000" example:"I ran the demo call and the follow-up sequence for this customer"`
}

// ResolveObjectionRequest represents an admin's verdict on an objection
// @Description Request body for resolving an objection
type ResolveObjectionRequest struct {
	Status     string  `json:"status" binding:"required,oneof=ACCEPTED REJECTED" example:"ACCEPTED"`
	AdminNote  string  `json:"admin_note" binding:"max=1000" example:"call recording confirms the objector closed this"`
	Action     *string `json:"action" binding:"omitempty,oneof=REASSIGN EXCLUDE REFUND" example:"REASSIGN"`
	ReassignTo *string `json:"reassign_to" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
}

// Raise godoc
// @ID           raiseObjection
// @Summary      Raise an objection
// @Description  Dispute the ownership of a claimed sale. The claim stays active until the objection is resolved.
// @Tags         objections
// @Accept       json
// @Produce      json
// @Param        request body RaiseObjectionRequest true "Objection"
// @Success      201 {object} APIResponse[objectionapp.ObjectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /objections [post]
func (h *ObjectionHandler) Raise(c *gin.Context) {
	var req RaiseObjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	raisedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Seller identity required")
		return
	}

	result, err := h.objectionService.Raise(c.Request.Context(), objectionapp.RaiseObjectionRequest{
		SaleID:   uuid.MustParse(req.SaleID),
		RaisedBy: raisedBy,
		Reason:   objection.ObjectionReason(req.Reason),
		Details:  req.Details,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Resolve godoc
// @ID           resolveObjection
// @Summary      Resolve an objection
// @Description  Accept or reject an objection. Accepting may reassign the sale, exclude it, or trigger a refund.
// @Tags         objections
// @Accept       json
// @Produce      json
// @Param        id path string true "Objection ID" format(uuid)
// @Param        request body ResolveObjectionRequest true "Resolution"
// @Success      200 {object} APIResponse[objectionapp.ObjectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /objections/{id}/resolve [post]
func (h *ObjectionHandler) Resolve(c *gin.Context) {
	objectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid objection ID")
		return
	}

	var req ResolveObjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resolvedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Resolver identity required")
		return
	}

	resolveReq := objectionapp.ResolveObjectionRequest{
		ObjectionID: objectionID,
		Status:      objection.ObjectionStatus(req.Status),
		ResolvedBy:  resolvedBy,
		AdminNote:   req.AdminNote,
		ReassignTo:  parseOptionalUUID(req.ReassignTo),
	}
	if req.Action != nil {
		action := objection.ResolutionAction(*req.Action)
		resolveReq.Action = &action
	}

	result, err := h.objectionService.Resolve(c.Request.Context(), resolveReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID godoc
// @ID           getObjection
// @Summary      Get an objection by ID
// @Tags         objections
// @Produce      json
// @Param        id path string true "Objection ID" format(uuid)
// @Success      200 {object} APIResponse[objectionapp.ObjectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /objections/{id} [get]
func (h *ObjectionHandler) GetByID(c *gin.Context) {
	objectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid objection ID")
		return
	}

	result, err := h.objectionService.GetByID(c.Request.Context(), objectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListPending godoc
// @ID           listPendingObjections
// @Summary      List pending objections
// @Tags         objections
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]objectionapp.ObjectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /objections [get]
func (h *ObjectionHandler) ListPending(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	objections, err := h.objectionService.ListPending(c.Request.Context(), shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, objections)
}
