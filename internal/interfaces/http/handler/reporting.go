package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	reportingapp "github.com/winroom/backend/internal/application/reporting"
)

// ReportingHandler handles leaderboard and overview API endpoints
type ReportingHandler struct {
	BaseHandler
	statsService *reportingapp.StatsService
}

// NewReportingHandler creates a new ReportingHandler
func NewReportingHandler(statsService *reportingapp.StatsService) *ReportingHandler {
	return &ReportingHandler{
		statsService: statsService,
	}
}

// SellerStats godoc
// @ID           getSellerStats
// @Summary      Get per-seller attribution stats
// @Description  Leaderboard of attribution shares, sale counts and adjusted margin over a date range. Refunded sales are excluded.
// @Tags         reporting
// @Produce      json
// @Param        from query string true "Range start (RFC 3339)" example(2026-02-01T00:00:00Z)
// @Param        to query string true "Range end (RFC 3339)" example(2026-03-01T00:00:00Z)
// @Success      200 {object} APIResponse[[]reportingapp.SellerStatsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sellers [get]
func (h *ReportingHandler) SellerStats(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		h.BadRequest(c, "from must be an RFC 3339 timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		h.BadRequest(c, "to must be an RFC 3339 timestamp")
		return
	}
	if !to.After(from) {
		h.BadRequest(c, "to must be after from")
		return
	}

	stats, err := h.statsService.SellerStats(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Overview godoc
// @ID           getReportingOverview
// @Summary      Get the operational overview
// @Description  Queue item counts by state plus the number of unresolved objections
// @Tags         reporting
// @Produce      json
// @Success      200 {object} APIResponse[reportingapp.OverviewResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/overview [get]
func (h *ReportingHandler) Overview(c *gin.Context) {
	overview, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, overview)
}
