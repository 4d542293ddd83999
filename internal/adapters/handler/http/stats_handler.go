package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type StatsHandler struct {
	svc *services.SummaryService
}

func NewStatsHandler(svc *services.SummaryService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/weekly", h.GetWeekly)
	r.GET("/stats/overview", h.GetOverview)
}

// GetWeekly godoc
// @Summary  Monday-first weekly profile of one metric
// @Tags     stats
// @Produce  json
// @Security BearerAuth
// @Param    metric query string true  "water, sleep or activity"
// @Param    ref    query string false "any date inside the wanted week (YYYY-MM-DD)"
// @Success  200 {object} services.WeeklySummary
// @Failure  400 {object} map[string]string
// @Router   /stats/weekly [get]
func (h *StatsHandler) GetWeekly(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	ref, err := refDate(c.Query("ref"), h.svc)
	if err != nil {
		handleError(c, err)
		return
	}

	summary, err := h.svc.Weekly(c.Request.Context(), userID, c.Query("metric"), ref)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetOverview godoc
// @Summary  Today's dashboard
// @Tags     stats
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} services.Overview
// @Router   /stats/overview [get]
func (h *StatsHandler) GetOverview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// refDate leaves ref zero when absent so the service picks the current week.
func refDate(raw string, clock Clock) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return resolveTime(raw, clock)
}
