package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type WaterHandler struct {
	svc     *services.WaterService
	summary *services.SummaryService
}

func NewWaterHandler(svc *services.WaterService, summary *services.SummaryService) *WaterHandler {
	return &WaterHandler{
		svc:     svc,
		summary: summary,
	}
}

type createWaterRequest struct {
	Datetime string `json:"datetime"`
	AmountMl *int   `json:"amountMl"`
}

type updateWaterRequest struct {
	Datetime *string `json:"datetime"`
	AmountMl *int    `json:"amountMl"`
}

func (h *WaterHandler) RegisterRoutes(router *gin.RouterGroup) {
	waters := router.Group("/waters")
	{
		waters.GET("", h.List)
		waters.POST("", h.Create)
		waters.GET("/weekly-average", h.WeeklyAverage)
		waters.GET("/enough", h.Enough)
		waters.PATCH("/:id", h.Update)
		waters.DELETE("/:id", h.Delete)
	}
}

func (h *WaterHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createWaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.AmountMl == nil {
		badRequest(c, errors.New("amountMl is required"))
		return
	}

	at, err := resolveTime(req.Datetime, h.summary)
	if err != nil {
		handleError(c, err)
		return
	}

	rec, err := domain.NewWaterRecord(userID, at, *req.AmountMl)
	if err != nil {
		handleError(c, err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), rec)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *WaterHandler) List(c *gin.Context) {
	listRecords(c, h.svc, h.summary, nil)
}

func (h *WaterHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateWaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	at, err := optionalTime(req.Datetime, h.summary)
	if err != nil {
		handleError(c, err)
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), c.Param("id"), userID, func(r *domain.WaterRecord) error {
		return r.Patch(at, req.AmountMl)
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *WaterHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WaterHandler) WeeklyAverage(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	avg, err := h.summary.WeeklyAverageWater(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"average": avg, "unit": "ml"})
}

// Enough compares the weekly average with ?goal=, or the configured goal.
func (h *WaterHandler) Enough(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	goal, err := floatQuery(c, "goal")
	if err != nil {
		badRequest(c, err)
		return
	}

	enough, err := h.summary.IsWaterEnough(c.Request.Context(), userID, goal)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enough": enough})
}

// floatQuery returns 0 when the parameter is absent.
func floatQuery(c *gin.Context, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return v, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
