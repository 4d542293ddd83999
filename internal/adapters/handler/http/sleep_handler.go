package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type SleepHandler struct {
	svc     *services.SleepService
	summary *services.SummaryService
}

func NewSleepHandler(svc *services.SleepService, summary *services.SummaryService) *SleepHandler {
	return &SleepHandler{
		svc:     svc,
		summary: summary,
	}
}

type createSleepRequest struct {
	Datetime string   `json:"datetime"`
	Hours    *float64 `json:"hours"`
}

type updateSleepRequest struct {
	Datetime *string  `json:"datetime"`
	Hours    *float64 `json:"hours"`
}

func (h *SleepHandler) RegisterRoutes(router *gin.RouterGroup) {
	sleeps := router.Group("/sleeps")
	{
		sleeps.GET("", h.List)
		sleeps.POST("", h.Create)
		sleeps.GET("/last", h.Last)
		sleeps.GET("/enough", h.Enough)
		sleeps.PATCH("/:id", h.Update)
		sleeps.DELETE("/:id", h.Delete)
	}
}

func (h *SleepHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Hours == nil {
		badRequest(c, errors.New("hours is required"))
		return
	}

	at, err := resolveTime(req.Datetime, h.summary)
	if err != nil {
		handleError(c, err)
		return
	}

	rec, err := domain.NewSleepRecord(userID, at, *req.Hours)
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

func (h *SleepHandler) List(c *gin.Context) {
	listRecords(c, h.svc, h.summary, nil)
}

func (h *SleepHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	at, err := optionalTime(req.Datetime, h.summary)
	if err != nil {
		handleError(c, err)
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), c.Param("id"), userID, func(r *domain.SleepRecord) error {
		return r.Patch(at, req.Hours)
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *SleepHandler) Delete(c *gin.Context) {
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

func (h *SleepHandler) Last(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	hours, err := h.summary.LastSleepHours(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hours": hours})
}

func (h *SleepHandler) Enough(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	minHours, err := floatQuery(c, "min")
	if err != nil {
		badRequest(c, err)
		return
	}

	enough, err := h.summary.IsSleepEnough(c.Request.Context(), userID, minHours)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enough": enough})
}
