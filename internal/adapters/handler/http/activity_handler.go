package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type ActivityHandler struct {
	svc   *services.ActivityService
	clock Clock
}

func NewActivityHandler(svc *services.ActivityService, clock Clock) *ActivityHandler {
	return &ActivityHandler{
		svc:   svc,
		clock: clock,
	}
}

type createActivityRequest struct {
	Datetime  string `json:"datetime"`
	Minutes   *int   `json:"minutes"`
	Intensity string `json:"intensity"`
}

type updateActivityRequest struct {
	Datetime  *string `json:"datetime"`
	Minutes   *int    `json:"minutes"`
	Intensity *string `json:"intensity"`
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	activities := router.Group("/activities")
	{
		activities.GET("", h.List)
		activities.POST("", h.Create)
		activities.PATCH("/:id", h.Update)
		activities.DELETE("/:id", h.Delete)
	}
}

func (h *ActivityHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Minutes == nil {
		badRequest(c, errors.New("minutes is required"))
		return
	}

	at, err := resolveTime(req.Datetime, h.clock)
	if err != nil {
		handleError(c, err)
		return
	}

	rec, err := domain.NewActivityRecord(userID, at, *req.Minutes, req.Intensity)
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

// List accepts ?sortBy=duration for longest first; default is newest first.
// ?from=&to= narrows the result to a time range.
func (h *ActivityHandler) List(c *gin.Context) {
	var order func(a, b *domain.ActivityRecord) int
	switch c.Query("sortBy") {
	case "":
	case "duration":
		order = services.ByDurationDesc
	default:
		badRequest(c, errors.New("invalid sortBy (supported: duration)"))
		return
	}

	listRecords(c, h.svc, h.clock, order)
}

func (h *ActivityHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	at, err := optionalTime(req.Datetime, h.clock)
	if err != nil {
		handleError(c, err)
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), c.Param("id"), userID, func(r *domain.ActivityRecord) error {
		return r.Patch(at, req.Minutes, req.Intensity)
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *ActivityHandler) Delete(c *gin.Context) {
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
