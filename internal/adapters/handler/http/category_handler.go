package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type CategoryHandler struct {
	svc     *services.CategoryService
	summary *services.SummaryService
}

func NewCategoryHandler(svc *services.CategoryService, summary *services.SummaryService) *CategoryHandler {
	return &CategoryHandler{
		svc:     svc,
		summary: summary,
	}
}

// The web client sends "categoryName".
type createCategoryRequest struct {
	Name         string `json:"name"`
	CategoryName string `json:"categoryName"`
}

type createItemRequest struct {
	Datetime string `json:"datetime"`
	Note     string `json:"note"`
}

type updateItemRequest struct {
	Datetime *string `json:"datetime"`
	Note     *string `json:"note"`
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.List)
		categories.POST("", h.Create)
		categories.DELETE("/:id", h.Delete)
		categories.GET("/:id/weekly", h.Weekly)

		categories.GET("/:id/items", h.ListItems)
		categories.POST("/:id/items", h.AddItem)
		categories.PATCH("/:id/items/:itemId", h.UpdateItem)
		categories.DELETE("/:id/items/:itemId", h.DeleteItem)
	}

	// Paths used by the web client.
	legacy := router.Group("/category")
	{
		legacy.GET("/list", h.List)
		legacy.POST("/create", h.Create)
		legacy.DELETE("/:id", h.Delete)

		legacy.GET("/:id/list", h.ListItems)
		legacy.POST("/:id/add", h.AddItem)
		legacy.PATCH("/:id/:itemId", h.UpdateItem)
		legacy.DELETE("/:id/:itemId", h.DeleteItem)
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, orEmpty(list))
}

// Create godoc
// @Summary  Create a custom tracking category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body createCategoryRequest true "category name"
// @Success  201 {object} domain.Category
// @Failure  400 {object} map[string]string
// @Failure  409 {object} map[string]string
// @Router   /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	name := req.Name
	if name == "" {
		name = req.CategoryName
	}

	category, err := h.svc.Create(c.Request.Context(), userID, name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
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

func (h *CategoryHandler) Weekly(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	ref, err := refDate(c.Query("ref"), h.summary)
	if err != nil {
		handleError(c, err)
		return
	}

	summary, err := h.summary.CategoryWeekly(c.Request.Context(), userID, c.Param("id"), ref)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CategoryHandler) ListItems(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	items, err := h.svc.ListItems(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, orEmpty(items))
}

func (h *CategoryHandler) AddItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	at, err := resolveTime(req.Datetime, h.summary)
	if err != nil {
		handleError(c, err)
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), c.Param("id"), userID, at, req.Note)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *CategoryHandler) UpdateItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Datetime == nil && req.Note == nil {
		badRequest(c, errors.New("nothing to update"))
		return
	}

	at, err := optionalTime(req.Datetime, h.summary)
	if err != nil {
		handleError(c, err)
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), userID, at, req.Note)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *CategoryHandler) DeleteItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
