package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type updateProfileRequest struct {
	Age      *int     `json:"age"`
	WeightKg *float64 `json:"weightKg"`
	HeightM  *float64 `json:"heightM"`
	Gender   *string  `json:"gender"`
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		user.GET("/profile", h.GetProfile)
		user.PATCH("/profile", h.UpdateProfile)
		user.GET("/bmi", h.GetBMI)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), userID, domain.ProfileInput{
		Age:      req.Age,
		WeightKg: req.WeightKg,
		HeightM:  req.HeightM,
		Gender:   req.Gender,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetBMI(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	bmi, err := h.svc.GetBMI(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bmi": bmi})
}
