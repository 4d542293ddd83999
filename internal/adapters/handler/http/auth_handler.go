package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type AuthHandler struct {
	service *services.AuthService
	tokens  *services.TokenService
}

func NewAuthHandler(service *services.AuthService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
	}
}

// Older clients send "name" instead of "username".
type registerRequest struct {
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Password string   `json:"password" binding:"required"`
	Age      *int     `json:"age"`
	WeightKg *float64 `json:"weightKg"`
	HeightM  *float64 `json:"heightM"`
	Gender   *string  `json:"gender"`
}

type loginRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func pickUsername(username, name string) string {
	if strings.TrimSpace(username) != "" {
		return username
	}
	return name
}

// Register godoc
// @Summary  Create an account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body registerRequest true "credentials and optional profile"
// @Success  201 {object} authResponse
// @Failure  400 {object} map[string]string
// @Failure  409 {object} map[string]string
// @Router   /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	input := services.RegisterInput{
		Username: pickUsername(req.Username, req.Name),
		Password: req.Password,
		Profile: domain.ProfileInput{
			Age:      req.Age,
			WeightKg: req.WeightKg,
			HeightM:  req.HeightM,
			Gender:   req.Gender,
		},
	}

	user, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// Login godoc
// @Summary  Exchange credentials for a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "credentials"
// @Success  200 {object} authResponse
// @Failure  401 {object} map[string]string
// @Router   /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.service.Login(c.Request.Context(), pickUsername(req.Username, req.Name), req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *domain.User) {
	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		handleError(c, errors.Join(errors.New("token generation failed"), err))
		return
	}

	c.JSON(status, authResponse{Token: token, User: user})
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// Paths used by the web client.
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
}
