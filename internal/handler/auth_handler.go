package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/PNHMEDIA/faktury-app-v2/internal/middleware"
	"github.com/PNHMEDIA/faktury-app-v2/internal/model"
	"github.com/PNHMEDIA/faktury-app-v2/internal/service"
)

// AuthHandler handles login and logout for the single shared account
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/v1/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// Login handles the POST /v1/auth/login endpoint
// @Summary Log in
// @Description Check the shared password and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body model.LoginRequest true "Login password"
// @Success 200 {object} model.LoginResponse "Session started"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 401 {object} model.ErrorResponse "Wrong password"
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	token, expiresIn, err := h.authService.Login(req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondUnauthorized(c, "Wrong password")
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	c.SetCookie(middleware.SessionCookieName, token, int(expiresIn), "/", "", false, true)
	respondOK(c, model.LoginResponse{Token: token, ExpiresIn: expiresIn})
}

// Logout handles the POST /v1/auth/logout endpoint
// @Summary Log out
// @Description Drop the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	respondOK(c, gin.H{"message": "Logged out"})
}
