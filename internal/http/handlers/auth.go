package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/platefeed/platefeed-backend/internal/http/response"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	handlerLogger := log.With("handler", "AuthHandler")
	return &AuthHandler{log: handlerLogger, authService: authService}
}

// POST /api/auth/token/login/
// body: { "email": "...", "password": "..." }
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, ah.log, apierr.BusinessRule(malformedBodyMessage))
		return
	}
	token, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, ah.log, err)
		return
	}
	response.OK(c, gin.H{"auth_token": token})
}

// POST /api/auth/token/logout/
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.Fail(c, ah.log, err)
		return
	}
	response.NoContent(c)
}
