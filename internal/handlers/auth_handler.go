package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
)

// AuthHandler handles admin authentication requests
type AuthHandler struct {
	auth       *services.AuthService
	production bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{auth: auth, production: production}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.auth.Login(&req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}
