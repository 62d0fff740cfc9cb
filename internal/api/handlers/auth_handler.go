package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pranay9392/meity-audit-v2/internal/api/middleware"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
	"github.com/Pranay9392/meity-audit-v2/internal/services"
)

// AuthHandler exposes account registration and session management.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email"`
	Password     string `json:"password" binding:"required"`
	Role         string `json:"role" binding:"required"`
	Organization string `json:"organization"`
}

// Register creates a new account. The role is fixed at registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.auth.Register(req.Username, req.Email, req.Password, models.Role(req.Role), req.Organization)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials, sets the session cookie and returns the token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName(), token, 24*60*60, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout clears the session cookie. Tokens themselves expire on their own.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName(), "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, user)
}
