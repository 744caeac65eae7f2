package handlers

import (
	"errors"

	"a-panel/internal/logger"
	"a-panel/internal/models"
	"a-panel/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
	log          *logger.Logger
}

func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		log:          log,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
	UserID       uint   `json:"userId" binding:"required"`
}

// Login handles POST /api/login. Both unknown-username and wrong-password
// failures produce the identical 401 body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Username and password are required"})
		return
	}

	user, err := h.authService.Login(req.Username, req.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTooManyAttempts):
			c.JSON(429, gin.H{"success": false, "message": "Too many failed login attempts. Please try again later."})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(401, gin.H{"success": false, "message": "Invalid username or password"})
		default:
			h.log.Err(err).Str("username", req.Username).Msg("login failed on storage")
			c.JSON(500, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	token, err := h.tokenService.GenerateAccessToken(user)
	if err != nil {
		h.log.Err(err).Msg("failed to sign access token")
		c.JSON(500, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	refreshToken, err := h.tokenService.GenerateRefreshToken(user)
	if err != nil {
		h.log.Err(err).Msg("failed to sign refresh token")
		c.JSON(500, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	user.PasswordHash = ""
	c.JSON(200, gin.H{
		"success":      true,
		"token":        token,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// RefreshToken handles POST /api/refresh-token. It re-derives the refresh
// signing key from the user's current password hash, so tokens issued
// before a password change no longer verify. Every failure collapses to
// the same 401 body; which step failed is not disclosed.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Refresh token and user ID are required"})
		return
	}

	var user models.User
	if err := models.DB.First(&user, req.UserID).Error; err != nil {
		c.JSON(401, gin.H{"success": false, "message": "Invalid or expired refresh token"})
		return
	}

	if _, err := h.tokenService.VerifyRefreshToken(req.RefreshToken, user.PasswordHash); err != nil {
		c.JSON(401, gin.H{"success": false, "message": "Invalid or expired refresh token"})
		return
	}

	token, err := h.tokenService.GenerateAccessToken(&user)
	if err != nil {
		h.log.Err(err).Msg("failed to sign access token")
		c.JSON(500, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(200, gin.H{"success": true, "token": token})
}

// GetLoginLogs handles GET /api/login-logs (admin only): the most recent
// login attempts, newest first.
func (h *AuthHandler) GetLoginLogs(c *gin.Context) {
	logs, err := h.authService.RecentLoginLogs(100)
	if err != nil {
		h.log.Err(err).Msg("failed to load login logs")
		c.JSON(500, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(200, gin.H{"success": true, "logs": logs})
}
