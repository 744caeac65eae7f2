package handlers

import (
	"errors"

	"a-panel/internal/logger"
	"a-panel/internal/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userService *services.UserService
	log         *logger.Logger
}

func NewProfileHandler(userService *services.UserService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		log:         log,
	}
}

type UpdateProfileRequest struct {
	Email    string `json:"email" binding:"required"`
	Fullname string `json:"fullname"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// GetProfile handles GET /api/profile for the authenticated user.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
			return
		}
		h.log.Err(err).Uint("user_id", userID).Msg("failed to load profile")
		c.JSON(500, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(200, gin.H{"success": true, "user": user})
}

// UpdateProfile handles PUT /api/profile. All profile fields are
// overwritten; omitted optional fields are cleared.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Email is required"})
		return
	}

	userID := c.GetUint("user_id")
	update := services.ProfileUpdate{
		Email:    req.Email,
		Fullname: req.Fullname,
		Position: req.Position,
		Phone:    req.Phone,
		Bio:      req.Bio,
	}

	if err := h.userService.UpdateProfile(userID, update); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
			return
		}
		h.log.Err(err).Uint("user_id", userID).Msg("failed to update profile")
		c.JSON(500, gin.H{"success": false, "message": "Error updating profile information"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Profile updated successfully"})
}

// ChangePassword handles PUT /api/change-password. The stored hash is left
// untouched unless the current password verifies and the new one passes
// validation.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Current and new passwords are required"})
		return
	}

	if len(req.NewPassword) < 6 {
		c.JSON(400, gin.H{"success": false, "message": "New password must be at least 6 characters long"})
		return
	}

	userID := c.GetUint("user_id")
	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			c.JSON(401, gin.H{"success": false, "message": "Current password is incorrect"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
		default:
			h.log.Err(err).Uint("user_id", userID).Msg("failed to change password")
			c.JSON(500, gin.H{"success": false, "message": "Error updating password"})
		}
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Password changed successfully"})
}
