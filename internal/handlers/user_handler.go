package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mannequins/backend/internal/apperr"
	"mannequins/backend/internal/auth"
	"mannequins/backend/internal/middleware"
	"mannequins/backend/internal/storage"
)

// UserHandler owns the self-service profile endpoints.
type UserHandler struct {
	store Store
}

func NewUserHandler(store Store) *UserHandler {
	return &UserHandler{store: store}
}

// Details returns the authenticated user's record.
func (h *UserHandler) Details(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type UserUpdatePayload struct {
	Username *string `json:"username"`
}

// UpdateDetails applies a partial profile update and returns the fresh
// record.
func (h *UserHandler) UpdateDetails(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload UserUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	filter := storage.UserFilter{ID: user.ID.Hex()}
	if err := h.store.UpdateUser(ctx, filter, storage.UserPatch{Username: payload.Username}); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.store.VerifyUser(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type PasswordUpdatePayload struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword verifies the current password before replacing it.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload PasswordUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	if !auth.CheckPassword(payload.OldPassword, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}
	if len(payload.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password length. Password length must be at least 8 characters"})
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	err = h.store.UpdateUser(c.Request.Context(), storage.UserFilter{ID: user.ID.Hex()}, storage.UserPatch{PasswordHash: &hash})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// Delete removes the authenticated user's account.
func (h *UserHandler) Delete(c *gin.Context) {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.store.DeleteUser(c.Request.Context(), storage.UserFilter{ID: user.ID.Hex()}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
