package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mannequins/backend/internal/apperr"
	"mannequins/backend/internal/auth"
	"mannequins/backend/internal/mail"
	"mannequins/backend/internal/models"
	"mannequins/backend/internal/storage"
	"mannequins/backend/internal/tokens"
)

// AuthHandler owns registration, login and the password reset flow.
type AuthHandler struct {
	store  Store
	issuer *auth.TokenIssuer
	resets tokens.ResetRegistry
	mailer mail.Mailer
}

func NewAuthHandler(store Store, issuer *auth.TokenIssuer, resets tokens.ResetRegistry, mailer mail.Mailer) *AuthHandler {
	return &AuthHandler{store: store, issuer: issuer, resets: resets, mailer: mailer}
}

// Login authenticates form credentials and returns a bearer token with
// a user summary. The username field carries the email.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), storage.UserFilter{Email: email})
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}
	if !user.Verified {
		c.JSON(http.StatusForbidden, gin.H{"error": "User account not verified"})
		return
	}

	token, _, err := h.issuer.Issue(user.Email, user.ID.Hex(), auth.TokenTypeBearer, 0)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"username":     user.Username,
		"email":        user.Email,
		"user_id":      user.ID.Hex(),
	})
}

type RegisterPayload struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user record and hands back a session token. If
// token issuance fails after the insert, the record is rolled back so a
// retry does not hit the email conflict.
func (h *AuthHandler) Register(c *gin.Context) {
	var payload RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	id, err := h.store.CreateUser(ctx, storage.UserNew{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}, models.RoleUser, models.SignInNormal, true)
	if err != nil {
		respondError(c, err)
		return
	}

	token, _, err := h.issuer.Issue(payload.Email, id, auth.TokenTypeBearer, 0)
	if err != nil {
		if delErr := h.store.DeleteUser(ctx, storage.UserFilter{Email: payload.Email}); delErr != nil {
			log.Printf("[AuthHandler] Failed to roll back user %s: %v", payload.Email, delErr)
		}
		respondError(c, apperr.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           id,
		"access_token": token,
		"token_type":   "bearer",
	})
}

type ForgotPasswordPayload struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword issues a one-hour reset token, registers it for
// single use and mails the reset link.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var payload ForgotPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.VerifyUser(ctx, storage.UserFilter{Email: payload.Email})
	if err != nil {
		respondError(c, err)
		return
	}

	token, claims, err := h.issuer.Issue(user.Email, user.ID.Hex(), auth.TokenTypePasswordReset, auth.ResetTokenTTL)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	if err := h.resets.Register(ctx, claims.ID, auth.ResetTokenTTL); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}

	if err := h.mailer.SendResetEmail(user.Email, token); err != nil {
		log.Printf("[AuthHandler] Failed to send reset email to %s: %v", user.Email, err)
		respondError(c, apperr.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Password reset token has been sent to your email.",
		"token_expire": "1 Hour",
		"email":        user.Email,
	})
}

type ResetPasswordPayload struct {
	Email       string `json:"email" binding:"required"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword consumes a reset token and replaces the password hash.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var payload ResetPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	claims, err := h.issuer.Verify(payload.Token)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindExpired {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Reset token expired"})
			return
		}
		respondError(c, err)
		return
	}
	if claims.TokenType != auth.TokenTypePasswordReset {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token type"})
		return
	}
	if claims.Subject != payload.Email {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email does not match token"})
		return
	}
	if len(payload.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password length. Password length must be at least 8 characters"})
		return
	}

	ctx := c.Request.Context()
	ok, err := h.resets.Consume(ctx, claims.ID)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Reset token already used"})
		return
	}

	// The token is consumed up front so two concurrent resets cannot
	// both succeed. If a later step fails, hand the token back for its
	// remaining lifetime instead of forcing a fresh forgot-password
	// round trip.
	restoreToken := func() {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl <= 0 {
			return
		}
		if err := h.resets.Register(ctx, claims.ID, ttl); err != nil {
			log.Printf("[AuthHandler] Failed to restore reset token %s: %v", claims.ID, err)
		}
	}

	user, err := h.store.GetUser(ctx, storage.UserFilter{Email: claims.Subject})
	if err != nil {
		restoreToken()
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account not found"})
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		restoreToken()
		respondError(c, apperr.Internal(err))
		return
	}
	if err := h.store.UpdateUser(ctx, storage.UserFilter{Email: claims.Subject}, storage.UserPatch{PasswordHash: &hash}); err != nil {
		restoreToken()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
