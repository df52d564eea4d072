package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatter-service/internal/auth"
	"chatter-service/internal/models"
	"chatter-service/internal/repositories"
)

// AuthHandler exchanges identity-provider credentials for service tokens.
type AuthHandler struct {
	identity auth.IdentityProvider
	tokens   *auth.TokenService
	users    repositories.UserRepository
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(identity auth.IdentityProvider, tokens *auth.TokenService, users repositories.UserRepository) *AuthHandler {
	return &AuthHandler{identity: identity, tokens: tokens, users: users}
}

// GoogleAuth verifies a Google credential, upserts the user profile and
// returns a service-issued token.
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	identity, err := h.identity.Verify(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
		return
	}

	user, err := h.users.Upsert(c.Request.Context(), models.User{
		Email:          identity.Email,
		Name:           identity.Name,
		ProfilePicture: identity.Picture,
		GoogleUser:     true,
	})
	if err != nil {
		zap.L().Error("user upsert failed", zap.String("email", identity.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store user"})
		return
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":             user.ID,
			"name":           user.Name,
			"email":          user.Email,
			"profilePicture": user.ProfilePicture,
			"sub":            user.Email,
		},
	})
}
