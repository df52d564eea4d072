package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chatter-service/internal/auth"
	"chatter-service/internal/mocks"
	"chatter-service/internal/models"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/google", handler.GoogleAuth)
	return r
}

func TestGoogleAuthSuccess(t *testing.T) {
	identity := new(mocks.IdentityProviderMock)
	users := new(mocks.UserRepositoryMock)
	tokens := auth.NewTokenService("test-secret")
	router := setupAuthRouter(NewAuthHandler(identity, tokens, users))

	identity.On("Verify", mock.Anything, "google-credential").
		Return(auth.Identity{Email: "me@x", Name: "Me", Picture: "p.png"}, nil).Once()
	users.On("Upsert", mock.Anything, models.User{Email: "me@x", Name: "Me", ProfilePicture: "p.png", GoogleUser: true}).
		Return(models.User{ID: 1, Email: "me@x", Name: "Me", ProfilePicture: "p.png", GoogleUser: true}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", bytes.NewBufferString(`{"token":"google-credential"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Sub   string `json:"sub"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "me@x", resp.User.Email)
	assert.Equal(t, "me@x", resp.User.Sub)

	// The issued token verifies back to the same email.
	email, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "me@x", email)

	identity.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestGoogleAuthInvalidCredential(t *testing.T) {
	identity := new(mocks.IdentityProviderMock)
	tokens := auth.NewTokenService("test-secret")
	router := setupAuthRouter(NewAuthHandler(identity, tokens, new(mocks.UserRepositoryMock)))

	identity.On("Verify", mock.Anything, "bad").Return(auth.Identity{}, auth.ErrInvalidCredential).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", bytes.NewBufferString(`{"token":"bad"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoogleAuthMissingToken(t *testing.T) {
	router := setupAuthRouter(NewAuthHandler(new(mocks.IdentityProviderMock), auth.NewTokenService("s"), new(mocks.UserRepositoryMock)))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
