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

	"chatter-service/internal/friends"
	"chatter-service/internal/middleware"
	"chatter-service/internal/mocks"
	"chatter-service/internal/models"
	"chatter-service/internal/repositories"
)

func setupFriendRouter(handler *FriendHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserEmailKey, "me@x")
		c.Next()
	})
	r.POST("/api/friends/request", handler.SendRequest)
	r.PUT("/api/friends/request/:request_id", handler.Respond)
	r.GET("/api/friends/pending", handler.ListPending)
	r.GET("/api/friends/accepted", handler.ListAccepted)
	r.DELETE("/api/friends/:friend_id", handler.Remove)
	r.GET("/api/friends/status/:friend_id", handler.Status)
	return r
}

func newFriendHandler(repo *mocks.FriendRepositoryMock) *FriendHandler {
	return NewFriendHandler(friends.NewService(repo), nil)
}

func TestSendRequestSuccess(t *testing.T) {
	repo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(newFriendHandler(repo))

	created := models.FriendLink{ID: 1, RequesterID: "me@x", RecipientID: "b@x", Status: models.FriendPending}
	repo.On("FindFriendship", mock.Anything, "me@x", "b@x").Return(models.FriendLink{}, repositories.ErrFriendLinkNotFound).Once()
	repo.On("Create", mock.Anything, "me@x", "b@x").Return(created, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/friends/request", bytes.NewBufferString(`{"friendId":"b@x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var link models.FriendLink
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&link))
	assert.Equal(t, models.FriendPending, link.Status)
	repo.AssertExpectations(t)
}

func TestSendRequestToSelf(t *testing.T) {
	router := setupFriendRouter(newFriendHandler(new(mocks.FriendRepositoryMock)))

	req := httptest.NewRequest(http.MethodPost, "/api/friends/request", bytes.NewBufferString(`{"friendId":"me@x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendRequestMissingBody(t *testing.T) {
	router := setupFriendRouter(newFriendHandler(new(mocks.FriendRepositoryMock)))

	req := httptest.NewRequest(http.MethodPost, "/api/friends/request", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondForbiddenForRequester(t *testing.T) {
	repo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(newFriendHandler(repo))

	// The caller is the requester, not the recipient.
	link := models.FriendLink{ID: 5, RequesterID: "me@x", RecipientID: "b@x", Status: models.FriendPending}
	repo.On("FindByID", mock.Anything, int64(5)).Return(link, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/api/friends/request/5", bytes.NewBufferString(`{"status":"ACCEPTED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRespondNotFound(t *testing.T) {
	repo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(newFriendHandler(repo))

	repo.On("FindByID", mock.Anything, int64(99)).Return(models.FriendLink{}, repositories.ErrFriendLinkNotFound).Once()

	req := httptest.NewRequest(http.MethodPut, "/api/friends/request/99", bytes.NewBufferString(`{"status":"REJECTED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRespondUnknownStatus(t *testing.T) {
	router := setupFriendRouter(newFriendHandler(new(mocks.FriendRepositoryMock)))

	req := httptest.NewRequest(http.MethodPut, "/api/friends/request/5", bytes.NewBufferString(`{"status":"MAYBE"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondAccepted(t *testing.T) {
	repo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(newFriendHandler(repo))

	link := models.FriendLink{ID: 5, RequesterID: "a@x", RecipientID: "me@x", Status: models.FriendPending}
	accepted := link
	accepted.Status = models.FriendAccepted
	repo.On("FindByID", mock.Anything, int64(5)).Return(link, nil).Once()
	repo.On("UpdateStatus", mock.Anything, int64(5), models.FriendAccepted).Return(accepted, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/api/friends/request/5", bytes.NewBufferString(`{"status":"ACCEPTED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.FriendLink
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, models.FriendAccepted, got.Status)
	repo.AssertExpectations(t)
}

func TestListPendingEmpty(t *testing.T) {
	repo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(newFriendHandler(repo))

	repo.On("ListPendingFor", mock.Anything, "me@x").Return(([]models.FriendLink)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/friends/pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRemoveNotFound(t *testing.T) {
	repo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(newFriendHandler(repo))

	repo.On("FindFriendship", mock.Anything, "me@x", "b@x").Return(models.FriendLink{}, repositories.ErrFriendLinkNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/friends/b@x", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveSuccess(t *testing.T) {
	repo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(newFriendHandler(repo))

	link := models.FriendLink{ID: 3, RequesterID: "me@x", RecipientID: "b@x", Status: models.FriendAccepted}
	repo.On("FindFriendship", mock.Anything, "me@x", "b@x").Return(link, nil).Once()
	repo.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/friends/b@x", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}

func TestStatusCheck(t *testing.T) {
	repo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(newFriendHandler(repo))

	link := models.FriendLink{ID: 3, RequesterID: "b@x", RecipientID: "me@x", Status: models.FriendAccepted}
	repo.On("FindFriendship", mock.Anything, "me@x", "b@x").Return(link, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/friends/status/b@x", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Body.String())
}
