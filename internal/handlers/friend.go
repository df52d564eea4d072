package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chatter-service/internal/friends"
	"chatter-service/internal/middleware"
	"chatter-service/internal/models"
	"chatter-service/internal/telemetry"
)

// FriendHandler exposes the friend-relationship endpoints.
type FriendHandler struct {
	service *friends.Service
	audit   *telemetry.AuditEmitter
}

// NewFriendHandler builds a FriendHandler.
func NewFriendHandler(service *friends.Service, audit *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{service: service, audit: audit}
}

// SendRequest creates (or returns the existing) link for the pair.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req struct {
		FriendID string `json:"friendId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userEmail := c.GetString(middleware.UserEmailKey)
	link, err := h.service.SendRequest(c.Request.Context(), userEmail, req.FriendID)
	if err != nil {
		h.renderError(c, err, "could not send friend request")
		return
	}

	c.JSON(http.StatusOK, link)
}

// Respond accepts or rejects a pending request.
func (h *FriendHandler) Respond(c *gin.Context) {
	requestID, err := strconv.ParseInt(c.Param("request_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, ok := models.ParseFriendStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	userEmail := c.GetString(middleware.UserEmailKey)
	link, err := h.service.Respond(c.Request.Context(), requestID, status, userEmail)
	if err != nil {
		h.renderError(c, err, "could not update friend request")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "friend request "+string(status), requestIDFromContext(c), &userEmail)
	c.JSON(http.StatusOK, link)
}

// ListPending returns requests awaiting the caller's response.
func (h *FriendHandler) ListPending(c *gin.Context) {
	userEmail := c.GetString(middleware.UserEmailKey)
	links, err := h.service.ListPending(c.Request.Context(), userEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pending requests"})
		return
	}
	if links == nil {
		links = []models.FriendLink{}
	}
	c.JSON(http.StatusOK, links)
}

// ListAccepted returns the caller's accepted friendships.
func (h *FriendHandler) ListAccepted(c *gin.Context) {
	userEmail := c.GetString(middleware.UserEmailKey)
	links, err := h.service.ListAccepted(c.Request.Context(), userEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}
	if links == nil {
		links = []models.FriendLink{}
	}
	c.JSON(http.StatusOK, links)
}

// Remove deletes the link between the caller and the given user.
func (h *FriendHandler) Remove(c *gin.Context) {
	friendID := c.Param("friend_id")
	userEmail := c.GetString(middleware.UserEmailKey)

	if err := h.service.Remove(c.Request.Context(), userEmail, friendID); err != nil {
		h.renderError(c, err, "could not remove friend")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "friend removed", requestIDFromContext(c), &userEmail)
	c.Status(http.StatusNoContent)
}

// Status reports whether the caller and the given user are friends.
func (h *FriendHandler) Status(c *gin.Context) {
	friendID := c.Param("friend_id")
	userEmail := c.GetString(middleware.UserEmailKey)

	accepted, err := h.service.AreFriends(c.Request.Context(), userEmail, friendID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check friendship"})
		return
	}
	c.JSON(http.StatusOK, accepted)
}

func (h *FriendHandler) renderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, friends.ErrSelfRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, friends.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, friends.ErrNotRecipient):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
