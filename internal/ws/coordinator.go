package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chatter-service/internal/models"
	"chatter-service/internal/repositories"
)

// ErrProtocol marks a malformed inbound payload. The triggering message
// is dropped; the connection stays open.
var ErrProtocol = errors.New("malformed chat payload")

// Coordinator bridges transport events to persistence and fan-out. It
// implements the three-event contract the transport layer expects:
// OnConnect, OnMessage, OnDisconnect.
type Coordinator struct {
	registry     *Registry
	messages     repositories.MessageRepository
	historyLimit int
}

// NewCoordinator wires the coordinator to its collaborators.
func NewCoordinator(registry *Registry, messages repositories.MessageRepository, historyLimit int) *Coordinator {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Coordinator{registry: registry, messages: messages, historyLimit: historyLimit}
}

// OnConnect registers the session and replays recent history to it,
// oldest first, as individual frames. History send failures are logged
// and never close the connection.
func (c *Coordinator) OnConnect(ctx context.Context, sessionID string, sender Sender) {
	c.registry.Register(sessionID, sender)

	msgs, err := c.messages.LastMessages(ctx, c.historyLimit)
	if err != nil {
		zap.L().Error("history load failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	// LastMessages is most-recent-first; replay chronologically.
	for i := len(msgs) - 1; i >= 0; i-- {
		frame, err := json.Marshal(msgs[i].Payload())
		if err != nil {
			zap.L().Error("history frame encode failed", zap.Int64("message_id", msgs[i].ID), zap.Error(err))
			continue
		}
		if err := c.registry.SendTo(sessionID, frame); err != nil {
			zap.L().Warn("history send failed",
				zap.String("session_id", sessionID),
				zap.Int64("message_id", msgs[i].ID),
				zap.Error(err))
		}
	}
}

// OnMessage decodes an inbound frame, persists it and broadcasts the
// canonical stored record so every client observes the same id and
// timestamp. A store failure is reported to the sender only; nothing
// unpersisted is ever fanned out.
func (c *Coordinator) OnMessage(ctx context.Context, sessionID string, raw []byte) error {
	var inbound models.ChatPayload
	if err := json.Unmarshal(raw, &inbound); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if inbound.Sender == "" || inbound.Content == "" {
		return fmt.Errorf("%w: sender and content are required", ErrProtocol)
	}

	msg, err := c.messages.SaveMessage(ctx, inbound.Sender, inbound.Content)
	if err != nil {
		c.reportDeliveryFailure(sessionID, inbound)
		return fmt.Errorf("save message: %w", err)
	}

	frame, err := json.Marshal(msg.Payload())
	if err != nil {
		return fmt.Errorf("encode message %d: %w", msg.ID, err)
	}

	result := c.registry.Broadcast(frame)
	zap.L().Debug("message broadcast",
		zap.Int64("message_id", msg.ID),
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", len(result.Failed)))
	return nil
}

// OnDisconnect unregisters the session. No persistence side effect.
func (c *Coordinator) OnDisconnect(sessionID string) {
	c.registry.Unregister(sessionID)
}

// reportDeliveryFailure echoes the undelivered message back to its
// sender with a FAILED status and no server-assigned fields.
func (c *Coordinator) reportDeliveryFailure(sessionID string, inbound models.ChatPayload) {
	failure := models.ChatPayload{
		Sender:  inbound.Sender,
		Content: inbound.Content,
		Status:  models.StatusFailed,
	}
	frame, err := json.Marshal(failure)
	if err != nil {
		return
	}
	if err := c.registry.SendTo(sessionID, frame); err != nil {
		zap.L().Warn("delivery-failure report not sent", zap.String("session_id", sessionID), zap.Error(err))
	}
}
