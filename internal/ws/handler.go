package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"chatter-service/internal/auth"
	"chatter-service/internal/observability"
)

const eventsRoutingKey = "ws_events.chat"

// Handler upgrades HTTP requests to websocket sessions and feeds the
// resulting transport events into the coordinator.
type Handler struct {
	coordinator *Coordinator
	tokens      *auth.TokenService
}

// NewHandler constructs a Handler.
func NewHandler(coordinator *Coordinator, tokens *auth.TokenService) *Handler {
	return &Handler{coordinator: coordinator, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and runs its read loop. The endpoint
// accepts anonymous connections; a bearer token, when presented, is
// verified and its email recorded on the connection.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("chatter-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	email := h.identify(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserEmail:   email,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}

	sender := newConnSender(conn, defaultSendTimeout)
	h.coordinator.OnConnect(ctx, info.ConnID, sender)

	observability.IncWSEvent("ws_connect")
	h.publishLifecycle(ctx, "ws_connect", info, "")

	go h.readLoop(context.WithoutCancel(ctx), conn, info)
}

// readLoop pumps inbound frames into the coordinator until the
// connection dies, then unregisters the session.
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		h.coordinator.OnDisconnect(info.ConnID)
		observability.IncWSEvent("ws_disconnect")
		h.publishLifecycle(ctx, "ws_disconnect", info, closeReason)
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				h.publishLifecycle(ctx, "ws_error", info, closeReason)
			}
			return
		}

		if err := h.coordinator.OnMessage(ctx, info.ConnID, raw); err != nil {
			// Protocol and store failures are scoped to the triggering
			// frame; the connection stays open.
			zap.L().Warn("inbound message dropped",
				zap.String("conn_id", info.ConnID),
				zap.Error(err))
		}
	}
}

func (h *Handler) identify(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
		if token != "" {
			token = "Bearer " + token
		}
	}
	parts := strings.Split(token, " ")
	if len(parts) != 2 {
		return ""
	}
	email, err := h.tokens.Verify(parts[1])
	if err != nil {
		return ""
	}
	return email
}

func (h *Handler) publishLifecycle(ctx context.Context, event string, info ConnInfo, reason string) {
	_ = observability.PublishEvent(ctx, eventsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]any{
			"ws": map[string]any{
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]any{
				"user_email": info.UserEmail,
				"device_id":  info.DeviceID,
				"ip":         info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}
