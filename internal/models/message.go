package models

import (
	"fmt"
	"strings"
	"time"
)

// Message status values. The core only ever assigns StatusSent; the
// others exist for clients that update delivery state over the wire.
const (
	StatusSent      = "SENT"
	StatusDelivered = "DELIVERED"
	StatusSeen      = "SEEN"
	StatusFailed    = "FAILED"
)

// wireTimeFormat is the timestamp layout used on the wire: UTC with
// millisecond precision and a literal trailing Z.
const wireTimeFormat = "2006-01-02T15:04:05.000Z"

// WireTime marshals as the millisecond-precision UTC layout expected by clients.
type WireTime time.Time

func (t WireTime) MarshalJSON() ([]byte, error) {
	if time.Time(t).IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + time.Time(t).UTC().Format(wireTimeFormat) + `"`), nil
}

func (t *WireTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		*t = WireTime(time.Time{})
		return nil
	}
	parsed, err := time.Parse(wireTimeFormat, raw)
	if err != nil {
		// Tolerate full RFC 3339 from clients that send their own clock.
		parsed, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", raw, err)
		}
	}
	*t = WireTime(parsed.UTC())
	return nil
}

func (t WireTime) Time() time.Time { return time.Time(t) }

// Message is a persisted chat message. The id, timestamp and status are
// assigned by the store on save and are never taken from client input.
type Message struct {
	ID        int64     `db:"id"`
	Sender    string    `db:"sender"`
	Content   string    `db:"content"`
	Status    string    `db:"message_status"`
	Timestamp time.Time `db:"created_at"`
}

// ChatPayload is the websocket frame for messages in both directions.
// Inbound only sender and content are honored; outbound frames always
// carry the canonical persisted record.
type ChatPayload struct {
	ID        *int64   `json:"id"`
	Sender    string   `json:"sender"`
	Content   string   `json:"content"`
	Timestamp WireTime `json:"timestamp"`
	Status    string   `json:"messageStatus"`
	IsTyping  bool     `json:"isTyping"`
}

// Payload converts a persisted message into its wire representation.
func (m Message) Payload() ChatPayload {
	id := m.ID
	return ChatPayload{
		ID:        &id,
		Sender:    m.Sender,
		Content:   m.Content,
		Timestamp: WireTime(m.Timestamp),
		Status:    m.Status,
	}
}
