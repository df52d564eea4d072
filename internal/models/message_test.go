package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatPayloadWireFormat(t *testing.T) {
	msg := Message{
		ID:        42,
		Sender:    "u1@x",
		Content:   "hello",
		Status:    StatusSent,
		Timestamp: time.Date(2025, 6, 1, 12, 30, 45, 123_000_000, time.UTC),
	}

	raw, err := json.Marshal(msg.Payload())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(42), decoded["id"])
	assert.Equal(t, "u1@x", decoded["sender"])
	assert.Equal(t, "2025-06-01T12:30:45.123Z", decoded["timestamp"])
	assert.Equal(t, "SENT", decoded["messageStatus"])
	assert.Equal(t, false, decoded["isTyping"])
}

func TestChatPayloadInboundMinimalFields(t *testing.T) {
	var payload ChatPayload
	require.NoError(t, json.Unmarshal([]byte(`{"sender":"u1","content":"hi"}`), &payload))

	assert.Equal(t, "u1", payload.Sender)
	assert.Equal(t, "hi", payload.Content)
	assert.Nil(t, payload.ID)
	assert.True(t, payload.Timestamp.Time().IsZero())
}

func TestChatPayloadInboundClientTimestampTolerated(t *testing.T) {
	var payload ChatPayload
	require.NoError(t, json.Unmarshal([]byte(`{"sender":"u1","content":"hi","timestamp":"2025-06-01T12:30:45.123Z"}`), &payload))
	assert.Equal(t, 2025, payload.Timestamp.Time().Year())

	require.Error(t, json.Unmarshal([]byte(`{"timestamp":"yesterday"}`), &payload))
}

func TestParseFriendStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "ACCEPTED", "REJECTED"} {
		status, ok := ParseFriendStatus(valid)
		require.True(t, ok)
		assert.Equal(t, FriendStatus(valid), status)
	}

	_, ok := ParseFriendStatus("accepted")
	assert.False(t, ok)
}
