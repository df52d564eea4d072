package ws

import "time"

// ConnInfo carries per-connection identity for lifecycle events.
type ConnInfo struct {
	ConnID      string
	UserEmail   string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}
