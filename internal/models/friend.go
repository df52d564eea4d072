package models

import "time"

// FriendStatus enumerates the friend-link state machine.
type FriendStatus string

const (
	FriendPending  FriendStatus = "PENDING"
	FriendAccepted FriendStatus = "ACCEPTED"
	FriendRejected FriendStatus = "REJECTED"
)

// ParseFriendStatus validates a client-supplied status string.
func ParseFriendStatus(raw string) (FriendStatus, bool) {
	switch FriendStatus(raw) {
	case FriendPending, FriendAccepted, FriendRejected:
		return FriendStatus(raw), true
	}
	return "", false
}

// FriendLink is the persisted relationship between two users. It is
// directional at creation (requester/recipient) but symmetric for
// existence checks: at most one row exists per unordered user pair.
type FriendLink struct {
	ID          int64        `db:"id" json:"id"`
	RequesterID string       `db:"requester_id" json:"userId"`
	RecipientID string       `db:"recipient_id" json:"friendId"`
	Status      FriendStatus `db:"status" json:"status"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}
