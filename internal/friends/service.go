package friends

import (
	"context"
	"errors"
	"fmt"

	"chatter-service/internal/models"
	"chatter-service/internal/repositories"
)

// Error kinds surfaced by the engine. Callers branch with errors.Is.
var (
	// ErrNotFound: no link with that id, or no link for the pair.
	ErrNotFound = errors.New("friend link not found")
	// ErrNotRecipient: only the invited party may accept or reject.
	ErrNotRecipient = errors.New("only the request recipient may respond")
	// ErrSelfRequest: a user cannot friend themselves.
	ErrSelfRequest = errors.New("cannot send friend request to yourself")
)

// Service enforces the friend-link state machine:
// none -> PENDING -> {ACCEPTED, REJECTED}; ACCEPTED -> none via Remove.
// All pair lookups are symmetric, so the at-most-one-link invariant
// holds regardless of request direction.
type Service struct {
	repo repositories.FriendRepository
}

// NewService builds the engine on top of a friend repository.
func NewService(repo repositories.FriendRepository) *Service {
	return &Service{repo: repo}
}

// SendRequest creates a PENDING link from requester to recipient. When a
// link already exists for the pair it is returned unchanged, whatever its
// status: a rejected pair cannot be re-requested through this path.
func (s *Service) SendRequest(ctx context.Context, requesterID, recipientID string) (models.FriendLink, error) {
	if requesterID == recipientID {
		return models.FriendLink{}, ErrSelfRequest
	}

	link, err := s.repo.FindFriendship(ctx, requesterID, recipientID)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, repositories.ErrFriendLinkNotFound) {
		return models.FriendLink{}, fmt.Errorf("lookup friendship: %w", err)
	}

	return s.repo.Create(ctx, requesterID, recipientID)
}

// Respond sets the link status on behalf of actingUserID. Only the
// recipient of the original request may respond.
func (s *Service) Respond(ctx context.Context, linkID int64, status models.FriendStatus, actingUserID string) (models.FriendLink, error) {
	link, err := s.repo.FindByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repositories.ErrFriendLinkNotFound) {
			return models.FriendLink{}, ErrNotFound
		}
		return models.FriendLink{}, fmt.Errorf("load friend link: %w", err)
	}

	if link.RecipientID != actingUserID {
		return models.FriendLink{}, ErrNotRecipient
	}

	return s.repo.UpdateStatus(ctx, link.ID, status)
}

// ListPending returns requests awaiting a response from the user.
func (s *Service) ListPending(ctx context.Context, userID string) ([]models.FriendLink, error) {
	return s.repo.ListPendingFor(ctx, userID)
}

// ListAccepted returns the user's accepted friendships.
func (s *Service) ListAccepted(ctx context.Context, userID string) ([]models.FriendLink, error) {
	return s.repo.ListAcceptedFor(ctx, userID)
}

// Remove deletes the link between the two users. The link is deleted
// whatever its current status, so a pending request can be withdrawn
// through this path as well.
func (s *Service) Remove(ctx context.Context, userID, otherID string) error {
	link, err := s.repo.FindFriendship(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, repositories.ErrFriendLinkNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup friendship: %w", err)
	}
	return s.repo.Delete(ctx, link.ID)
}

// AreFriends reports whether an ACCEPTED link exists for the pair.
// A missing link is not an error.
func (s *Service) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	link, err := s.repo.FindFriendship(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, repositories.ErrFriendLinkNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup friendship: %w", err)
	}
	return link.Status == models.FriendAccepted, nil
}
