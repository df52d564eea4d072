package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chatter-service/internal/models"
)

var ErrFriendLinkNotFound = errors.New("friend link not found")

// uniqueViolation is the Postgres error code raised by the symmetric
// pair index when two requests race on lookup-then-create.
const uniqueViolation = "23505"

// FriendRepository abstracts friend-link persistence. Pair lookups are
// symmetric: FindFriendship(a, b) and FindFriendship(b, a) return the
// same row.
type FriendRepository interface {
	FindByID(ctx context.Context, id int64) (models.FriendLink, error)
	FindFriendship(ctx context.Context, userID, otherID string) (models.FriendLink, error)
	Create(ctx context.Context, requesterID, recipientID string) (models.FriendLink, error)
	// UpdateStatus sets the status and refreshes updated_at.
	UpdateStatus(ctx context.Context, id int64, status models.FriendStatus) (models.FriendLink, error)
	Delete(ctx context.Context, id int64) error
	// ListPendingFor returns links where userID is the recipient and status is PENDING.
	ListPendingFor(ctx context.Context, userID string) ([]models.FriendLink, error)
	// ListAcceptedFor returns links where userID is either party and status is ACCEPTED.
	ListAcceptedFor(ctx context.Context, userID string) ([]models.FriendLink, error)
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

const friendColumns = `id, requester_id, recipient_id, status, created_at, updated_at`

// FindByID fetches a link by primary key.
func (r *FriendRepo) FindByID(ctx context.Context, id int64) (models.FriendLink, error) {
	var link models.FriendLink
	err := r.db.GetContext(ctx, &link, `SELECT `+friendColumns+` FROM friends WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendLink{}, ErrFriendLinkNotFound
	}
	return link, err
}

// FindFriendship returns the link for the unordered pair, whichever
// direction it was created in.
func (r *FriendRepo) FindFriendship(ctx context.Context, userID, otherID string) (models.FriendLink, error) {
	var link models.FriendLink
	err := r.db.GetContext(ctx, &link, `SELECT `+friendColumns+` FROM friends
        WHERE (requester_id=$1 AND recipient_id=$2) OR (requester_id=$2 AND recipient_id=$1)`, userID, otherID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendLink{}, ErrFriendLinkNotFound
	}
	return link, err
}

// Create inserts a PENDING link. When a concurrent request already
// created the pair, the existing row is returned instead of an error.
func (r *FriendRepo) Create(ctx context.Context, requesterID, recipientID string) (models.FriendLink, error) {
	var link models.FriendLink
	err := r.db.QueryRowxContext(ctx, `INSERT INTO friends (requester_id, recipient_id, status, created_at, updated_at)
        VALUES ($1, $2, 'PENDING', NOW(), NOW()) RETURNING `+friendColumns, requesterID, recipientID).
		StructScan(&link)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return r.FindFriendship(ctx, requesterID, recipientID)
		}
		return models.FriendLink{}, err
	}
	return link, nil
}

// UpdateStatus transitions the link and stamps updated_at.
func (r *FriendRepo) UpdateStatus(ctx context.Context, id int64, status models.FriendStatus) (models.FriendLink, error) {
	var link models.FriendLink
	err := r.db.QueryRowxContext(ctx, `UPDATE friends SET status=$2, updated_at=NOW()
        WHERE id=$1 RETURNING `+friendColumns, id, status).
		StructScan(&link)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendLink{}, ErrFriendLinkNotFound
	}
	return link, err
}

// Delete removes a link by id.
func (r *FriendRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friends WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFriendLinkNotFound
	}
	return nil
}

// ListPendingFor returns pending requests addressed to the user.
func (r *FriendRepo) ListPendingFor(ctx context.Context, userID string) ([]models.FriendLink, error) {
	var links []models.FriendLink
	err := r.db.SelectContext(ctx, &links, `SELECT `+friendColumns+` FROM friends
        WHERE recipient_id=$1 AND status='PENDING' ORDER BY created_at DESC`, userID)
	return links, err
}

// ListAcceptedFor returns accepted links the user is party to.
func (r *FriendRepo) ListAcceptedFor(ctx context.Context, userID string) ([]models.FriendLink, error) {
	var links []models.FriendLink
	err := r.db.SelectContext(ctx, &links, `SELECT `+friendColumns+` FROM friends
        WHERE (requester_id=$1 OR recipient_id=$1) AND status='ACCEPTED' ORDER BY updated_at DESC`, userID)
	return links, err
}
