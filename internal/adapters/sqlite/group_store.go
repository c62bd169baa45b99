package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/db"
	"github.com/fr0stylo/ticketsync/internal/db/queries"
)

// ErrUnknownGroup is returned for group ids with no membership query.
var ErrUnknownGroup = errors.New("unknown group")

// ListGroupMembers derives the identity commitments that belong to a group.
func (s *Store) ListGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	switch groupID {
	case domain.GroupAttendees:
		return s.db.ListAttendeeCommitments(ctx)
	case domain.GroupOrganizers:
		return s.db.ListOrganizerCommitments(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}
}

func (s *Store) LatestHistoricGroupSnapshot(ctx context.Context, groupID string) (domain.HistoricGroupSnapshot, bool, error) {
	row, err := s.db.GetLatestHistoricGroupRoot(ctx, groupID)
	if errors.Is(err, db.ErrNotFound) {
		return domain.HistoricGroupSnapshot{}, false, nil
	}
	if err != nil {
		return domain.HistoricGroupSnapshot{}, false, err
	}
	return domain.HistoricGroupSnapshot{
		GroupID:         row.GroupID,
		RootHash:        row.RootHash,
		SerializedGroup: row.SerializedGroup,
		CreatedAt:       db.ParseTimestamp(row.CreatedAt),
	}, true, nil
}

func (s *Store) AppendHistoricGroupSnapshot(ctx context.Context, snapshot domain.HistoricGroupSnapshot) error {
	createdAt := s.timestamp()
	if !snapshot.CreatedAt.IsZero() {
		createdAt = db.Timestamp(snapshot.CreatedAt)
	}
	return s.db.InsertHistoricGroupRoot(ctx, queries.InsertHistoricGroupRootParams{
		GroupID:         snapshot.GroupID,
		RootHash:        snapshot.RootHash,
		SerializedGroup: snapshot.SerializedGroup,
		CreatedAt:       createdAt,
	})
}

func (s *Store) HasHistoricGroupRoot(ctx context.Context, groupID, rootHash string) (bool, error) {
	return s.db.HistoricGroupRootExists(ctx, groupID, strings.ToLower(strings.TrimSpace(rootHash)))
}

// LinkIdentity associates an email with an identity commitment.
func (s *Store) LinkIdentity(ctx context.Context, email, commitment string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	commitment = strings.TrimSpace(commitment)
	if email == "" || commitment == "" {
		return fmt.Errorf("email and commitment are required")
	}
	return s.db.UpsertUserIdentity(ctx, email, commitment)
}
