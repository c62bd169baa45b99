package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fr0stylo/ticketsync/internal/db/queries"
)

// ErrNotFound is returned by single-row lookups with no match.
var ErrNotFound = errors.New("not found")

// Timestamp formats t the way every timestamp column stores it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp reverses Timestamp. Unparseable values yield the zero time.
func ParseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// GetItemInfo fetches an item row regardless of its deleted flag.
func (c *Database) GetItemInfo(ctx context.Context, eventInfoID, itemID string) (queries.GetItemInfoRow, error) {
	row, err := c.Queries.GetItemInfo(ctx, queries.GetItemInfoParams{EventInfoID: eventInfoID, ItemID: itemID})
	return row, notFound(err)
}

// GetTicketByPosition fetches a ticket row regardless of its deleted flag.
func (c *Database) GetTicketByPosition(ctx context.Context, eventConfigID, positionID string) (queries.GetTicketByPositionRow, error) {
	row, err := c.Queries.GetTicketByPosition(ctx, queries.GetTicketByPositionParams{EventConfigID: eventConfigID, PositionID: positionID})
	return row, notFound(err)
}

// GetLatestHistoricGroupRoot returns the newest root row for a group.
func (c *Database) GetLatestHistoricGroupRoot(ctx context.Context, groupID string) (queries.GetLatestHistoricGroupRootRow, error) {
	row, err := c.Queries.GetLatestHistoricGroupRoot(ctx, groupID)
	return row, notFound(err)
}

// HistoricGroupRootExists reports whether a group ever had the given root.
func (c *Database) HistoricGroupRootExists(ctx context.Context, groupID, rootHash string) (bool, error) {
	exists, err := c.Queries.HistoricGroupRootExists(ctx, queries.HistoricGroupRootExistsParams{GroupID: groupID, RootHash: rootHash})
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}

// UpsertUserIdentity links an email to an identity commitment.
func (c *Database) UpsertUserIdentity(ctx context.Context, email, commitment string) error {
	return c.Queries.UpsertUserIdentity(ctx, queries.UpsertUserIdentityParams{Email: email, Commitment: commitment})
}

// WithTx runs a function within a transaction.
func (c *Database) WithTx(ctx context.Context, fn func(*queries.Queries) error) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(c.Queries.WithTx(tx)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}
	return tx.Commit()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
