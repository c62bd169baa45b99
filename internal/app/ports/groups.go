package ports

import (
	"context"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

// GroupStore derives group membership from the ticket database and keeps
// the append-only history of group roots.
type GroupStore interface {
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
	LatestHistoricGroupSnapshot(ctx context.Context, groupID string) (domain.HistoricGroupSnapshot, bool, error)
	AppendHistoricGroupSnapshot(ctx context.Context, snapshot domain.HistoricGroupSnapshot) error
	HasHistoricGroupRoot(ctx context.Context, groupID, rootHash string) (bool, error)
}
