package ports

import (
	"context"
	"net/http"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

// OrganizerConfigSource returns the organizers to sync. It is polled once per tick.
type OrganizerConfigSource interface {
	LoadOrganizerConfigs(ctx context.Context) ([]domain.OrganizerConfig, error)
}

// TicketStore is the persistence contract used by the save phase. All
// writes for one event go through a single TicketStore call sequence; the
// caller serializes them per organizer.
type TicketStore interface {
	UpsertEventInfo(ctx context.Context, info domain.EventInfo) error

	ListItemInfos(ctx context.Context, eventConfigID string) ([]domain.ItemInfo, error)
	InsertItemInfo(ctx context.Context, item domain.ItemInfo) (domain.ItemInfo, error)
	UpdateItemInfo(ctx context.Context, item domain.ItemInfo) error
	SoftDeleteItemInfo(ctx context.Context, eventConfigID, itemID string) error

	ListTickets(ctx context.Context, eventConfigID string) ([]domain.Ticket, error)
	InsertTicket(ctx context.Context, ticket domain.Ticket) error
	UpdateTicket(ctx context.Context, ticket domain.Ticket) error
	SoftDeleteTicket(ctx context.Context, eventConfigID, positionID string) error
}

// Requester performs one outbound provider call under a caller-supplied context.
type Requester interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ProviderClient performs the four provider reads for one event.
type ProviderClient interface {
	FetchEvent(ctx context.Context, event domain.EventConfig) (domain.EventSnapshot, error)
}
