package sqlite

import (
	"context"

	"github.com/fr0stylo/ticketsync/internal/db/queries"
)

type organizerDatabase interface {
	ListEnabledOrganizerConfigs(ctx context.Context) ([]queries.ListEnabledOrganizerConfigsRow, error)
	ListEnabledEventConfigs(ctx context.Context) ([]queries.EventConfig, error)
	UpsertOrganizerConfig(ctx context.Context, params queries.UpsertOrganizerConfigParams) error
	UpsertEventConfig(ctx context.Context, params queries.UpsertEventConfigParams) error
	DeleteOrganizerConfig(ctx context.Context, id string) error
	WithTx(ctx context.Context, fn func(*queries.Queries) error) error
}

type ticketDatabase interface {
	UpsertEventInfo(ctx context.Context, params queries.UpsertEventInfoParams) error
	ListLiveItemInfosByEvent(ctx context.Context, eventInfoID string) ([]queries.ListLiveItemInfosByEventRow, error)
	UpsertItemInfo(ctx context.Context, params queries.UpsertItemInfoParams) (queries.UpsertItemInfoRow, error)
	UpdateItemInfoName(ctx context.Context, params queries.UpdateItemInfoNameParams) error
	SoftDeleteItemInfo(ctx context.Context, params queries.SoftDeleteItemInfoParams) error
	ListLiveTicketsByEvent(ctx context.Context, eventConfigID string) ([]queries.ListLiveTicketsByEventRow, error)
	UpsertTicket(ctx context.Context, params queries.UpsertTicketParams) error
	UpdateTicket(ctx context.Context, params queries.UpdateTicketParams) error
	SoftDeleteTicket(ctx context.Context, params queries.SoftDeleteTicketParams) error
	CountTicketsByEvent(ctx context.Context, eventConfigID string) (int64, error)
}

type groupDatabase interface {
	ListAttendeeCommitments(ctx context.Context) ([]string, error)
	ListOrganizerCommitments(ctx context.Context) ([]string, error)
	GetLatestHistoricGroupRoot(ctx context.Context, groupID string) (queries.GetLatestHistoricGroupRootRow, error)
	InsertHistoricGroupRoot(ctx context.Context, params queries.InsertHistoricGroupRootParams) error
	HistoricGroupRootExists(ctx context.Context, groupID, rootHash string) (bool, error)
	UpsertUserIdentity(ctx context.Context, email, commitment string) error
}

type storeDatabase interface {
	organizerDatabase
	ticketDatabase
	groupDatabase
}
