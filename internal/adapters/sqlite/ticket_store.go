package sqlite

import (
	"context"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/db/queries"
)

func (s *Store) UpsertEventInfo(ctx context.Context, info domain.EventInfo) error {
	return s.db.UpsertEventInfo(ctx, queries.UpsertEventInfoParams{
		EventConfigID: info.EventConfigID,
		Name:          info.Name,
		UpdatedAt:     s.timestamp(),
	})
}

// ListItemInfos returns the live item rows of one event.
func (s *Store) ListItemInfos(ctx context.Context, eventConfigID string) ([]domain.ItemInfo, error) {
	rows, err := s.db.ListLiveItemInfosByEvent(ctx, eventConfigID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ItemInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ItemInfo{
			ID:          row.ID,
			EventInfoID: row.EventInfoID,
			ItemID:      row.ItemID,
			Name:        row.Name,
			Deleted:     row.Deleted != 0,
		})
	}
	return out, nil
}

// InsertItemInfo creates an item row, reviving a soft-deleted one with the same item id.
func (s *Store) InsertItemInfo(ctx context.Context, item domain.ItemInfo) (domain.ItemInfo, error) {
	row, err := s.db.UpsertItemInfo(ctx, queries.UpsertItemInfoParams{
		EventInfoID: item.EventInfoID,
		ItemID:      item.ItemID,
		Name:        item.Name,
		UpdatedAt:   s.timestamp(),
	})
	if err != nil {
		return domain.ItemInfo{}, err
	}
	return domain.ItemInfo{
		ID:          row.ID,
		EventInfoID: row.EventInfoID,
		ItemID:      row.ItemID,
		Name:        row.Name,
		Deleted:     row.Deleted != 0,
	}, nil
}

func (s *Store) UpdateItemInfo(ctx context.Context, item domain.ItemInfo) error {
	return s.db.UpdateItemInfoName(ctx, queries.UpdateItemInfoNameParams{
		Name:        item.Name,
		UpdatedAt:   s.timestamp(),
		EventInfoID: item.EventInfoID,
		ItemID:      item.ItemID,
	})
}

func (s *Store) SoftDeleteItemInfo(ctx context.Context, eventConfigID, itemID string) error {
	return s.db.SoftDeleteItemInfo(ctx, queries.SoftDeleteItemInfoParams{
		UpdatedAt:   s.timestamp(),
		EventInfoID: eventConfigID,
		ItemID:      itemID,
	})
}

// ListTickets returns the live tickets of one event.
func (s *Store) ListTickets(ctx context.Context, eventConfigID string) ([]domain.Ticket, error) {
	rows, err := s.db.ListLiveTicketsByEvent(ctx, eventConfigID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Ticket{
			ID:            row.ID,
			EventConfigID: row.EventConfigID,
			PositionID:    row.PositionID,
			Email:         row.Email,
			FullName:      row.FullName,
			ItemInfoID:    row.ItemInfoID,
			IsDeleted:     row.IsDeleted != 0,
			IsConsumed:    row.IsConsumed != 0,
			Secret:        row.Secret,
		})
	}
	return out, nil
}

// InsertTicket creates a ticket row, reviving a soft-deleted one for the same position.
func (s *Store) InsertTicket(ctx context.Context, ticket domain.Ticket) error {
	now := s.timestamp()
	return s.db.UpsertTicket(ctx, queries.UpsertTicketParams{
		EventConfigID: ticket.EventConfigID,
		PositionID:    ticket.PositionID,
		ItemInfoID:    ticket.ItemInfoID,
		Email:         ticket.Email,
		FullName:      ticket.FullName,
		Secret:        ticket.Secret,
		IsConsumed:    boolToInt(ticket.IsConsumed),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *Store) UpdateTicket(ctx context.Context, ticket domain.Ticket) error {
	return s.db.UpdateTicket(ctx, queries.UpdateTicketParams{
		ItemInfoID:    ticket.ItemInfoID,
		Email:         ticket.Email,
		FullName:      ticket.FullName,
		Secret:        ticket.Secret,
		IsConsumed:    boolToInt(ticket.IsConsumed),
		UpdatedAt:     s.timestamp(),
		EventConfigID: ticket.EventConfigID,
		PositionID:    ticket.PositionID,
	})
}

func (s *Store) SoftDeleteTicket(ctx context.Context, eventConfigID, positionID string) error {
	return s.db.SoftDeleteTicket(ctx, queries.SoftDeleteTicketParams{
		UpdatedAt:     s.timestamp(),
		EventConfigID: eventConfigID,
		PositionID:    positionID,
	})
}

// CountTickets returns the number of live tickets of one event.
func (s *Store) CountTickets(ctx context.Context, eventConfigID string) (int64, error) {
	return s.db.CountTicketsByEvent(ctx, eventConfigID)
}
