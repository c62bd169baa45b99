package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/ports"
	"github.com/fr0stylo/ticketsync/internal/reconcile"
)

const (
	stepEventInfo = "event_info"
	stepItems     = "items"
	stepTickets   = "tickets"
)

// eventSaver writes validated snapshots through the TicketStore.
type eventSaver struct {
	store ports.TicketStore
	log   *slog.Logger
}

// saveAll saves events in order. A failing event does not stop the others.
func (s eventSaver) saveAll(ctx context.Context, snapshots []domain.EventSnapshot) error {
	var errs []error
	for _, snapshot := range snapshots {
		if err := s.saveEvent(ctx, snapshot); err != nil {
			s.log.WarnContext(ctx, "event_save_failed", "event_id", snapshot.Config.EventID, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &SaveError{Err: errors.Join(errs...)}
}

func (s eventSaver) saveEvent(ctx context.Context, snapshot domain.EventSnapshot) error {
	eventConfigID := snapshot.Config.EventConfigID
	if err := s.syncEventInfo(ctx, snapshot); err != nil {
		return &EventSaveError{EventConfigID: eventConfigID, Step: stepEventInfo, Err: err}
	}
	items, err := s.syncItemInfo(ctx, snapshot)
	if err != nil {
		return &EventSaveError{EventConfigID: eventConfigID, Step: stepItems, Err: err}
	}
	if err := s.syncTickets(ctx, snapshot, items); err != nil {
		return &EventSaveError{EventConfigID: eventConfigID, Step: stepTickets, Err: err}
	}
	return nil
}

func (s eventSaver) syncEventInfo(ctx context.Context, snapshot domain.EventSnapshot) error {
	return s.store.UpsertEventInfo(ctx, domain.EventInfo{
		EventConfigID: snapshot.Config.EventConfigID,
		Name:          snapshot.Event.Name,
	})
}

// syncItemInfo reconciles stored items with the active provider items and
// returns the live rows keyed by provider item id.
func (s eventSaver) syncItemInfo(ctx context.Context, snapshot domain.EventSnapshot) (map[string]domain.ItemInfo, error) {
	eventConfigID := snapshot.Config.EventConfigID
	upstream := reconcile.Index(snapshot.Items, func(item domain.Item) string { return item.ID })

	incoming := make(map[string]domain.ItemInfo, len(snapshot.Config.ActiveItemIDs))
	for _, itemID := range snapshot.Config.SortedActiveItemIDs() {
		item, ok := upstream[itemID]
		if !ok {
			return nil, fmt.Errorf("%w: item %s of event %s", ErrItemMissingUpstream, itemID, snapshot.Config.EventID)
		}
		incoming[itemID] = domain.ItemInfo{EventInfoID: eventConfigID, ItemID: itemID, Name: item.Name}
	}

	stored, err := s.store.ListItemInfos(ctx, eventConfigID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	existing := reconcile.Index(stored, func(item domain.ItemInfo) string { return item.ItemID })

	changes := reconcile.Diff(existing, incoming, domain.ItemInfo.SameFields)
	live := make(map[string]domain.ItemInfo, len(incoming))
	for itemID, item := range existing {
		if _, keep := incoming[itemID]; keep {
			live[itemID] = item
		}
	}

	err = reconcile.Apply(ctx, changes, reconcile.ApplyFuncs[string, domain.ItemInfo]{
		InsertFn: func(ctx context.Context, itemID string, next domain.ItemInfo) error {
			row, err := s.store.InsertItemInfo(ctx, next)
			if err != nil {
				return err
			}
			live[itemID] = row
			return nil
		},
		UpdateFn: func(ctx context.Context, itemID string, current, next domain.ItemInfo) error {
			next.ID = current.ID
			if err := s.store.UpdateItemInfo(ctx, next); err != nil {
				return err
			}
			live[itemID] = next
			return nil
		},
		RemoveFn: func(ctx context.Context, itemID string, _ domain.ItemInfo) error {
			return s.store.SoftDeleteItemInfo(ctx, eventConfigID, itemID)
		},
	})
	if err != nil {
		return nil, err
	}
	if !changes.Empty() {
		s.log.InfoContext(ctx, "items_synced",
			"event_id", snapshot.Config.EventID,
			"inserted", len(changes.Insert),
			"updated", len(changes.Update),
			"removed", len(changes.Remove),
		)
	}
	return live, nil
}

// syncTickets reconciles stored tickets with the paid positions on live items.
func (s eventSaver) syncTickets(ctx context.Context, snapshot domain.EventSnapshot, items map[string]domain.ItemInfo) error {
	eventConfigID := snapshot.Config.EventConfigID
	incoming := make(map[string]domain.Ticket)
	skipped := 0
	for _, order := range snapshot.Orders {
		if order.Status != domain.OrderStatusPaid {
			continue
		}
		for _, position := range order.Positions {
			item, ok := items[position.ItemID]
			if !ok {
				continue
			}
			email := usableEmail(position.Email)
			if email == "" {
				email = usableEmail(order.Email)
			}
			if email == "" {
				skipped++
				s.log.WarnContext(ctx, "position_without_email",
					"event_id", snapshot.Config.EventID,
					"order_code", order.Code,
					"position_id", position.ID,
				)
				continue
			}
			incoming[position.ID] = domain.Ticket{
				EventConfigID: eventConfigID,
				PositionID:    position.ID,
				Email:         email,
				FullName:      strings.TrimSpace(position.AttendeeName),
				ItemInfoID:    item.ID,
				IsConsumed:    position.CheckedIn,
				Secret:        position.Secret,
			}
		}
	}

	stored, err := s.store.ListTickets(ctx, eventConfigID)
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	existing := reconcile.Index(stored, func(ticket domain.Ticket) string { return ticket.PositionID })

	changes := reconcile.Diff(existing, incoming, domain.Ticket.SameFields)
	err = reconcile.Apply(ctx, changes, reconcile.ApplyFuncs[string, domain.Ticket]{
		InsertFn: func(ctx context.Context, _ string, next domain.Ticket) error {
			return s.store.InsertTicket(ctx, next)
		},
		UpdateFn: func(ctx context.Context, _ string, current, next domain.Ticket) error {
			next.ID = current.ID
			return s.store.UpdateTicket(ctx, next)
		},
		RemoveFn: func(ctx context.Context, positionID string, _ domain.Ticket) error {
			return s.store.SoftDeleteTicket(ctx, eventConfigID, positionID)
		},
	})
	if err != nil {
		return err
	}
	if !changes.Empty() || skipped > 0 {
		s.log.InfoContext(ctx, "tickets_synced",
			"event_id", snapshot.Config.EventID,
			"inserted", len(changes.Insert),
			"updated", len(changes.Update),
			"removed", len(changes.Remove),
			"skipped", skipped,
		)
	}
	return nil
}

var emailValidator = validator.New()

// usableEmail returns the normalized address, or "" when it is blank or malformed.
func usableEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if emailValidator.Var(email, "required,email") != nil {
		return ""
	}
	return email
}
