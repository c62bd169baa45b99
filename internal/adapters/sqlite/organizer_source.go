package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/db/queries"
)

// LoadOrganizerConfigs returns every enabled organizer with its events.
func (s *Store) LoadOrganizerConfigs(ctx context.Context) ([]domain.OrganizerConfig, error) {
	organizers, err := s.db.ListEnabledOrganizerConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}
	events, err := s.db.ListEnabledEventConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list event configs: %w", err)
	}

	byOrganizer := make(map[string][]domain.EventConfig, len(organizers))
	for _, row := range events {
		active, err := decodeIDList(row.ActiveItemIds)
		if err != nil {
			return nil, fmt.Errorf("event config %s active items: %w", row.ID, err)
		}
		superusers, err := decodeIDList(row.SuperuserItemIds)
		if err != nil {
			return nil, fmt.Errorf("event config %s superuser items: %w", row.ID, err)
		}
		byOrganizer[row.OrganizerID] = append(byOrganizer[row.OrganizerID], domain.EventConfig{
			EventID:          row.EventID,
			EventConfigID:    row.ID,
			ActiveItemIDs:    domain.NewIDSet(active...),
			SuperuserItemIDs: domain.NewIDSet(superusers...),
		})
	}

	out := make([]domain.OrganizerConfig, 0, len(organizers))
	for _, row := range organizers {
		out = append(out, domain.OrganizerConfig{
			OrganizerID: row.ID,
			BaseURL:     row.BaseUrl,
			APIToken:    row.ApiToken,
			Events:      byOrganizer[row.ID],
		})
	}
	return out, nil
}

// SaveOrganizerConfig writes an organizer and its events in one transaction.
func (s *Store) SaveOrganizerConfig(ctx context.Context, cfg domain.OrganizerConfig, disabled bool) error {
	organizerID := strings.TrimSpace(cfg.OrganizerID)
	if organizerID == "" {
		return fmt.Errorf("organizer id is required")
	}
	return s.db.WithTx(ctx, func(q *queries.Queries) error {
		if err := q.UpsertOrganizerConfig(ctx, queries.UpsertOrganizerConfigParams{
			ID:       organizerID,
			BaseUrl:  strings.TrimSpace(cfg.BaseURL),
			ApiToken: cfg.APIToken,
			Disabled: boolToInt(disabled),
		}); err != nil {
			return fmt.Errorf("upsert organizer %s: %w", organizerID, err)
		}
		for _, event := range cfg.Events {
			active, err := encodeIDList(event.SortedActiveItemIDs())
			if err != nil {
				return err
			}
			superusers, err := encodeIDList(event.SortedSuperuserItemIDs())
			if err != nil {
				return err
			}
			if err := q.UpsertEventConfig(ctx, queries.UpsertEventConfigParams{
				ID:               event.EventConfigID,
				OrganizerID:      organizerID,
				EventID:          event.EventID,
				ActiveItemIds:    active,
				SuperuserItemIds: superusers,
			}); err != nil {
				return fmt.Errorf("upsert event config %s: %w", event.EventConfigID, err)
			}
		}
		return nil
	})
}

// DeleteOrganizerConfig removes an organizer and, by cascade, its event configs.
func (s *Store) DeleteOrganizerConfig(ctx context.Context, organizerID string) error {
	return s.db.DeleteOrganizerConfig(ctx, organizerID)
}

func decodeIDList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func encodeIDList(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
