package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

type organizerStoreFake struct {
	existing []domain.OrganizerConfig
	saved    map[string]domain.OrganizerConfig
	disabled map[string]bool
	deleted  []string
	linked   map[string]string
}

func newOrganizerStoreFake(existing ...domain.OrganizerConfig) *organizerStoreFake {
	return &organizerStoreFake{
		existing: existing,
		saved:    map[string]domain.OrganizerConfig{},
		disabled: map[string]bool{},
		linked:   map[string]string{},
	}
}

func (f *organizerStoreFake) LoadOrganizerConfigs(context.Context) ([]domain.OrganizerConfig, error) {
	return f.existing, nil
}

func (f *organizerStoreFake) SaveOrganizerConfig(_ context.Context, cfg domain.OrganizerConfig, disabled bool) error {
	f.saved[cfg.OrganizerID] = cfg
	f.disabled[cfg.OrganizerID] = disabled
	return nil
}

func (f *organizerStoreFake) DeleteOrganizerConfig(_ context.Context, organizerID string) error {
	f.deleted = append(f.deleted, organizerID)
	return nil
}

func (f *organizerStoreFake) LinkIdentity(_ context.Context, email, commitment string) error {
	f.linked[email] = commitment
	return nil
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "organizers.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleConfig = `
organizers:
  - id: conf
    base_url: https://tickets.example.com/api/v1/organizers/conf/
    api_token: secret
    events:
      - event_id: summit26
        active_items: ["11", "12"]
        superuser_items: ["12"]
  - id: meetup
    base_url: https://tickets.example.com/api/v1/organizers/meetup
    api_token: other
    disabled: true
    events:
      - event_id: m1
        config_id: meetup-m1
        active_items: ["7"]
identities:
  - email: ada@example.com
    commitment: "0x01"
`

func TestLoadConfigMapsEvents(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Organizers) != 2 {
		t.Fatalf("expected 2 organizers, got %d", len(cfg.Organizers))
	}

	org := cfg.Organizers[0].toDomain()
	if org.BaseURL != "https://tickets.example.com/api/v1/organizers/conf" {
		t.Fatalf("unexpected base url: %s", org.BaseURL)
	}
	event := org.Events[0]
	if event.EventConfigID != "conf:summit26" {
		t.Fatalf("unexpected config id: %s", event.EventConfigID)
	}
	if !event.IsActiveItem("11") || !event.IsActiveItem("12") {
		t.Fatalf("expected both items active: %v", event.ActiveItemIDs)
	}
	if _, ok := event.SuperuserItemIDs["12"]; !ok {
		t.Fatalf("expected superuser item 12")
	}
	if got := cfg.Organizers[1].toDomain().Events[0].EventConfigID; got != "meetup-m1" {
		t.Fatalf("explicit config id not kept: %s", got)
	}
}

func TestLoadConfigRejectsInvalidEntries(t *testing.T) {
	tests := map[string]string{
		"missing token": `
organizers:
  - id: conf
    base_url: https://tickets.example.com
    events: []
`,
		"no active items": `
organizers:
  - id: conf
    base_url: https://tickets.example.com
    api_token: secret
    events:
      - event_id: e1
`,
		"bad email": `
identities:
  - email: not-an-email
    commitment: "0x01"
`,
		"duplicate organizer": `
organizers:
  - id: conf
    base_url: https://tickets.example.com
    api_token: a
  - id: conf
    base_url: https://tickets.example.com
    api_token: b
`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApplySavesLinksAndPrunes(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store := newOrganizerStoreFake(
		domain.OrganizerConfig{OrganizerID: "conf"},
		domain.OrganizerConfig{OrganizerID: "retired"},
	)

	summary, err := apply(context.Background(), store, cfg, true)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if summary.Saved != 2 || summary.Deleted != 1 || summary.Linked != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !store.disabled["meetup"] || store.disabled["conf"] {
		t.Fatalf("unexpected disabled flags: %v", store.disabled)
	}
	if strings.Join(store.deleted, ",") != "retired" {
		t.Fatalf("unexpected deletions: %v", store.deleted)
	}
	if store.linked["ada@example.com"] != "0x01" {
		t.Fatalf("identity not linked: %v", store.linked)
	}
}

func TestApplyWithoutPruneKeepsUnlisted(t *testing.T) {
	store := newOrganizerStoreFake(domain.OrganizerConfig{OrganizerID: "retired"})

	summary, err := apply(context.Background(), store, fileConfig{}, false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if summary.Deleted != 0 || len(store.deleted) != 0 {
		t.Fatalf("expected no deletions, got %v", store.deleted)
	}
}
