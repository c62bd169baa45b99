package main

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

type organizerStore interface {
	LoadOrganizerConfigs(ctx context.Context) ([]domain.OrganizerConfig, error)
	SaveOrganizerConfig(ctx context.Context, cfg domain.OrganizerConfig, disabled bool) error
	DeleteOrganizerConfig(ctx context.Context, organizerID string) error
	LinkIdentity(ctx context.Context, email, commitment string) error
}

type applySummary struct {
	Saved   int
	Deleted int
	Linked  int
}

// apply writes the file into the store. With prune, enabled organizers that
// the file no longer lists are deleted.
func apply(ctx context.Context, store organizerStore, file fileConfig, prune bool) (applySummary, error) {
	var summary applySummary

	var existing []domain.OrganizerConfig
	if prune {
		var err error
		existing, err = store.LoadOrganizerConfigs(ctx)
		if err != nil {
			return summary, fmt.Errorf("load organizers: %w", err)
		}
	}

	for _, org := range file.Organizers {
		if err := store.SaveOrganizerConfig(ctx, org.toDomain(), org.Disabled); err != nil {
			return summary, fmt.Errorf("save organizer %s: %w", org.ID, err)
		}
		summary.Saved++
	}

	listed := lo.SliceToMap(file.Organizers, func(org organizerEntry) (string, struct{}) { return org.ID, struct{}{} })
	for _, org := range existing {
		if _, ok := listed[org.OrganizerID]; ok {
			continue
		}
		if err := store.DeleteOrganizerConfig(ctx, org.OrganizerID); err != nil {
			return summary, fmt.Errorf("delete organizer %s: %w", org.OrganizerID, err)
		}
		summary.Deleted++
	}

	for _, identity := range file.Identities {
		if err := store.LinkIdentity(ctx, identity.Email, identity.Commitment); err != nil {
			return summary, fmt.Errorf("link identity %s: %w", identity.Email, err)
		}
		summary.Linked++
	}
	return summary, nil
}
