package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fr0stylo/ticketsync/internal/adapters/sqlite"
	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/config"
)

func main() {
	var (
		dbPath      string
		organizerID string
	)

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadForTool()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	flag.StringVar(&dbPath, "db", cfg.Database.Path, "database path without .sqlite suffix")
	flag.StringVar(&organizerID, "org", "", "limit the report to one organizer id")
	flag.Parse()

	ctx := context.Background()
	store, err := sqlite.OpenStore(dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = store.Close() }()

	organizers, err := store.LoadOrganizerConfigs(ctx)
	if err != nil {
		log.Fatalf("load organizers: %v", err)
	}
	organizerID = strings.TrimSpace(organizerID)
	if organizerID != "" {
		organizers = slices.DeleteFunc(organizers, func(org domain.OrganizerConfig) bool {
			return org.OrganizerID != organizerID
		})
		if len(organizers) == 0 {
			log.Fatalf("organizer %q not found or disabled", organizerID)
		}
	}

	fmt.Printf("organizers: %d\n", len(organizers))
	var totalTickets int64
	for _, org := range organizers {
		fmt.Printf("\n%s (%d events)\n", org.OrganizerID, len(org.Events))
		for _, event := range org.Events {
			tickets, err := store.CountTickets(ctx, event.EventConfigID)
			if err != nil {
				log.Fatalf("count tickets for %s: %v", event.EventConfigID, err)
			}
			items, err := store.ListItemInfos(ctx, event.EventConfigID)
			if err != nil {
				log.Fatalf("list items for %s: %v", event.EventConfigID, err)
			}
			totalTickets += tickets
			fmt.Printf("- %s event=%s live_items=%d/%d live_tickets=%d\n",
				event.EventConfigID, event.EventID, len(items), len(event.ActiveItemIDs), tickets)
		}
	}
	fmt.Printf("\nlive tickets: %d\n", totalTickets)

	fmt.Printf("\ngroups:\n")
	for _, groupID := range []string{domain.GroupAttendees, domain.GroupOrganizers} {
		members, err := store.ListGroupMembers(ctx, groupID)
		if err != nil {
			log.Fatalf("list %s members: %v", groupID, err)
		}
		snapshot, ok, err := store.LatestHistoricGroupSnapshot(ctx, groupID)
		if err != nil {
			log.Fatalf("load %s snapshot: %v", groupID, err)
		}
		latest := "none"
		if ok {
			latest = fmt.Sprintf("%s at %s", snapshot.RootHash, snapshot.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
		}
		fmt.Printf("- %s members=%d latest_root=%s\n", groupID, len(members), latest)
	}
}
