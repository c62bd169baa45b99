package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/fr0stylo/ticketsync/internal/adapters/sqlite"
	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/services"
	"github.com/fr0stylo/ticketsync/internal/config"
)

func main() {
	var (
		dbPath string
		depth  int
		dryRun bool
	)

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadForTool()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	flag.StringVar(&dbPath, "db", cfg.Database.Path, "database path without .sqlite suffix")
	flag.IntVar(&depth, "depth", cfg.Groups.Depth, "group tree depth")
	flag.BoolVar(&dryRun, "restore-only", false, "print restored roots without reloading membership")
	flag.Parse()

	store, err := sqlite.OpenStore(dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	membership := services.NewMembershipService(store, []domain.GroupDefinition{
		{ID: domain.GroupAttendees, Depth: depth},
		{ID: domain.GroupOrganizers, Depth: depth},
	}, logger)
	if err := membership.Init(ctx); err != nil {
		log.Fatalf("restore groups: %v", err)
	}
	if !dryRun {
		if err := membership.Reload(ctx); err != nil {
			log.Fatalf("reload groups: %v", err)
		}
	}

	for _, def := range membership.Definitions() {
		g, ok := membership.Group(def.ID)
		if !ok {
			continue
		}
		fmt.Printf("%s root=%s size=%d live=%d depth=%d\n", def.ID, g.Root(), g.Size(), len(g.LiveMembers()), g.Depth())
	}
}
