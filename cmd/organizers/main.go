package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/fr0stylo/ticketsync/internal/adapters/sqlite"
	"github.com/fr0stylo/ticketsync/internal/config"
)

func main() {
	var (
		dbPath     string
		configPath string
		prune      bool
	)

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadForTool()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	flag.StringVar(&dbPath, "db", cfg.Database.Path, "database path without .sqlite suffix")
	flag.StringVar(&configPath, "config", "", "path to YAML organizer file")
	flag.BoolVar(&prune, "prune", false, "delete organizers missing from the file")
	flag.Parse()

	file, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	store, err := sqlite.OpenStore(dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = store.Close() }()

	summary, err := apply(context.Background(), store, file, prune)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("organizers saved: %d\n", summary.Saved)
	fmt.Printf("organizers deleted: %d\n", summary.Deleted)
	fmt.Printf("identities linked: %d\n", summary.Linked)
}
