package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sourcegraph/conc/pool"

	"github.com/fr0stylo/ticketsync/internal/adapters/errorsink"
	"github.com/fr0stylo/ticketsync/internal/adapters/sqlite"
	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/ports"
	"github.com/fr0stylo/ticketsync/internal/app/services"
	"github.com/fr0stylo/ticketsync/internal/config"
	"github.com/fr0stylo/ticketsync/internal/db"
	"github.com/fr0stylo/ticketsync/internal/observability"
	"github.com/fr0stylo/ticketsync/internal/provider"
	"github.com/fr0stylo/ticketsync/internal/queue"
	"github.com/fr0stylo/ticketsync/internal/server"
	"github.com/fr0stylo/ticketsync/internal/server/routes"
)

func Run() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := slog.LevelInfo
	if cfg.IsLocalDevelopment() {
		level = slog.LevelDebug
	}
	log := observability.NewLogger(os.Stdout, cfg.Logging.Format, level)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.SetupOpenTelemetry(ctx, log, observability.OpenTelemetryConfig{
		Enabled:           cfg.Observability.Enabled,
		OTLPEndpoint:      cfg.Observability.OTLPEndpoint,
		OTLPTraceHeaders:  cfg.Observability.OTLPTraceHeaders,
		OTLPMetricHeaders: cfg.Observability.OTLPMetricHeaders,
		ServiceName:       cfg.Observability.ServiceName,
		ServiceVer:        cfg.Observability.ServiceVer,
		SamplingRatio:     cfg.Observability.SamplingRatio,
		MetricsConsole:    cfg.Observability.MetricsConsole,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			slog.Error("Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	if cfg.Database.LogTiming {
		go logDBLatencyStats(ctx, log, database)
	}

	store := sqlite.NewStore(database)

	reporter, wait, err := newReporter(cfg, log)
	if err != nil {
		return err
	}
	defer wait()

	membership := services.NewMembershipService(store, []domain.GroupDefinition{
		{ID: domain.GroupAttendees, Depth: cfg.Groups.Depth},
		{ID: domain.GroupOrganizers, Depth: cfg.Groups.Depth},
	}, log)
	if err := membership.Init(ctx); err != nil {
		return fmt.Errorf("failed to restore membership groups: %w", err)
	}

	fetchQueue := queue.New("provider-fetch", cfg.Sync.FetchConcurrency)
	orchestrator := services.NewOrchestrator(services.OrchestratorDeps{
		Configs: store,
		Tickets: store,
		Providers: func(org domain.OrganizerConfig, requester ports.Requester) ports.ProviderClient {
			return provider.New(org, requester)
		},
		Transport: queue.BoundDoer(fetchQueue, provider.NewHTTPClient(cfg.HTTPTimeout())),
		Groups:    membership,
		Reporter:  reporter,
		Log:       log,
	}, services.OrchestratorConfig{
		Interval:  cfg.SyncInterval(),
		RateLimit: cfg.Sync.RateLimit,
	})

	srv := server.New(log)
	srv.RegisterRouter(routes.NewStatusRoutes(orchestrator))
	srv.RegisterRouter(routes.NewGroupRoutes(membership))

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		slog.Info("Starting sync loop", "interval", cfg.SyncInterval(), "rate_limit", cfg.Sync.RateLimit)
		if err := orchestrator.Start(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("Starting server", "port", cfg.Server.Port)
		return srv.Start(addr)
	})
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return p.Wait()
}

func main() {
	if err := Run(); err != nil {
		slog.Error("ticketsync exited", "error", err)
		os.Exit(1)
	}
}

func newReporter(cfg config.Config, log *slog.Logger) (ports.ErrorReporter, func(), error) {
	if cfg.ErrorSink.URL == "" {
		return ports.NopReporter{}, func() {}, nil
	}
	reporter, err := errorsink.New(cfg.ErrorSink.URL, cfg.ErrorSink.Source, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create error sink: %w", err)
	}
	return reporter, reporter.Wait, nil
}

func logDBLatencyStats(ctx context.Context, log *slog.Logger, database *db.Database) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		stats := database.QueryLatencyStats()
		limit := min(5, len(stats))
		for _, entry := range stats[:limit] {
			log.Info("db_query_latency",
				"query", entry.Name,
				"count", entry.Count,
				"p50_ms", entry.P50.Milliseconds(),
				"p95_ms", entry.P95.Milliseconds(),
				"max_ms", entry.Max.Milliseconds(),
			)
		}
	}
}
