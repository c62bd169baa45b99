package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/ports"
	"github.com/fr0stylo/ticketsync/internal/ratelimit"
	"github.com/fr0stylo/ticketsync/internal/reconcile"
)

const DefaultSyncInterval = 60 * time.Second

// GroupReloader re-derives membership groups after a sync tick.
type GroupReloader interface {
	Reload(ctx context.Context) error
}

// OrchestratorDeps are the collaborators of the sync loop.
type OrchestratorDeps struct {
	Configs   ports.OrganizerConfigSource
	Tickets   ports.TicketStore
	Providers ProviderFactory
	// Transport is shared by every organizer; it is expected to be bounded
	// by the fetch queue already.
	Transport ratelimit.Doer
	Groups    GroupReloader
	Reporter  ports.ErrorReporter
	Log       *slog.Logger
}

// OrchestratorConfig tunes the sync loop.
type OrchestratorConfig struct {
	Interval  time.Duration
	RateLimit int
}

// Orchestrator keeps the set of organizer syncs in line with configuration
// and runs all of them once per tick.
type Orchestrator struct {
	deps     OrchestratorDeps
	interval time.Duration
	limit    int

	tickMu     sync.Mutex
	organizers map[string]*OrganizerSync

	resultsMu sync.RWMutex
	results   map[string]domain.SyncResult

	completed atomic.Bool
}

// NewOrchestrator builds an idle orchestrator. Call Start or TrySync to run it.
func NewOrchestrator(deps OrchestratorDeps, cfg OrchestratorConfig) *Orchestrator {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Reporter == nil {
		deps.Reporter = ports.NopReporter{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSyncInterval
	}
	return &Orchestrator{
		deps:       deps,
		interval:   cfg.Interval,
		limit:      cfg.RateLimit,
		organizers: make(map[string]*OrganizerSync),
		results:    make(map[string]domain.SyncResult),
	}
}

// Start runs TrySync immediately and then on every interval until ctx ends.
func (o *Orchestrator) Start(ctx context.Context) error {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		o.TrySync(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// TrySync performs one tick: reload configuration, run every organizer,
// record results and reload membership groups. It never returns an error;
// failures end up in SyncResults and the error reporter.
func (o *Orchestrator) TrySync(ctx context.Context) {
	o.tickMu.Lock()
	defer o.tickMu.Unlock()

	started := time.Now()
	if err := o.reloadOrganizers(ctx); err != nil {
		o.deps.Log.ErrorContext(ctx, "organizer_config_reload_failed", "error", err)
		o.deps.Reporter.Report(ctx, domain.SyncResult{
			Outcome:    domain.SyncOutcomeFailed,
			Phase:      domain.SyncPhaseConfig,
			Cause:      err,
			StartedAt:  started,
			FinishedAt: time.Now(),
		})
	}

	results := o.runAll(ctx)
	o.recordResults(ctx, results)

	if o.deps.Groups != nil {
		if err := o.deps.Groups.Reload(ctx); err != nil {
			o.deps.Log.ErrorContext(ctx, "group_reload_failed", "error", err)
		}
	}

	o.completed.Store(true)
	o.deps.Log.InfoContext(ctx, "sync_tick_finished",
		"organizers", len(results),
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

// SyncResults returns the latest result of every live organizer.
func (o *Orchestrator) SyncResults() map[string]domain.SyncResult {
	o.resultsMu.RLock()
	defer o.resultsMu.RUnlock()
	return maps.Clone(o.results)
}

// HasCompletedSyncSinceStarting reports whether at least one tick has finished.
func (o *Orchestrator) HasCompletedSyncSinceStarting() bool {
	return o.completed.Load()
}

// reloadOrganizers applies the configuration diff to the live organizer map.
// On error the map is left unchanged.
func (o *Orchestrator) reloadOrganizers(ctx context.Context) error {
	configs, err := o.deps.Configs.LoadOrganizerConfigs(ctx)
	if err != nil {
		return fmt.Errorf("load organizer configs: %w", err)
	}

	existing := make(map[string]domain.OrganizerConfig, len(o.organizers))
	for id, organizer := range o.organizers {
		existing[id] = organizer.Config()
	}
	incoming := reconcile.Index(configs, func(cfg domain.OrganizerConfig) string { return cfg.OrganizerID })

	changes := reconcile.Diff(existing, incoming, domain.OrganizerConfig.Equal)
	err = reconcile.Apply(ctx, changes, reconcile.ApplyFuncs[string, domain.OrganizerConfig]{
		InsertFn: func(ctx context.Context, id string, next domain.OrganizerConfig) error {
			o.organizers[id] = o.newOrganizerSync(next)
			o.deps.Log.InfoContext(ctx, "organizer_added", "organizer_id", id, "events", len(next.Events))
			return nil
		},
		UpdateFn: func(ctx context.Context, id string, _, next domain.OrganizerConfig) error {
			o.organizers[id] = o.newOrganizerSync(next)
			o.deps.Log.InfoContext(ctx, "organizer_replaced", "organizer_id", id, "events", len(next.Events))
			return nil
		},
		RemoveFn: func(ctx context.Context, id string, _ domain.OrganizerConfig) error {
			delete(o.organizers, id)
			o.deps.Log.InfoContext(ctx, "organizer_removed", "organizer_id", id)
			return nil
		},
	})
	if err != nil {
		return err
	}

	if len(changes.Remove) > 0 {
		o.resultsMu.Lock()
		for _, id := range changes.Remove {
			delete(o.results, id)
		}
		o.resultsMu.Unlock()
	}
	return nil
}

func (o *Orchestrator) newOrganizerSync(cfg domain.OrganizerConfig) *OrganizerSync {
	fetcher := ratelimit.New(o.limit, o.deps.Transport)
	return NewOrganizerSync(cfg, fetcher, o.deps.Providers(cfg, fetcher), o.deps.Tickets, o.deps.Log)
}

// runAll runs every live organizer concurrently and waits for all of them.
// A panicking run becomes a failed result.
func (o *Orchestrator) runAll(ctx context.Context) []domain.SyncResult {
	ids := slices.Sorted(maps.Keys(o.organizers))
	results := make([]domain.SyncResult, len(ids))

	var wg conc.WaitGroup
	for i, id := range ids {
		organizer := o.organizers[id]
		wg.Go(func() {
			runID, started := uuid.NewString(), time.Now()
			var catcher panics.Catcher
			catcher.Try(func() { results[i] = organizer.run(ctx, runID) })
			if recovered := catcher.Recovered(); recovered != nil {
				phase := organizer.Phase()
				results[i] = domain.SyncResult{
					OrganizerID: id,
					RunID:       runID,
					Outcome:     domain.SyncOutcomeFailed,
					Phase:       phase,
					Cause: &SyncError{
						OrganizerID: id,
						Phase:       phase,
						Err:         errors.Join(ErrPanic, recovered.AsError()),
					},
					StartedAt:  started,
					FinishedAt: time.Now(),
				}
			}
		})
	}
	wg.Wait()
	return results
}

func (o *Orchestrator) recordResults(ctx context.Context, results []domain.SyncResult) {
	o.resultsMu.Lock()
	for _, result := range results {
		o.results[result.OrganizerID] = result
	}
	o.resultsMu.Unlock()

	for _, result := range results {
		if result.Outcome == domain.SyncOutcomeFailed {
			o.deps.Reporter.Report(ctx, result)
		}
	}
}
