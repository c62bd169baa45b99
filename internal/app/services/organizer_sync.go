package services

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/ports"
	"github.com/fr0stylo/ticketsync/internal/observability"
	"github.com/fr0stylo/ticketsync/internal/queue"
	"github.com/fr0stylo/ticketsync/internal/ratelimit"
)

// ProviderFactory builds the provider client for one organizer. Every call the
// client makes must go through requester.
type ProviderFactory func(cfg domain.OrganizerConfig, requester ports.Requester) ports.ProviderClient

// OrganizerSync runs fetch, validate and save for one organizer. Runs are
// not retried; the next tick starts a fresh run.
type OrganizerSync struct {
	cfg       domain.OrganizerConfig
	fetcher   *ratelimit.Fetcher
	provider  ports.ProviderClient
	saveQueue *queue.Queue
	saver     eventSaver
	log       *slog.Logger
	now       func() time.Time

	phase atomic.Value
}

// NewOrganizerSync wires one organizer's sync. fetcher must be the requester
// the provider client sends through.
func NewOrganizerSync(cfg domain.OrganizerConfig, fetcher *ratelimit.Fetcher, provider ports.ProviderClient, store ports.TicketStore, log *slog.Logger) *OrganizerSync {
	if log == nil {
		log = slog.Default()
	}
	s := &OrganizerSync{
		cfg:       cfg,
		fetcher:   fetcher,
		provider:  provider,
		saveQueue: queue.NewSerial("save:" + cfg.OrganizerID),
		saver:     eventSaver{store: store, log: log},
		log:       log,
		now:       time.Now,
	}
	s.phase.Store(domain.SyncPhaseComplete)
	return s
}

// Config returns the organizer configuration this sync was built from.
func (s *OrganizerSync) Config() domain.OrganizerConfig { return s.cfg }

// Phase returns the phase of the current or last run.
func (s *OrganizerSync) Phase() domain.SyncPhase {
	return s.phase.Load().(domain.SyncPhase)
}

// Run performs one fetch → validate → save pass. Failures are returned in the
// result, never as a panic or error.
func (s *OrganizerSync) Run(ctx context.Context) domain.SyncResult {
	return s.run(ctx, uuid.NewString())
}

func (s *OrganizerSync) run(ctx context.Context, runID string) domain.SyncResult {
	result := domain.SyncResult{
		OrganizerID: s.cfg.OrganizerID,
		RunID:       runID,
		StartedAt:   s.now(),
	}
	ctx = observability.WithSyncRun(ctx, result.OrganizerID, result.RunID)
	ctx, span := observability.StartSyncSpan(ctx, "organizer", attribute.Int("ticketsync.events", len(s.cfg.Events)))
	defer span.End()

	s.fetcher.Reset()

	ctx = s.enter(ctx, domain.SyncPhaseFetching)
	snapshots, limited, err := s.fetch(ctx)
	switch {
	case limited:
		s.log.InfoContext(ctx, "organizer_rate_limited", "limit", s.fetcher.Limit())
		return s.finish(ctx, span, result, domain.SyncOutcomeRateLimited, nil)
	case err != nil:
		return s.finish(ctx, span, result, domain.SyncOutcomeFailed, err)
	}

	ctx = s.enter(ctx, domain.SyncPhaseValidating)
	if err := ValidateSnapshots(snapshots); err != nil {
		return s.finish(ctx, span, result, domain.SyncOutcomeFailed, err)
	}

	ctx = s.enter(ctx, domain.SyncPhaseSaving)
	err = s.saveQueue.Run(ctx, func(ctx context.Context) error {
		return s.saver.saveAll(ctx, snapshots)
	})
	if err != nil {
		return s.finish(ctx, span, result, domain.SyncOutcomeFailed, err)
	}

	ctx = s.enter(ctx, domain.SyncPhaseComplete)
	return s.finish(ctx, span, result, domain.SyncOutcomeSuccess, nil)
}

func (s *OrganizerSync) enter(ctx context.Context, phase domain.SyncPhase) context.Context {
	s.phase.Store(phase)
	return observability.WithSyncPhase(ctx, string(phase))
}

func (s *OrganizerSync) finish(ctx context.Context, span observability.Span, result domain.SyncResult, outcome domain.SyncOutcome, err error) domain.SyncResult {
	result.Outcome = outcome
	result.Phase = s.Phase()
	result.FinishedAt = s.now()
	if err != nil {
		result.Cause = &SyncError{OrganizerID: result.OrganizerID, Phase: result.Phase, Err: err}
		span.RecordError(result.Cause)
		s.log.ErrorContext(ctx, "organizer_sync_failed",
			"kind", ClassifySyncError(err),
			"error", err,
		)
	}
	span.SetAttributes(attribute.String("ticketsync.outcome", string(outcome)))
	s.log.InfoContext(ctx, "organizer_sync_finished",
		"outcome", outcome,
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
		"requests", s.fetcher.Count(),
	)
	return result
}

type fetchOutcome struct {
	snapshots []domain.EventSnapshot
	err       error
}

// fetch reads every event concurrently and races the fetcher's pause signal.
// If the pause wins, in-flight reads are cancelled and nothing is returned.
func (s *OrganizerSync) fetch(ctx context.Context) ([]domain.EventSnapshot, bool, error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan fetchOutcome, 1)
	go func() {
		var out fetchOutcome
		var catcher panics.Catcher
		catcher.Try(func() { out = s.fetchAll(fetchCtx) })
		if recovered := catcher.Recovered(); recovered != nil {
			out = fetchOutcome{err: errors.Join(ErrPanic, recovered.AsError())}
		}
		done <- out
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, false, out.err
		}
		return out.snapshots, false, nil
	case <-s.fetcher.Paused():
		select {
		case out := <-done:
			if out.err == nil {
				return out.snapshots, false, nil
			}
		default:
		}
		cancel()
		return nil, true, nil
	}
}

func (s *OrganizerSync) fetchAll(ctx context.Context) fetchOutcome {
	snapshots := make([]domain.EventSnapshot, len(s.cfg.Events))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, event := range s.cfg.Events {
		p.Go(func(ctx context.Context) error {
			snapshot, err := s.provider.FetchEvent(ctx, event)
			if err != nil {
				return &FetchError{EventID: event.EventID, Err: err}
			}
			snapshot.Config = event
			snapshots[i] = snapshot
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return fetchOutcome{err: err}
	}
	return fetchOutcome{snapshots: snapshots}
}
