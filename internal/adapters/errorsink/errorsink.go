// Package errorsink forwards failed sync results to an HTTP CloudEvents
// endpoint. Sends happen in the background and never block the sync loop.
package errorsink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/ports"
	"github.com/fr0stylo/ticketsync/internal/app/services"
)

const (
	// EventTypeSyncFailed is the CloudEvents type of every report.
	EventTypeSyncFailed = "dev.ticketsync.sync.failed.v1"

	defaultSendTimeout = 10 * time.Second
)

type syncFailure struct {
	OrganizerID string    `json:"organizerId,omitempty"`
	RunID       string    `json:"runId,omitempty"`
	Outcome     string    `json:"outcome"`
	Phase       string    `json:"phase"`
	Kind        string    `json:"kind"`
	Error       string    `json:"error"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Reporter publishes one CloudEvent per failed SyncResult.
type Reporter struct {
	client  cloudevents.Client
	source  string
	timeout time.Duration
	log     *slog.Logger
	wg      conc.WaitGroup
}

var _ ports.ErrorReporter = (*Reporter)(nil)

// New returns a reporter posting to target. source becomes the CloudEvents
// source attribute.
func New(target, source string, log *slog.Logger) (*Reporter, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("error sink url is required")
	}
	if strings.TrimSpace(source) == "" {
		source = "ticketsync"
	}
	if log == nil {
		log = slog.Default()
	}
	client, err := cloudevents.NewClientHTTP(cloudevents.WithTarget(target))
	if err != nil {
		return nil, fmt.Errorf("create cloudevents client: %w", err)
	}
	return &Reporter{client: client, source: source, timeout: defaultSendTimeout, log: log}, nil
}

// Report builds the event and sends it in the background. The send is
// detached from ctx cancellation but bounded by the reporter timeout.
func (r *Reporter) Report(ctx context.Context, result domain.SyncResult) {
	event, err := r.buildEvent(result)
	if err != nil {
		r.log.WarnContext(ctx, "error_sink_encode_failed", "organizer_id", result.OrganizerID, "error", err)
		return
	}

	sendCtx := context.WithoutCancel(ctx)
	r.wg.Go(func() {
		ctx, cancel := context.WithTimeout(sendCtx, r.timeout)
		defer cancel()
		res := r.client.Send(ctx, event)
		if !cloudevents.IsACK(res) {
			r.log.WarnContext(ctx, "error_sink_send_failed",
				"organizer_id", result.OrganizerID,
				"event_id", event.ID(),
				"undelivered", cloudevents.IsUndelivered(res),
				"error", res,
			)
		}
	})
}

// Wait blocks until every pending send has finished.
func (r *Reporter) Wait() {
	r.wg.Wait()
}

func (r *Reporter) buildEvent(result domain.SyncResult) (cloudevents.Event, error) {
	id := result.RunID
	if id == "" {
		id = uuid.NewString()
	}
	finished := result.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	event := cloudevents.NewEvent()
	event.SetID(id)
	event.SetType(EventTypeSyncFailed)
	event.SetSource(r.source)
	event.SetTime(finished.UTC())
	if result.OrganizerID != "" {
		event.SetSubject(result.OrganizerID)
	}
	err := event.SetData(cloudevents.ApplicationJSON, syncFailure{
		OrganizerID: result.OrganizerID,
		RunID:       result.RunID,
		Outcome:     string(result.Outcome),
		Phase:       string(result.Phase),
		Kind:        string(services.ClassifySyncError(result.Cause)),
		Error:       result.CauseMessage(),
		StartedAt:   result.StartedAt.UTC(),
		FinishedAt:  finished.UTC(),
	})
	if err != nil {
		return cloudevents.Event{}, err
	}
	return event, event.Validate()
}
