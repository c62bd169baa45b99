package ports

import (
	"context"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

// ErrorReporter forwards failed sync results to an error-tracking sink.
// Report must not block the caller on the sink.
type ErrorReporter interface {
	Report(ctx context.Context, result domain.SyncResult)
}

// NopReporter discards every report.
type NopReporter struct{}

func (NopReporter) Report(context.Context, domain.SyncResult) {}
