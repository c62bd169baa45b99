package routes

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

// SyncStatus is the read side of the sync orchestrator.
type SyncStatus interface {
	SyncResults() map[string]domain.SyncResult
	HasCompletedSyncSinceStarting() bool
}

// StatusRoutes registers health and sync status endpoints.
type StatusRoutes struct {
	sync SyncStatus
}

// NewStatusRoutes constructs status routes.
func NewStatusRoutes(sync SyncStatus) *StatusRoutes {
	return &StatusRoutes{sync: sync}
}

// RegisterRoutes registers status endpoints.
func (r *StatusRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/healthz", r.handleHealth)
	s.GET("/status", r.handleStatus)
}

type organizerStatus struct {
	OrganizerID string     `json:"organizerId"`
	RunID       string     `json:"runId"`
	Outcome     string     `json:"outcome"`
	Phase       string     `json:"phase"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

type statusResponse struct {
	Completed  bool              `json:"completed"`
	Organizers []organizerStatus `json:"organizers"`
}

func (r *StatusRoutes) handleHealth(c echo.Context) error {
	if !r.sync.HasCompletedSyncSinceStarting() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "starting"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (r *StatusRoutes) handleStatus(c echo.Context) error {
	results := r.sync.SyncResults()
	organizers := make([]organizerStatus, 0, len(results))
	for _, result := range results {
		organizers = append(organizers, organizerStatus{
			OrganizerID: result.OrganizerID,
			RunID:       result.RunID,
			Outcome:     string(result.Outcome),
			Phase:       string(result.Phase),
			Error:       result.CauseMessage(),
			StartedAt:   optionalTime(result.StartedAt),
			FinishedAt:  optionalTime(result.FinishedAt),
		})
	}
	slices.SortFunc(organizers, func(a, b organizerStatus) int {
		return strings.Compare(a.OrganizerID, b.OrganizerID)
	})
	return c.JSON(http.StatusOK, statusResponse{
		Completed:  r.sync.HasCompletedSyncSinceStarting(),
		Organizers: organizers,
	})
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
