package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

var (
	// ErrItemMissingUpstream indicates an active item id absent from the provider item list.
	ErrItemMissingUpstream = errors.New("active item missing upstream")
	// ErrPanic indicates an organizer run that panicked.
	ErrPanic = errors.New("organizer run panicked")
)

// SyncError ties a failure to the organizer and phase it happened in.
type SyncError struct {
	OrganizerID string
	Phase       domain.SyncPhase
	Err         error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("organizer %s failed while %s: %v", e.OrganizerID, e.Phase, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// FetchError is a provider read failure for one event.
type FetchError struct {
	EventID string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch event %s: %v", e.EventID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Violation is one failed provider configuration check.
type Violation struct {
	EventID string
	ItemID  string
	Rule    string
}

func (v Violation) String() string {
	if v.ItemID == "" {
		return fmt.Sprintf("event %s: %s", v.EventID, v.Rule)
	}
	return fmt.Sprintf("event %s item %s: %s", v.EventID, v.ItemID, v.Rule)
}

// ValidationError lists every violation found across an organizer's events.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, violation := range e.Violations {
		parts = append(parts, violation.String())
	}
	return fmt.Sprintf("%d validation violation(s): %s", len(e.Violations), strings.Join(parts, "; "))
}

// EventSaveError is a save failure for one event.
type EventSaveError struct {
	EventConfigID string
	Step          string
	Err           error
}

func (e *EventSaveError) Error() string {
	return fmt.Sprintf("save event %s (%s): %v", e.EventConfigID, e.Step, e.Err)
}

func (e *EventSaveError) Unwrap() error { return e.Err }

// SaveError joins the per-event failures of one save phase.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return e.Err.Error() }

func (e *SaveError) Unwrap() error { return e.Err }

// SyncErrorKind classifies sync failures for reporting.
type SyncErrorKind string

const (
	SyncErrorUnknown             SyncErrorKind = "unknown"
	SyncErrorFetch               SyncErrorKind = "fetch"
	SyncErrorValidation          SyncErrorKind = "validation"
	SyncErrorItemMissingUpstream SyncErrorKind = "item_missing_upstream"
	SyncErrorSave                SyncErrorKind = "save"
	SyncErrorPanic               SyncErrorKind = "panic"
)

// ClassifySyncError classifies an error returned in a SyncResult.
func ClassifySyncError(err error) SyncErrorKind {
	var (
		fetchErr      *FetchError
		validationErr *ValidationError
		saveErr       *SaveError
	)
	switch {
	case err == nil:
		return SyncErrorUnknown
	case errors.Is(err, ErrPanic):
		return SyncErrorPanic
	case errors.As(err, &validationErr):
		return SyncErrorValidation
	case errors.Is(err, ErrItemMissingUpstream):
		return SyncErrorItemMissingUpstream
	case errors.As(err, &saveErr):
		return SyncErrorSave
	case errors.As(err, &fetchErr):
		return SyncErrorFetch
	default:
		return SyncErrorUnknown
	}
}
