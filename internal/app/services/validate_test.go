package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

func TestValidateSnapshotsAcceptsWellFormedEvents(t *testing.T) {
	cfg := eventConfig("ev1", "i1")
	snapshot := snapshotFor(cfg, []domain.Item{admissionItem("i1", "Standard"), {ID: "merch", Name: "Shirt"}})

	assert.NoError(t, ValidateSnapshots([]domain.EventSnapshot{snapshot}))
}

func TestValidateSnapshotsCollectsEveryViolation(t *testing.T) {
	generate := true
	first := snapshotFor(eventConfig("ev1", "i1"), []domain.Item{
		{ID: "i1", Name: "Standard", Admission: false, Personalized: false, GenerateTickets: &generate},
	})
	second := snapshotFor(eventConfig("ev2", "i2"), []domain.Item{admissionItem("i2", "VIP")})
	second.Settings = domain.EventSettings{}

	err := ValidateSnapshots([]domain.EventSnapshot{first, second})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))

	assert.ElementsMatch(t, []Violation{
		{EventID: "ev1", ItemID: "i1", Rule: RuleItemAdmission},
		{EventID: "ev1", ItemID: "i1", Rule: RuleItemPersonalized},
		{EventID: "ev1", ItemID: "i1", Rule: RuleItemGenerateTickets},
		{EventID: "ev2", Rule: RuleAttendeeEmailsAsked},
		{EventID: "ev2", Rule: RuleAttendeeEmailsRequired},
	}, validationErr.Violations)
	assert.Contains(t, err.Error(), "5 validation violation(s)")
	assert.Equal(t, SyncErrorValidation, ClassifySyncError(err))
}

func TestValidateSnapshotsIgnoresInactiveAndMissingItems(t *testing.T) {
	cfg := eventConfig("ev1", "i1", "gone")
	snapshot := snapshotFor(cfg, []domain.Item{
		admissionItem("i1", "Standard"),
		{ID: "parking", Name: "Parking"},
	})

	assert.NoError(t, ValidateSnapshots([]domain.EventSnapshot{snapshot}))
}

func TestClassifySyncError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want SyncErrorKind
	}{
		{name: "nil", err: nil, want: SyncErrorUnknown},
		{name: "fetch", err: &FetchError{EventID: "ev1", Err: errors.New("boom")}, want: SyncErrorFetch},
		{name: "missing item", err: &SaveError{Err: &EventSaveError{Step: stepItems, Err: ErrItemMissingUpstream}}, want: SyncErrorItemMissingUpstream},
		{name: "save", err: &SaveError{Err: errors.New("disk full")}, want: SyncErrorSave},
		{name: "panic", err: errors.Join(ErrPanic, errors.New("nil map")), want: SyncErrorPanic},
		{name: "other", err: errors.New("other"), want: SyncErrorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySyncError(tt.err))
		})
	}
}
