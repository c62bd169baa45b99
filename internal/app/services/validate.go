package services

import (
	"github.com/samber/lo"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

const (
	RuleAttendeeEmailsAsked    = "attendee emails must be asked"
	RuleAttendeeEmailsRequired = "attendee emails must be required"
	RuleItemAdmission          = "active item must be an admission product"
	RuleItemPersonalized       = "active item must be personalized"
	RuleItemGenerateTickets    = "active item must not override ticket generation"
)

// ValidateSnapshots checks every event before anything is written. All
// checks run; the result is nil or a *ValidationError listing each violation.
func ValidateSnapshots(snapshots []domain.EventSnapshot) error {
	var violations []Violation
	for _, snapshot := range snapshots {
		violations = append(violations, validateSnapshot(snapshot)...)
	}
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

func validateSnapshot(snapshot domain.EventSnapshot) []Violation {
	eventID := snapshot.Config.EventID
	var violations []Violation
	if !snapshot.Settings.AttendeeEmailsAsked {
		violations = append(violations, Violation{EventID: eventID, Rule: RuleAttendeeEmailsAsked})
	}
	if !snapshot.Settings.AttendeeEmailsRequired {
		violations = append(violations, Violation{EventID: eventID, Rule: RuleAttendeeEmailsRequired})
	}

	items := lo.KeyBy(snapshot.Items, func(item domain.Item) string { return item.ID })
	for _, itemID := range snapshot.Config.SortedActiveItemIDs() {
		item, ok := items[itemID]
		if !ok {
			// Reported by the save phase as ErrItemMissingUpstream.
			continue
		}
		if !item.Admission {
			violations = append(violations, Violation{EventID: eventID, ItemID: itemID, Rule: RuleItemAdmission})
		}
		if !item.Personalized {
			violations = append(violations, Violation{EventID: eventID, ItemID: itemID, Rule: RuleItemPersonalized})
		}
		if item.GenerateTickets != nil {
			violations = append(violations, Violation{EventID: eventID, ItemID: itemID, Rule: RuleItemGenerateTickets})
		}
	}
	return violations
}
