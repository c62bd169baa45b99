package provider

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// localizedString decodes provider text that is either a plain string or a
// language-keyed object.
type localizedString string

func (l *localizedString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = ""
		return nil
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*l = localizedString(plain)
		return nil
	}
	var byLang map[string]string
	if err := json.Unmarshal(data, &byLang); err != nil {
		return err
	}
	*l = localizedString(pickLanguage(byLang))
	return nil
}

func pickLanguage(byLang map[string]string) string {
	if value, ok := byLang["en"]; ok {
		return value
	}
	keys := lo.Keys(byLang)
	slices.Sort(keys)
	for _, key := range keys {
		if value := strings.TrimSpace(byLang[key]); value != "" {
			return value
		}
	}
	return ""
}

type settingsDTO struct {
	AttendeeEmailsAsked    bool `json:"attendee_emails_asked"`
	AttendeeEmailsRequired bool `json:"attendee_emails_required"`
}

type eventDTO struct {
	Slug string          `json:"slug" validate:"required"`
	Name localizedString `json:"name"`
}

type itemDTO struct {
	ID              int64           `json:"id" validate:"gt=0"`
	Name            localizedString `json:"name"`
	Admission       bool            `json:"admission"`
	Personalized    bool            `json:"personalized"`
	GenerateTickets *bool           `json:"generate_tickets"`
}

type checkinDTO struct {
	List int64  `json:"list"`
	Type string `json:"type"`
}

type positionDTO struct {
	ID            int64        `json:"id" validate:"gt=0"`
	Item          int64        `json:"item" validate:"gt=0"`
	AttendeeName  string       `json:"attendee_name"`
	AttendeeEmail string       `json:"attendee_email"`
	Secret        string       `json:"secret"`
	Checkins      []checkinDTO `json:"checkins"`
}

type orderDTO struct {
	Code      string        `json:"code" validate:"required"`
	Status    string        `json:"status" validate:"required,oneof=n p e c"`
	Email     string        `json:"email"`
	Positions []positionDTO `json:"positions" validate:"dive"`
}

type page[T any] struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []T    `json:"results" validate:"dive"`
}
