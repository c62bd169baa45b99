package domain

import "time"

// HistoricGroupSnapshot is an append-only record of one group root.
type HistoricGroupSnapshot struct {
	GroupID         string
	RootHash        string
	SerializedGroup []byte
	CreatedAt       time.Time
}

// GroupDefinition names one membership group and its tree depth.
type GroupDefinition struct {
	ID    string
	Depth int
}

const (
	// GroupAttendees holds every identity with a live ticket.
	GroupAttendees = "attendees"
	// GroupOrganizers holds every identity with a live ticket on a superuser item.
	GroupOrganizers = "organizers"
)
