package domain

import "sort"

// OrganizerConfig is one provider account and the events synced from it.
type OrganizerConfig struct {
	OrganizerID string
	BaseURL     string
	APIToken    string
	Events      []EventConfig
}

// EventConfig selects one provider event and the items admitted for it.
type EventConfig struct {
	EventID          string
	EventConfigID    string
	ActiveItemIDs    map[string]struct{}
	SuperuserItemIDs map[string]struct{}
}

// IsActiveItem reports whether itemID is an admission product for the event.
func (e EventConfig) IsActiveItem(itemID string) bool {
	_, ok := e.ActiveItemIDs[itemID]
	return ok
}

// SortedActiveItemIDs returns the active item ids in ascending order.
func (e EventConfig) SortedActiveItemIDs() []string {
	return sortedKeys(e.ActiveItemIDs)
}

// SortedSuperuserItemIDs returns the superuser item ids in ascending order.
func (e EventConfig) SortedSuperuserItemIDs() []string {
	return sortedKeys(e.SuperuserItemIDs)
}

// Equal compares two organizer configs field by field.
func (o OrganizerConfig) Equal(other OrganizerConfig) bool {
	if o.OrganizerID != other.OrganizerID || o.BaseURL != other.BaseURL || o.APIToken != other.APIToken {
		return false
	}
	if len(o.Events) != len(other.Events) {
		return false
	}
	for i := range o.Events {
		a, b := o.Events[i], other.Events[i]
		if a.EventID != b.EventID || a.EventConfigID != b.EventConfigID {
			return false
		}
		if !sameSet(a.ActiveItemIDs, b.ActiveItemIDs) || !sameSet(a.SuperuserItemIDs, b.SuperuserItemIDs) {
			return false
		}
	}
	return true
}

// NewIDSet builds an id set from a list.
func NewIDSet(ids ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for key := range a {
		if _, ok := b[key]; !ok {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
