package domain

// EventInfo is the persisted name of a configured event.
type EventInfo struct {
	EventConfigID string
	Name          string
}

// ItemInfo is the persisted projection of a provider item.
type ItemInfo struct {
	ID          int64
	EventInfoID string
	ItemID      string
	Name        string
	Deleted     bool
}

// SameFields compares the operational fields of two item rows.
func (i ItemInfo) SameFields(other ItemInfo) bool {
	return i.Name == other.Name
}

// Ticket is the persisted projection of a paid order position.
type Ticket struct {
	ID            int64
	EventConfigID string
	PositionID    string
	Email         string
	FullName      string
	ItemInfoID    int64
	IsDeleted     bool
	IsConsumed    bool
	Secret        string
}

// SameFields compares name, email, item and consumption state. Row ids,
// secrets and timestamps are ignored.
func (t Ticket) SameFields(other Ticket) bool {
	return t.Email == other.Email &&
		t.FullName == other.FullName &&
		t.ItemInfoID == other.ItemInfoID &&
		t.IsConsumed == other.IsConsumed
}
