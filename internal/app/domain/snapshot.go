package domain

// EventSnapshot is one fetch cycle's provider state for one event.
// It is validated and saved, then discarded.
type EventSnapshot struct {
	Config   EventConfig
	Settings EventSettings
	Event    EventMeta
	Items    []Item
	Orders   []Order
}

// EventSettings holds the provider settings the sync depends on.
type EventSettings struct {
	AttendeeEmailsAsked    bool
	AttendeeEmailsRequired bool
}

// EventMeta is provider-side event metadata.
type EventMeta struct {
	Slug string
	Name string
}

// Item is a provider-side product.
type Item struct {
	ID              string
	Name            string
	Admission       bool
	Personalized    bool
	GenerateTickets *bool
}

// OrderStatusPaid is the only order status whose positions become tickets.
const OrderStatusPaid = "p"

// Order is a provider-side purchase.
type Order struct {
	Code      string
	Status    string
	Email     string
	Positions []Position
}

// Position is one ticket-equivalent line within an order.
type Position struct {
	ID           string
	ItemID       string
	AttendeeName string
	Email        string
	Secret       string
	CheckedIn    bool
}
