package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/ports"
	"github.com/fr0stylo/ticketsync/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memTicketStore mimics the sqlite adapter: soft-deleted rows are kept and
// revived by inserts for the same key.
type memTicketStore struct {
	mu      sync.Mutex
	events  map[string]string
	items   map[string]map[string]*domain.ItemInfo
	tickets map[string]map[string]*domain.Ticket
	nextID  int64
	writes  int

	listItemsCalls   map[string]int
	listTicketsCalls map[string]int
	failInsertTicket error
}

func newMemTicketStore() *memTicketStore {
	return &memTicketStore{
		events:           make(map[string]string),
		items:            make(map[string]map[string]*domain.ItemInfo),
		tickets:          make(map[string]map[string]*domain.Ticket),
		listItemsCalls:   make(map[string]int),
		listTicketsCalls: make(map[string]int),
	}
}

func (s *memTicketStore) UpsertEventInfo(_ context.Context, info domain.EventInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.events[info.EventConfigID] = info.Name
	return nil
}

func (s *memTicketStore) ListItemInfos(_ context.Context, eventConfigID string) ([]domain.ItemInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listItemsCalls[eventConfigID]++
	var out []domain.ItemInfo
	for _, item := range s.items[eventConfigID] {
		if !item.Deleted {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (s *memTicketStore) InsertItemInfo(_ context.Context, item domain.ItemInfo) (domain.ItemInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	byItem := s.items[item.EventInfoID]
	if byItem == nil {
		byItem = make(map[string]*domain.ItemInfo)
		s.items[item.EventInfoID] = byItem
	}
	if row, ok := byItem[item.ItemID]; ok {
		row.Name = item.Name
		row.Deleted = false
		return *row, nil
	}
	s.nextID++
	item.ID = s.nextID
	item.Deleted = false
	byItem[item.ItemID] = &item
	return item, nil
}

func (s *memTicketStore) UpdateItemInfo(_ context.Context, item domain.ItemInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	row, ok := s.items[item.EventInfoID][item.ItemID]
	if !ok {
		return errors.New("item not found")
	}
	row.Name = item.Name
	return nil
}

func (s *memTicketStore) SoftDeleteItemInfo(_ context.Context, eventConfigID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if row, ok := s.items[eventConfigID][itemID]; ok {
		row.Deleted = true
	}
	return nil
}

func (s *memTicketStore) ListTickets(_ context.Context, eventConfigID string) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listTicketsCalls[eventConfigID]++
	var out []domain.Ticket
	for _, ticket := range s.tickets[eventConfigID] {
		if !ticket.IsDeleted {
			out = append(out, *ticket)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PositionID < out[j].PositionID })
	return out, nil
}

func (s *memTicketStore) InsertTicket(_ context.Context, ticket domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsertTicket != nil {
		return s.failInsertTicket
	}
	s.writes++
	byPosition := s.tickets[ticket.EventConfigID]
	if byPosition == nil {
		byPosition = make(map[string]*domain.Ticket)
		s.tickets[ticket.EventConfigID] = byPosition
	}
	if row, ok := byPosition[ticket.PositionID]; ok {
		ticket.ID = row.ID
	} else {
		s.nextID++
		ticket.ID = s.nextID
	}
	ticket.IsDeleted = false
	byPosition[ticket.PositionID] = &ticket
	return nil
}

func (s *memTicketStore) UpdateTicket(_ context.Context, ticket domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	row, ok := s.tickets[ticket.EventConfigID][ticket.PositionID]
	if !ok {
		return errors.New("ticket not found")
	}
	id := row.ID
	*row = ticket
	row.ID = id
	return nil
}

func (s *memTicketStore) SoftDeleteTicket(_ context.Context, eventConfigID, positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if row, ok := s.tickets[eventConfigID][positionID]; ok {
		row.IsDeleted = true
	}
	return nil
}

func (s *memTicketStore) ticket(eventConfigID, positionID string) (domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.tickets[eventConfigID][positionID]
	if !ok {
		return domain.Ticket{}, false
	}
	return *row, true
}

func (s *memTicketStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

var _ ports.TicketStore = (*memTicketStore)(nil)

// fakeProvider serves canned snapshots. When built through the factory, each
// FetchEvent spends one call on the organizer's requester.
type fakeProvider struct {
	mu        sync.Mutex
	snapshots map[string]domain.EventSnapshot
	errs      map[string]error
	requester ports.Requester
	fetched   []string
	onFetch   func(eventID string)
	panicOn   string
}

func newFakeProvider(snapshots ...domain.EventSnapshot) *fakeProvider {
	p := &fakeProvider{snapshots: make(map[string]domain.EventSnapshot), errs: make(map[string]error)}
	for _, snapshot := range snapshots {
		p.snapshots[snapshot.Config.EventID] = snapshot
	}
	return p
}

func (p *fakeProvider) FetchEvent(ctx context.Context, event domain.EventConfig) (domain.EventSnapshot, error) {
	if p.panicOn == event.EventID {
		panic("provider exploded")
	}
	if p.requester != nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://provider.test/events/"+event.EventID+"/", nil)
		if err != nil {
			return domain.EventSnapshot{}, err
		}
		resp, err := p.requester.Do(ctx, req)
		if err != nil {
			return domain.EventSnapshot{}, err
		}
		_ = resp.Body.Close()
	}
	p.mu.Lock()
	p.fetched = append(p.fetched, event.EventID)
	snapshot, ok := p.snapshots[event.EventID]
	err := p.errs[event.EventID]
	hook := p.onFetch
	p.mu.Unlock()
	if hook != nil {
		hook(event.EventID)
	}
	if err != nil {
		return domain.EventSnapshot{}, err
	}
	if !ok {
		return domain.EventSnapshot{}, errors.New("event not found")
	}
	return snapshot, nil
}

func okTransport() ratelimit.Doer {
	return ratelimit.DoerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})
}

type fakeConfigSource struct {
	mu      sync.Mutex
	configs []domain.OrganizerConfig
	err     error
	loads   int
}

func (s *fakeConfigSource) LoadOrganizerConfigs(context.Context) ([]domain.OrganizerConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.OrganizerConfig(nil), s.configs...), nil
}

func (s *fakeConfigSource) set(configs []domain.OrganizerConfig, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs = configs
	s.err = err
}

type recordingReporter struct {
	mu      sync.Mutex
	results []domain.SyncResult
}

func (r *recordingReporter) Report(_ context.Context, result domain.SyncResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recordingReporter) reported() []domain.SyncResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SyncResult(nil), r.results...)
}

type countingReloader struct {
	mu    sync.Mutex
	calls int
}

func (r *countingReloader) Reload(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return nil
}

func (r *countingReloader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type memGroupStore struct {
	mu        sync.Mutex
	members   map[string][]string
	snapshots []domain.HistoricGroupSnapshot
	listErr   error
}

func newMemGroupStore() *memGroupStore {
	return &memGroupStore{members: make(map[string][]string)}
}

func (s *memGroupStore) ListGroupMembers(_ context.Context, groupID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]string(nil), s.members[groupID]...), nil
}

func (s *memGroupStore) LatestHistoricGroupSnapshot(_ context.Context, groupID string) (domain.HistoricGroupSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].GroupID == groupID {
			return s.snapshots[i], true, nil
		}
	}
	return domain.HistoricGroupSnapshot{}, false, nil
}

func (s *memGroupStore) AppendHistoricGroupSnapshot(_ context.Context, snapshot domain.HistoricGroupSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func (s *memGroupStore) HasHistoricGroupRoot(_ context.Context, groupID, rootHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snapshot := range s.snapshots {
		if snapshot.GroupID == groupID && snapshot.RootHash == rootHash {
			return true, nil
		}
	}
	return false, nil
}

func (s *memGroupStore) snapshotCount(groupID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, snapshot := range s.snapshots {
		if snapshot.GroupID == groupID {
			count++
		}
	}
	return count
}

var _ ports.GroupStore = (*memGroupStore)(nil)

func eventConfig(eventID string, activeItems ...string) domain.EventConfig {
	return domain.EventConfig{
		EventID:          eventID,
		EventConfigID:    "cfg-" + eventID,
		ActiveItemIDs:    domain.NewIDSet(activeItems...),
		SuperuserItemIDs: domain.NewIDSet(),
	}
}

func admissionItem(id, name string) domain.Item {
	return domain.Item{ID: id, Name: name, Admission: true, Personalized: true}
}

func paidOrder(code, email string, positions ...domain.Position) domain.Order {
	return domain.Order{Code: code, Status: domain.OrderStatusPaid, Email: email, Positions: positions}
}

func position(id, itemID, name, email string) domain.Position {
	return domain.Position{ID: id, ItemID: itemID, AttendeeName: name, Email: email, Secret: "secret-" + id}
}

func snapshotFor(cfg domain.EventConfig, items []domain.Item, orders ...domain.Order) domain.EventSnapshot {
	return domain.EventSnapshot{
		Config:   cfg,
		Settings: domain.EventSettings{AttendeeEmailsAsked: true, AttendeeEmailsRequired: true},
		Event:    domain.EventMeta{Slug: cfg.EventID, Name: "Event " + cfg.EventID},
		Items:    items,
		Orders:   orders,
	}
}
