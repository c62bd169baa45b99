package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/fr0stylo/ticketsync/internal/accumulator"
	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/ports"
	"github.com/fr0stylo/ticketsync/internal/reconcile"
)

// ErrUnknownGroup is returned for group ids that were never registered.
var ErrUnknownGroup = errors.New("unknown group")

// MembershipService keeps one accumulator per group in line with the ticket
// database, patching it incrementally on every reload.
type MembershipService struct {
	store ports.GroupStore
	defs  []domain.GroupDefinition
	log   *slog.Logger
	now   func() time.Time

	mu        sync.RWMutex
	groups    map[string]*accumulator.Group
	persisted map[string]accumulator.Hash
}

// NewMembershipService registers the given groups. Call Init before use.
func NewMembershipService(store ports.GroupStore, defs []domain.GroupDefinition, log *slog.Logger) *MembershipService {
	if log == nil {
		log = slog.Default()
	}
	return &MembershipService{
		store:     store,
		defs:      defs,
		log:       log,
		now:       time.Now,
		groups:    make(map[string]*accumulator.Group, len(defs)),
		persisted: make(map[string]accumulator.Hash, len(defs)),
	}
}

// Init restores every group from its latest historic snapshot, or creates it
// empty. A snapshot that does not decode or whose depth differs is ignored.
func (s *MembershipService) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, def := range s.defs {
		empty, err := accumulator.NewGroup(def.ID, def.Depth, nil)
		if err != nil {
			return fmt.Errorf("group %s: %w", def.ID, err)
		}
		s.groups[def.ID] = empty

		snapshot, ok, err := s.store.LatestHistoricGroupSnapshot(ctx, def.ID)
		if err != nil {
			return fmt.Errorf("load snapshot for group %s: %w", def.ID, err)
		}
		if !ok {
			continue
		}
		restored, err := accumulator.Unmarshal(snapshot.SerializedGroup)
		if err != nil {
			s.log.WarnContext(ctx, "group_snapshot_unreadable", "group_id", def.ID, "error", err)
			continue
		}
		if restored.Depth() != def.Depth || restored.ID() != def.ID {
			s.log.WarnContext(ctx, "group_snapshot_ignored",
				"group_id", def.ID,
				"snapshot_depth", restored.Depth(),
				"configured_depth", def.Depth,
			)
			continue
		}
		s.groups[def.ID] = restored
		s.persisted[def.ID] = restored.Root()
		s.log.InfoContext(ctx, "group_restored", "group_id", def.ID, "size", restored.Size(), "root", restored.Root().String())
	}
	return nil
}

// Reload re-derives every group's members and patches the accumulators.
// A group that fails keeps its previous state; other groups still reload.
func (s *MembershipService) Reload(ctx context.Context) error {
	var errs []error
	for _, def := range s.defs {
		if err := s.reloadGroup(ctx, def.ID); err != nil {
			s.log.ErrorContext(ctx, "group_reload_failed", "group_id", def.ID, "error", err)
			errs = append(errs, fmt.Errorf("group %s: %w", def.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *MembershipService) reloadGroup(ctx context.Context, groupID string) error {
	fresh, err := s.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	s.mu.RLock()
	current, ok := s.groups[groupID]
	lastRoot, hasPersisted := s.persisted[groupID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}

	changes := CalculateGroupChanges(current.LiveMembers(), fresh)
	next := current
	var overflow error
	added := 0
	if !changes.Empty() {
		next = current.Clone()
		// Removals first: a full group must still drop revoked members.
		for _, member := range changes.Remove {
			if err := next.RemoveMember(member); err != nil {
				return err
			}
		}
		var skipped []string
		for _, member := range changes.Insert {
			err := next.AddMember(member)
			switch {
			case err == nil:
				added++
			case errors.Is(err, accumulator.ErrGroupFull):
				skipped = append(skipped, member)
			default:
				return err
			}
		}
		if len(skipped) > 0 {
			overflow = fmt.Errorf("%w: capacity %d, %d members not added", accumulator.ErrGroupFull, next.Capacity(), len(skipped))
			s.log.WarnContext(ctx, "group_capacity_exceeded",
				"group_id", groupID,
				"capacity", next.Capacity(),
				"skipped", len(skipped),
			)
		}
		s.mu.Lock()
		s.groups[groupID] = next
		s.mu.Unlock()
	}

	root := next.Root()
	if hasPersisted && root == lastRoot {
		return overflow
	}
	serialized, err := next.Marshal()
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	if err := s.store.AppendHistoricGroupSnapshot(ctx, domain.HistoricGroupSnapshot{
		GroupID:         groupID,
		RootHash:        root.String(),
		SerializedGroup: serialized,
		CreatedAt:       s.now(),
	}); err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}

	s.mu.Lock()
	s.persisted[groupID] = root
	s.mu.Unlock()
	s.log.InfoContext(ctx, "group_root_changed",
		"group_id", groupID,
		"added", added,
		"removed", len(changes.Remove),
		"size", next.Size(),
		"root", root.String(),
	)
	return overflow
}

// CalculateGroupChanges diffs the live members of a group against a freshly
// derived member list. Blank and duplicate ids in fresh are ignored.
func CalculateGroupChanges(current, fresh []string) reconcile.Changes[string, struct{}] {
	fresh = lo.Uniq(lo.Compact(lo.Map(fresh, func(member string, _ int) string {
		return strings.TrimSpace(member)
	})))
	return reconcile.Diff(reconcile.KeySet(current), reconcile.KeySet(fresh), nil)
}

// Definitions returns the registered groups in registration order.
func (s *MembershipService) Definitions() []domain.GroupDefinition {
	return append([]domain.GroupDefinition(nil), s.defs...)
}

// Group returns the current accumulator for id. The returned group is never
// mutated by later reloads.
func (s *MembershipService) Group(id string) (*accumulator.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	return g, ok
}

// Root returns the current root of group id.
func (s *MembershipService) Root(id string) (accumulator.Hash, bool) {
	g, ok := s.Group(id)
	if !ok {
		return accumulator.Hash{}, false
	}
	return g.Root(), true
}

// IsValidHistoricRoot reports whether root is the current root of group id
// or was ever persisted for it.
func (s *MembershipService) IsValidHistoricRoot(ctx context.Context, id, root string) (bool, error) {
	g, ok := s.Group(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownGroup, id)
	}
	parsed, err := accumulator.ParseHash(root)
	if err != nil {
		return false, err
	}
	if parsed == g.Root() {
		return true, nil
	}
	return s.store.HasHistoricGroupRoot(ctx, id, parsed.String())
}

// Proof returns a Merkle inclusion proof for member in group id.
func (s *MembershipService) Proof(id, member string) (accumulator.Proof, error) {
	g, ok := s.Group(id)
	if !ok {
		return accumulator.Proof{}, fmt.Errorf("%w: %s", ErrUnknownGroup, id)
	}
	return g.Proof(member)
}
