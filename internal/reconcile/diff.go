// Package reconcile implements the three-way set reconciliation shared by
// item sync, ticket sync, organizer bookkeeping and group membership.
package reconcile

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// Changes is the partition of existing ∪ incoming keys produced by Diff.
type Changes[K cmp.Ordered, T any] struct {
	Insert []K
	Update []K
	Remove []K

	existing map[K]T
	incoming map[K]T
}

// Diff compares the current state with a freshly fetched state keyed identically.
// equal decides whether a key present on both sides needs an update; a nil
// equal treats every shared key as unchanged.
func Diff[K cmp.Ordered, T any](existing, incoming map[K]T, equal func(current, next T) bool) Changes[K, T] {
	changes := Changes[K, T]{existing: existing, incoming: incoming}
	for key, next := range incoming {
		current, ok := existing[key]
		if !ok {
			changes.Insert = append(changes.Insert, key)
			continue
		}
		if equal != nil && !equal(current, next) {
			changes.Update = append(changes.Update, key)
		}
	}
	for key := range existing {
		if _, ok := incoming[key]; !ok {
			changes.Remove = append(changes.Remove, key)
		}
	}
	slices.Sort(changes.Insert)
	slices.Sort(changes.Update)
	slices.Sort(changes.Remove)
	return changes
}

// Empty reports whether applying the changes would be a no-op.
func (c Changes[K, T]) Empty() bool {
	return len(c.Insert) == 0 && len(c.Update) == 0 && len(c.Remove) == 0
}

// Existing returns the stored value for key.
func (c Changes[K, T]) Existing(key K) T {
	return c.existing[key]
}

// Incoming returns the fetched value for key.
func (c Changes[K, T]) Incoming(key K) T {
	return c.incoming[key]
}

// Inserted returns the incoming values for every inserted key, in key order.
func (c Changes[K, T]) Inserted() []T {
	out := make([]T, 0, len(c.Insert))
	for _, key := range c.Insert {
		out = append(out, c.incoming[key])
	}
	return out
}

// Removed returns the existing values for every removed key, in key order.
func (c Changes[K, T]) Removed() []T {
	out := make([]T, 0, len(c.Remove))
	for _, key := range c.Remove {
		out = append(out, c.existing[key])
	}
	return out
}

// Applier writes one side of a Changes set.
type Applier[K cmp.Ordered, T any] interface {
	Insert(ctx context.Context, key K, next T) error
	Update(ctx context.Context, key K, current, next T) error
	Remove(ctx context.Context, key K, current T) error
}

// ApplyFuncs adapts plain functions to Applier. Nil functions are skipped.
type ApplyFuncs[K cmp.Ordered, T any] struct {
	InsertFn func(ctx context.Context, key K, next T) error
	UpdateFn func(ctx context.Context, key K, current, next T) error
	RemoveFn func(ctx context.Context, key K, current T) error
}

func (f ApplyFuncs[K, T]) Insert(ctx context.Context, key K, next T) error {
	if f.InsertFn == nil {
		return nil
	}
	return f.InsertFn(ctx, key, next)
}

func (f ApplyFuncs[K, T]) Update(ctx context.Context, key K, current, next T) error {
	if f.UpdateFn == nil {
		return nil
	}
	return f.UpdateFn(ctx, key, current, next)
}

func (f ApplyFuncs[K, T]) Remove(ctx context.Context, key K, current T) error {
	if f.RemoveFn == nil {
		return nil
	}
	return f.RemoveFn(ctx, key, current)
}

// Apply writes inserts, then updates, then removals, stopping at the first error.
func Apply[K cmp.Ordered, T any](ctx context.Context, changes Changes[K, T], applier Applier[K, T]) error {
	for _, key := range changes.Insert {
		if err := applier.Insert(ctx, key, changes.incoming[key]); err != nil {
			return fmt.Errorf("insert %v: %w", key, err)
		}
	}
	for _, key := range changes.Update {
		if err := applier.Update(ctx, key, changes.existing[key], changes.incoming[key]); err != nil {
			return fmt.Errorf("update %v: %w", key, err)
		}
	}
	for _, key := range changes.Remove {
		if err := applier.Remove(ctx, key, changes.existing[key]); err != nil {
			return fmt.Errorf("remove %v: %w", key, err)
		}
	}
	return nil
}

// KeySet builds a presence map, the shape Diff expects for plain id sets.
func KeySet[K cmp.Ordered](keys []K) map[K]struct{} {
	out := make(map[K]struct{}, len(keys))
	for _, key := range keys {
		out[key] = struct{}{}
	}
	return out
}

// Index keys values by the id returned from keyFn. Later duplicates win.
func Index[K cmp.Ordered, T any](values []T, keyFn func(T) K) map[K]T {
	out := make(map[K]T, len(values))
	for _, value := range values {
		out[keyFn(value)] = value
	}
	return out
}
