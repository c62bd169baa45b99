// Package accumulator implements named membership groups backed by a
// fixed-depth incremental Merkle tree.
//
// Members are only ever appended. Removing a member overwrites its leaf with
// the zero value and keeps every other leaf where it was, so a proof built
// against an earlier root still names the same leaf positions.
package accumulator

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is one tree node.
type Hash [32]byte

// String returns the lowercase hex encoding.
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// ParseHash decodes a hex root.
func ParseHash(value string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(value)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if len(raw) != len(h) {
		return h, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidHash, len(h), len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

const (
	// MinDepth and MaxDepth bound the tree height.
	MinDepth = 1
	MaxDepth = 32
)

var (
	ErrInvalidDepth    = errors.New("invalid group depth")
	ErrGroupFull       = errors.New("group is full")
	ErrEmptyMember     = errors.New("member id is empty")
	ErrDuplicateMember = errors.New("member already in group")
	ErrUnknownMember   = errors.New("member not in group")
	ErrInvalidHash     = errors.New("invalid hash")
)

// Group is an ordered member list and the Merkle tree over it.
// A removed member leaves an empty string at its index.
type Group struct {
	id      string
	depth   int
	members []string
	index   map[string]int
	// levels[0] holds the leaves; levels[depth] holds at most the root.
	levels [][]Hash
	zeros  []Hash
}

// NewGroup builds a group from scratch. Empty strings in members are tombstones.
func NewGroup(id string, depth int, members []string) (*Group, error) {
	if depth < MinDepth || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	if uint64(len(members)) > uint64(1)<<uint(depth) {
		return nil, fmt.Errorf("%w: %d members exceed depth %d", ErrGroupFull, len(members), depth)
	}

	g := &Group{
		id:      id,
		depth:   depth,
		members: make([]string, 0, len(members)),
		index:   make(map[string]int, len(members)),
		levels:  make([][]Hash, depth+1),
		zeros:   zeroHashes(depth),
	}
	leaves := make([]Hash, 0, len(members))
	for i, member := range members {
		if member != "" {
			if _, dup := g.index[member]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateMember, member)
			}
			g.index[member] = i
		}
		g.members = append(g.members, member)
		leaves = append(leaves, leafHash(member))
	}
	g.levels[0] = leaves
	for level := 0; level < depth; level++ {
		below := g.levels[level]
		above := make([]Hash, (len(below)+1)/2)
		for i := range above {
			above[i] = hashPair(below[2*i], g.sibling(level, below, 2*i+1))
		}
		g.levels[level+1] = above
	}
	return g, nil
}

// ID returns the group name.
func (g *Group) ID() string { return g.id }

// Depth returns the tree height.
func (g *Group) Depth() int { return g.depth }

// Size returns the number of leaves, tombstones included.
func (g *Group) Size() int { return len(g.members) }

// Capacity returns the maximum number of leaves.
func (g *Group) Capacity() uint64 { return uint64(1) << uint(g.depth) }

// Members returns a copy of the ordered leaf list; tombstones are empty strings.
func (g *Group) Members() []string {
	out := make([]string, len(g.members))
	copy(out, g.members)
	return out
}

// LiveMembers returns the members that have not been removed, in leaf order.
func (g *Group) LiveMembers() []string {
	out := make([]string, 0, len(g.index))
	for _, member := range g.members {
		if member != "" {
			out = append(out, member)
		}
	}
	return out
}

// IndexOf returns the leaf index of a live member.
func (g *Group) IndexOf(member string) (int, bool) {
	i, ok := g.index[member]
	return i, ok
}

// Root returns the current root hash.
func (g *Group) Root() Hash {
	top := g.levels[g.depth]
	if len(top) == 0 {
		return g.zeros[g.depth]
	}
	return top[0]
}

// Clone returns an independent copy that can be patched without affecting g.
func (g *Group) Clone() *Group {
	out := &Group{
		id:      g.id,
		depth:   g.depth,
		members: make([]string, len(g.members)),
		index:   make(map[string]int, len(g.index)),
		levels:  make([][]Hash, len(g.levels)),
		zeros:   g.zeros,
	}
	copy(out.members, g.members)
	for member, i := range g.index {
		out.index[member] = i
	}
	for level, nodes := range g.levels {
		out.levels[level] = append([]Hash(nil), nodes...)
	}
	return out
}

// AddMember appends member as a new leaf.
func (g *Group) AddMember(member string) error {
	if member == "" {
		return ErrEmptyMember
	}
	if _, ok := g.index[member]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMember, member)
	}
	if uint64(len(g.members)) >= g.Capacity() {
		return fmt.Errorf("%w: capacity %d", ErrGroupFull, g.Capacity())
	}
	i := len(g.members)
	g.members = append(g.members, member)
	g.index[member] = i
	g.levels[0] = append(g.levels[0], leafHash(member))
	g.updatePath(i)
	return nil
}

// RemoveMember writes a tombstone at member's index.
func (g *Group) RemoveMember(member string) error {
	i, ok := g.index[member]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMember, member)
	}
	delete(g.index, member)
	g.members[i] = ""
	g.levels[0][i] = Hash{}
	g.updatePath(i)
	return nil
}

func (g *Group) updatePath(leaf int) {
	i := leaf
	for level := 0; level < g.depth; level++ {
		below := g.levels[level]
		left := i &^ 1
		parent := i / 2
		node := hashPair(below[left], g.sibling(level, below, left+1))
		above := g.levels[level+1]
		if parent == len(above) {
			above = append(above, node)
		} else {
			above[parent] = node
		}
		g.levels[level+1] = above
		i = parent
	}
}

func (g *Group) sibling(level int, nodes []Hash, i int) Hash {
	if i < len(nodes) {
		return nodes[i]
	}
	return g.zeros[level]
}

func leafHash(member string) Hash {
	if member == "" {
		return Hash{}
	}
	return blake3.Sum256([]byte(member))
}

func hashPair(left, right Hash) Hash {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return blake3.Sum256(buf[:])
}

func zeroHashes(depth int) []Hash {
	zeros := make([]Hash, depth+1)
	for i := 1; i <= depth; i++ {
		zeros[i] = hashPair(zeros[i-1], zeros[i-1])
	}
	return zeros
}
