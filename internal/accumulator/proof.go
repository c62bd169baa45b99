package accumulator

import "fmt"

// Proof is a Merkle inclusion proof for one leaf.
type Proof struct {
	Member   string `json:"member"`
	Index    int    `json:"index"`
	Siblings []Hash `json:"-"`
	Root     Hash   `json:"-"`
}

// Proof builds an inclusion proof for a live member against the current root.
func (g *Group) Proof(member string) (Proof, error) {
	i, ok := g.index[member]
	if !ok {
		return Proof{}, fmt.Errorf("%w: %q", ErrUnknownMember, member)
	}
	siblings := make([]Hash, g.depth)
	pos := i
	for level := 0; level < g.depth; level++ {
		siblings[level] = g.sibling(level, g.levels[level], pos^1)
		pos /= 2
	}
	return Proof{Member: member, Index: i, Siblings: siblings, Root: g.Root()}, nil
}

// VerifyProof recomputes the root from the proof's leaf and siblings.
func VerifyProof(p Proof) bool {
	if p.Member == "" || p.Index < 0 {
		return false
	}
	node := leafHash(p.Member)
	pos := p.Index
	for _, sibling := range p.Siblings {
		if pos%2 == 0 {
			node = hashPair(node, sibling)
		} else {
			node = hashPair(sibling, node)
		}
		pos /= 2
	}
	return pos == 0 && node == p.Root
}
