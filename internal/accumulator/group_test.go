package accumulator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGroup(t *testing.T, depth int, members ...string) *Group {
	t.Helper()
	g, err := NewGroup("attendees", depth, members)
	require.NoError(t, err)
	return g
}

func TestEmptyGroupRootMatchesZeroTree(t *testing.T) {
	empty := mustGroup(t, 4)
	tombstonesOnly := mustGroup(t, 4, "", "", "")
	assert.Equal(t, empty.Root(), tombstonesOnly.Root())
	assert.Equal(t, zeroHashes(4)[4], empty.Root())
}

func TestIncrementalPatchMatchesFreshBuild(t *testing.T) {
	g := mustGroup(t, 8, "alice", "bob", "carol")

	require.NoError(t, g.AddMember("xavier"))
	require.NoError(t, g.RemoveMember("bob"))

	assert.Equal(t, []string{"alice", "", "carol", "xavier"}, g.Members())
	assert.Equal(t, []string{"alice", "carol", "xavier"}, g.LiveMembers())

	fresh := mustGroup(t, 8, g.Members()...)
	assert.Equal(t, fresh.Root(), g.Root())
}

func TestAddingRaisesRootAndRemovalKeepsIndices(t *testing.T) {
	g := mustGroup(t, 6)
	roots := map[Hash]bool{g.Root(): true}
	for i := 0; i < 20; i++ {
		require.NoError(t, g.AddMember(fmt.Sprintf("member-%02d", i)))
		assert.False(t, roots[g.Root()], "root repeated after add %d", i)
		roots[g.Root()] = true
	}

	before, ok := g.IndexOf("member-15")
	require.True(t, ok)
	require.NoError(t, g.RemoveMember("member-03"))
	after, ok := g.IndexOf("member-15")
	require.True(t, ok)
	assert.Equal(t, before, after)

	_, ok = g.IndexOf("member-03")
	assert.False(t, ok)
	assert.Equal(t, 20, g.Size())
}

func TestMembershipErrors(t *testing.T) {
	g := mustGroup(t, 1, "a")

	assert.ErrorIs(t, g.AddMember(""), ErrEmptyMember)
	assert.ErrorIs(t, g.AddMember("a"), ErrDuplicateMember)
	assert.ErrorIs(t, g.RemoveMember("missing"), ErrUnknownMember)
	require.NoError(t, g.AddMember("b"))
	assert.ErrorIs(t, g.AddMember("c"), ErrGroupFull)

	_, err := NewGroup("x", 0, nil)
	assert.ErrorIs(t, err, ErrInvalidDepth)
	_, err = NewGroup("x", 4, []string{"dup", "dup"})
	assert.ErrorIs(t, err, ErrDuplicateMember)
}

func TestReaddedMemberIsAppended(t *testing.T) {
	g := mustGroup(t, 4, "a", "b")
	require.NoError(t, g.RemoveMember("a"))
	require.NoError(t, g.AddMember("a"))

	i, ok := g.IndexOf("a")
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, []string{"", "b", "a"}, g.Members())
}

func TestProofVerifiesAgainstRootAtTimeOfProof(t *testing.T) {
	g := mustGroup(t, 5, "a", "b", "c", "d", "e")

	proof, err := g.Proof("c")
	require.NoError(t, err)
	assert.Equal(t, 2, proof.Index)
	assert.Len(t, proof.Siblings, 5)
	assert.True(t, VerifyProof(proof))

	oldRoot := proof.Root
	require.NoError(t, g.RemoveMember("e"))
	require.NoError(t, g.AddMember("f"))
	assert.NotEqual(t, oldRoot, g.Root())
	assert.True(t, VerifyProof(proof), "proof against a historic root stays valid")

	fresh, err := g.Proof("c")
	require.NoError(t, err)
	assert.Equal(t, proof.Index, fresh.Index, "surviving members keep their position")
	assert.True(t, VerifyProof(fresh))

	tampered := fresh
	tampered.Member = "z"
	assert.False(t, VerifyProof(tampered))

	_, err = g.Proof("e")
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestMarshalRoundTripPreservesRoot(t *testing.T) {
	g := mustGroup(t, 10, "a", "b", "c")
	require.NoError(t, g.RemoveMember("b"))

	data, err := g.Marshal()
	require.NoError(t, err)
	again, err := g.Marshal()
	require.NoError(t, err)
	assert.Equal(t, data, again, "encoding is deterministic")

	restored, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, g.ID(), restored.ID())
	assert.Equal(t, g.Depth(), restored.Depth())
	assert.Equal(t, g.Members(), restored.Members())
	assert.Equal(t, g.Root(), restored.Root())
}

func TestParseHash(t *testing.T) {
	g := mustGroup(t, 3, "a")
	parsed, err := ParseHash(g.Root().String())
	require.NoError(t, err)
	assert.Equal(t, g.Root(), parsed)

	_, err = ParseHash("zz")
	assert.ErrorIs(t, err, ErrInvalidHash)
	_, err = ParseHash("abcd")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestCloneIsIndependent(t *testing.T) {
	g := mustGroup(t, 4, "alice", "bob")
	root := g.Root()

	clone := g.Clone()
	require.NoError(t, clone.AddMember("carol"))
	require.NoError(t, clone.RemoveMember("alice"))

	assert.Equal(t, root, g.Root())
	assert.Equal(t, []string{"alice", "bob"}, g.Members())
	_, ok := g.IndexOf("alice")
	assert.True(t, ok)
	assert.NotEqual(t, root, clone.Root())
	assert.Equal(t, mustGroup(t, 4, clone.Members()...).Root(), clone.Root())
}
