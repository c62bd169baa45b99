package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr0stylo/ticketsync/internal/accumulator"
	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/services"
)

type syncStatusFake struct {
	completed bool
	results   map[string]domain.SyncResult
}

func (f *syncStatusFake) SyncResults() map[string]domain.SyncResult { return f.results }
func (f *syncStatusFake) HasCompletedSyncSinceStarting() bool       { return f.completed }

type groupReaderFake struct {
	groups   map[string]*accumulator.Group
	historic map[string]bool
}

func (f *groupReaderFake) Definitions() []domain.GroupDefinition {
	return []domain.GroupDefinition{{ID: domain.GroupAttendees, Depth: 4}, {ID: domain.GroupOrganizers, Depth: 4}}
}

func (f *groupReaderFake) Group(id string) (*accumulator.Group, bool) {
	g, ok := f.groups[id]
	return g, ok
}

func (f *groupReaderFake) IsValidHistoricRoot(_ context.Context, id, root string) (bool, error) {
	g, ok := f.groups[id]
	if !ok {
		return false, services.ErrUnknownGroup
	}
	parsed, err := accumulator.ParseHash(root)
	if err != nil {
		return false, err
	}
	return parsed == g.Root() || f.historic[root], nil
}

func (f *groupReaderFake) Proof(id, member string) (accumulator.Proof, error) {
	g, ok := f.groups[id]
	if !ok {
		return accumulator.Proof{}, fmt.Errorf("%w: %s", services.ErrUnknownGroup, id)
	}
	return g.Proof(member)
}

func newGroupReader(t *testing.T) *groupReaderFake {
	t.Helper()
	attendees, err := accumulator.NewGroup(domain.GroupAttendees, 4, []string{"c1", "c2", "c3"})
	require.NoError(t, err)
	organizers, err := accumulator.NewGroup(domain.GroupOrganizers, 4, nil)
	require.NoError(t, err)
	return &groupReaderFake{
		groups:   map[string]*accumulator.Group{domain.GroupAttendees: attendees, domain.GroupOrganizers: organizers},
		historic: map[string]bool{},
	}
}

func serve(t *testing.T, register interface{ RegisterRoutes(*echo.Echo) }, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	register.RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthzWaitsForFirstSync(t *testing.T) {
	status := &syncStatusFake{}
	routes := NewStatusRoutes(status)

	rec := serve(t, routes, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	status.completed = true
	rec = serve(t, routes, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusListsOrganizersSorted(t *testing.T) {
	finished := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	status := &syncStatusFake{completed: true, results: map[string]domain.SyncResult{
		"org2": {OrganizerID: "org2", RunID: "r2", Outcome: domain.SyncOutcomeFailed, Phase: domain.SyncPhaseSaving, Cause: errors.New("disk full"), FinishedAt: finished},
		"org1": {OrganizerID: "org1", RunID: "r1", Outcome: domain.SyncOutcomeSuccess, Phase: domain.SyncPhaseComplete, FinishedAt: finished},
	}}

	rec := serve(t, NewStatusRoutes(status), "/status")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[statusResponse](t, rec)
	assert.True(t, body.Completed)
	require.Len(t, body.Organizers, 2)
	assert.Equal(t, "org1", body.Organizers[0].OrganizerID)
	assert.Empty(t, body.Organizers[0].Error)
	assert.Nil(t, body.Organizers[0].StartedAt)
	assert.Equal(t, "failed", body.Organizers[1].Outcome)
	assert.Equal(t, "disk full", body.Organizers[1].Error)
}

func TestGetGroup(t *testing.T) {
	reader := newGroupReader(t)
	routes := NewGroupRoutes(reader)

	rec := serve(t, routes, "/groups/attendees")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[groupResponse](t, rec)
	assert.Equal(t, 3, body.Size)
	assert.Equal(t, uint64(16), body.Capacity)
	assert.Equal(t, reader.groups[domain.GroupAttendees].Root().String(), body.Root)

	rec = serve(t, routes, "/groups/speakers")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, routes, "/groups")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]groupResponse](t, rec), 2)
}

func TestCheckRoot(t *testing.T) {
	reader := newGroupReader(t)
	routes := NewGroupRoutes(reader)
	current := reader.groups[domain.GroupAttendees].Root().String()
	old := accumulator.Hash{1}.String()
	reader.historic[old] = true

	tests := []struct {
		name   string
		path   string
		status int
		valid  bool
	}{
		{name: "current", path: "/groups/attendees/roots/" + current, status: http.StatusOK, valid: true},
		{name: "historic", path: "/groups/attendees/roots/" + old, status: http.StatusOK, valid: true},
		{name: "unknown root", path: "/groups/attendees/roots/" + accumulator.Hash{2}.String(), status: http.StatusOK},
		{name: "bad hash", path: "/groups/attendees/roots/xyz", status: http.StatusBadRequest},
		{name: "unknown group", path: "/groups/speakers/roots/" + current, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, routes, tt.path)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.valid, decode[rootResponse](t, rec).Valid)
			}
		})
	}
}

func TestProof(t *testing.T) {
	reader := newGroupReader(t)
	routes := NewGroupRoutes(reader)

	rec := serve(t, routes, "/groups/attendees/proofs/c2")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[proofResponse](t, rec)
	assert.Equal(t, 1, body.Index)
	assert.Len(t, body.Siblings, 4)

	proof := accumulator.Proof{Member: body.Member, Index: body.Index}
	for _, sibling := range body.Siblings {
		h, err := accumulator.ParseHash(sibling)
		require.NoError(t, err)
		proof.Siblings = append(proof.Siblings, h)
	}
	root, err := accumulator.ParseHash(body.Root)
	require.NoError(t, err)
	proof.Root = root
	assert.True(t, accumulator.VerifyProof(proof))

	rec = serve(t, routes, "/groups/attendees/proofs/stranger")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = serve(t, routes, "/groups/speakers/proofs/c1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
