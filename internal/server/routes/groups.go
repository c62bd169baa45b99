package routes

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/fr0stylo/ticketsync/internal/accumulator"
	"github.com/fr0stylo/ticketsync/internal/app/domain"
	"github.com/fr0stylo/ticketsync/internal/app/services"
)

// GroupReader is the read side of the membership service.
type GroupReader interface {
	Definitions() []domain.GroupDefinition
	Group(id string) (*accumulator.Group, bool)
	IsValidHistoricRoot(ctx context.Context, id, root string) (bool, error)
	Proof(id, member string) (accumulator.Proof, error)
}

// GroupRoutes registers membership group endpoints.
type GroupRoutes struct {
	groups GroupReader
}

// NewGroupRoutes constructs group routes.
func NewGroupRoutes(groups GroupReader) *GroupRoutes {
	return &GroupRoutes{groups: groups}
}

// RegisterRoutes registers group endpoints.
func (r *GroupRoutes) RegisterRoutes(s *echo.Echo) {
	g := s.Group("/groups")

	g.GET("", r.handleListGroups)
	g.GET("/:id", r.handleGetGroup)
	g.GET("/:id/roots/:root", r.handleCheckRoot)
	g.GET("/:id/proofs/:member", r.handleProof)
}

type groupResponse struct {
	ID       string `json:"id"`
	Depth    int    `json:"depth"`
	Size     int    `json:"size"`
	Capacity uint64 `json:"capacity"`
	Root     string `json:"root"`
}

type rootResponse struct {
	GroupID string `json:"groupId"`
	Root    string `json:"root"`
	Valid   bool   `json:"valid"`
}

type proofResponse struct {
	GroupID  string   `json:"groupId"`
	Member   string   `json:"member"`
	Index    int      `json:"index"`
	Root     string   `json:"root"`
	Siblings []string `json:"siblings"`
}

func (r *GroupRoutes) handleListGroups(c echo.Context) error {
	out := make([]groupResponse, 0)
	for _, def := range r.groups.Definitions() {
		if g, ok := r.groups.Group(def.ID); ok {
			out = append(out, toGroupResponse(g))
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (r *GroupRoutes) handleGetGroup(c echo.Context) error {
	g, ok := r.groups.Group(c.Param("id"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "unknown group")
	}
	return c.JSON(http.StatusOK, toGroupResponse(g))
}

func (r *GroupRoutes) handleCheckRoot(c echo.Context) error {
	id := c.Param("id")
	root := strings.ToLower(strings.TrimSpace(c.Param("root")))
	valid, err := r.groups.IsValidHistoricRoot(c.Request().Context(), id, root)
	switch {
	case errors.Is(err, services.ErrUnknownGroup):
		return jsonError(c, http.StatusNotFound, "unknown group")
	case errors.Is(err, accumulator.ErrInvalidHash):
		return jsonError(c, http.StatusBadRequest, "root must be a hex encoded hash")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, rootResponse{GroupID: id, Root: root, Valid: valid})
}

func (r *GroupRoutes) handleProof(c echo.Context) error {
	id := c.Param("id")
	proof, err := r.groups.Proof(id, c.Param("member"))
	switch {
	case errors.Is(err, services.ErrUnknownGroup):
		return jsonError(c, http.StatusNotFound, "unknown group")
	case errors.Is(err, accumulator.ErrUnknownMember):
		return jsonError(c, http.StatusNotFound, "member not in group")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, proofResponse{
		GroupID:  id,
		Member:   proof.Member,
		Index:    proof.Index,
		Root:     proof.Root.String(),
		Siblings: lo.Map(proof.Siblings, func(h accumulator.Hash, _ int) string { return h.String() }),
	})
}

func toGroupResponse(g *accumulator.Group) groupResponse {
	return groupResponse{
		ID:       g.ID(),
		Depth:    g.Depth(),
		Size:     g.Size(),
		Capacity: g.Capacity(),
		Root:     g.Root().String(),
	}
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
