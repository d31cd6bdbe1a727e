package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-admin-console/internal/model"
	"go-admin-console/pkg/apierror"
)

type routeStore interface {
	FindByID(ctx context.Context, id string) (model.Route, error)
	Create(ctx context.Context, route model.Route) error
	Delete(ctx context.Context, id string) error
	ListByPlatform(ctx context.Context, platform string, sort string) ([]*model.Route, error)
	ReachableIDs(ctx context.Context, roleIDs []string) (map[string]struct{}, error)
}

// RouteService manages the hierarchical navigation/permission tree. Nodes
// are fetched flat and assembled in one indexed pass; the tree is acyclic by
// construction since a node's parent must already exist when it is created.
type RouteService struct {
	routes routeStore
}

func NewRouteService(routes routeStore) *RouteService {
	return &RouteService{routes: routes}
}

func (s *RouteService) Create(ctx context.Context, platform string, req model.CreateRouteRequest) (model.Route, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Route{}, apierror.New("BAD_REQUEST", "title is required", "", http.StatusBadRequest)
	}

	switch req.Type {
	case model.RouteTypeDirectory, model.RouteTypeMenu, model.RouteTypeButton:
	default:
		return model.Route{}, apierror.New("BAD_REQUEST", "invalid route type", req.Type, http.StatusBadRequest)
	}

	parentID := strings.TrimSpace(req.ParentID)
	if parentID != "" {
		parent, err := s.routes.FindByID(ctx, parentID)
		if err != nil {
			return model.Route{}, apierror.New("NOT_FOUND", "parent route not found", parentID, http.StatusNotFound)
		}
		// Ancestors must stay on the caller's platform.
		if parent.Platform != platform {
			return model.Route{}, apierror.New("NOT_FOUND", "parent route not found", parentID, http.StatusNotFound)
		}
	}

	now := time.Now().UTC()
	route := model.Route{
		ID:        uuid.NewString(),
		ParentID:  parentID,
		Type:      req.Type,
		Title:     title,
		Path:      strings.TrimSpace(req.Path),
		Icon:      strings.TrimSpace(req.Icon),
		Component: strings.TrimSpace(req.Component),
		Redirect:  strings.TrimSpace(req.Redirect),
		Meta:      req.Meta,
		Sort:      req.Sort,
		Platform:  platform,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.routes.Create(ctx, route); err != nil {
		return model.Route{}, err
	}

	return route, nil
}

func (s *RouteService) Delete(ctx context.Context, id string) error {
	return s.routes.Delete(ctx, id)
}

// Roots returns the top-level nodes of a platform with their full descendant
// subtrees materialized, ordered by the common sort convention.
func (s *RouteService) Roots(ctx context.Context, platform string, sort string) ([]*model.Route, error) {
	nodes, err := s.routes.ListByPlatform(ctx, platform, sort)
	if err != nil {
		return nil, err
	}

	return buildTree(nodes), nil
}

// ByRoleIDs resolves the union of routes reachable through the given roles
// and reassembles them into the same shape as Roots, pruned so a node
// appears only when it or one of its descendants is reachable. Ancestors of
// reachable nodes are kept as the connecting spine.
func (s *RouteService) ByRoleIDs(ctx context.Context, roleIDs []string, platform string, typeFilter string, sort string) ([]*model.Route, error) {
	reachable, err := s.routes.ReachableIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if len(reachable) == 0 {
		return []*model.Route{}, nil
	}

	nodes, err := s.routes.ListByPlatform(ctx, platform, sort)
	if err != nil {
		return nil, err
	}

	roots := buildTree(nodes)
	pruned := make([]*model.Route, 0, len(roots))
	for _, root := range roots {
		if kept := prune(root, reachable, typeFilter); kept != nil {
			pruned = append(pruned, kept)
		}
	}

	return pruned, nil
}

// buildTree assembles the flat node list into a forest via a single indexed
// pass, keyed by id with parent-id back-references. Row order (the SQL sort)
// is preserved for both roots and children.
func buildTree(nodes []*model.Route) []*model.Route {
	byID := make(map[string]*model.Route, len(nodes))
	for _, node := range nodes {
		node.Children = nil
		byID[node.ID] = node
	}

	roots := make([]*model.Route, 0)
	for _, node := range nodes {
		if node.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[node.ParentID]
		if !ok {
			// Orphaned by a deleted ancestor; surface it at the top rather
			// than dropping it silently.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return roots
}

// prune returns a copy of node keeping only the branches in which some node
// is reachable (and matches the type filter when one is given); nil when the
// whole branch is unreachable.
func prune(node *model.Route, reachable map[string]struct{}, typeFilter string) *model.Route {
	keptChildren := make([]*model.Route, 0, len(node.Children))
	for _, child := range node.Children {
		if kept := prune(child, reachable, typeFilter); kept != nil {
			keptChildren = append(keptChildren, kept)
		}
	}

	_, selfReachable := reachable[node.ID]
	if typeFilter != "" && node.Type != typeFilter {
		selfReachable = false
	}

	if !selfReachable && len(keptChildren) == 0 {
		return nil
	}

	copied := *node
	copied.Children = keptChildren
	return &copied
}
