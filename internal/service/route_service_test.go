package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"go-admin-console/internal/model"
)

type fakeRouteStore struct {
	byID      map[string]model.Route
	flat      []*model.Route
	reachable map[string]struct{}
}

func (f *fakeRouteStore) FindByID(_ context.Context, id string) (model.Route, error) {
	route, ok := f.byID[id]
	if !ok {
		return model.Route{}, model.ErrRouteNotFound
	}
	return route, nil
}

func (f *fakeRouteStore) Create(_ context.Context, route model.Route) error {
	if f.byID == nil {
		f.byID = make(map[string]model.Route)
	}
	f.byID[route.ID] = route
	return nil
}

func (f *fakeRouteStore) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRouteStore) ListByPlatform(_ context.Context, _ string, _ string) ([]*model.Route, error) {
	// Hand out copies so buildTree does not mutate the fixture.
	out := make([]*model.Route, 0, len(f.flat))
	for _, node := range f.flat {
		copied := *node
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRouteStore) ReachableIDs(_ context.Context, _ []string) (map[string]struct{}, error) {
	return f.reachable, nil
}

// Fixture tree:
//
//	system (directory)
//	  users   (menu)
//	    users:create (button)
//	  roles   (menu)
//	dashboard (menu, root)
func fixtureRoutes() []*model.Route {
	return []*model.Route{
		{ID: "system", Type: model.RouteTypeDirectory, Title: "System", Platform: "admin"},
		{ID: "users", ParentID: "system", Type: model.RouteTypeMenu, Title: "Users", Platform: "admin"},
		{ID: "users:create", ParentID: "users", Type: model.RouteTypeButton, Title: "Create user", Platform: "admin"},
		{ID: "roles", ParentID: "system", Type: model.RouteTypeMenu, Title: "Roles", Platform: "admin"},
		{ID: "dashboard", Type: model.RouteTypeMenu, Title: "Dashboard", Platform: "admin"},
	}
}

func TestRootsBuildsTree(t *testing.T) {
	t.Parallel()

	store := &fakeRouteStore{flat: fixtureRoutes()}
	svc := NewRouteService(store)

	roots, err := svc.Roots(context.Background(), "admin", "ASC")
	require.NoError(t, err)
	require.Len(t, roots, 2)

	require.Equal(t, "system", roots[0].ID)
	require.Len(t, roots[0].Children, 2)
	require.Equal(t, "users", roots[0].Children[0].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	require.Equal(t, "users:create", roots[0].Children[0].Children[0].ID)

	require.Equal(t, "dashboard", roots[1].ID)
	require.Empty(t, roots[1].Children)
}

func TestRootsOrphanSurfacesAsRoot(t *testing.T) {
	t.Parallel()

	store := &fakeRouteStore{flat: []*model.Route{
		{ID: "lost", ParentID: "gone", Type: model.RouteTypeMenu, Title: "Lost", Platform: "admin"},
	}}
	svc := NewRouteService(store)

	roots, err := svc.Roots(context.Background(), "admin", "ASC")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Equal(t, "lost", roots[0].ID)
}

func TestByRoleIDsPrunesUnreachableBranches(t *testing.T) {
	t.Parallel()

	store := &fakeRouteStore{
		flat:      fixtureRoutes(),
		reachable: map[string]struct{}{"users": {}},
	}
	svc := NewRouteService(store)

	roots, err := svc.ByRoleIDs(context.Background(), []string{"r1"}, "admin", "", "ASC")
	require.NoError(t, err)

	// system is kept as the spine above users; roles, users:create and
	// dashboard are gone.
	require.Len(t, roots, 1)
	require.Equal(t, "system", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	require.Equal(t, "users", roots[0].Children[0].ID)
	require.Empty(t, roots[0].Children[0].Children)
}

func TestByRoleIDsTypeFilter(t *testing.T) {
	t.Parallel()

	store := &fakeRouteStore{
		flat: fixtureRoutes(),
		reachable: map[string]struct{}{
			"users": {}, "users:create": {}, "dashboard": {},
		},
	}
	svc := NewRouteService(store)

	roots, err := svc.ByRoleIDs(context.Background(), []string{"r1"}, "admin", model.RouteTypeMenu, "ASC")
	require.NoError(t, err)

	// Buttons are filtered out; menus and their connecting spine survive.
	require.Len(t, roots, 2)
	require.Equal(t, "system", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	require.Equal(t, "users", roots[0].Children[0].ID)
	require.Empty(t, roots[0].Children[0].Children)
	require.Equal(t, "dashboard", roots[1].ID)
}

func TestByRoleIDsNoReachableRoutes(t *testing.T) {
	t.Parallel()

	store := &fakeRouteStore{flat: fixtureRoutes(), reachable: map[string]struct{}{}}
	svc := NewRouteService(store)

	roots, err := svc.ByRoleIDs(context.Background(), nil, "admin", "", "ASC")
	require.NoError(t, err)
	require.Empty(t, roots)
}

func TestCreateRouteValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("rejects unknown type", func(t *testing.T) {
		svc := NewRouteService(&fakeRouteStore{})
		_, err := svc.Create(ctx, "admin", model.CreateRouteRequest{Title: "X", Type: "widget"})
		require.Error(t, err)
	})

	t.Run("rejects missing parent", func(t *testing.T) {
		svc := NewRouteService(&fakeRouteStore{})
		_, err := svc.Create(ctx, "admin", model.CreateRouteRequest{
			Title: "X", Type: model.RouteTypeMenu, ParentID: "missing",
		})
		require.Error(t, err)
	})

	t.Run("rejects cross-platform parent", func(t *testing.T) {
		store := &fakeRouteStore{byID: map[string]model.Route{
			"p1": {ID: "p1", Type: model.RouteTypeDirectory, Platform: "web"},
		}}
		svc := NewRouteService(store)
		_, err := svc.Create(ctx, "admin", model.CreateRouteRequest{
			Title: "X", Type: model.RouteTypeMenu, ParentID: "p1",
		})
		require.Error(t, err)
	})

	t.Run("creates under same-platform parent", func(t *testing.T) {
		store := &fakeRouteStore{byID: map[string]model.Route{
			"p1": {ID: "p1", Type: model.RouteTypeDirectory, Platform: "admin"},
		}}
		svc := NewRouteService(store)
		route, err := svc.Create(ctx, "admin", model.CreateRouteRequest{
			Title: "X", Type: model.RouteTypeMenu, ParentID: "p1",
		})
		require.NoError(t, err)
		require.Equal(t, "admin", route.Platform)
		require.Equal(t, "p1", route.ParentID)
		require.NotEmpty(t, route.ID)
	})
}
