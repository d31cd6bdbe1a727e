package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-admin-console/internal/model"
	"go-admin-console/pkg/apierror"
)

type RouteRepository struct {
	pool *pgxpool.Pool
}

func NewRouteRepository(pool *pgxpool.Pool) *RouteRepository {
	return &RouteRepository{pool: pool}
}

const routeColumns = `id, parent_id, type, title, path, icon, component, redirect, meta, sort, platform, created_at, updated_at`

func (r *RouteRepository) FindByID(ctx context.Context, id string) (model.Route, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE id = $1`, id)

	route, err := scanRoute(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Route{}, apierror.New("NOT_FOUND", "route not found", id, http.StatusNotFound)
	}
	if err != nil {
		return model.Route{}, fmt.Errorf("find route by id: %w", err)
	}
	return route, nil
}

func (r *RouteRepository) Create(ctx context.Context, route model.Route) error {
	var metaJSON []byte
	if route.Meta != nil {
		var err error
		metaJSON, err = json.Marshal(route.Meta)
		if err != nil {
			return fmt.Errorf("marshal route meta: %w", err)
		}
	}

	var parentID any
	if route.ParentID != "" {
		parentID = route.ParentID
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO routes (id, parent_id, type, title, path, icon, component, redirect, meta, sort, platform, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		route.ID, parentID, route.Type, route.Title, route.Path, route.Icon,
		route.Component, route.Redirect, metaJSON, route.Sort, route.Platform,
		route.CreatedAt, route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create route: %w", err)
	}
	return nil
}

func (r *RouteRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "route not found", id, http.StatusNotFound)
	}
	return nil
}

// ListByPlatform fetches every node of a platform in one query; the service
// assembles the tree in memory.
func (r *RouteRepository) ListByPlatform(ctx context.Context, platform string, sort string) ([]*model.Route, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE platform = $1 `+orderClause(sort), platform)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	return collectRoutes(rows)
}

// ReachableIDs resolves the union of route ids granted to any of the given
// roles.
func (r *RouteRepository) ReachableIDs(ctx context.Context, roleIDs []string) (map[string]struct{}, error) {
	if len(roleIDs) == 0 {
		return map[string]struct{}{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT route_id FROM role_routes WHERE role_id = ANY($1)`, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve reachable routes: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reachable route: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func collectRoutes(rows pgx.Rows) ([]*model.Route, error) {
	routes := make([]*model.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		copied := route
		routes = append(routes, &copied)
	}
	return routes, rows.Err()
}

func scanRoute(row pgx.Row) (model.Route, error) {
	var route model.Route
	var parentID *string
	var metaJSON []byte

	err := row.Scan(&route.ID, &parentID, &route.Type, &route.Title, &route.Path,
		&route.Icon, &route.Component, &route.Redirect, &metaJSON, &route.Sort,
		&route.Platform, &route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return model.Route{}, err
	}

	if parentID != nil {
		route.ParentID = *parentID
	}
	if len(metaJSON) > 0 {
		_ = json.Unmarshal(metaJSON, &route.Meta)
	}
	return route, nil
}
