package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-admin-console/internal/model"
	"go-admin-console/pkg/apierror"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (model.Role, error) {
	var role model.Role
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, role_key, description, platform, created_at, updated_at
		 FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.RoleKey, &role.Description, &role.Platform,
			&role.CreatedAt, &role.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Role{}, apierror.New("NOT_FOUND", "role not found", id, http.StatusNotFound)
	}
	if err != nil {
		return model.Role{}, fmt.Errorf("find role by id: %w", err)
	}

	role.RouteIDs, err = r.routeIDs(ctx, role.ID)
	if err != nil {
		return model.Role{}, err
	}
	return role, nil
}

func (r *RoleRepository) ExistsByKey(ctx context.Context, platform string, roleKey string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM roles WHERE platform = $1 AND role_key = $2)`,
		platform, roleKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role key exists: %w", err)
	}
	return exists, nil
}

// Create relies on the (platform, role_key) unique constraint as the last
// line of defense: the service-layer precheck alone is racy under
// concurrent requests.
func (r *RoleRepository) Create(ctx context.Context, role model.Role, routeIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create role: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO roles (id, name, role_key, description, platform, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		role.ID, role.Name, role.RoleKey, role.Description, role.Platform, role.CreatedAt, role.UpdatedAt)
	if isUniqueViolation(err) {
		return apierror.New("ALREADY_EXISTS", "role key already exists", role.RoleKey, http.StatusConflict)
	}
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}

	if err := replaceRoleRoutes(ctx, tx, role.ID, routeIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *RoleRepository) Update(ctx context.Context, role model.Role, routeIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update role: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE roles SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		role.ID, role.Name, role.Description, role.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "role not found", role.ID, http.StatusNotFound)
	}

	if routeIDs != nil {
		if err := replaceRoleRoutes(ctx, tx, role.ID, routeIDs); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "role not found", id, http.StatusNotFound)
	}
	return nil
}

func (r *RoleRepository) List(ctx context.Context, platform string, sort string) ([]model.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, role_key, description, platform, created_at, updated_at
		 FROM roles WHERE platform = $1
		 ORDER BY role_key`, platform)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.RoleKey, &role.Description,
			&role.Platform, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) routeIDs(ctx context.Context, roleID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT route_id FROM role_routes WHERE role_id = $1`, roleID)
	if err != nil {
		return nil, fmt.Errorf("load role routes: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan role route: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func replaceRoleRoutes(ctx context.Context, tx pgx.Tx, roleID string, routeIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM role_routes WHERE role_id = $1`, roleID); err != nil {
		return fmt.Errorf("clear role routes: %w", err)
	}

	for _, routeID := range routeIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_routes (role_id, route_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			roleID, routeID); err != nil {
			return fmt.Errorf("assign route %s: %w", routeID, err)
		}
	}
	return nil
}
