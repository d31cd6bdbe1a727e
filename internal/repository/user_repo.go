package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-admin-console/internal/model"
	"go-admin-console/pkg/apierror"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, account, nickname, password_hash, email, phone, avatar, platform, created_at, updated_at`

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id).
		Scan(&u.ID, &u.Account, &u.Nickname, &u.PasswordHash, &u.Email, &u.Phone,
			&u.Avatar, &u.Platform, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.New("NOT_FOUND", "user not found", id, http.StatusNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}

	if err := r.loadRoles(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserRepository) FindByAccount(ctx context.Context, platform string, account string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE platform = $1 AND lower(account) = lower($2) AND deleted_at IS NULL`,
		platform, strings.TrimSpace(account)).
		Scan(&u.ID, &u.Account, &u.Nickname, &u.PasswordHash, &u.Email, &u.Phone,
			&u.Avatar, &u.Platform, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.New("NOT_FOUND", "user not found", account, http.StatusNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by account: %w", err)
	}

	if err := r.loadRoles(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserRepository) ExistsByAccount(ctx context.Context, platform string, account string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users
		 WHERE platform = $1 AND lower(account) = lower($2) AND deleted_at IS NULL)`,
		platform, strings.TrimSpace(account)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User, roleIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, account, nickname, password_hash, email, phone, avatar, platform, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Account, u.Nickname, u.PasswordHash, u.Email, u.Phone, u.Avatar, u.Platform, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return apierror.New("ALREADY_EXISTS", "account already exists", u.Account, http.StatusConflict)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if err := replaceUserRoles(ctx, tx, u.ID, roleIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) Update(ctx context.Context, u model.User, roleIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update user: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE users SET nickname = $2, email = $3, phone = $4, avatar = $5, updated_at = $6
		 WHERE id = $1 AND deleted_at IS NULL`,
		u.ID, u.Nickname, u.Email, u.Phone, u.Avatar, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "user not found", u.ID, http.StatusNotFound)
	}

	if roleIDs != nil {
		if err := replaceUserRoles(ctx, tx, u.ID, roleIDs); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// SoftDelete tombstones the row; it is never physically removed.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "user not found", id, http.StatusNotFound)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, platform string, page int, limit int) ([]model.User, model.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE platform = $1 AND deleted_at IS NULL`, platform).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count users: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	meta := model.Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}

	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE platform = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, platform, limit, (page-1)*limit)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Account, &u.Nickname, &u.PasswordHash, &u.Email, &u.Phone,
			&u.Avatar, &u.Platform, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Meta{}, err
	}

	for i := range users {
		if err := r.loadRoles(ctx, &users[i]); err != nil {
			return nil, model.Meta{}, err
		}
	}

	return users, meta, nil
}

func (r *UserRepository) loadRoles(ctx context.Context, u *model.User) error {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.name, r.role_key, r.description, r.platform, r.created_at, r.updated_at
		 FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1
		 ORDER BY r.role_key`, u.ID)
	if err != nil {
		return fmt.Errorf("load user roles: %w", err)
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.RoleKey, &role.Description,
			&role.Platform, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return fmt.Errorf("scan user role: %w", err)
		}
		roles = append(roles, role)
	}
	u.Roles = roles
	return rows.Err()
}

func replaceUserRoles(ctx context.Context, tx pgx.Tx, userID string, roleIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}

	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, roleID); err != nil {
			return fmt.Errorf("assign role %s: %w", roleID, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
