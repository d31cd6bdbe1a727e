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

type DictRepository struct {
	pool *pgxpool.Pool
}

func NewDictRepository(pool *pgxpool.Pool) *DictRepository {
	return &DictRepository{pool: pool}
}

func (r *DictRepository) FindTypeByKey(ctx context.Context, platform string, typeKey string) (model.DictType, error) {
	var dt model.DictType
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, type_key, platform, created_at, updated_at
		 FROM dict_types WHERE platform = $1 AND type_key = $2`, platform, typeKey).
		Scan(&dt.ID, &dt.Name, &dt.TypeKey, &dt.Platform, &dt.CreatedAt, &dt.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.DictType{}, apierror.New("NOT_FOUND", "dict type not found", typeKey, http.StatusNotFound)
	}
	if err != nil {
		return model.DictType{}, fmt.Errorf("find dict type: %w", err)
	}
	return dt, nil
}

func (r *DictRepository) CreateType(ctx context.Context, dt model.DictType) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO dict_types (id, name, type_key, platform, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		dt.ID, dt.Name, dt.TypeKey, dt.Platform, dt.CreatedAt, dt.UpdatedAt)
	if isUniqueViolation(err) {
		return apierror.New("ALREADY_EXISTS", "dict type key already exists", dt.TypeKey, http.StatusConflict)
	}
	if err != nil {
		return fmt.Errorf("create dict type: %w", err)
	}
	return nil
}

func (r *DictRepository) DeleteType(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM dict_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dict type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "dict type not found", id, http.StatusNotFound)
	}
	return nil
}

func (r *DictRepository) ListTypes(ctx context.Context, platform string) ([]model.DictType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, type_key, platform, created_at, updated_at
		 FROM dict_types WHERE platform = $1 ORDER BY type_key`, platform)
	if err != nil {
		return nil, fmt.Errorf("list dict types: %w", err)
	}
	defer rows.Close()

	types := make([]model.DictType, 0)
	for rows.Next() {
		var dt model.DictType
		if err := rows.Scan(&dt.ID, &dt.Name, &dt.TypeKey, &dt.Platform, &dt.CreatedAt, &dt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dict type: %w", err)
		}
		types = append(types, dt)
	}
	return types, rows.Err()
}

func (r *DictRepository) CreateItem(ctx context.Context, item model.DictItem) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO dict_items (id, type_id, label, value, sort, enabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.TypeID, item.Label, item.Value, item.Sort, item.Enabled,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create dict item: %w", err)
	}
	return nil
}

func (r *DictRepository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM dict_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dict item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "dict item not found", id, http.StatusNotFound)
	}
	return nil
}

func (r *DictRepository) ListItems(ctx context.Context, typeID string, sort string) ([]model.DictItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type_id, label, value, sort, enabled, created_at, updated_at
		 FROM dict_items WHERE type_id = $1 `+orderClause(sort), typeID)
	if err != nil {
		return nil, fmt.Errorf("list dict items: %w", err)
	}
	defer rows.Close()

	items := make([]model.DictItem, 0)
	for rows.Next() {
		var item model.DictItem
		if err := rows.Scan(&item.ID, &item.TypeID, &item.Label, &item.Value, &item.Sort,
			&item.Enabled, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dict item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
