package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-admin-console/internal/model"
	"go-admin-console/pkg/apierror"
)

type NoticeRepository struct {
	pool *pgxpool.Pool
}

func NewNoticeRepository(pool *pgxpool.Pool) *NoticeRepository {
	return &NoticeRepository{pool: pool}
}

const noticeColumns = `id, title, content, type, status, platform, sort, published_at, created_at, updated_at`

func (r *NoticeRepository) FindByID(ctx context.Context, id string) (model.Notice, error) {
	var n model.Notice
	err := r.pool.QueryRow(ctx,
		`SELECT `+noticeColumns+` FROM notices WHERE id = $1`, id).
		Scan(&n.ID, &n.Title, &n.Content, &n.Type, &n.Status, &n.Platform, &n.Sort,
			&n.PublishedAt, &n.CreatedAt, &n.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Notice{}, apierror.New("NOT_FOUND", "notice not found", id, http.StatusNotFound)
	}
	if err != nil {
		return model.Notice{}, fmt.Errorf("find notice by id: %w", err)
	}
	return n, nil
}

func (r *NoticeRepository) Create(ctx context.Context, n model.Notice) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notices (id, title, content, type, status, platform, sort, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.Title, n.Content, n.Type, n.Status, n.Platform, n.Sort, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

func (r *NoticeRepository) Update(ctx context.Context, n model.Notice) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notices SET title = $2, content = $3, type = $4, sort = $5, updated_at = $6
		 WHERE id = $1`,
		n.ID, n.Title, n.Content, n.Type, n.Sort, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "notice not found", n.ID, http.StatusNotFound)
	}
	return nil
}

func (r *NoticeRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notices SET status = $2, published_at = $3, updated_at = $3 WHERE id = $1 AND status = $4`,
		id, model.NoticeStatusPublished, at, model.NoticeStatusDraft)
	if err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing notice from one that already left draft.
		var status string
		if scanErr := r.pool.QueryRow(ctx, `SELECT status FROM notices WHERE id = $1`, id).Scan(&status); scanErr != nil {
			return apierror.New("NOT_FOUND", "notice not found", id, http.StatusNotFound)
		}
		return apierror.New("CONFLICT", "notice is not in draft status", status, http.StatusConflict)
	}
	return nil
}

func (r *NoticeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "notice not found", id, http.StatusNotFound)
	}
	return nil
}

func (r *NoticeRepository) List(ctx context.Context, platform string, status string, sort string, page int, limit int) ([]model.Notice, model.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}

	where := `WHERE platform = $1`
	args := []any{platform}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notices `+where, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count notices: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	meta := model.Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}

	query := fmt.Sprintf(`SELECT `+noticeColumns+` FROM notices %s %s LIMIT $%d OFFSET $%d`,
		where, orderClause(sort), len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("list notices: %w", err)
	}
	defer rows.Close()

	notices := make([]model.Notice, 0)
	for rows.Next() {
		var n model.Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Type, &n.Status, &n.Platform,
			&n.Sort, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan notice: %w", err)
		}
		notices = append(notices, n)
	}
	return notices, meta, rows.Err()
}
