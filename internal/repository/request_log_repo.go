package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-admin-console/internal/model"
)

type RequestLogRepository struct {
	pool *pgxpool.Pool
}

func NewRequestLogRepository(pool *pgxpool.Pool) *RequestLogRepository {
	return &RequestLogRepository{pool: pool}
}

func (r *RequestLogRepository) Insert(ctx context.Context, entry model.RequestLog) error {
	occurredAt, err := time.Parse(time.RFC3339Nano, entry.OccurredAt)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO request_logs
		 (id, method, path, status, duration_ms, client_ip, account, platform, error_code, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.NewString(), entry.Method, entry.Path, entry.Status, entry.DurationMS,
		entry.ClientIP, entry.Account, entry.Platform, entry.ErrorCode, occurredAt)
	if err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	return nil
}

func (r *RequestLogRepository) Query(ctx context.Context, query model.RequestLogQuery) ([]model.RequestLog, model.Meta, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 50
	}
	if query.Limit > 200 {
		query.Limit = 200
	}

	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if method := strings.TrimSpace(query.Method); method != "" {
		where = append(where, fmt.Sprintf("upper(method) = upper($%d)", argIdx))
		args = append(args, method)
		argIdx++
	}
	if path := strings.TrimSpace(query.Path); path != "" {
		where = append(where, fmt.Sprintf("path LIKE $%d", argIdx))
		args = append(args, "%"+path+"%")
		argIdx++
	}
	if account := strings.TrimSpace(query.Account); account != "" {
		where = append(where, fmt.Sprintf("account = $%d", argIdx))
		args = append(args, account)
		argIdx++
	}
	if query.Status > 0 {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, query.Status)
		argIdx++
	}
	if from := strings.TrimSpace(query.From); from != "" {
		where = append(where, fmt.Sprintf("occurred_at >= $%d::timestamptz", argIdx))
		args = append(args, from)
		argIdx++
	}
	if to := strings.TrimSpace(query.To); to != "" {
		where = append(where, fmt.Sprintf("occurred_at <= $%d::timestamptz", argIdx))
		args = append(args, to)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM request_logs %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count request logs: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + query.Limit - 1) / query.Limit
	}
	meta := model.Meta{Page: query.Page, Limit: query.Limit, Total: total, TotalPages: totalPages}

	offset := (query.Page - 1) * query.Limit
	dataQuery := fmt.Sprintf(
		`SELECT id, method, path, status, duration_ms, client_ip, account, platform, error_code, occurred_at
		 FROM request_logs %s
		 ORDER BY occurred_at DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, query.Limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query request logs: %w", err)
	}
	defer rows.Close()

	entries := make([]model.RequestLog, 0)
	for rows.Next() {
		var e model.RequestLog
		var occurredAt time.Time
		if err := rows.Scan(&e.ID, &e.Method, &e.Path, &e.Status, &e.DurationMS,
			&e.ClientIP, &e.Account, &e.Platform, &e.ErrorCode, &occurredAt); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan request log: %w", err)
		}
		e.OccurredAt = occurredAt.UTC().Format(time.RFC3339Nano)
		entries = append(entries, e)
	}

	return entries, meta, rows.Err()
}
