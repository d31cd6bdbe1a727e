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

type EmailTemplateRepository struct {
	pool *pgxpool.Pool
}

func NewEmailTemplateRepository(pool *pgxpool.Pool) *EmailTemplateRepository {
	return &EmailTemplateRepository{pool: pool}
}

func (r *EmailTemplateRepository) FindByCode(ctx context.Context, code string) (model.EmailTemplate, error) {
	var t model.EmailTemplate
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, subject, body, created_at, updated_at
		 FROM email_templates WHERE code = $1`, code).
		Scan(&t.ID, &t.Code, &t.Name, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.EmailTemplate{}, apierror.New("NOT_FOUND", "email template not found", code, http.StatusNotFound)
	}
	if err != nil {
		return model.EmailTemplate{}, fmt.Errorf("find email template: %w", err)
	}
	return t, nil
}

func (r *EmailTemplateRepository) Create(ctx context.Context, t model.EmailTemplate) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO email_templates (id, code, name, subject, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Code, t.Name, t.Subject, t.Body, t.CreatedAt, t.UpdatedAt)
	if isUniqueViolation(err) {
		return apierror.New("ALREADY_EXISTS", "email template code already exists", t.Code, http.StatusConflict)
	}
	if err != nil {
		return fmt.Errorf("create email template: %w", err)
	}
	return nil
}

func (r *EmailTemplateRepository) Update(ctx context.Context, t model.EmailTemplate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE email_templates SET name = $2, subject = $3, body = $4, updated_at = $5
		 WHERE id = $1`,
		t.ID, t.Name, t.Subject, t.Body, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update email template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "email template not found", t.ID, http.StatusNotFound)
	}
	return nil
}

func (r *EmailTemplateRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete email template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "email template not found", id, http.StatusNotFound)
	}
	return nil
}

func (r *EmailTemplateRepository) List(ctx context.Context) ([]model.EmailTemplate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, subject, body, created_at, updated_at
		 FROM email_templates ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list email templates: %w", err)
	}
	defer rows.Close()

	templates := make([]model.EmailTemplate, 0)
	for rows.Next() {
		var t model.EmailTemplate
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan email template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}
