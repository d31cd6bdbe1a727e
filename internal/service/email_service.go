package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"text/template"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/google/uuid"

	"go-admin-console/internal/config"
	"go-admin-console/internal/model"
	"go-admin-console/internal/repository"
	"go-admin-console/pkg/apierror"
)

// Mailer delivers a rendered message. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to string, subject string, body string) error
}

// SMTPMailer sends mail over SMTP with go-mail. STARTTLS is negotiated
// automatically when the server offers it.
type SMTPMailer struct {
	host string
	port int
	from string
	user string
	pass string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	if cfg.SMTPHost == "" {
		return nil
	}

	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		from: cfg.SMTPFrom,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
	}
}

func (m *SMTPMailer) Send(to string, subject string, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)
	d.TLSConfig = &tls.Config{ServerName: m.host}

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// EmailService manages stored templates and sends rendered mail through the
// configured Mailer. A nil mailer means SMTP is not configured; Send fails
// with ErrMailerNotConfigured but template management keeps working.
type EmailService struct {
	templates *repository.EmailTemplateRepository
	mailer    Mailer
}

func NewEmailService(templates *repository.EmailTemplateRepository, mailer Mailer) *EmailService {
	return &EmailService{templates: templates, mailer: mailer}
}

func (s *EmailService) CreateTemplate(ctx context.Context, req model.CreateEmailTemplateRequest) (model.EmailTemplate, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" || strings.TrimSpace(req.Subject) == "" {
		return model.EmailTemplate{}, apierror.New("BAD_REQUEST", "code and subject are required", "", http.StatusBadRequest)
	}

	if _, err := template.New(code).Parse(req.Body); err != nil {
		return model.EmailTemplate{}, apierror.New("BAD_REQUEST", "template body does not parse", err.Error(), http.StatusBadRequest)
	}

	now := time.Now().UTC()
	t := model.EmailTemplate{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		Subject:   req.Subject,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.templates.Create(ctx, t); err != nil {
		return model.EmailTemplate{}, err
	}

	return t, nil
}

func (s *EmailService) UpdateTemplate(ctx context.Context, code string, req model.CreateEmailTemplateRequest) (model.EmailTemplate, error) {
	t, err := s.templates.FindByCode(ctx, code)
	if err != nil {
		return model.EmailTemplate{}, err
	}

	if _, err := template.New(code).Parse(req.Body); err != nil {
		return model.EmailTemplate{}, apierror.New("BAD_REQUEST", "template body does not parse", err.Error(), http.StatusBadRequest)
	}

	t.Name = strings.TrimSpace(req.Name)
	t.Subject = req.Subject
	t.Body = req.Body
	t.UpdatedAt = time.Now().UTC()

	if err := s.templates.Update(ctx, t); err != nil {
		return model.EmailTemplate{}, err
	}

	return t, nil
}

func (s *EmailService) DeleteTemplate(ctx context.Context, id string) error {
	return s.templates.Delete(ctx, id)
}

func (s *EmailService) ListTemplates(ctx context.Context) ([]model.EmailTemplate, error) {
	return s.templates.List(ctx)
}

// Send looks up the template by code, renders subject and body against
// req.Params, and hands the result to the mailer.
func (s *EmailService) Send(ctx context.Context, req model.SendEmailRequest) error {
	to := strings.TrimSpace(req.To)
	if to == "" {
		return apierror.New("BAD_REQUEST", "recipient is required", "", http.StatusBadRequest)
	}

	if s.mailer == nil {
		return model.ErrMailerNotConfigured
	}

	t, err := s.templates.FindByCode(ctx, req.Code)
	if err != nil {
		return err
	}

	subject, err := renderTemplate(t.Code+":subject", t.Subject, req.Params)
	if err != nil {
		return apierror.New("BAD_REQUEST", "subject render failed", err.Error(), http.StatusBadRequest)
	}

	body, err := renderTemplate(t.Code+":body", t.Body, req.Params)
	if err != nil {
		return apierror.New("BAD_REQUEST", "body render failed", err.Error(), http.StatusBadRequest)
	}

	return s.mailer.Send(to, subject, body)
}

func renderTemplate(name string, text string, params map[string]any) (string, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, params); err != nil {
		return "", err
	}

	return buf.String(), nil
}
