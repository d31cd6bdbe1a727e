package model

import "time"

// EmailTemplate bodies use Go text/template placeholders, e.g. {{.Account}}.
type EmailTemplate struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SendEmailRequest struct {
	Code   string         `json:"code"`
	To     string         `json:"to"`
	Params map[string]any `json:"params,omitempty"`
}
