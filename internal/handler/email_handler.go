package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-admin-console/internal/model"
	"go-admin-console/internal/service"
)

type EmailHandler struct {
	service *service.EmailService
}

func NewEmailHandler(service *service.EmailService) *EmailHandler {
	return &EmailHandler{service: service}
}

func (h *EmailHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateEmailTemplateRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	t, err := h.service.CreateTemplate(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, t, nil)
}

func (h *EmailHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateEmailTemplateRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	t, err := h.service.UpdateTemplate(r.Context(), chi.URLParam(r, "code"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, t, nil)
}

func (h *EmailHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *EmailHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, templates, nil)
}

// Send renders the template named by code against the supplied params and
// delivers it through SMTP.
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SendEmailRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Send(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"sent": true}, nil)
}
