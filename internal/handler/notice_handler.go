package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-admin-console/internal/middleware"
	"go-admin-console/internal/model"
	"go-admin-console/internal/service"
	"go-admin-console/pkg/apierror"
)

type NoticeHandler struct {
	service *service.NoticeService
}

func NewNoticeHandler(service *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: service}
}

func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateNoticeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	notice, err := h.service.Create(r.Context(), middleware.PlatformFromPath(r.URL.Path), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, notice, nil)
}

func (h *NoticeHandler) Get(w http.ResponseWriter, r *http.Request) {
	notice, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, notice, nil)
}

func (h *NoticeHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateNoticeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	notice, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, notice, nil)
}

// Publish transitions a draft to published and pushes it to connected
// websocket clients of the platform.
func (h *NoticeHandler) Publish(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	notice, err := h.service.Publish(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, notice, nil)
}

func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	notices, meta, err := h.service.List(
		r.Context(),
		middleware.PlatformFromPath(r.URL.Path),
		r.URL.Query().Get("status"),
		parseListQuery(r),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, notices, &meta)
}
