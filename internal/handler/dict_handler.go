package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-admin-console/internal/middleware"
	"go-admin-console/internal/model"
	"go-admin-console/internal/service"
)

type DictHandler struct {
	service *service.DictService
}

func NewDictHandler(service *service.DictService) *DictHandler {
	return &DictHandler{service: service}
}

func (h *DictHandler) CreateType(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateDictTypeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	dt, err := h.service.CreateType(r.Context(), middleware.PlatformFromPath(r.URL.Path), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dt, nil)
}

func (h *DictHandler) DeleteType(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteType(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *DictHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListTypes(r.Context(), middleware.PlatformFromPath(r.URL.Path))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, types, nil)
}

func (h *DictHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateDictItemRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.CreateItem(
		r.Context(),
		middleware.PlatformFromPath(r.URL.Path),
		chi.URLParam(r, "typeKey"),
		payload,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, item, nil)
}

func (h *DictHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *DictHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ItemsByTypeKey(
		r.Context(),
		middleware.PlatformFromPath(r.URL.Path),
		chi.URLParam(r, "typeKey"),
		r.URL.Query().Get("sort"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, nil)
}
