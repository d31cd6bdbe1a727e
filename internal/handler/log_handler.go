package handler

import (
	"net/http"
	"strconv"

	"go-admin-console/internal/model"
	"go-admin-console/internal/service"
)

type LogHandler struct {
	service *service.RequestLogService
}

func NewLogHandler(service *service.RequestLogService) *LogHandler {
	return &LogHandler{service: service}
}

// List handles GET .../logs with optional method, path, account, status,
// from and to filters (RFC 3339 timestamps) plus page and limit.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := model.RequestLogQuery{
		Method:  q.Get("method"),
		Path:    q.Get("path"),
		Account: q.Get("account"),
		From:    q.Get("from"),
		To:      q.Get("to"),
	}

	if status, err := strconv.Atoi(q.Get("status")); err == nil {
		query.Status = status
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		query.Limit = limit
	}

	logs, meta, err := h.service.Query(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, logs, &meta)
}
