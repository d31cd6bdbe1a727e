package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-admin-console/internal/model"
	"go-admin-console/internal/service"
	"go-admin-console/pkg/apierror"
)

type UploadHandler struct {
	service       *service.UploadService
	maxUploadSize int64
	maxChunkSize  int64
}

func NewUploadHandler(service *service.UploadService, maxUploadSize, maxChunkSize int64) *UploadHandler {
	return &UploadHandler{service: service, maxUploadSize: maxUploadSize, maxChunkSize: maxChunkSize}
}

// Upload handles a single multipart upload under the form field "file".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1024*1024)
	defer r.Body.Close()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "multipart form field 'file' is required", err.Error(), http.StatusBadRequest))
		return
	}
	defer file.Close()

	saved, err := h.service.SaveFile(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, saved, nil)
}

// Init handles POST .../uploads/chunked/init
func (h *UploadHandler) Init(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req model.ChunkedUploadInitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.InitUpload(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, resp, nil)
}

// UploadChunk handles PUT .../uploads/chunked/{uploadID}/chunks/{chunkIndex}
func (h *UploadHandler) UploadChunk(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	if uploadID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "upload id is required", "", http.StatusBadRequest))
		return
	}

	chunkIndexStr := chi.URLParam(r, "chunkIndex")
	chunkIndex, err := strconv.Atoi(chunkIndexStr)
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "chunk index must be an integer", chunkIndexStr, http.StatusBadRequest))
		return
	}

	// Chunk max plus 1 MB headroom for transfer framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxChunkSize+1024*1024)
	defer r.Body.Close()

	resp, err := h.service.WriteChunk(r.Context(), uploadID, chunkIndex, r.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp, nil)
}

// Complete handles POST .../uploads/chunked/{uploadID}/complete
func (h *UploadHandler) Complete(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	if uploadID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "upload id is required", "", http.StatusBadRequest))
		return
	}

	saved, err := h.service.CompleteUpload(r.Context(), uploadID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, saved, nil)
}

// Abort handles DELETE .../uploads/chunked/{uploadID}
func (h *UploadHandler) Abort(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	if uploadID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "upload id is required", "", http.StatusBadRequest))
		return
	}

	if err := h.service.AbortUpload(r.Context(), uploadID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"upload_id": uploadID, "status": "aborted"}, nil)
}
