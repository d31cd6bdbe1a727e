package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go-admin-console/internal/model"
	"go-admin-console/internal/storage"
	"go-admin-console/internal/util"
	"go-admin-console/pkg/apierror"
)

type uploadSession struct {
	uploadID       string
	fileName       string
	totalChunks    int
	chunkSize      int64
	fileSize       int64
	receivedChunks int
	received       []bool
	tempFilePath   string
	createdAt      time.Time
	mu             sync.Mutex // serialises chunk writes to the temp file
}

// UploadService stores uploaded files under a jailed root, partitioned by
// month. Chunked uploads assemble into a temp file via seek writes and move
// into place on completion; session metadata lives in memory only, so
// in-flight uploads do not survive a restart.
type UploadService struct {
	store         *storage.Storage
	tempDir       string
	maxUploadSize int64
	maxChunkSize  int64

	mu       sync.RWMutex
	sessions map[string]*uploadSession
}

func NewUploadService(store *storage.Storage, tempDir string, maxUploadSize, maxChunkSize int64) (*UploadService, error) {
	if strings.TrimSpace(tempDir) == "" {
		tempDir = "./data/.chunks"
	}

	abs, err := filepath.Abs(tempDir)
	if err != nil {
		return nil, fmt.Errorf("resolve chunk temp dir: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create chunk temp dir: %w", err)
	}

	return &UploadService{
		store:         store,
		tempDir:       abs,
		maxUploadSize: maxUploadSize,
		maxChunkSize:  maxChunkSize,
		sessions:      make(map[string]*uploadSession),
	}, nil
}

// SaveFile streams a single multipart upload into the storage root and
// returns the stored path relative to it.
func (s *UploadService) SaveFile(_ context.Context, fileName string, reader io.Reader) (model.UploadedFile, error) {
	safeName, err := util.SanitizeFilename(fileName)
	if err != nil {
		return model.UploadedFile{}, err
	}

	id, err := generateUploadID()
	if err != nil {
		return model.UploadedFile{}, fmt.Errorf("generate file id: %w", err)
	}

	relPath := storedPath(id, safeName)

	f, err := s.store.OpenForWrite(relPath)
	if err != nil {
		return model.UploadedFile{}, err
	}

	buf := make([]byte, 32*1024)
	written, err := io.CopyBuffer(f, io.LimitReader(reader, s.maxUploadSize+1), buf)
	closeErr := f.Close()
	if err != nil {
		s.store.Remove(relPath)
		return model.UploadedFile{}, fmt.Errorf("write upload: %w", err)
	}
	if closeErr != nil {
		s.store.Remove(relPath)
		return model.UploadedFile{}, fmt.Errorf("close upload: %w", closeErr)
	}

	if written > s.maxUploadSize {
		s.store.Remove(relPath)
		return model.UploadedFile{}, apierror.New("PAYLOAD_TOO_LARGE", "file exceeds the upload size limit", "", http.StatusRequestEntityTooLarge)
	}

	slog.Info("file uploaded", "path", relPath, "size", written)

	return model.UploadedFile{Name: safeName, Path: relPath, Size: written}, nil
}

func (s *UploadService) InitUpload(_ context.Context, req model.ChunkedUploadInitRequest) (model.ChunkedUploadInitResponse, error) {
	safeName, err := util.SanitizeFilename(req.FileName)
	if err != nil {
		return model.ChunkedUploadInitResponse{}, err
	}

	if req.FileSize <= 0 {
		return model.ChunkedUploadInitResponse{}, apierror.New("BAD_REQUEST", "file_size must be positive", "", http.StatusBadRequest)
	}
	if req.FileSize > s.maxUploadSize {
		return model.ChunkedUploadInitResponse{}, apierror.New("PAYLOAD_TOO_LARGE", "file exceeds the upload size limit", "", http.StatusRequestEntityTooLarge)
	}
	if req.ChunkSize <= 0 || req.ChunkSize > s.maxChunkSize {
		return model.ChunkedUploadInitResponse{}, apierror.New(
			"BAD_REQUEST",
			fmt.Sprintf("chunk_size must be between 1 and %d", s.maxChunkSize),
			"",
			http.StatusBadRequest,
		)
	}

	totalChunks := int((req.FileSize + req.ChunkSize - 1) / req.ChunkSize)

	uploadID, err := generateUploadID()
	if err != nil {
		return model.ChunkedUploadInitResponse{}, fmt.Errorf("generate upload id: %w", err)
	}

	tempPath := filepath.Join(s.tempDir, uploadID+".part")

	// Create the temp file up front; chunks seek-write into it later.
	f, err := os.Create(tempPath)
	if err != nil {
		return model.ChunkedUploadInitResponse{}, fmt.Errorf("create temp file: %w", err)
	}
	f.Close()

	sess := &uploadSession{
		uploadID:     uploadID,
		fileName:     safeName,
		totalChunks:  totalChunks,
		chunkSize:    req.ChunkSize,
		fileSize:     req.FileSize,
		received:     make([]bool, totalChunks),
		tempFilePath: tempPath,
		createdAt:    time.Now(),
	}

	s.mu.Lock()
	s.sessions[uploadID] = sess
	s.mu.Unlock()

	slog.Info("chunked upload initiated",
		"upload_id", uploadID,
		"file_name", safeName,
		"file_size", req.FileSize,
		"total_chunks", totalChunks,
	)

	return model.ChunkedUploadInitResponse{
		UploadID:    uploadID,
		TotalChunks: totalChunks,
		ChunkSize:   req.ChunkSize,
	}, nil
}

func (s *UploadService) WriteChunk(_ context.Context, uploadID string, chunkIndex int, reader io.Reader) (model.ChunkedUploadChunkResponse, error) {
	sess, ok := s.session(uploadID)
	if !ok {
		return model.ChunkedUploadChunkResponse{}, apierror.New("NOT_FOUND", "upload session not found", uploadID, http.StatusNotFound)
	}

	if chunkIndex < 0 || chunkIndex >= sess.totalChunks {
		return model.ChunkedUploadChunkResponse{}, apierror.New(
			"BAD_REQUEST",
			fmt.Sprintf("chunk_index must be between 0 and %d", sess.totalChunks-1),
			"",
			http.StatusBadRequest,
		)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	f, err := os.OpenFile(sess.tempFilePath, os.O_WRONLY, 0o644)
	if err != nil {
		return model.ChunkedUploadChunkResponse{}, fmt.Errorf("open temp file for chunk write: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(int64(chunkIndex)*sess.chunkSize, io.SeekStart); err != nil {
		return model.ChunkedUploadChunkResponse{}, fmt.Errorf("seek to chunk offset: %w", err)
	}

	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(f, io.LimitReader(reader, sess.chunkSize), buf); err != nil {
		return model.ChunkedUploadChunkResponse{}, fmt.Errorf("write chunk data: %w", err)
	}

	// Retransmitted chunks overwrite in place without double counting.
	if !sess.received[chunkIndex] {
		sess.received[chunkIndex] = true
		sess.receivedChunks++
	}

	return model.ChunkedUploadChunkResponse{
		UploadID:       uploadID,
		ChunkIndex:     chunkIndex,
		ReceivedChunks: sess.receivedChunks,
		TotalChunks:    sess.totalChunks,
		Completed:      sess.receivedChunks == sess.totalChunks,
	}, nil
}

func (s *UploadService) CompleteUpload(_ context.Context, uploadID string) (model.UploadedFile, error) {
	sess, ok := s.session(uploadID)
	if !ok {
		return model.UploadedFile{}, apierror.New("NOT_FOUND", "upload session not found", uploadID, http.StatusNotFound)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.receivedChunks != sess.totalChunks {
		missing := make([]int, 0, 10)
		for i, got := range sess.received {
			if !got {
				missing = append(missing, i)
				if len(missing) >= 10 {
					break
				}
			}
		}
		return model.UploadedFile{}, apierror.New(
			"BAD_REQUEST",
			fmt.Sprintf("upload incomplete: received %d of %d chunks", sess.receivedChunks, sess.totalChunks),
			fmt.Sprintf("missing chunks (first up to 10): %v", missing),
			http.StatusBadRequest,
		)
	}

	relPath := storedPath(uploadID, sess.fileName)

	resolved, err := s.store.Resolve(relPath)
	if err != nil {
		return model.UploadedFile{}, err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return model.UploadedFile{}, fmt.Errorf("create destination dir: %w", err)
	}

	// Atomic rename, temp dir and storage root should share a partition.
	if err := os.Rename(sess.tempFilePath, resolved); err != nil {
		return model.UploadedFile{}, fmt.Errorf("move temp file to destination: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return model.UploadedFile{}, fmt.Errorf("stat final file: %w", err)
	}

	s.removeSession(uploadID)

	slog.Info("chunked upload completed", "upload_id", uploadID, "path", relPath, "size", info.Size())

	return model.UploadedFile{Name: sess.fileName, Path: relPath, Size: info.Size()}, nil
}

func (s *UploadService) AbortUpload(_ context.Context, uploadID string) error {
	sess, ok := s.session(uploadID)
	if !ok {
		return apierror.New("NOT_FOUND", "upload session not found", uploadID, http.StatusNotFound)
	}

	sess.mu.Lock()
	tempPath := sess.tempFilePath
	sess.mu.Unlock()

	os.Remove(tempPath)
	s.removeSession(uploadID)

	slog.Info("chunked upload aborted", "upload_id", uploadID)
	return nil
}

// CleanupExpired drops sessions older than maxAge and sweeps orphan .part
// files left behind by a previous process.
func (s *UploadService) CleanupExpired(maxAge time.Duration) {
	now := time.Now()

	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		if now.Sub(sess.createdAt) > maxAge {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		os.Remove(s.sessions[id].tempFilePath)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if len(expired) > 0 {
		slog.Info("cleaned up expired upload sessions", "count", len(expired))
	}

	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		slog.Warn("chunk cleanup: failed to read temp dir", "error", err)
		return
	}

	orphansRemoved := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".part") {
			continue
		}

		info, err := entry.Info()
		if err != nil || now.Sub(info.ModTime()) <= maxAge {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".part")
		s.mu.RLock()
		_, tracked := s.sessions[id]
		s.mu.RUnlock()
		if tracked {
			continue
		}

		if err := os.Remove(filepath.Join(s.tempDir, entry.Name())); err == nil {
			orphansRemoved++
		}
	}

	if orphansRemoved > 0 {
		slog.Info("cleaned up orphan chunk files", "count", orphansRemoved)
	}
}

// StartCleanupTicker runs CleanupExpired hourly until ctx is cancelled.
func (s *UploadService) StartCleanupTicker(ctx context.Context, maxAge time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	// Clear stale files from a previous run before serving.
	s.CleanupExpired(maxAge)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CleanupExpired(maxAge)
		}
	}
}

func (s *UploadService) session(id string) (*uploadSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *UploadService) removeSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// storedPath partitions uploads by month so a single directory never grows
// unbounded.
func storedPath(id string, name string) string {
	return filepath.Join(time.Now().Format("2006-01"), id[:8]+"_"+name)
}

func generateUploadID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
