package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-admin-console/internal/model"
	"go-admin-console/internal/storage"
)

func newTestUploadService(t *testing.T) *UploadService {
	t.Helper()

	root := t.TempDir()
	store, err := storage.New(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	svc, err := NewUploadService(store, filepath.Join(root, "chunks"), 1<<20, 64)
	require.NoError(t, err)
	return svc
}

func TestSaveFile(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService(t)

	saved, err := svc.SaveFile(context.Background(), "report.pdf", strings.NewReader("hello world"))
	require.NoError(t, err)
	require.Equal(t, "report.pdf", saved.Name)
	require.Equal(t, int64(11), saved.Size)
	require.Contains(t, saved.Path, "report.pdf")
}

func TestSaveFileRejectsOversized(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := storage.New(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	svc, err := NewUploadService(store, filepath.Join(root, "chunks"), 8, 64)
	require.NoError(t, err)

	_, err = svc.SaveFile(context.Background(), "big.bin", strings.NewReader("way more than eight bytes"))
	require.Error(t, err)
}

func TestSaveFileRejectsBadNames(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService(t)

	for _, name := range []string{"", "   ", ".hidden", "..", "\x00"} {
		_, err := svc.SaveFile(context.Background(), name, strings.NewReader("x"))
		require.Error(t, err, "name %q", name)
	}
}

func TestChunkedUploadLifecycle(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService(t)
	ctx := context.Background()

	content := []byte("0123456789abcdef0123456789abcdef0123456789")

	init, err := svc.InitUpload(ctx, model.ChunkedUploadInitRequest{
		FileName:  "data.bin",
		FileSize:  int64(len(content)),
		ChunkSize: 16,
	})
	require.NoError(t, err)
	require.Equal(t, 3, init.TotalChunks)

	// Completing early reports the missing chunks.
	_, err = svc.CompleteUpload(ctx, init.UploadID)
	require.Error(t, err)

	for i := 0; i < init.TotalChunks; i++ {
		start := i * 16
		end := start + 16
		if end > len(content) {
			end = len(content)
		}

		resp, err := svc.WriteChunk(ctx, init.UploadID, i, bytes.NewReader(content[start:end]))
		require.NoError(t, err)
		require.Equal(t, i+1, resp.ReceivedChunks)
		require.Equal(t, i == init.TotalChunks-1, resp.Completed)
	}

	saved, err := svc.CompleteUpload(ctx, init.UploadID)
	require.NoError(t, err)
	require.Equal(t, "data.bin", saved.Name)
	require.Equal(t, int64(len(content)), saved.Size)

	// Session is gone once completed.
	_, err = svc.CompleteUpload(ctx, init.UploadID)
	require.Error(t, err)
}

func TestChunkRetransmitIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService(t)
	ctx := context.Background()

	init, err := svc.InitUpload(ctx, model.ChunkedUploadInitRequest{
		FileName:  "data.bin",
		FileSize:  32,
		ChunkSize: 16,
	})
	require.NoError(t, err)

	first, err := svc.WriteChunk(ctx, init.UploadID, 0, strings.NewReader("aaaaaaaaaaaaaaaa"))
	require.NoError(t, err)
	require.Equal(t, 1, first.ReceivedChunks)

	again, err := svc.WriteChunk(ctx, init.UploadID, 0, strings.NewReader("bbbbbbbbbbbbbbbb"))
	require.NoError(t, err)
	require.Equal(t, 1, again.ReceivedChunks)
}

func TestChunkIndexBounds(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService(t)
	ctx := context.Background()

	init, err := svc.InitUpload(ctx, model.ChunkedUploadInitRequest{
		FileName:  "data.bin",
		FileSize:  32,
		ChunkSize: 16,
	})
	require.NoError(t, err)

	_, err = svc.WriteChunk(ctx, init.UploadID, -1, strings.NewReader("x"))
	require.Error(t, err)

	_, err = svc.WriteChunk(ctx, init.UploadID, 2, strings.NewReader("x"))
	require.Error(t, err)
}

func TestInitUploadValidation(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService(t)
	ctx := context.Background()

	_, err := svc.InitUpload(ctx, model.ChunkedUploadInitRequest{FileName: "a", FileSize: 0, ChunkSize: 16})
	require.Error(t, err)

	_, err = svc.InitUpload(ctx, model.ChunkedUploadInitRequest{FileName: "a", FileSize: 2 << 20, ChunkSize: 16})
	require.Error(t, err, "file larger than the service limit")

	_, err = svc.InitUpload(ctx, model.ChunkedUploadInitRequest{FileName: "a", FileSize: 32, ChunkSize: 128})
	require.Error(t, err, "chunk larger than the service limit")
}

func TestAbortRemovesSessionAndTempFile(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService(t)
	ctx := context.Background()

	init, err := svc.InitUpload(ctx, model.ChunkedUploadInitRequest{
		FileName:  "data.bin",
		FileSize:  32,
		ChunkSize: 16,
	})
	require.NoError(t, err)

	tempPath := filepath.Join(svc.tempDir, init.UploadID+".part")
	_, err = os.Stat(tempPath)
	require.NoError(t, err)

	require.NoError(t, svc.AbortUpload(ctx, init.UploadID))

	_, err = os.Stat(tempPath)
	require.True(t, os.IsNotExist(err))

	require.Error(t, svc.AbortUpload(ctx, init.UploadID))
}

func TestCleanupExpired(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService(t)
	ctx := context.Background()

	init, err := svc.InitUpload(ctx, model.ChunkedUploadInitRequest{
		FileName:  "data.bin",
		FileSize:  32,
		ChunkSize: 16,
	})
	require.NoError(t, err)

	// Age the session artificially.
	svc.mu.Lock()
	svc.sessions[init.UploadID].createdAt = time.Now().Add(-48 * time.Hour)
	svc.mu.Unlock()

	svc.CleanupExpired(24 * time.Hour)

	_, ok := svc.session(init.UploadID)
	require.False(t, ok)
}
