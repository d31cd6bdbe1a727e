package service

import (
	"context"
	"log/slog"
	"time"

	"go-admin-console/internal/model"
	"go-admin-console/internal/repository"
)

// RequestLogService buffers log entries on a channel and writes them from a
// single background worker. Record never blocks the request path; when the
// buffer is full the entry is dropped and counted in the log.
type RequestLogService struct {
	logs    *repository.RequestLogRepository
	entries chan model.RequestLog
	done    chan struct{}
}

func NewRequestLogService(logs *repository.RequestLogRepository) *RequestLogService {
	return &RequestLogService{
		logs:    logs,
		entries: make(chan model.RequestLog, 1024),
		done:    make(chan struct{}),
	}
}

// Start runs the write worker until ctx is cancelled, then drains whatever
// is still buffered.
func (s *RequestLogService) Start(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case entry := <-s.entries:
			s.insert(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-s.entries:
					s.insert(entry)
				default:
					return
				}
			}
		}
	}
}

// Stopped reports worker shutdown, used by graceful shutdown to wait for
// the final drain.
func (s *RequestLogService) Stopped() <-chan struct{} {
	return s.done
}

func (s *RequestLogService) Record(entry model.RequestLog) {
	select {
	case s.entries <- entry:
	default:
		slog.Warn("request log buffer full, entry dropped", "path", entry.Path)
	}
}

func (s *RequestLogService) Query(ctx context.Context, query model.RequestLogQuery) ([]model.RequestLog, model.Meta, error) {
	return s.logs.Query(ctx, query)
}

func (s *RequestLogService) insert(entry model.RequestLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.logs.Insert(ctx, entry); err != nil {
		slog.Error("failed to persist request log", "error", err, "path", entry.Path)
	}
}
