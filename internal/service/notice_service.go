package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-admin-console/internal/event"
	"go-admin-console/internal/metrics"
	"go-admin-console/internal/model"
	"go-admin-console/internal/repository"
	"go-admin-console/pkg/apierror"
)

type NoticeService struct {
	notices *repository.NoticeRepository
	bus     event.Bus
}

func NewNoticeService(notices *repository.NoticeRepository, bus event.Bus) *NoticeService {
	return &NoticeService{notices: notices, bus: bus}
}

func (s *NoticeService) Create(ctx context.Context, platform string, req model.CreateNoticeRequest) (model.Notice, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Notice{}, apierror.New("BAD_REQUEST", "title is required", "", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	notice := model.Notice{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   req.Content,
		Type:      strings.TrimSpace(req.Type),
		Status:    model.NoticeStatusDraft,
		Platform:  platform,
		Sort:      req.Sort,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notices.Create(ctx, notice); err != nil {
		return model.Notice{}, err
	}

	return notice, nil
}

func (s *NoticeService) Update(ctx context.Context, id string, req model.CreateNoticeRequest) (model.Notice, error) {
	notice, err := s.notices.FindByID(ctx, id)
	if err != nil {
		return model.Notice{}, err
	}

	notice.Title = strings.TrimSpace(req.Title)
	notice.Content = req.Content
	notice.Type = strings.TrimSpace(req.Type)
	notice.Sort = req.Sort
	notice.UpdatedAt = time.Now().UTC()

	if err := s.notices.Update(ctx, notice); err != nil {
		return model.Notice{}, err
	}

	return notice, nil
}

// Publish marks the notice published and pushes it to connected websocket
// clients through the event bus. Delivery is fire-and-forget: a slow or
// disconnected client simply misses the message.
func (s *NoticeService) Publish(ctx context.Context, id string, actorID string) (model.Notice, error) {
	now := time.Now().UTC()
	if err := s.notices.MarkPublished(ctx, id, now); err != nil {
		return model.Notice{}, err
	}

	notice, err := s.notices.FindByID(ctx, id)
	if err != nil {
		return model.Notice{}, err
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      event.TypeNoticePublished,
		Platform:  notice.Platform,
		Payload:   notice,
		Timestamp: now.Format(time.RFC3339),
		ActorID:   actorID,
	})
	metrics.NoticesPublished.Inc()

	return notice, nil
}

func (s *NoticeService) Delete(ctx context.Context, id string) error {
	return s.notices.Delete(ctx, id)
}

func (s *NoticeService) Get(ctx context.Context, id string) (model.Notice, error) {
	return s.notices.FindByID(ctx, id)
}

func (s *NoticeService) List(ctx context.Context, platform string, status string, query model.ListQuery) ([]model.Notice, model.Meta, error) {
	return s.notices.List(ctx, platform, status, query.Sort, query.Page, query.Limit)
}
