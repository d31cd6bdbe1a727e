package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-admin-console/internal/model"
	"go-admin-console/internal/repository"
	"go-admin-console/pkg/apierror"
)

type DictService struct {
	dicts *repository.DictRepository
}

func NewDictService(dicts *repository.DictRepository) *DictService {
	return &DictService{dicts: dicts}
}

func (s *DictService) CreateType(ctx context.Context, platform string, req model.CreateDictTypeRequest) (model.DictType, error) {
	name := strings.TrimSpace(req.Name)
	typeKey := strings.TrimSpace(req.TypeKey)

	if name == "" || typeKey == "" {
		return model.DictType{}, apierror.New("BAD_REQUEST", "name and type_key are required", "", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	dt := model.DictType{
		ID:        uuid.NewString(),
		Name:      name,
		TypeKey:   typeKey,
		Platform:  platform,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.dicts.CreateType(ctx, dt); err != nil {
		return model.DictType{}, err
	}

	return dt, nil
}

func (s *DictService) DeleteType(ctx context.Context, id string) error {
	return s.dicts.DeleteType(ctx, id)
}

func (s *DictService) ListTypes(ctx context.Context, platform string) ([]model.DictType, error) {
	return s.dicts.ListTypes(ctx, platform)
}

func (s *DictService) CreateItem(ctx context.Context, platform string, typeKey string, req model.CreateDictItemRequest) (model.DictItem, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return model.DictItem{}, apierror.New("BAD_REQUEST", "label is required", "", http.StatusBadRequest)
	}

	dt, err := s.dicts.FindTypeByKey(ctx, platform, typeKey)
	if err != nil {
		return model.DictItem{}, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := time.Now().UTC()
	item := model.DictItem{
		ID:        uuid.NewString(),
		TypeID:    dt.ID,
		Label:     label,
		Value:     strings.TrimSpace(req.Value),
		Sort:      req.Sort,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.dicts.CreateItem(ctx, item); err != nil {
		return model.DictItem{}, err
	}

	return item, nil
}

func (s *DictService) DeleteItem(ctx context.Context, id string) error {
	return s.dicts.DeleteItem(ctx, id)
}

func (s *DictService) ItemsByTypeKey(ctx context.Context, platform string, typeKey string, sort string) ([]model.DictItem, error) {
	dt, err := s.dicts.FindTypeByKey(ctx, platform, typeKey)
	if err != nil {
		return nil, err
	}

	return s.dicts.ListItems(ctx, dt.ID, sort)
}
