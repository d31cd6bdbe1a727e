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

type RoleService struct {
	roles *repository.RoleRepository
}

func NewRoleService(roles *repository.RoleRepository) *RoleService {
	return &RoleService{roles: roles}
}

func (s *RoleService) Create(ctx context.Context, platform string, req model.CreateRoleRequest) (model.Role, error) {
	name := strings.TrimSpace(req.Name)
	roleKey := strings.TrimSpace(req.RoleKey)

	if name == "" || roleKey == "" {
		return model.Role{}, apierror.New("BAD_REQUEST", "name and role_key are required", "", http.StatusBadRequest)
	}

	exists, err := s.roles.ExistsByKey(ctx, platform, roleKey)
	if err != nil {
		return model.Role{}, err
	}
	if exists {
		return model.Role{}, apierror.New("ALREADY_EXISTS", "role key already exists", roleKey, http.StatusConflict)
	}

	now := time.Now().UTC()
	role := model.Role{
		ID:          uuid.NewString(),
		Name:        name,
		RoleKey:     roleKey,
		Description: strings.TrimSpace(req.Description),
		Platform:    platform,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.roles.Create(ctx, role, req.RouteIDs); err != nil {
		return model.Role{}, err
	}

	return s.roles.FindByID(ctx, role.ID)
}

func (s *RoleService) Update(ctx context.Context, id string, req model.UpdateRoleRequest) (model.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return model.Role{}, err
	}

	role.Name = strings.TrimSpace(req.Name)
	role.Description = strings.TrimSpace(req.Description)
	role.UpdatedAt = time.Now().UTC()

	if err := s.roles.Update(ctx, role, req.RouteIDs); err != nil {
		return model.Role{}, err
	}

	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) Delete(ctx context.Context, id string) error {
	return s.roles.Delete(ctx, id)
}

func (s *RoleService) Get(ctx context.Context, id string) (model.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) List(ctx context.Context, platform string, sort string) ([]model.Role, error) {
	return s.roles.List(ctx, platform, sort)
}
