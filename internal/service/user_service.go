package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-admin-console/internal/model"
	"go-admin-console/internal/repository"
	"go-admin-console/pkg/apierror"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Create(ctx context.Context, platform string, req model.CreateUserRequest) (model.User, error) {
	account := strings.TrimSpace(req.Account)
	password := strings.TrimSpace(req.Password)

	if account == "" || password == "" {
		return model.User{}, apierror.New("BAD_REQUEST", "account and password are required", "", http.StatusBadRequest)
	}

	// Friendly precheck; the unique index is what actually closes the race
	// between concurrent creates.
	exists, err := s.users.ExistsByAccount(ctx, platform, account)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, apierror.New("ALREADY_EXISTS", "account already exists", account, http.StatusConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return model.User{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Account:      account,
		Nickname:     strings.TrimSpace(req.Nickname),
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Avatar:       strings.TrimSpace(req.Avatar),
		Platform:     platform,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user, req.RoleIDs); err != nil {
		return model.User{}, err
	}

	return s.users.FindByID(ctx, user.ID)
}

func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	user.Nickname = strings.TrimSpace(req.Nickname)
	user.Email = strings.TrimSpace(req.Email)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Avatar = strings.TrimSpace(req.Avatar)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user, req.RoleIDs); err != nil {
		return model.User{}, err
	}

	return s.users.FindByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.SoftDelete(ctx, id)
}

func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, platform string, page int, limit int) ([]model.User, model.Meta, error) {
	return s.users.List(ctx, platform, page, limit)
}
