package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-admin-console/internal/model"
	"go-admin-console/internal/repository"
)

// seedAdmin bootstraps a first login on a fresh database: an admin role, a
// base route tree for the management UI and an admin/admin123 account on
// the admin platform. It is a no-op once the account exists.
func seedAdmin(ctx context.Context, users *repository.UserRepository, roles *repository.RoleRepository, routes *repository.RouteRepository) error {
	const platform = "admin"

	exists, err := users.ExistsByAccount(ctx, platform, "admin")
	if err != nil {
		return fmt.Errorf("check seed account: %w", err)
	}
	if exists {
		return nil
	}

	now := time.Now().UTC()

	routeIDs, err := seedRoutes(ctx, routes, platform, now)
	if err != nil {
		return err
	}

	role := model.Role{
		ID:        uuid.NewString(),
		Name:      "Administrator",
		RoleKey:   "admin",
		Platform:  platform,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := roles.Create(ctx, role, routeIDs); err != nil {
		return fmt.Errorf("seed admin role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 12)
	if err != nil {
		return err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Account:      "admin",
		Nickname:     "Administrator",
		PasswordHash: string(hash),
		Platform:     platform,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, user, []string{role.ID}); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	slog.Warn("seeded default admin account, change the password", "account", "admin")
	return nil
}

func seedRoutes(ctx context.Context, routes *repository.RouteRepository, platform string, now time.Time) ([]string, error) {
	system := model.Route{
		ID:        uuid.NewString(),
		Type:      model.RouteTypeDirectory,
		Title:     "System",
		Path:      "/system",
		Icon:      "settings",
		Platform:  platform,
		Sort:      100,
		CreatedAt: now,
		UpdatedAt: now,
	}

	menus := []model.Route{
		{Title: "Users", Path: "/system/users", Component: "system/users", Sort: 1},
		{Title: "Roles", Path: "/system/roles", Component: "system/roles", Sort: 2},
		{Title: "Routes", Path: "/system/routes", Component: "system/routes", Sort: 3},
		{Title: "Notices", Path: "/system/notices", Component: "system/notices", Sort: 4},
	}

	if err := routes.Create(ctx, system); err != nil {
		return nil, fmt.Errorf("seed system directory: %w", err)
	}

	ids := []string{system.ID}
	for _, menu := range menus {
		menu.ID = uuid.NewString()
		menu.ParentID = system.ID
		menu.Type = model.RouteTypeMenu
		menu.Platform = platform
		menu.CreatedAt = now
		menu.UpdatedAt = now

		if err := routes.Create(ctx, menu); err != nil {
			return nil, fmt.Errorf("seed menu %s: %w", menu.Path, err)
		}
		ids = append(ids, menu.ID)
	}

	return ids, nil
}
