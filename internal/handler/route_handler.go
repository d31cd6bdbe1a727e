package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-admin-console/internal/middleware"
	"go-admin-console/internal/model"
	"go-admin-console/internal/service"
	"go-admin-console/pkg/apierror"
)

type RouteHandler struct {
	routes *service.RouteService
	users  *service.UserService
}

func NewRouteHandler(routes *service.RouteService, users *service.UserService) *RouteHandler {
	return &RouteHandler{routes: routes, users: users}
}

func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateRouteRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	route, err := h.routes.Create(r.Context(), middleware.PlatformFromPath(r.URL.Path), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, route, nil)
}

func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.routes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

// Tree returns the full route tree of the platform, for the management UI.
func (h *RouteHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.routes.Roots(r.Context(), middleware.PlatformFromPath(r.URL.Path), r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tree, nil)
}

// Mine returns the route tree pruned to the caller's roles. The optional
// type query parameter restricts leaves to one route type, e.g. type=menu.
func (h *RouteHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	user, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	roleIDs := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roleIDs = append(roleIDs, role.ID)
	}

	tree, err := h.routes.ByRoleIDs(
		r.Context(),
		roleIDs,
		middleware.PlatformFromPath(r.URL.Path),
		r.URL.Query().Get("type"),
		r.URL.Query().Get("sort"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tree, nil)
}
