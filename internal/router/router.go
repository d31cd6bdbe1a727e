package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-admin-console/internal/config"
	"go-admin-console/internal/handler"
	"go-admin-console/internal/middleware"
	"go-admin-console/internal/websocket"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Role   *handler.RoleHandler
	Route  *handler.RouteHandler
	Notice *handler.NoticeHandler
	Dict   *handler.DictHandler
	Upload *handler.UploadHandler
	Email  *handler.EmailHandler
	Log    *handler.LogHandler
	Docs   *handler.DocsHandler
}

// New assembles the HTTP surface. Every platform shares one route table
// under /api/v1/{platform}; the auth gate decides per request whether the
// platform requires a token and the role gates guard the management
// endpoints.
func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	requestLog func(http.Handler) http.Handler,
	hub *websocket.Hub,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	r.Route("/api/v1/{platform}", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(authMiddleware.Authenticate)
		api.Use(requestLog)

		api.Route("/auth", func(ar chi.Router) {
			ar.Get("/captcha", h.Auth.Captcha)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.Refresh)
			ar.Post("/logout", h.Auth.Logout)
			ar.Get("/me", h.Auth.Me)
		})

		api.Route("/users", func(ur chi.Router) {
			ur.Use(authMiddleware.RequireRoles("admin"))
			ur.Post("/", h.User.Create)
			ur.Get("/", h.User.List)
			ur.Get("/{id}", h.User.Get)
			ur.Put("/{id}", h.User.Update)
			ur.Delete("/{id}", h.User.Delete)
		})

		api.Route("/roles", func(rr chi.Router) {
			rr.Use(authMiddleware.RequireRoles("admin"))
			rr.Post("/", h.Role.Create)
			rr.Get("/", h.Role.List)
			rr.Get("/{id}", h.Role.Get)
			rr.Put("/{id}", h.Role.Update)
			rr.Delete("/{id}", h.Role.Delete)
		})

		api.Route("/routes", func(rt chi.Router) {
			rt.With(authMiddleware.RequireRoles("admin")).Post("/", h.Route.Create)
			rt.With(authMiddleware.RequireRoles("admin")).Delete("/{id}", h.Route.Delete)
			rt.With(authMiddleware.RequireRoles("admin")).Get("/tree", h.Route.Tree)
			rt.Get("/mine", h.Route.Mine)
		})

		api.Route("/notices", func(nr chi.Router) {
			nr.Get("/", h.Notice.List)
			nr.Get("/{id}", h.Notice.Get)
			nr.With(authMiddleware.RequireRoles("admin")).Post("/", h.Notice.Create)
			nr.With(authMiddleware.RequireRoles("admin")).Put("/{id}", h.Notice.Update)
			nr.With(authMiddleware.RequireRoles("admin")).Post("/{id}/publish", h.Notice.Publish)
			nr.With(authMiddleware.RequireRoles("admin")).Delete("/{id}", h.Notice.Delete)
		})

		api.Route("/dicts", func(dr chi.Router) {
			dr.Get("/types", h.Dict.ListTypes)
			dr.Get("/types/{typeKey}/items", h.Dict.ListItems)
			dr.With(authMiddleware.RequireRoles("admin")).Post("/types", h.Dict.CreateType)
			dr.With(authMiddleware.RequireRoles("admin")).Delete("/types/{id}", h.Dict.DeleteType)
			dr.With(authMiddleware.RequireRoles("admin")).Post("/types/{typeKey}/items", h.Dict.CreateItem)
			dr.With(authMiddleware.RequireRoles("admin")).Delete("/items/{id}", h.Dict.DeleteItem)
		})

		api.Route("/uploads", func(up chi.Router) {
			up.Post("/", h.Upload.Upload)
			up.Post("/chunked/init", h.Upload.Init)
			up.Put("/chunked/{uploadID}/chunks/{chunkIndex}", h.Upload.UploadChunk)
			up.Post("/chunked/{uploadID}/complete", h.Upload.Complete)
			up.Delete("/chunked/{uploadID}", h.Upload.Abort)
		})

		api.Route("/emails", func(er chi.Router) {
			er.Use(authMiddleware.RequireRoles("admin"))
			er.Post("/templates", h.Email.CreateTemplate)
			er.Get("/templates", h.Email.ListTemplates)
			er.Put("/templates/{code}", h.Email.UpdateTemplate)
			er.Delete("/templates/{id}", h.Email.DeleteTemplate)
			er.Post("/send", h.Email.Send)
		})

		api.With(authMiddleware.RequireRoles("admin")).Get("/logs", h.Log.List)

		api.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(hub, middleware.PlatformFromPath(r.URL.Path), w, r)
		})
	})

	return r
}
