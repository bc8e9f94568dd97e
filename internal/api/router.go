package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/isdelr/articlehub-be/internal/api/handlers"
	"github.com/isdelr/articlehub-be/internal/auth"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/services"
	"github.com/isdelr/articlehub-be/internal/throttle"
	"github.com/isdelr/articlehub-be/internal/websocket"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Tokens         *auth.TokenService
	Users          services.UserServiceProvider
	Auth           services.AuthServiceProvider
	Permissions    services.PermissionServiceProvider
	Articles       services.ArticleServiceProvider
	Events         services.EventServiceProvider
	Health         handlers.HealthChecker
	Hub            *websocket.Hub
	LoginLimiter   throttle.Limiter
	AllowedOrigins []string
	SecureCookies  bool
}

var (
	anyRole     = auth.AnyOf(models.RoleAdmin, models.RoleEditor, models.RoleReader)
	writers     = auth.AnyOf(models.RoleAdmin, models.RoleEditor)
	adminsOnly  = auth.AnyOf(models.RoleAdmin)
	public      = auth.Public()
	signedIn    = auth.Authenticated()
	allMethods  = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	writerRoles = []string{"ADMIN", "EDITOR"}
	readerRoles = []string{"ADMIN", "EDITOR", "READER"}
)

// guardedRouter registers routes that must each declare an access
// requirement; the requirement is enforced by auth.Guard before the handler.
type guardedRouter struct {
	r      chi.Router
	tokens *auth.TokenService
}

func (g guardedRouter) handle(method, pattern string, req auth.Requirement, h http.HandlerFunc, mw ...func(http.Handler) http.Handler) {
	chain := append([]func(http.Handler) http.Handler{auth.Guard(g.tokens, req, handlers.WriteError)}, mw...)
	g.r.With(chain...).Method(method, pattern, h)
}

func (g guardedRouter) Get(pattern string, req auth.Requirement, h http.HandlerFunc) {
	g.handle(http.MethodGet, pattern, req, h)
}

func (g guardedRouter) Post(pattern string, req auth.Requirement, h http.HandlerFunc) {
	g.handle(http.MethodPost, pattern, req, h)
}

func (g guardedRouter) Patch(pattern string, req auth.Requirement, h http.HandlerFunc) {
	g.handle(http.MethodPatch, pattern, req, h)
}

func (g guardedRouter) Delete(pattern string, req auth.Requirement, h http.HandlerFunc) {
	g.handle(http.MethodDelete, pattern, req, h)
}

func (g guardedRouter) Options(pattern string, req auth.Requirement, h http.HandlerFunc) {
	g.handle(http.MethodOptions, pattern, req, h)
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(requestIDHeader)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   allMethods,
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, errRouteNotFound)
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.Auth, d.Users, d.SecureCookies)
	userHandler := handlers.NewUserHandler(d.Users)
	permissionHandler := handlers.NewPermissionHandler(d.Permissions)
	articleHandler := handlers.NewArticleHandler(d.Articles)
	eventHandler := handlers.NewEventHandler(d.Events)
	healthHandler := handlers.NewHealthHandler(d.Health)
	wsHandler := handlers.NewWebSocketHandler(d.Hub, d.AllowedOrigins)

	r.Route("/v1", func(r chi.Router) {
		g := guardedRouter{r: r, tokens: d.Tokens}

		g.Get("/", public, handlers.Index)

		g.Get("/health", public, healthHandler.Check)
		g.Get("/health/live", public, healthHandler.Live)
		g.Get("/health/ready", public, healthHandler.Ready)

		g.handle(http.MethodPost, "/auth/login", public, authHandler.Login, throttled(d.LoginLimiter, "login"))
		g.Get("/auth/me", signedIn, authHandler.GetMe)

		g.Options("/users", public, handlers.Options(usersCatalogue))
		g.Post("/users", public, userHandler.Register)
		g.Get("/users", signedIn, userHandler.List)
		g.Get("/users/{id}", signedIn, userHandler.Get)
		g.Patch("/users/{id}", adminsOnly, userHandler.Update)
		g.Delete("/users/{id}", adminsOnly, userHandler.Delete)
		g.Post("/users/{userId}/permissions/{permissionName}", adminsOnly, permissionHandler.Grant)
		g.Delete("/users/{userId}/permissions/{permissionName}", adminsOnly, permissionHandler.Revoke)

		g.Get("/permissions", signedIn, permissionHandler.List)

		g.Options("/articles", public, handlers.Options(articlesCatalogue))
		g.Post("/articles", writers, articleHandler.Create)
		g.Get("/articles", anyRole, articleHandler.List)
		g.Get("/articles/{id}", anyRole, articleHandler.Get)
		g.Patch("/articles/{id}", writers, articleHandler.Update)
		g.Delete("/articles/{id}", writers, articleHandler.Delete)

		g.Get("/events", adminsOnly, eventHandler.GetRecent)

		// WebSocket connection endpoint
		g.Get("/ws", anyRole, wsHandler.Serve)
	})

	return r
}

var usersCatalogue = handlers.Catalogue{
	Methods: allMethods,
	Endpoints: map[string]handlers.EndpointInfo{
		"GET /users":        {Description: "List all users", Authentication: "required"},
		"GET /users/:id":    {Description: "Get a specific user", Authentication: "required"},
		"POST /users":       {Description: "Create a new user", Authentication: "public"},
		"PATCH /users/:id":  {Description: "Update a user", Authentication: "required", Roles: []string{"ADMIN"}},
		"DELETE /users/:id": {Description: "Delete a user", Authentication: "required", Roles: []string{"ADMIN"}},
		"POST /users/:userId/permissions/:permissionName": {
			Description: "Assign a permission to a user", Authentication: "required", Roles: []string{"ADMIN"},
		},
		"DELETE /users/:userId/permissions/:permissionName": {
			Description: "Remove a permission from a user", Authentication: "required", Roles: []string{"ADMIN"},
		},
	},
}

var articlesCatalogue = handlers.Catalogue{
	Methods: allMethods,
	Endpoints: map[string]handlers.EndpointInfo{
		"GET /articles":        {Description: "List all articles", Authentication: "required", Roles: readerRoles},
		"GET /articles/:id":    {Description: "Get a specific article", Authentication: "required", Roles: readerRoles},
		"POST /articles":       {Description: "Create a new article", Authentication: "required", Roles: writerRoles},
		"PATCH /articles/:id":  {Description: "Update an article", Authentication: "required", Roles: writerRoles},
		"DELETE /articles/:id": {Description: "Delete an article", Authentication: "required", Roles: writerRoles},
	},
}
