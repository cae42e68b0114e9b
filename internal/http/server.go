// Package http arma el router de argent y lo sirve.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/argent/internal/auth"
	"github.com/dropDatabas3/argent/internal/config"
	"github.com/dropDatabas3/argent/internal/http/handlers"
	mw "github.com/dropDatabas3/argent/internal/http/middlewares"
	"github.com/dropDatabas3/argent/internal/store"
)

// Deps agrupa todas las dependencias del router.
type Deps struct {
	Cfg *config.Config

	Verifier   *auth.Verifier
	Users      store.Users
	Checklists store.Checklists
	MarbleGame store.MarbleGame
	DB         handlers.Pinger

	// Registry para métricas. Nil usa el default global.
	Registry prometheus.Registerer
}

// NewRouter arma el router completo: /api/v1 con la API autenticada,
// health-check y ping sueltos en raíz, /metrics para prometheus.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Cfg
	signingKey := []byte(cfg.Auth.JWTKey)

	authH := &handlers.AuthHandler{
		Verifier:     deps.Verifier,
		Users:        deps.Users,
		CookieName:   cfg.Auth.CookieName,
		SigningKey:   signingKey,
		SecureCookie: cfg.Auth.SecureCookie,
	}
	usersH := &handlers.UsersHandler{Users: deps.Users}
	checklistsH := &handlers.ChecklistsHandler{Checklists: deps.Checklists}
	gameH := &handlers.MarbleGameHandler{Game: deps.MarbleGame}
	healthH := &handlers.HealthHandler{DB: deps.DB}

	session := mw.RequireSession(mw.SessionConfig{
		CookieName: cfg.Auth.CookieName,
		SigningKey: signingKey,
	})

	metricsHandler := RegisterMetrics(deps.Registry)

	r := chi.NewRouter()

	// Middlewares base, de más externo a más interno.
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithCORS(cfg.Server.CORSAllowedOrigins),
		WithMetrics(chiRoutePattern),
		mw.WithLogging(),
	)

	r.Get("/health-check", healthH.HealthCheck)
	r.Get("/ping", healthH.Ping)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Login usa el bearer de Google, no la cookie.
		r.Get("/login", authH.Login)
		r.Get("/logout", authH.Logout)

		// Todo lo demás resuelve el usuario desde la cookie de sesión.
		r.Group(func(r chi.Router) {
			r.Use(session)

			r.Get("/me", usersH.Me)
			r.Get("/users", usersH.List)

			r.Get("/checklists", checklistsH.List)
			r.Post("/checklists", checklistsH.Create)
			r.Get("/checklists/{id}", checklistsH.Get)
			r.Delete("/checklists/{id}", checklistsH.Delete)
			r.Get("/checklists/{id}/items", checklistsH.Items)
			r.Post("/checklists/{id}/clear-done", checklistsH.ClearDone)
			r.Post("/checklists/{id}/share", checklistsH.Share)
			r.Post("/checklists/{id}/unshare/{userID}", checklistsH.Unshare)
			r.Get("/checklists/{id}/users", checklistsH.AccessList)

			r.Post("/checklistitems", checklistsH.CreateItem)
			r.Post("/checklistitems/{id}/done", checklistsH.SetItemDone)
			r.Post("/checklistitems/{id}/not-done", checklistsH.SetItemNotDone)

			r.Get("/marble-game/status", gameH.Status)
			r.Post("/marble-game/update-highest-cleared", gameH.UpdateHighestCleared)
		})
	})

	return r
}

// chiRoutePattern saca el patrón de ruta que matcheó chi ("/api/v1/checklists/{id}").
func chiRoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
