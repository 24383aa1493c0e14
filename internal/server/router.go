// Package server assembles the HTTP router and handlers for the portal.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	identityservice "secrets-portal/internal/identity/service"
	"secrets-portal/internal/session"
	telemetry "secrets-portal/internal/telemetry/otel"
	"secrets-portal/internal/web"
)

// Pinger reports storage reachability for the health endpoint (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds the services the router wires into handlers.
type Deps struct {
	Sessions *session.Manager
	Local    *identityservice.LocalStrategy
	Google   *identityservice.GoogleStrategy
	Secrets  *identityservice.SecretService
	Views    *web.Renderer
	// Events receives auth lifecycle events. If nil, events are dropped.
	Events telemetry.EventEmitter
	// Health is used by /healthz for readiness. If nil the DB ping is skipped.
	Health Pinger
}

// NewRouter assembles a chi.Router with shared middleware and all portal
// routes mounted. /submit is the only gated surface; /secrets is public.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(Trace)

	events := deps.Events
	if events == nil {
		events = telemetry.NewEventEmitter(nil)
	}

	pages := NewPageHandlers(deps.Sessions, deps.Views)
	auth := NewAuthHandlers(deps.Sessions, deps.Local, deps.Google, events)
	secrets := NewSecretHandlers(deps.Sessions, deps.Secrets, deps.Views, events)

	r.Get("/", pages.Home)
	r.Get("/login", pages.LoginForm)
	r.Get("/register", pages.RegisterForm)

	r.Post("/register", auth.Register)
	r.Post("/login", auth.Login)
	r.Get("/logout", auth.Logout)
	r.Get("/auth/google", auth.GoogleBegin)
	r.Get("/auth/google/callback", auth.GoogleCallback)

	r.Get("/secrets", secrets.List)
	r.Group(func(r chi.Router) {
		r.Use(RequireSession(deps.Sessions))
		r.Get("/submit", secrets.SubmitForm)
		r.Post("/submit", secrets.Submit)
	})

	r.Handle("/static/*", web.StaticHandler())
	r.Get("/healthz", healthHandler(deps.Health))

	return r
}

func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			if err := p.PingContext(r.Context()); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}
