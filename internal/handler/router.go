package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/thesamecrone/samecrone-api/internal/middleware"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth          AuthService
	Subscriptions SubscriptionService
	Provider      IdentityProvider
	Sessions      SessionManager
	DB            Pinger
	AllowedOrigin string
}

// NewRouter builds the site's HTTP routes.
func NewRouter(d Deps) http.Handler {
	authHandler := NewAuthHandler(d.Auth, d.Provider, d.Sessions, d.AllowedOrigin)
	subHandler := NewSubscriptionHandler(d.Subscriptions)
	healthHandler := NewHealthHandler(d.DB)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(d.AllowedOrigin))

	r.Get("/", healthHandler.HandleRoot)
	r.Get("/health", healthHandler.HandleHealth)

	r.Get("/auth/google", authHandler.HandleGoogleLogin)
	r.Get("/auth/google/callback", authHandler.HandleGoogleCallback)
	r.With(middleware.Session(d.Sessions, d.Auth)).Get("/auth/me", authHandler.HandleMe)

	r.Post("/register", authHandler.HandleRegister)
	r.Post("/login", authHandler.HandleLogin)
	r.Post("/api/subscribe", subHandler.HandleSubscribe)

	return r
}
