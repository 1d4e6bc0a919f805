package handler

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/thesamecrone/samecrone-api/internal/crypto"
	"github.com/thesamecrone/samecrone-api/internal/middleware"
	"github.com/thesamecrone/samecrone-api/internal/model"
	"github.com/thesamecrone/samecrone-api/internal/oauth"
	"github.com/thesamecrone/samecrone-api/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.User, error)
	ResolveIdentity(ctx context.Context, id oauth.Identity) (*model.User, error)
	GetUser(ctx context.Context, userID int64) (*model.User, error)
}

// IdentityProvider runs the external sign-in flow.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (oauth.Identity, error)
}

type SessionManager interface {
	Begin(ctx context.Context, w http.ResponseWriter, userID int64) error
	UserID(r *http.Request) (int64, error)
	IssueState(w http.ResponseWriter) (string, error)
	ConsumeState(w http.ResponseWriter, r *http.Request, state string) error
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service       AuthService
	provider      IdentityProvider
	sessions      SessionManager
	allowedOrigin string
}

// NewAuthHandler creates a new AuthHandler. allowedOrigin is the frontend
// the sign-in popup reports back to.
func NewAuthHandler(svc AuthService, provider IdentityProvider, sessions SessionManager, allowedOrigin string) *AuthHandler {
	return &AuthHandler{
		service:       svc,
		provider:      provider,
		sessions:      sessions,
		allowedOrigin: allowedOrigin,
	}
}

// HandleRegister handles POST /register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse("All fields are required"))
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired),
			errors.Is(err, service.ErrEmailRequired),
			errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, r, http.StatusBadRequest, errorResponse("All fields are required"))
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, r, http.StatusBadRequest, errorResponse("Email already in use"))
		case errors.Is(err, crypto.ErrPasswordTooLong):
			writeJSON(w, r, http.StatusBadRequest, errorResponse("Password is too long"))
		default:
			serverError(w, r, "registering user", err)
		}
		return
	}

	writeJSON(w, r, http.StatusCreated, model.AuthResponse{
		Message: "User registered successfully",
		User:    user.ToResponse(),
	})
}

// HandleLogin handles POST /login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse("Email and password are required"))
		return
	}

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, r, http.StatusBadRequest, errorResponse("Email and password are required"))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, r, http.StatusUnauthorized, errorResponse("Invalid email or password"))
		default:
			serverError(w, r, "logging in", err)
		}
		return
	}

	if err := h.sessions.Begin(r.Context(), w, user.ID); err != nil {
		serverError(w, r, "starting session", err)
		return
	}

	writeJSON(w, r, http.StatusOK, model.AuthResponse{
		Message: "Logged in successfully",
		User:    user.ToResponse(),
	})
}

// HandleMe handles GET /auth/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, r, http.StatusUnauthorized, errorResponse("Not authenticated"))
		return
	}

	writeJSON(w, r, http.StatusOK, model.ProfileResponse{User: user.ToResponse()})
}

// HandleGoogleLogin handles GET /auth/google by redirecting to the consent
// screen.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.IssueState(w)
	if err != nil {
		serverError(w, r, "issuing oauth state", err)
		return
	}

	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// HandleGoogleCallback handles GET /auth/google/callback. Every failure
// sends the browser back to the root page.
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if err := h.sessions.ConsumeState(w, r, q.Get("state")); err != nil {
		slog.Warn("google callback rejected", "error", err)
		redirectHome(w, r)
		return
	}

	if reason := q.Get("error"); reason != "" {
		slog.Info("google sign-in declined", "reason", reason)
		redirectHome(w, r)
		return
	}

	identity, err := h.provider.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		logError(r, "google code exchange", err)
		redirectHome(w, r)
		return
	}

	user, err := h.service.ResolveIdentity(r.Context(), identity)
	if err != nil {
		logError(r, "resolving google identity", err)
		redirectHome(w, r)
		return
	}

	if err := h.sessions.Begin(r.Context(), w, user.ID); err != nil {
		logError(r, "starting session", err)
		redirectHome(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err = callbackPage.Execute(w, callbackData{
		Message: authMessage{
			Type: "GOOGLE_AUTH_SUCCESS",
			User: messageUser{Name: user.Name, Email: user.Email},
		},
		TargetOrigin: h.allowedOrigin,
	})
	if err != nil {
		logError(r, "rendering callback page", err)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

type messageUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authMessage struct {
	Type string      `json:"type"`
	User messageUser `json:"user"`
}

type callbackData struct {
	Message      authMessage
	TargetOrigin string
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Signed in</title></head>
<body>
<script>
  if (window.opener) {
    window.opener.postMessage({{.Message}}, {{.TargetOrigin}});
  }
  window.close();
</script>
<p>Authentication successful! You can close this window.</p>
</body>
</html>
`))
