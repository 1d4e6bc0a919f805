package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/thesamecrone/samecrone-api/internal/model"
	"github.com/thesamecrone/samecrone-api/internal/service"
	"github.com/thesamecrone/samecrone-api/internal/session"
)

type contextKey string

const userKey contextKey = "user"

// SessionResolver maps a request's session cookie to a user id.
type SessionResolver interface {
	UserID(r *http.Request) (int64, error)
}

// UserLoader loads the user a session points at.
type UserLoader interface {
	GetUser(ctx context.Context, userID int64) (*model.User, error)
}

// Session attaches the signed-in user, if any, to the request context.
// Requests without a live session pass through anonymously; storage
// failures abort the request with 500.
func Session(sessions SessionResolver, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessions.UserID(r)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				slog.Error("resolving session", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "Server error")
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				slog.Error("loading session user", "user_id", userID, "error", err)
				writeJSONError(w, http.StatusInternalServerError, "Server error")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the signed-in user attached by Session.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
