package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesamecrone/samecrone-api/internal/model"
	"github.com/thesamecrone/samecrone-api/internal/service"
	"github.com/thesamecrone/samecrone-api/internal/session"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORS(t *testing.T) {
	h := CORS("https://site.example")(okHandler)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
		req.Header.Set("Origin", "https://site.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://site.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/register", nil)
		req.Header.Set("Origin", "https://site.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}

type stubResolver struct {
	id  int64
	err error
}

func (s stubResolver) UserID(*http.Request) (int64, error) { return s.id, s.err }

type stubLoader struct {
	user *model.User
	err  error
}

func (s stubLoader) GetUser(context.Context, int64) (*model.User, error) { return s.user, s.err }

func TestSession(t *testing.T) {
	ann := &model.User{ID: 1, Name: "Ann", Email: "a@x.com"}

	tests := []struct {
		name       string
		resolver   stubResolver
		loader     stubLoader
		wantStatus int
		wantUser   bool
	}{
		{"signed in", stubResolver{id: 1}, stubLoader{user: ann}, http.StatusOK, true},
		{"no session", stubResolver{err: session.ErrNotFound}, stubLoader{}, http.StatusOK, false},
		{"user gone", stubResolver{id: 1}, stubLoader{err: service.ErrUserNotFound}, http.StatusOK, false},
		{"store down", stubResolver{err: errors.New("redis down")}, stubLoader{}, http.StatusInternalServerError, false},
		{"db down", stubResolver{id: 1}, stubLoader{err: errors.New("db down")}, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				u, ok := UserFromContext(r.Context())
				gotUser = ok
				if ok {
					assert.Equal(t, ann.Email, u.Email)
				}
			})

			rec := httptest.NewRecorder()
			Session(tt.resolver, tt.loader)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
