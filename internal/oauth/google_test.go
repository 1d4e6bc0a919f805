package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newFakeGoogle(t *testing.T, userinfo map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userinfo)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(srv *httptest.Server) *GoogleProvider {
	return NewGoogleProvider(GoogleConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:5000/auth/google/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserInfoURL: srv.URL + "/userinfo",
	})
}

func TestAuthCodeURL(t *testing.T) {
	p := NewGoogleProvider(GoogleConfig{ClientID: "client", RedirectURL: "http://localhost/cb"})

	u, err := url.Parse(p.AuthCodeURL("state-xyz"))
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
}

func TestExchange(t *testing.T) {
	srv := newFakeGoogle(t, map[string]any{
		"email":          "ann@example.com",
		"email_verified": true,
		"name":           "Ann",
	})

	id, err := newTestProvider(srv).Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, Identity{Email: "ann@example.com", Name: "Ann"}, id)
}

func TestExchange_NameFallsBackToEmail(t *testing.T) {
	srv := newFakeGoogle(t, map[string]any{"email": "ann@example.com", "email_verified": true})

	id, err := newTestProvider(srv).Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", id.Name)
}

func TestExchange_Errors(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		userinfo map[string]any
		wantErr  error
	}{
		{name: "missing code", code: "", wantErr: ErrMissingCode},
		{name: "rejected code", code: "bad-code"},
		{
			name:     "no email",
			code:     "good-code",
			userinfo: map[string]any{"name": "Ann"},
			wantErr:  ErrNoEmail,
		},
		{
			name:     "unverified email",
			code:     "good-code",
			userinfo: map[string]any{"email": "ann@example.com", "email_verified": false},
			wantErr:  ErrNoEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeGoogle(t, tt.userinfo)

			_, err := newTestProvider(srv).Exchange(context.Background(), tt.code)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
