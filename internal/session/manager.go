package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/thesamecrone/samecrone-api/internal/crypto"
)

const (
	CookieName      = "samecrone.sid"
	StateCookieName = "samecrone.oauth_state"

	stateTTL = 10 * time.Minute
)

var ErrStateMismatch = errors.New("oauth state mismatch")

// Manager issues and resolves session cookies. The cookie value is a token
// signed with the session secret wrapping a random session id; the user id
// itself lives only in the Store.
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
	secure bool
}

// NewManager creates a Manager. secure marks cookies Secure with
// SameSite=None so a frontend on another origin can send them.
func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: secret,
		ttl:    ttl,
		secure: secure,
	}
}

// Begin starts a new session for userID and sets the session cookie.
func (m *Manager) Begin(ctx context.Context, w http.ResponseWriter, userID int64) error {
	id := uuid.NewString()
	if err := m.store.Save(ctx, id, userID, m.ttl); err != nil {
		return err
	}

	token, err := crypto.GenerateToken(id, crypto.AudienceSession, m.secret, m.ttl)
	if err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(CookieName, token, m.ttl))
	return nil
}

// UserID resolves the request's session cookie to a user id. Requests
// without a valid, live session get ErrNotFound; store failures are
// returned as is.
func (m *Manager) UserID(r *http.Request) (int64, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return 0, ErrNotFound
	}

	claims, err := crypto.ValidateToken(c.Value, crypto.AudienceSession, m.secret)
	if err != nil {
		return 0, ErrNotFound
	}

	return m.store.Get(r.Context(), claims.ID)
}

// IssueState mints an OAuth state value and binds it to the browser with a
// short-lived cookie.
func (m *Manager) IssueState(w http.ResponseWriter) (string, error) {
	state, err := crypto.GenerateToken(uuid.NewString(), crypto.AudienceOAuthState, m.secret, stateTTL)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, m.cookie(StateCookieName, state, stateTTL))
	return state, nil
}

// ConsumeState clears the state cookie and checks that state matches it
// and is still valid.
func (m *Manager) ConsumeState(w http.ResponseWriter, r *http.Request, state string) error {
	http.SetCookie(w, m.cookie(StateCookieName, "", -1))

	c, err := r.Cookie(StateCookieName)
	if err != nil || state == "" || c.Value != state {
		return ErrStateMismatch
	}

	if _, err := crypto.ValidateToken(state, crypto.AudienceOAuthState, m.secret); err != nil {
		return ErrStateMismatch
	}

	return nil
}

func (m *Manager) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.secure {
		c.SameSite = http.SameSiteNoneMode
	}

	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl.Seconds())
		c.Expires = time.Now().Add(ttl)
	}

	return c
}
