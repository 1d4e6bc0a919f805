package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/thesamecrone/samecrone-api/internal/crypto"
	"github.com/thesamecrone/samecrone-api/internal/model"
	"github.com/thesamecrone/samecrone-api/internal/oauth"
	"github.com/thesamecrone/samecrone-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore is the subset of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService handles registration, local login and the Google identity bridge.
type AuthService struct {
	users UserStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register hashes the password and creates a new local account.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	switch {
	case req.Name == "":
		return nil, ErrNameRequired
	case req.Email == "":
		return nil, ErrEmailRequired
	case req.Password == "":
		return nil, ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: sql.NullString{String: hash, Valid: true},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// Login checks an email/password pair. Accounts created through Google have
// no password and can never log in this way.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	if req.Email == "" {
		return nil, ErrEmailRequired
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash.String)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ResolveIdentity returns the local user for a Google identity, creating a
// password-less account on first sign-in.
func (s *AuthService) ResolveIdentity(ctx context.Context, id oauth.Identity) (*model.User, error) {
	if id.Email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.users.GetByEmail(ctx, id.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user = &model.User{Name: id.Name, Email: id.Email}
	err = s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// Lost a race with a concurrent first sign-in for the same email.
		return s.users.GetByEmail(ctx, id.Email)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser loads the user behind a session.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
