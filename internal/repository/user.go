package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/thesamecrone/samecrone-api/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Only the columns every deployed users table has. created_at, where present,
// is filled by the database and never read.
const userColumns = `id, name, email, password_hash`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and fills in the generated ID.
// A NULL PasswordHash is stored for OAuth-only accounts.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if r.db.Dialect() == DialectMySQL {
		return r.createWithLastInsertID(ctx, user)
	}

	query := `INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id`

	err := r.db.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// MySQL has no RETURNING, so the row is read back by its new id.
func (r *UserRepository) createWithLastInsertID(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3)`

	result, err := r.db.Exec(ctx, query, user.Name, user.Email, user.PasswordHash)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	*user = *created
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
