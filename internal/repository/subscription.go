package repository

import (
	"context"
	"errors"
)

var ErrDuplicateSubscription = errors.New("email already subscribed")

// SubscriptionRepository handles mailing-list persistence.
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Exists reports whether the email is already on the list.
func (r *SubscriptionRepository) Exists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM subscriptions WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// Create adds the email to the list. The primary key on email turns a
// concurrent duplicate into ErrDuplicateSubscription.
func (r *SubscriptionRepository) Create(ctx context.Context, email string) error {
	query := `INSERT INTO subscriptions (email) VALUES ($1)`

	if _, err := r.db.Exec(ctx, query, email); err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateSubscription
		}
		return err
	}

	return nil
}
