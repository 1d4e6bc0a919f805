package service

import (
	"context"
	"errors"

	"github.com/thesamecrone/samecrone-api/internal/repository"
)

var ErrAlreadySubscribed = errors.New("email already subscribed")

type SubscriptionStore interface {
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, email string) error
}

// SubscriptionService handles the mailing-list form.
type SubscriptionService struct {
	subs SubscriptionStore
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subs SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{subs: subs}
}

// Subscribe adds email to the list. The existence check and the insert are
// not atomic; the storage primary key catches the concurrent case.
func (s *SubscriptionService) Subscribe(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	exists, err := s.subs.Exists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadySubscribed
	}

	if err := s.subs.Create(ctx, email); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubscription) {
			return ErrAlreadySubscribed
		}
		return err
	}

	return nil
}
