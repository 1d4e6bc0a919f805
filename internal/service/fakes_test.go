package service

import (
	"context"

	"github.com/thesamecrone/samecrone-api/internal/model"
	"github.com/thesamecrone/samecrone-api/internal/repository"
)

type fakeUserStore struct {
	users  map[string]*model.User
	nextID int64

	createErr error
	getErr    error
	creates   int

	// beforeCreate runs inside Create, e.g. to simulate a concurrent insert.
	beforeCreate func(f *fakeUserStore)
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserStore) insert(u model.User) *model.User {
	u.ID = f.nextID
	f.nextID++
	f.users[u.Email] = &u
	return &u
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	f.creates++
	if f.beforeCreate != nil {
		f.beforeCreate(f)
	}
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	*user = *f.insert(*user)
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeSubscriptionStore struct {
	emails    map[string]bool
	existsErr error
	createErr error
	creates   int
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{emails: make(map[string]bool)}
}

func (f *fakeSubscriptionStore) Exists(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.emails[email], nil
}

func (f *fakeSubscriptionStore) Create(_ context.Context, email string) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if f.emails[email] {
		return repository.ErrDuplicateSubscription
	}
	f.emails[email] = true
	return nil
}
