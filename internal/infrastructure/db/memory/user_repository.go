// Package memory provides a mutex-guarded in-memory user store for tests and
// single-binary demo runs. It honours the same atomicity contract as the
// MongoDB implementation.
package memory

import (
	"context"
	"sync"

	"github.com/friendconnect/auth-service/internal/core/domain"
)

// UserRepository implements ports.UserRepository on a map. The write lock
// around Insert makes the exists-then-store step atomic: two concurrent
// registrations of one username cannot both succeed.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Find(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) Exists(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[username]
	return ok, nil
}

func (r *UserRepository) Insert(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return domain.ErrUserExists
	}
	r.users[user.Username] = *user
	return nil
}

// Delete removes a user. Outstanding session tokens for the username stop
// resolving at the guard immediately.
func (r *UserRepository) Delete(_ context.Context, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, username)
}
