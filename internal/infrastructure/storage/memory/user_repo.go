package memory

import (
	"context"
	"sync"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain/auth"
)

// UserRepo implements auth.UserRepository over process memory.
type UserRepo struct {
	mu    sync.RWMutex
	users map[id.ID]*auth.User
}

// NewUserRepo creates an empty in-memory user repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[id.ID]*auth.User)}
}

var _ auth.UserRepository = (*UserRepo)(nil)

// Create implements auth.UserRepository.
func (r *UserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return apperror.NewDuplicate("user", "id", user.ID.String())
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return apperror.NewDuplicate("user", "username", user.Username)
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// GetByID implements auth.UserRepository.
func (r *UserRepo) GetByID(_ context.Context, userID id.ID) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID)
	}
	cp := *user
	return &cp, nil
}

// GetByUsername implements auth.UserRepository.
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

// Update implements auth.UserRepository.
func (r *UserRepo) Update(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return apperror.NewNotFound("user", user.ID)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// Delete implements auth.UserRepository.
func (r *UserRepo) Delete(_ context.Context, userID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return apperror.NewNotFound("user", userID)
	}
	delete(r.users, userID)
	return nil
}

// List implements auth.UserRepository.
func (r *UserRepo) List(_ context.Context) ([]auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]auth.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

// Exists implements auth.UserRepository.
func (r *UserRepo) Exists(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}
