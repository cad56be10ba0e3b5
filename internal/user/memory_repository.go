package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It backs DB_DRIVER=memory
// for local runs and the test suites.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

func (r *MemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.users[u.ID] = clone(*u)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(u)
	return &out, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	return r.findFirst(func(u User) bool { return u.Email == email })
}

func (r *MemoryRepository) FindByVerificationToken(_ context.Context, token string) (*User, error) {
	return r.findFirst(func(u User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token
	})
}

func (r *MemoryRepository) SetToken(_ context.Context, id string, token *string) error {
	return r.update(id, func(u *User) { u.Token = copyString(token) })
}

func (r *MemoryRepository) MarkVerified(_ context.Context, id string) error {
	return r.update(id, func(u *User) {
		u.Verify = true
		u.VerificationToken = nil
	})
}

func (r *MemoryRepository) SetAvatarURL(_ context.Context, id, avatarURL string) error {
	return r.update(id, func(u *User) { u.AvatarURL = avatarURL })
}

// Len is the number of stored users.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *MemoryRepository) findFirst(match func(User) bool) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			out := clone(u)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) update(id string, fn func(*User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(&u)
	r.users[id] = u
	return nil
}

func clone(u User) User {
	u.Token = copyString(u.Token)
	u.VerificationToken = copyString(u.VerificationToken)
	return u
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

var _ Repository = (*MemoryRepository)(nil)
