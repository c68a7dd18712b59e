package store

import (
	"context"
	"sync"

	"userapi/internal/user/models"
	"userapi/pkg/platform/sentinel"
	"userapi/pkg/requestcontext"
)

// InMemoryStore is a mutex-guarded map implementation of Store. It mirrors
// the Postgres semantics (active-row filters, login uniqueness across active
// and inactive rows) so service and handler tests run without a database.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*models.User
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{nextID: 1, users: make(map[int64]*models.User)}
}

func (s *InMemoryStore) Insert(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Login == params.Login {
			return nil, sentinel.ErrConflict
		}
	}

	now := requestcontext.Now(ctx)
	user := &models.User{
		ID:          s.nextID,
		Login:       params.Login,
		Credential:  params.Credential,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		CreatedAt:   now,
		CreatedFrom: params.CreatedFrom,
		ChangedAt:   now,
		ChangedFrom: params.CreatedFrom,
		IsActive:    true,
		Flagged:     copyBool(params.Flagged),
	}
	s.nextID++
	s.users[user.ID] = user
	return copyUser(user), nil
}

func (s *InMemoryStore) FindActiveByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok || !user.IsActive {
		return nil, sentinel.ErrNotFound
	}
	return copyUser(user), nil
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []*models.User
	for _, user := range s.users {
		if user.IsActive {
			users = append(users, copyUser(user))
		}
	}
	return users, nil
}

func (s *InMemoryStore) Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok || !user.IsActive {
		return nil, sentinel.ErrNotFound
	}

	if params.Login != nil {
		for otherID, other := range s.users {
			if otherID != id && other.Login == *params.Login {
				return nil, sentinel.ErrConflict
			}
		}
		user.Login = *params.Login
	}
	if params.Credential != nil {
		user.Credential = *params.Credential
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.Flagged != nil {
		user.Flagged = copyBool(*params.Flagged)
	}
	if params.ChangedFrom != nil {
		user.ChangedFrom = *params.ChangedFrom
	}
	user.ChangedAt = requestcontext.Now(ctx)

	return copyUser(user), nil
}

func (s *InMemoryStore) SoftDelete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok || !user.IsActive {
		return sentinel.ErrNotFound
	}
	user.IsActive = false
	user.ChangedAt = requestcontext.Now(ctx)
	return nil
}

func (s *InMemoryStore) HardDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func copyUser(u *models.User) *models.User {
	clone := *u
	clone.Flagged = copyBool(u.Flagged)
	return &clone
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
