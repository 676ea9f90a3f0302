package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"workforce-api/internal/model"
)

type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.User
}

func NewUserStore() *UserStore {
	return &UserStore{byID: map[int64]model.User{}}
}

func (s *UserStore) Create(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.Username == u.Username {
			return model.User{}, model.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = now
	u.ModifiedAt = now
	s.byID[u.ID] = u
	return u, nil
}

func (s *UserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *UserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
