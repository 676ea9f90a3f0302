package memory

import (
	"context"
	"sync"
	"time"

	"workforce-api/internal/model"
)

type SellerStore struct {
	mu     sync.RWMutex
	users  *UserStore
	nextID int64
	byID   map[int64]model.Seller
}

// NewSellerStore resolves seller users through users, the way the sellers
// table references users by foreign key.
func NewSellerStore(users *UserStore) *SellerStore {
	return &SellerStore{users: users, byID: map[int64]model.Seller{}}
}

func (s *SellerStore) Create(ctx context.Context, userID int64) (model.Seller, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return model.Seller{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.UserID == userID && !existing.Deleted {
			return model.Seller{}, model.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	s.nextID++
	seller := model.Seller{ID: s.nextID, UserID: userID, CreatedAt: now, ModifiedAt: now}
	s.byID[seller.ID] = seller
	return seller, nil
}

func (s *SellerStore) FindByID(ctx context.Context, id int64) (model.Seller, error) {
	s.mu.RLock()
	seller, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok || seller.Deleted {
		return model.Seller{}, model.ErrSellerNotFound
	}

	u, err := s.users.FindByID(ctx, seller.UserID)
	if err != nil {
		return model.Seller{}, err
	}
	seller.User = &u
	return seller, nil
}

func (s *SellerStore) ExistsForUser(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, seller := range s.byID {
		if seller.UserID == userID && !seller.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (s *SellerStore) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seller, ok := s.byID[id]
	if !ok || seller.Deleted {
		return model.ErrSellerNotFound
	}
	seller.Deleted = true
	seller.ModifiedAt = time.Now().UTC()
	s.byID[id] = seller
	return nil
}
