// Package memory holds map-backed stores with the same contracts as the
// Postgres repositories. They back tests and the local CLI smoke runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"workforce-api/internal/model"
)

type TokenStore struct {
	mu     sync.RWMutex
	nextID int64
	byJTI  map[string]model.TokenRecord
}

func NewTokenStore() *TokenStore {
	return &TokenStore{byJTI: map[string]model.TokenRecord{}}
}

func (s *TokenStore) Insert(_ context.Context, rec model.TokenRecord) (model.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byJTI[rec.JTI]; exists {
		return model.TokenRecord{}, model.ErrDuplicate
	}

	s.nextID++
	rec.ID = s.nextID
	s.byJTI[rec.JTI] = rec
	return rec, nil
}

func (s *TokenStore) FindByJTI(_ context.Context, jti string) (model.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byJTI[jti]
	if !ok {
		return model.TokenRecord{}, model.ErrTokenNotFound
	}
	return rec, nil
}

func (s *TokenStore) ListByOwner(_ context.Context, owner string) ([]model.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []model.TokenRecord{}
	for _, rec := range s.byJTI {
		if rec.OwnerIdentity == owner {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *TokenStore) Revoke(_ context.Context, owner string, ref model.TokenRef) (model.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for jti, rec := range s.byJTI {
		if !matches(rec, ref) {
			continue
		}
		if rec.OwnerIdentity != owner {
			return model.TokenRecord{}, model.ErrTokenNotFound
		}
		rec.Revoked = true
		s.byJTI[jti] = rec
		return rec, nil
	}
	return model.TokenRecord{}, model.ErrTokenNotFound
}

func (s *TokenStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for jti, rec := range s.byJTI {
		if rec.ExpiresAt.Before(before) {
			delete(s.byJTI, jti)
			deleted++
		}
	}
	return deleted, nil
}

func matches(rec model.TokenRecord, ref model.TokenRef) bool {
	if ref.JTI != "" {
		return rec.JTI == ref.JTI
	}
	return rec.ID == ref.ID
}
