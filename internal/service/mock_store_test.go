package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"workforce-api/internal/model"
)

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Insert(ctx context.Context, rec model.TokenRecord) (model.TokenRecord, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(model.TokenRecord), args.Error(1)
}

func (m *MockTokenStore) FindByJTI(ctx context.Context, jti string) (model.TokenRecord, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.TokenRecord), args.Error(1)
}

func (m *MockTokenStore) ListByOwner(ctx context.Context, owner string) ([]model.TokenRecord, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TokenRecord), args.Error(1)
}

func (m *MockTokenStore) Revoke(ctx context.Context, owner string, ref model.TokenRef) (model.TokenRecord, error) {
	args := m.Called(ctx, owner, ref)
	return args.Get(0).(model.TokenRecord), args.Error(1)
}

func (m *MockTokenStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockRevocationCache struct {
	mock.Mock
}

func (m *MockRevocationCache) MarkRevoked(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *MockRevocationCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}
