package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"workforce-api/internal/event"
	"workforce-api/internal/model"
	"workforce-api/internal/util"
	"workforce-api/pkg/apierror"
)

const (
	minUsernameLen = 4
	// Usernames become ledger owner identities, which are capped at 50.
	maxUsernameLen = 50
	minPasswordLen = 8
)

type UserStore interface {
	UserLookup
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type SellerStore interface {
	Create(ctx context.Context, userID int64) (model.Seller, error)
	FindByID(ctx context.Context, id int64) (model.Seller, error)
	ExistsForUser(ctx context.Context, userID int64) (bool, error)
	SoftDelete(ctx context.Context, id int64) error
}

type WorkforceService struct {
	users      UserStore
	sellers    SellerStore
	bcryptCost int
	bus        event.Bus
}

func NewWorkforceService(users UserStore, sellers SellerStore, bcryptCost int, bus event.Bus) *WorkforceService {
	return &WorkforceService{users: users, sellers: sellers, bcryptCost: bcryptCost, bus: bus}
}

func (s *WorkforceService) CreateUser(ctx context.Context, actor string, req model.CreateUserRequest) (model.User, error) {
	username, err := util.SanitizeUsername(req.Username)
	if err != nil {
		return model.User{}, err
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return model.User{}, apierror.Validation(
			fmt.Sprintf("username must be between %d and %d characters", minUsernameLen, maxUsernameLen), "")
	}
	if len(req.Password) < minPasswordLen {
		return model.User{}, apierror.Validation(
			fmt.Sprintf("password must be at least %d characters", minPasswordLen), "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Username:     username,
		PasswordHash: string(hash),
		RoleFlags: model.RoleFlags{
			IsSuperuser: req.IsSuperuser,
			IsManager:   req.IsManager,
			IsSeller:    req.IsSeller,
			IsCustomer:  boolOr(req.IsCustomer, true),
		},
		IsActive: boolOr(req.IsActive, true),
	}

	created, err := s.users.Create(ctx, user)
	if errors.Is(err, model.ErrDuplicate) {
		return model.User{}, apierror.Conflict("user already exists", username)
	}
	if err != nil {
		return model.User{}, err
	}

	s.publish(event.TypeUserCreated, actor, map[string]any{"user_id": created.ID, "username": created.Username})
	return created, nil
}

func (s *WorkforceService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *WorkforceService) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

// CreateSeller promotes an existing, non-deleted user to a seller. A missing
// user and an existing live seller are both conflicts.
func (s *WorkforceService) CreateSeller(ctx context.Context, actor string, req model.CreateSellerRequest) (model.Seller, error) {
	if req.UserID <= 0 {
		return model.Seller{}, apierror.Validation("user_id is required", "")
	}
	details := strconv.FormatInt(req.UserID, 10)

	user, err := s.users.FindByID(ctx, req.UserID)
	if errors.Is(err, model.ErrUserNotFound) || (err == nil && user.Deleted) {
		return model.Seller{}, apierror.Conflict("user does not exist", details)
	}
	if err != nil {
		return model.Seller{}, err
	}

	exists, err := s.sellers.ExistsForUser(ctx, req.UserID)
	if err != nil {
		return model.Seller{}, err
	}
	if exists {
		return model.Seller{}, apierror.Conflict("seller already exists", details)
	}

	seller, err := s.sellers.Create(ctx, req.UserID)
	switch {
	case errors.Is(err, model.ErrDuplicate):
		return model.Seller{}, apierror.Conflict("seller already exists", details)
	case errors.Is(err, model.ErrUserNotFound):
		return model.Seller{}, apierror.Conflict("user does not exist", details)
	case err != nil:
		return model.Seller{}, err
	}
	seller.User = &user

	s.publish(event.TypeSellerCreated, actor, map[string]any{"seller_id": seller.ID, "user_id": seller.UserID})
	return seller, nil
}

func (s *WorkforceService) GetSeller(ctx context.Context, id int64) (model.Seller, error) {
	return s.sellers.FindByID(ctx, id)
}

// DeleteSeller soft-deletes the seller and returns its final state.
func (s *WorkforceService) DeleteSeller(ctx context.Context, actor string, id int64) (model.Seller, error) {
	seller, err := s.sellers.FindByID(ctx, id)
	if err != nil {
		return model.Seller{}, err
	}

	if err := s.sellers.SoftDelete(ctx, id); err != nil {
		return model.Seller{}, err
	}
	seller.Deleted = true

	s.publish(event.TypeSellerDeleted, actor, map[string]any{"seller_id": id})
	return seller, nil
}

func (s *WorkforceService) publish(t event.Type, actor string, payload any) {
	if s.bus != nil {
		s.bus.Publish(event.New(t, actor, payload))
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
