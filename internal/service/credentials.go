package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"workforce-api/internal/model"
)

type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// CredentialVerifier checks a username/password pair against the stored hash.
type CredentialVerifier struct {
	users UserLookup
}

func NewCredentialVerifier(users UserLookup) *CredentialVerifier {
	return &CredentialVerifier{users: users}
}

// Verify returns model.ErrInvalidCredentials for an unknown user, a wrong
// password, or an account that is inactive or deleted.
func (v *CredentialVerifier) Verify(ctx context.Context, username string, password string) (model.User, error) {
	user, err := v.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, model.ErrInvalidCredentials
	}

	if !user.IsActive || user.Deleted {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}
