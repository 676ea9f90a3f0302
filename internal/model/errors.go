package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Seller related errors
	ErrSellerNotFound = errors.New("seller not found")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")

	// Store related errors
	ErrDuplicate   = errors.New("duplicate record")
	ErrPersistence = errors.New("persistence failure")

	// Generic errors
	ErrUnsupported = errors.New("operation not supported")
)
