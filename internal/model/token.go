package model

import (
	"strconv"
	"time"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenRecord is one row of the token ledger.
type TokenRecord struct {
	ID            int64     `json:"id"`
	JTI           string    `json:"jti"`
	TokenType     TokenType `json:"token_type"`
	OwnerIdentity string    `json:"owner_identity"`
	Revoked       bool      `json:"revoked"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// TokenRef selects a ledger row by jti or, when JTI is empty, by surrogate id.
type TokenRef struct {
	JTI string
	ID  int64
}

func (r TokenRef) String() string {
	if r.JTI != "" {
		return r.JTI
	}
	return strconv.FormatInt(r.ID, 10)
}

// TokenStatus is the ledger's answer to "may this token be trusted". The zero
// value is StatusUnknown so an unset status can never read as active.
type TokenStatus int

const (
	StatusUnknown TokenStatus = iota
	StatusActive
	StatusRevoked
)

func (s TokenStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

type IssuedToken struct {
	Token  string
	Claims AuthClaims
}

type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type TokenValidity struct {
	Valid bool `json:"valid"`
}

type PruneResult struct {
	Deleted int64 `json:"deleted"`
}
