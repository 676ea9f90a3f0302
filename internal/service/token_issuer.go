package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"workforce-api/internal/model"
	"workforce-api/pkg/apierror"
)

type tokenClaims struct {
	Username string           `json:"username"`
	Roles    *model.RoleFlags `json:"roles"`
	Type     model.TokenType  `json:"type"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL time.Duration, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *TokenIssuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// Issue mints an access and a refresh token for the same claims, each with
// its own jti and expiry.
func (i *TokenIssuer) Issue(claims model.AuthClaims) (model.TokenPair, error) {
	access, err := i.sign(claims, model.TokenTypeAccess, i.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refresh, err := i.sign(claims, model.TokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{Access: access, Refresh: refresh}, nil
}

func (i *TokenIssuer) sign(claims model.AuthClaims, tokenType model.TokenType, ttl time.Duration) (model.IssuedToken, error) {
	now := i.now().UTC().Truncate(time.Second)

	claims.Type = tokenType
	claims.TokenID = uuid.NewString()
	claims.IssuedAt = now
	claims.ExpiresAt = now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Username: claims.Username,
		Roles:    claims.Roles,
		Type:     claims.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ID:        claims.TokenID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return model.IssuedToken{Token: signed, Claims: claims}, nil
}

// Decode verifies signature, algorithm and expiry. Any failure is an
// authentication error; the ledger is never consulted for expired tokens.
func (i *TokenIssuer) Decode(tokenString string) (model.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.AuthClaims{}, apierror.Authentication("token has expired")
		}
		return model.AuthClaims{}, apierror.Authentication("invalid token")
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return model.AuthClaims{}, apierror.Authentication("invalid token")
	}

	if tc.ID == "" || tc.Subject == "" || tc.Type == "" {
		return model.AuthClaims{}, apierror.Authentication("malformed token claims")
	}

	claims := model.AuthClaims{
		Subject:   tc.Subject,
		Username:  tc.Username,
		Roles:     tc.Roles,
		Type:      tc.Type,
		TokenID:   tc.ID,
		ExpiresAt: tc.ExpiresAt.Time.UTC(),
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time.UTC()
	}

	return claims, nil
}
