package middleware

import (
	"context"
	"net/http"
	"strings"

	"workforce-api/internal/model"
	"workforce-api/pkg/apierror"
)

type tokenDecoder interface {
	Decode(token string) (model.AuthClaims, error)
}

type tokenStatusChecker interface {
	Status(ctx context.Context, jti string) (model.TokenStatus, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

// AuthMiddleware holds the revocation gate and the role gates.
type AuthMiddleware struct {
	decoder tokenDecoder
	ledger  tokenStatusChecker
}

func NewAuthMiddleware(decoder tokenDecoder, ledger tokenStatusChecker) *AuthMiddleware {
	return &AuthMiddleware{decoder: decoder, ledger: ledger}
}

// Require authenticates the request and then applies the given role stages.
func (m *AuthMiddleware) Require(roles ...Stage) func(http.Handler) http.Handler {
	stages := make([]Stage, 0, len(roles)+1)
	stages = append(stages, m.Authenticate)
	stages = append(stages, roles...)
	return Pipeline(stages...)
}

// Authenticate is the revocation gate. Only a decodable access token whose
// ledger status is Active passes; an unknown jti is treated as revoked.
func (m *AuthMiddleware) Authenticate(r *http.Request) (context.Context, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return nil, apierror.Authentication("missing or invalid authorization header")
	}

	claims, err := m.decoder.Decode(strings.TrimSpace(header[7:]))
	if err != nil {
		return nil, err
	}

	if claims.Type != model.TokenTypeAccess {
		return nil, apierror.Authentication("access token required")
	}

	status, err := m.ledger.Status(r.Context(), claims.TokenID)
	if err != nil {
		return nil, err
	}

	switch status {
	case model.StatusActive:
		return WithClaims(r.Context(), claims), nil
	case model.StatusRevoked:
		return nil, apierror.Authentication("token has been revoked")
	default:
		return nil, apierror.Authentication("token is not recognized")
	}
}

func (m *AuthMiddleware) Admin(r *http.Request) (context.Context, error) {
	return requireRole(r, "admin", model.RoleFlags.Admin)
}

func (m *AuthMiddleware) Manager(r *http.Request) (context.Context, error) {
	return requireRole(r, "manager", model.RoleFlags.Manager)
}

func (m *AuthMiddleware) Staff(r *http.Request) (context.Context, error) {
	return requireRole(r, "staff", model.RoleFlags.Staff)
}

// Blocked rejects every request; it keeps a route defined but disabled.
func (m *AuthMiddleware) Blocked(_ *http.Request) (context.Context, error) {
	return nil, apierror.Authorization("this endpoint is disabled")
}

func requireRole(r *http.Request, name string, allowed func(model.RoleFlags) bool) (context.Context, error) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return nil, apierror.Authentication("authentication required")
	}
	if claims.Roles == nil {
		return nil, apierror.Authorization("token carries no role claims")
	}
	if !allowed(*claims.Roles) {
		return nil, apierror.New(apierror.CodeForbidden, "insufficient permissions", name+" role required", http.StatusForbidden)
	}
	return r.Context(), nil
}

func ClaimsFromContext(ctx context.Context) (model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(model.AuthClaims)
	return claims, ok
}

// WithClaims attaches verified claims to ctx, as Authenticate does.
func WithClaims(ctx context.Context, claims model.AuthClaims) context.Context {
	return context.WithValue(ctx, authClaimsContextKey, claims)
}
