package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workforce-api/internal/model"
	"workforce-api/internal/service"
)

const testSecret = "middleware-test-secret"

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Status(ctx context.Context, jti string) (model.TokenStatus, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.TokenStatus), args.Error(1)
}

func newIssuer() *service.TokenIssuer {
	return service.NewTokenIssuer(testSecret, 30*time.Minute, 12*time.Hour)
}

func issue(t *testing.T, roles model.RoleFlags) model.TokenPair {
	t.Helper()

	pair, err := newIssuer().Issue(service.BuildClaims(model.User{Username: "alice", RoleFlags: roles}))
	require.NoError(t, err)
	return pair
}

func protectedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/token/list", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(handler http.Handler, req *http.Request) (*httptest.ResponseRecorder, model.APIResponse) {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body model.APIResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func claimsEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(claims.Subject))
	})
}

func TestAuthenticate_DecisionTable(t *testing.T) {
	t.Parallel()

	pair := issue(t, model.RoleFlags{IsSuperuser: true})
	jti := pair.Access.Claims.TokenID

	cases := []struct {
		name   string
		status model.TokenStatus
		err    error
		code   int
	}{
		{name: "active passes", status: model.StatusActive, code: http.StatusOK},
		{name: "revoked rejected", status: model.StatusRevoked, code: http.StatusUnauthorized},
		{name: "never recorded rejected", status: model.StatusUnknown, code: http.StatusUnauthorized},
		{name: "ledger failure is internal", status: model.StatusUnknown, err: errors.New("db down"), code: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := new(MockLedger)
			ledger.On("Status", mock.Anything, jti).Return(tc.status, tc.err)

			auth := NewAuthMiddleware(newIssuer(), ledger)
			rec, body := serve(auth.Require()(claimsEcho(t)), protectedRequest(pair.Access.Token))

			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, "alice", rec.Body.String())
			} else {
				assert.False(t, body.Success)
				require.NotNil(t, body.Error)
				if tc.code == http.StatusInternalServerError {
					assert.NotContains(t, body.Error.Message, "db down")
				}
			}
			ledger.AssertExpectations(t)
		})
	}
}

func TestAuthenticate_RejectsBeforeLedger(t *testing.T) {
	t.Parallel()

	pair := issue(t, model.RoleFlags{IsSuperuser: true})
	expired := service.NewTokenIssuer(testSecret, -time.Minute, time.Hour)
	old, err := expired.Issue(service.BuildClaims(model.User{Username: "alice"}))
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"garbage token":  "garbage",
		"refresh token":  pair.Refresh.Token,
		"expired token":  old.Access.Token,
		"foreign secret": foreignToken(t),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			ledger := new(MockLedger)
			auth := NewAuthMiddleware(newIssuer(), ledger)

			rec, body := serve(auth.Require()(claimsEcho(t)), protectedRequest(token))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
			ledger.AssertNotCalled(t, "Status", mock.Anything, mock.Anything)
		})
	}
}

func foreignToken(t *testing.T) string {
	t.Helper()

	pair, err := service.NewTokenIssuer("someone-else", time.Hour, time.Hour).
		Issue(service.BuildClaims(model.User{Username: "alice"}))
	require.NoError(t, err)
	return pair.Access.Token
}

func TestRoleGates(t *testing.T) {
	t.Parallel()

	auth := NewAuthMiddleware(newIssuer(), nil)

	cases := []struct {
		name  string
		roles model.RoleFlags
		stage Stage
		want  int
	}{
		{"admin allows superuser", model.RoleFlags{IsSuperuser: true}, auth.Admin, http.StatusOK},
		{"admin rejects manager", model.RoleFlags{IsManager: true}, auth.Admin, http.StatusForbidden},
		{"manager allows manager", model.RoleFlags{IsManager: true}, auth.Manager, http.StatusOK},
		{"manager allows superuser", model.RoleFlags{IsSuperuser: true}, auth.Manager, http.StatusOK},
		{"manager rejects seller", model.RoleFlags{IsSeller: true}, auth.Manager, http.StatusForbidden},
		{"staff allows seller", model.RoleFlags{IsSeller: true}, auth.Staff, http.StatusOK},
		{"staff allows manager", model.RoleFlags{IsManager: true}, auth.Staff, http.StatusOK},
		{"staff rejects customer", model.RoleFlags{IsCustomer: true}, auth.Staff, http.StatusForbidden},
		{"blocked rejects superuser", model.RoleFlags{IsSuperuser: true}, auth.Blocked, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			roles := tc.roles
			claims := model.AuthClaims{Subject: "alice", Roles: &roles}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), authClaimsContextKey, claims))

			rec, _ := serve(Pipeline(tc.stage)(okHandler()), req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRoleGates_MissingClaims(t *testing.T) {
	t.Parallel()

	auth := NewAuthMiddleware(newIssuer(), nil)

	t.Run("no claims in context", func(t *testing.T) {
		rec, _ := serve(Pipeline(auth.Admin)(okHandler()), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("nil roles", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), authClaimsContextKey, model.AuthClaims{Subject: "alice"}))

		rec, _ := serve(Pipeline(auth.Staff)(okHandler()), req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("token without roles claim", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  "alice",
			"jti":  "abc123",
			"type": "access",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		ledger := new(MockLedger)
		ledger.On("Status", mock.Anything, "abc123").Return(model.StatusActive, nil)
		auth := NewAuthMiddleware(newIssuer(), ledger)

		rec, _ := serve(auth.Require(auth.Admin)(okHandler()), protectedRequest(signed))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequire_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	pair := issue(t, model.RoleFlags{IsCustomer: true})
	ledger := new(MockLedger)
	ledger.On("Status", mock.Anything, pair.Access.Claims.TokenID).Return(model.StatusActive, nil)
	auth := NewAuthMiddleware(newIssuer(), ledger)

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })

	rec, body := serve(auth.Require(auth.Admin, auth.Blocked)(next), protectedRequest(pair.Access.Token))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
	require.NotNil(t, body.Error)
	assert.Equal(t, "admin role required", body.Error.Details)
}
