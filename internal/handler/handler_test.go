package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-api/internal/middleware"
	"workforce-api/internal/model"
	"workforce-api/internal/repository/memory"
	"workforce-api/internal/service"
	"workforce-api/pkg/apierror"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"api error passes through", apierror.Conflict("seller already exists", "7"), http.StatusConflict, "CONFLICT"},
		{"invalid credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"token not found is internal", fmt.Errorf("revoke: %w", model.ErrTokenNotFound), http.StatusInternalServerError, "TOKEN_NOT_FOUND"},
		{"user not found", model.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"seller not found", model.ErrSellerNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", model.ErrDuplicate, http.StatusConflict, "CONFLICT"},
		{"unsupported", model.ErrUnsupported, http.StatusBadRequest, "BAD_REQUEST"},
		{"persistence", fmt.Errorf("%w: insert: %w", model.ErrPersistence, errors.New("pq: secret detail")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotContains(t, rec.Body.String(), "secret detail")
		})
	}
}

func TestWriteError_TokenNotFoundMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, model.ErrTokenNotFound)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "The specified token was not found", body.Error.Message)
}

func newAuthHandler() (*AuthHandler, *service.TokenLedger, *service.TokenIssuer) {
	issuer := service.NewTokenIssuer("handler-test-secret", 30*time.Minute, 12*time.Hour)
	ledger := service.NewTokenLedger(memory.NewTokenStore(), issuer)
	svc := service.NewAuthService(service.NewCredentialVerifier(memory.NewUserStore()), issuer, ledger)
	return NewAuthHandler(svc), ledger, issuer
}

func TestAuthHandler_LogoutMissingRow(t *testing.T) {
	t.Parallel()

	h, _, _ := newAuthHandler()
	claims := model.AuthClaims{Subject: "alice", TokenID: "abc123", Type: model.TokenTypeAccess}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/logout", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "TOKEN_NOT_FOUND", decodeEnvelope(t, rec).Error.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Parallel()

	h, ledger, issuer := newAuthHandler()
	pair, err := issuer.Issue(service.BuildClaims(model.User{Username: "alice"}))
	require.NoError(t, err)
	_, err = ledger.Record(context.Background(), pair.Access.Token, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/logout", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), pair.Access.Claims))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	rec2, found, err := ledger.FindByJTI(context.Background(), pair.Access.Claims.TokenID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, rec2.Revoked)
}

func TestAuthHandler_RequiresClaims(t *testing.T) {
	t.Parallel()

	h, _, _ := newAuthHandler()
	rec := httptest.NewRecorder()
	h.ListTokens(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/token/list", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_ModifyToken(t *testing.T) {
	t.Parallel()

	h, ledger, issuer := newAuthHandler()
	pair, err := issuer.Issue(service.BuildClaims(model.User{Username: "alice"}))
	require.NoError(t, err)
	recorded, err := ledger.Record(context.Background(), pair.Access.Token, "alice")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Put("/auth/token/{id}", h.ModifyToken)

	send := func(id string, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/auth/token/"+id, strings.NewReader(body))
		req = req.WithContext(middleware.WithClaims(req.Context(), pair.Access.Claims))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	id := fmt.Sprint(recorded.ID)

	assert.Equal(t, http.StatusBadRequest, send("x", `{"revoke":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(id, `{`).Code)
	assert.Equal(t, http.StatusBadRequest, send(id, `{"revoke":false}`).Code)
	assert.Equal(t, http.StatusOK, send(id, `{"revoke":true}`).Code)
	assert.Equal(t, http.StatusInternalServerError, send("9999", `{"revoke":true}`).Code)
}

type fakePinger struct{ err error }

func (f fakePinger) Health(context.Context) error { return f.err }

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}).Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errors.New("down")}).Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
