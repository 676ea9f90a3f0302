package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"workforce-api/internal/config"
	"workforce-api/internal/handler"
	"workforce-api/internal/middleware"
	"workforce-api/internal/model"
	"workforce-api/internal/repository/memory"
	"workforce-api/internal/service"
)

type testEnv struct {
	server *httptest.Server
	users  *memory.UserStore
	tokens *memory.TokenStore
	ledger *service.TokenLedger
	issuer *service.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserStore()
	sellers := memory.NewSellerStore(users)
	tokens := memory.NewTokenStore()

	issuer := service.NewTokenIssuer("router-test-secret", 30*time.Minute, 12*time.Hour)
	ledger := service.NewTokenLedger(tokens, issuer)
	authService := service.NewAuthService(service.NewCredentialVerifier(users), issuer, ledger)
	workforce := service.NewWorkforceService(users, sellers, bcrypt.MinCost, nil)

	cfg := &config.Config{
		RequestTimeout:   5 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	h := New(
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		middleware.NewAuthMiddleware(issuer, ledger),
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(workforce),
		handler.NewSellerHandler(workforce),
		handler.NewHealthHandler(nil),
	)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: users, tokens: tokens, ledger: ledger, issuer: issuer}
}

func (e *testEnv) seedUser(t *testing.T, username string, password string, roles model.RoleFlags) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u, err := e.users.Create(context.Background(), model.User{
		Username:     username,
		PasswordHash: string(hash),
		RoleFlags:    roles,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *model.APIError `json:"error"`
	Meta    *model.Meta     `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method string, path string, body any, token string) (int, envelope) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}

	return resp.StatusCode, parsed
}

func (e *testEnv) login(t *testing.T, username string, password string) string {
	t.Helper()

	status, body := e.do(t, http.MethodPost, "/api/v1/login", model.LoginRequest{Username: username, Password: password}, "")
	require.Equal(t, http.StatusCreated, status)

	var tokens model.LoginResponse
	require.NoError(t, json.Unmarshal(body.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}
