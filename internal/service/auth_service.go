package service

import (
	"context"
	"time"
	"unicode/utf8"

	"workforce-api/internal/model"
	"workforce-api/internal/util"
	"workforce-api/pkg/apierror"
)

// Login input is normalised the same way usernames are at creation.
const minLoginLen = 4

type AuthService struct {
	verifier *CredentialVerifier
	issuer   *TokenIssuer
	ledger   *TokenLedger
	now      func() time.Time
}

func NewAuthService(verifier *CredentialVerifier, issuer *TokenIssuer, ledger *TokenLedger) *AuthService {
	return &AuthService{
		verifier: verifier,
		issuer:   issuer,
		ledger:   ledger,
		now:      time.Now,
	}
}

// Login verifies credentials and returns an access token that is already
// recorded in the ledger. If recording fails no token is returned. The
// refresh token is minted alongside but neither recorded nor handed out.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	username, err := util.SanitizeUsername(req.Username)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if utf8.RuneCountInString(username) < minLoginLen || utf8.RuneCountInString(req.Password) < minLoginLen {
		return model.LoginResponse{}, apierror.Validation("username and password must be at least 4 characters", "")
	}

	user, err := s.verifier.Verify(ctx, username, req.Password)
	if err != nil {
		return model.LoginResponse{}, err
	}

	pair, err := s.issuer.Issue(BuildClaims(user))
	if err != nil {
		return model.LoginResponse{}, err
	}

	if _, err := s.ledger.Record(ctx, pair.Access.Token, user.Username); err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{
		AccessToken: pair.Access.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.issuer.AccessTTL().Seconds()),
	}, nil
}

// Refresh is disabled; refresh tokens are never recorded so none could pass
// the revocation gate.
func (s *AuthService) Refresh(_ context.Context) error {
	return apierror.Authentication("token refresh is disabled")
}

// Logout revokes the token the caller authenticated with.
func (s *AuthService) Logout(ctx context.Context, claims model.AuthClaims) error {
	return s.ledger.Revoke(ctx, claims.Subject, model.TokenRef{JTI: claims.TokenID})
}

func (s *AuthService) IsValid(ctx context.Context, claims model.AuthClaims) (bool, error) {
	status, err := s.ledger.Status(ctx, claims.TokenID)
	if err != nil {
		return false, err
	}
	return status == model.StatusActive, nil
}

func (s *AuthService) ListTokens(ctx context.Context, claims model.AuthClaims) ([]model.TokenRecord, error) {
	return s.ledger.ListByOwner(ctx, claims.Subject)
}

// ModifyToken revokes one of the caller's tokens by id. Unrevoking is not
// supported.
func (s *AuthService) ModifyToken(ctx context.Context, claims model.AuthClaims, id int64, req model.ModifyTokenRequest) error {
	if req.Revoke == nil {
		return apierror.Validation("revoke is required", "")
	}
	if *req.Revoke {
		return s.ledger.Revoke(ctx, claims.Subject, model.TokenRef{ID: id})
	}
	return s.ledger.Unrevoke(ctx, id, claims.Subject)
}

func (s *AuthService) PruneExpired(ctx context.Context) (model.PruneResult, error) {
	n, err := s.ledger.PruneExpired(ctx, s.now().UTC())
	if err != nil {
		return model.PruneResult{}, err
	}
	return model.PruneResult{Deleted: n}, nil
}
