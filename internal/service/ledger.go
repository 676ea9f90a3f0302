package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"workforce-api/internal/event"
	"workforce-api/internal/model"
)

type TokenStore interface {
	Insert(ctx context.Context, rec model.TokenRecord) (model.TokenRecord, error)
	FindByJTI(ctx context.Context, jti string) (model.TokenRecord, error)
	ListByOwner(ctx context.Context, owner string) ([]model.TokenRecord, error)
	Revoke(ctx context.Context, owner string, ref model.TokenRef) (model.TokenRecord, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type TokenDecoder interface {
	Decode(token string) (model.AuthClaims, error)
}

// RevocationCache mirrors revoked jtis outside the store. It is only ever
// trusted to say "revoked"; a miss always falls through to the store.
type RevocationCache interface {
	MarkRevoked(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type LedgerOption func(*TokenLedger)

func WithRevocationCache(cache RevocationCache) LedgerOption {
	return func(l *TokenLedger) { l.cache = cache }
}

func WithLedgerEvents(bus event.Bus) LedgerOption {
	return func(l *TokenLedger) { l.bus = bus }
}

// TokenLedger is the persistent record of issued tokens.
type TokenLedger struct {
	store   TokenStore
	decoder TokenDecoder
	cache   RevocationCache
	bus     event.Bus
}

func NewTokenLedger(store TokenStore, decoder TokenDecoder, opts ...LedgerOption) *TokenLedger {
	l := &TokenLedger{store: store, decoder: decoder}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record decodes signedToken and inserts a fresh, unrevoked row for it.
func (l *TokenLedger) Record(ctx context.Context, signedToken string, owner string) (model.TokenRecord, error) {
	claims, err := l.decoder.Decode(signedToken)
	if err != nil {
		return model.TokenRecord{}, fmt.Errorf("decode token for ledger: %w", err)
	}

	rec, err := l.store.Insert(ctx, model.TokenRecord{
		JTI:           claims.TokenID,
		TokenType:     claims.Type,
		OwnerIdentity: owner,
		Revoked:       false,
		ExpiresAt:     claims.ExpiresAt,
	})
	if err != nil {
		return model.TokenRecord{}, persistence("record token", err)
	}

	l.publish(event.TypeTokenRecorded, owner, map[string]any{
		"jti":        rec.JTI,
		"token_type": rec.TokenType,
	})
	return rec, nil
}

// FindByJTI reports found=false for an unknown jti; that is not an error.
func (l *TokenLedger) FindByJTI(ctx context.Context, jti string) (model.TokenRecord, bool, error) {
	rec, err := l.store.FindByJTI(ctx, jti)
	if errors.Is(err, model.ErrTokenNotFound) {
		return model.TokenRecord{}, false, nil
	}
	if err != nil {
		return model.TokenRecord{}, false, persistence("find token", err)
	}
	return rec, true, nil
}

func (l *TokenLedger) ListByOwner(ctx context.Context, owner string) ([]model.TokenRecord, error) {
	records, err := l.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, persistence("list tokens", err)
	}
	return records, nil
}

// Revoke flags the owner's token selected by ref. A ref that does not exist
// or belongs to someone else yields model.ErrTokenNotFound.
func (l *TokenLedger) Revoke(ctx context.Context, owner string, ref model.TokenRef) error {
	rec, err := l.store.Revoke(ctx, owner, ref)
	if errors.Is(err, model.ErrTokenNotFound) {
		return err
	}
	if err != nil {
		return persistence("revoke token", err)
	}

	if l.cache != nil {
		if err := l.cache.MarkRevoked(ctx, rec.JTI, rec.ExpiresAt); err != nil {
			slog.Warn("revocation cache write failed", "jti", rec.JTI, "error", err)
		}
	}

	l.publish(event.TypeTokenRevoked, owner, map[string]any{"jti": rec.JTI, "id": rec.ID})
	return nil
}

// Unrevoke is not supported: revocation is terminal.
func (l *TokenLedger) Unrevoke(_ context.Context, _ int64, _ string) error {
	return model.ErrUnsupported
}

// PruneExpired deletes every row with expires_at strictly before now.
func (l *TokenLedger) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := l.store.DeleteExpired(ctx, now)
	if err != nil {
		return 0, persistence("prune tokens", err)
	}

	if n > 0 {
		l.publish(event.TypeTokensPruned, "", map[string]any{"deleted": n, "before": now.UTC()})
	}
	return n, nil
}

// Status answers the revocation gate. Only StatusActive means the token may
// be trusted.
func (l *TokenLedger) Status(ctx context.Context, jti string) (model.TokenStatus, error) {
	if l.cache != nil {
		revoked, err := l.cache.IsRevoked(ctx, jti)
		if err != nil {
			slog.Warn("revocation cache lookup failed", "jti", jti, "error", err)
		} else if revoked {
			return model.StatusRevoked, nil
		}
	}

	rec, found, err := l.FindByJTI(ctx, jti)
	if err != nil {
		return model.StatusUnknown, err
	}
	if !found {
		return model.StatusUnknown, nil
	}
	if rec.Revoked {
		return model.StatusRevoked, nil
	}
	return model.StatusActive, nil
}

func (l *TokenLedger) publish(t event.Type, actor string, payload any) {
	if l.bus != nil {
		l.bus.Publish(event.New(t, actor, payload))
	}
}

func persistence(op string, err error) error {
	if errors.Is(err, model.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", model.ErrPersistence, op, err)
}
