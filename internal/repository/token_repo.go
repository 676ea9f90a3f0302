package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workforce-api/internal/model"
)

const tokenColumns = `id, jti, token_type, owner_identity, revoked, expires_at`

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Insert(ctx context.Context, rec model.TokenRecord) (model.TokenRecord, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tokens (jti, token_type, owner_identity, revoked, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		rec.JTI, string(rec.TokenType), rec.OwnerIdentity, rec.Revoked, rec.ExpiresAt.UTC()).
		Scan(&rec.ID)
	if err != nil {
		return model.TokenRecord{}, storeError("insert token", err)
	}
	return rec, nil
}

func (r *TokenRepository) FindByJTI(ctx context.Context, jti string) (model.TokenRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE jti = $1`, jti)

	rec, err := scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TokenRecord{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.TokenRecord{}, storeError("find token by jti", err)
	}
	return rec, nil
}

func (r *TokenRepository) ListByOwner(ctx context.Context, owner string) ([]model.TokenRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE owner_identity = $1 ORDER BY id`, owner)
	if err != nil {
		return nil, storeError("list tokens", err)
	}
	defer rows.Close()

	records := []model.TokenRecord{}
	for rows.Next() {
		rec, err := scanToken(rows)
		if err != nil {
			return nil, storeError("scan token", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list tokens", err)
	}
	return records, nil
}

// Revoke marks the row selected by ref as revoked, provided it belongs to owner.
func (r *TokenRepository) Revoke(ctx context.Context, owner string, ref model.TokenRef) (model.TokenRecord, error) {
	var row pgx.Row
	if ref.JTI != "" {
		row = r.pool.QueryRow(ctx,
			`UPDATE tokens SET revoked = TRUE
			 WHERE jti = $1 AND owner_identity = $2
			 RETURNING `+tokenColumns, ref.JTI, owner)
	} else {
		row = r.pool.QueryRow(ctx,
			`UPDATE tokens SET revoked = TRUE
			 WHERE id = $1 AND owner_identity = $2
			 RETURNING `+tokenColumns, ref.ID, owner)
	}

	rec, err := scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TokenRecord{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.TokenRecord{}, storeError("revoke token", err)
	}
	return rec, nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tokens WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return 0, storeError("delete expired tokens", err)
	}
	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (model.TokenRecord, error) {
	var (
		rec       model.TokenRecord
		tokenType string
	)
	if err := row.Scan(&rec.ID, &rec.JTI, &tokenType, &rec.OwnerIdentity, &rec.Revoked, &rec.ExpiresAt); err != nil {
		return model.TokenRecord{}, err
	}
	rec.TokenType = model.TokenType(tokenType)
	return rec, nil
}
