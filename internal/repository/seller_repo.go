package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workforce-api/internal/model"
)

type SellerRepository struct {
	pool *pgxpool.Pool
}

func NewSellerRepository(pool *pgxpool.Pool) *SellerRepository {
	return &SellerRepository{pool: pool}
}

// Create inserts a seller for userID. The partial unique index on
// sellers(user_id) rejects a second live seller with model.ErrDuplicate.
func (r *SellerRepository) Create(ctx context.Context, userID int64) (model.Seller, error) {
	s := model.Seller{UserID: userID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sellers (user_id) VALUES ($1)
		 RETURNING id, deleted, created_at, modified_at`, userID).
		Scan(&s.ID, &s.Deleted, &s.CreatedAt, &s.ModifiedAt)
	if err != nil {
		return model.Seller{}, storeError("create seller", err)
	}
	return s, nil
}

// FindByID returns a live seller together with its user.
func (r *SellerRepository) FindByID(ctx context.Context, id int64) (model.Seller, error) {
	var (
		s model.Seller
		u model.User
	)
	err := r.pool.QueryRow(ctx,
		`SELECT s.id, s.user_id, s.deleted, s.created_at, s.modified_at,
		        u.id, u.username, u.password_hash, u.is_superuser, u.is_manager, u.is_seller,
		        u.is_customer, u.is_active, u.deleted, u.thumbnail, u.created_at, u.modified_at
		 FROM sellers s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1 AND NOT s.deleted`, id).
		Scan(&s.ID, &s.UserID, &s.Deleted, &s.CreatedAt, &s.ModifiedAt,
			&u.ID, &u.Username, &u.PasswordHash, &u.IsSuperuser, &u.IsManager, &u.IsSeller,
			&u.IsCustomer, &u.IsActive, &u.Deleted, &u.Thumbnail, &u.CreatedAt, &u.ModifiedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Seller{}, model.ErrSellerNotFound
	}
	if err != nil {
		return model.Seller{}, storeError("find seller", err)
	}
	s.User = &u
	return s, nil
}

func (r *SellerRepository) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sellers WHERE user_id = $1 AND NOT deleted)`, userID).
		Scan(&exists)
	if err != nil {
		return false, storeError("check seller exists", err)
	}
	return exists, nil
}

// SoftDelete flags a live seller as deleted.
func (r *SellerRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sellers SET deleted = TRUE, modified_at = NOW()
		 WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return storeError("delete seller", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSellerNotFound
	}
	return nil
}
