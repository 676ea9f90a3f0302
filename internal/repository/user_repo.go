package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workforce-api/internal/model"
)

const userColumns = `id, username, password_hash, is_superuser, is_manager, is_seller,
	is_customer, is_active, deleted, thumbnail, created_at, modified_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, is_superuser, is_manager, is_seller,
		                    is_customer, is_active, deleted, thumbnail)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, modified_at`,
		u.Username, u.PasswordHash, u.IsSuperuser, u.IsManager, u.IsSeller,
		u.IsCustomer, u.IsActive, u.Deleted, u.Thumbnail).
		Scan(&u.ID, &u.CreatedAt, &u.ModifiedAt)
	if err != nil {
		return model.User{}, storeError("create user", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeError("find user by id", err)
	}
	return u, nil
}

// FindByUsername matches the username exactly.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeError("find user by username", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, storeError("list users", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storeError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsSuperuser, &u.IsManager, &u.IsSeller,
		&u.IsCustomer, &u.IsActive, &u.Deleted, &u.Thumbnail, &u.CreatedAt, &u.ModifiedAt)
	return u, err
}
