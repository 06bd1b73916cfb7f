package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
)

const (
	createUserSQL = `
		INSERT INTO users (first_name, last_name, email, avatar_url, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`
	getUserByEmailSQL = `
		SELECT id, first_name, last_name, email, avatar_url, password_hash, role, hashed_refresh_token, created_at
		FROM users WHERE email = $1`
	getUserByIDSQL = `
		SELECT id, first_name, last_name, email, avatar_url, password_hash, role, hashed_refresh_token, created_at
		FROM users WHERE id = $1`
	listUsersSQL = `
		SELECT id, first_name, last_name, email, avatar_url, password_hash, role, hashed_refresh_token, created_at
		FROM users ORDER BY id`
	updateUserSQL = `
		UPDATE users SET first_name = $1, last_name = $2, email = $3, avatar_url = $4
		WHERE id = $5`
	deleteUserSQL        = `DELETE FROM users WHERE id = $1`
	updateRefreshHashSQL = `UPDATE users SET hashed_refresh_token = $1 WHERE id = $2`
)

// UserRepository implements ports.UserStore on PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.pool.QueryRow(ctx, createUserSQL,
		user.FirstName, user.LastName, user.Email, user.AvatarURL, user.PasswordHash, user.Role.String(),
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getUserByEmailSQL, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getUserByIDSQL, id))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, updateUserSQL,
		user.FirstName, user.LastName, user.Email, user.AvatarURL, user.ID)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, deleteUserSQL, id)
	return err
}

func (r *UserRepository) UpdateHashedRefreshToken(ctx context.Context, id int64, hash *string) error {
	_, err := r.pool.Exec(ctx, updateRefreshHashSQL, hash, id)
	return err
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.AvatarURL,
		&u.PasswordHash, &role, &u.HashedRefreshToken, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.ParseRole(role)
	return &u, nil
}

var _ ports.UserStore = (*UserRepository)(nil)
