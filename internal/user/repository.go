package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	createUser(ctx context.Context, user *User) error
	getUserByEmail(ctx context.Context, email string) (*User, error)
	getUserByID(ctx context.Context, id int64) (*User, error)
	userExistsByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) createUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at;
	`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrUsernameOrEmailTaken
		}
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

func (r *userRepository) getUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) getUserByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) userExistsByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1 OR email = $2
		LIMIT 1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username, email))
}

func (r *userRepository) scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	return &user, nil
}
