package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhorizon/marketplace/internal/domain"
)

// UserRepository defines persistence access for buyer accounts.
type UserRepository interface {
	Create(ctx context.Context, account *domain.UserAccount) error
	Update(ctx context.Context, account *domain.UserAccount) error
	GetByID(ctx context.Context, id string) (*domain.UserAccount, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
	BalanceByEmail(ctx context.Context, email string) (float64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, account *domain.UserAccount) error {
	const query = `
        INSERT INTO users (email, name, password_hash, balance)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.Balance,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, account *domain.UserAccount) error {
	const query = `
        UPDATE users SET email=$1, name=$2, password_hash=$3, balance=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.Balance,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.UserAccount, error) {
	const query = `
        SELECT id, email, name, password_hash, balance, created_at, updated_at
        FROM users WHERE id=$1`

	var account domain.UserAccount
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	const query = `
        SELECT id, email, name, password_hash, balance, created_at, updated_at
        FROM users WHERE email=$1`

	var account domain.UserAccount
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *userRepository) BalanceByEmail(ctx context.Context, email string) (float64, error) {
	const query = `SELECT balance FROM users WHERE email=$1`

	var balance float64
	if err := r.pool.QueryRow(ctx, query, email).Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}
