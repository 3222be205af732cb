package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smartpersona/backend/internal/domain"
)

var (
	// ErrNotFound is returned when no account matches.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicate is returned when the username is already taken.
	ErrDuplicate = errors.New("account already exists")
)

// UserDirectory is the account store consumed by the auth core.
type UserDirectory interface {
	Register(ctx context.Context, account *domain.Account) (uuid.UUID, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error)
}

// Querier is the subset of pgxpool.Pool the directory needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type userDirectory struct {
	db Querier
}

// NewUserDirectory returns a Postgres-backed implementation.
func NewUserDirectory(db Querier) UserDirectory {
	return &userDirectory{db: db}
}

const accountColumns = `id, username, password_hash, display_name, role::text, status::text, created_at, updated_at`

func (r *userDirectory) Register(ctx context.Context, account *domain.Account) (uuid.UUID, error) {
	const query = `
        INSERT INTO users (username, password_hash, display_name, role, status)
        VALUES ($1, $2, $3, $4::user_role, $5::user_status)
        RETURNING id`

	role := account.Role
	if role == "" {
		role = domain.AccountRolePersonaUser
	}
	status := account.Status
	if status == "" {
		status = domain.AccountStatusPending
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		account.Username,
		account.PasswordHash,
		account.DisplayName,
		string(role),
		string(status),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return uuid.Nil, ErrDuplicate
		}
		return uuid.Nil, fmt.Errorf("register account: %w", err)
	}
	return id, nil
}

func (r *userDirectory) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE username=$1`
	return scanAccount(r.db.QueryRow(ctx, query, username))
}

func (r *userDirectory) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id=$1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *userDirectory) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	query := `
        UPDATE users SET status=$1::user_status, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + accountColumns

	return scanAccount(r.db.QueryRow(ctx, query, string(status), id))
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		role    string
		status  string
	)
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.DisplayName,
		&role,
		&status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	account.Role = domain.AccountRole(role)
	account.Status = domain.AccountStatus(status)
	return &account, nil
}
