package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
)

// PostgresUserRepository implements the user directory against PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

const userColumns = `id, subject_id, name, email, login_medium, created_at, updated_at`

// scanUser reads one user row.
func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.SubjectID, &u.Name, &u.Email, &u.LoginMedium, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// FindBySubject looks a user up by the external provider's subject id.
// Returns ErrNotFound if no such user exists.
func (r *PostgresUserRepository) FindBySubject(ctx context.Context, subjectID string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE subject_id = $1`, subjectID)
	return scanUser(row)
}

// FindByID looks a user up by internal id. Returns ErrNotFound if absent.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Create inserts a new user. A unique-index conflict on subject id or email
// surfaces as ErrDuplicate; the index is the only guard against two
// concurrent first-logins racing on the same email.
func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (id, subject_id, name, email, login_medium)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, u.ID, u.SubjectID, u.Name, u.Email, u.LoginMedium).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Touch bumps the user's updated_at timestamp, recording a repeat login.
func (r *PostgresUserRepository) Touch(ctx context.Context, id string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE users SET updated_at = now() WHERE id = $1
		RETURNING `+userColumns, id)
	return scanUser(row)
}
