package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
)

// PostgresTypeRepository implements the expense-type lookup store against
// a PostgreSQL database.
type PostgresTypeRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTypeRepository creates a new PostgresTypeRepository using the
// provided *sql.DB.
func NewPostgresTypeRepository(db *sql.DB) *PostgresTypeRepository {
	return &PostgresTypeRepository{DB: db}
}

// Create inserts an expense type. A per-user name conflict surfaces as
// ErrDuplicate.
func (r *PostgresTypeRepository) Create(ctx context.Context, t *models.ExpenseType) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO expense_types (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_on
	`, t.ID, t.UserID, t.Name).Scan(&t.CreatedOn)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert type: %w", err)
	}
	return nil
}

// List returns the user's expense types sorted by name, optionally narrowed
// by a case-insensitive substring search.
func (r *PostgresTypeRepository) List(ctx context.Context, userID, search string) ([]models.ExpenseType, error) {
	w := &whereBuilder{}
	w.add("user_id = " + w.arg(userID))
	if search != "" {
		w.add("name ILIKE " + w.arg("%"+search+"%"))
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, created_on FROM expense_types
		`+w.clause()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	defer rows.Close()

	var types []models.ExpenseType
	for rows.Next() {
		var t models.ExpenseType
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// Get fetches a single expense type owned by the user.
func (r *PostgresTypeRepository) Get(ctx context.Context, userID, id string) (*models.ExpenseType, error) {
	var t models.ExpenseType
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_on FROM expense_types
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get type: %w", err)
	}
	return &t, nil
}

// ExistsByName reports whether the user already has a type with exactly this
// name. Matching is case-sensitive; excludeID removes the record itself from
// the collision check on update.
func (r *PostgresTypeRepository) ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM expense_types
		              WHERE user_id = $1 AND name = $2 AND id <> $3)
	`, userID, name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("type name lookup: %w", err)
	}
	return exists, nil
}

// Update rewrites an expense type owned by the user. Returns ErrNotFound when
// the record is absent or owned by someone else.
func (r *PostgresTypeRepository) Update(ctx context.Context, t *models.ExpenseType) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE expense_types SET name = $1
		WHERE id = $2 AND user_id = $3
	`, t.Name, t.ID, t.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update type: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an expense type owned by the user.
func (r *PostgresTypeRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM expense_types WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete type: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RefCount returns how many of the user's expenses still reference the type.
// Deletion is blocked while this is non-zero.
func (r *PostgresTypeRepository) RefCount(ctx context.Context, userID, id string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE user_id = $1 AND type_id = $2`,
		userID, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("type ref count: %w", err)
	}
	return n, nil
}
