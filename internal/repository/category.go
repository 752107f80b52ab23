package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
)

// PostgresCategoryRepository implements the expense-category lookup store
// against a PostgreSQL database.
type PostgresCategoryRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository using
// the provided *sql.DB.
func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{DB: db}
}

// Create inserts a category. A per-user name conflict surfaces as ErrDuplicate.
func (r *PostgresCategoryRepository) Create(ctx context.Context, c *models.ExpenseCategory) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO expense_categories (id, user_id, name, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING created_on
	`, c.ID, c.UserID, c.Name, c.Icon).Scan(&c.CreatedOn)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// List returns the user's categories sorted by name, optionally narrowed by a
// case-insensitive substring search.
func (r *PostgresCategoryRepository) List(ctx context.Context, userID, search string) ([]models.ExpenseCategory, error) {
	w := &whereBuilder{}
	w.add("user_id = " + w.arg(userID))
	if search != "" {
		w.add("name ILIKE " + w.arg("%"+search+"%"))
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, icon, created_on FROM expense_categories
		`+w.clause()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.ExpenseCategory
	for rows.Next() {
		var c models.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Get fetches a single category owned by the user.
func (r *PostgresCategoryRepository) Get(ctx context.Context, userID, id string) (*models.ExpenseCategory, error) {
	var c models.ExpenseCategory
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, name, icon, created_on FROM expense_categories
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ExistsByName reports whether the user already has a category with exactly
// this name. Matching is case-sensitive; excludeID removes the record itself
// from the collision check on update.
func (r *PostgresCategoryRepository) ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM expense_categories
		              WHERE user_id = $1 AND name = $2 AND id <> $3)
	`, userID, name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category name lookup: %w", err)
	}
	return exists, nil
}

// Update rewrites a category owned by the user. Returns ErrNotFound when the
// record is absent or owned by someone else.
func (r *PostgresCategoryRepository) Update(ctx context.Context, c *models.ExpenseCategory) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE expense_categories SET name = $1, icon = $2
		WHERE id = $3 AND user_id = $4
	`, c.Name, c.Icon, c.ID, c.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category owned by the user.
func (r *PostgresCategoryRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM expense_categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RefCount returns how many of the user's expenses still reference the
// category. Deletion is blocked while this is non-zero.
func (r *PostgresCategoryRepository) RefCount(ctx context.Context, userID, id string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE user_id = $1 AND category_id = $2`,
		userID, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("category ref count: %w", err)
	}
	return n, nil
}
