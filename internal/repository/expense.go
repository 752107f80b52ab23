package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/lib/pq"
)

// ExpenseFilters holds the optional, additive list filters for expenses.
// Every field left at its zero value is skipped.
type ExpenseFilters struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	CategoryIDs []string
	TypeID      string
	NeedOrWant  models.NeedOrWant
}

// ExpenseUpdate holds a partial expense update. Nil fields keep the stored
// values.
type ExpenseUpdate struct {
	TypeID         *string
	CategoryID     *string
	Amount         *float64
	Description    *string
	ExpenseDate    *time.Time
	NeedOrWant     *models.NeedOrWant
	CouldHaveSaved *float64
}

// expenseSortFields is the allowlist of caller-facing sort fields.
var expenseSortFields = map[string]string{
	"expense_date": "e.expense_date",
	"amount":       "e.amount",
	"createdAt":    "e.created_at",
}

// defaultExpenseSort is newest-first by the record's natural date field.
const defaultExpenseSort = "-expense_date"

// PostgresExpenseRepository implements the expense record store against
// a PostgreSQL database.
type PostgresExpenseRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresExpenseRepository creates a new PostgresExpenseRepository using
// the provided *sql.DB.
func NewPostgresExpenseRepository(db *sql.DB) *PostgresExpenseRepository {
	return &PostgresExpenseRepository{DB: db}
}

// where renders the filters as a WHERE clause scoped to the owning user.
func (f ExpenseFilters) where(userID string) *whereBuilder {
	w := &whereBuilder{}
	w.add("e.user_id = " + w.arg(userID))
	if f.DateFrom != nil {
		w.add("e.expense_date >= " + w.arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		w.add("e.expense_date <= " + w.arg(*f.DateTo))
	}
	if len(f.CategoryIDs) > 0 {
		w.add("e.category_id = ANY(" + w.arg(pq.Array(f.CategoryIDs)) + ")")
	}
	if f.TypeID != "" {
		w.add("e.type_id = " + w.arg(f.TypeID))
	}
	if f.NeedOrWant != "" {
		w.add("e.need_or_want = " + w.arg(string(f.NeedOrWant)))
	}
	return w
}

const expenseSelect = `
	SELECT e.id, e.user_id, e.type_id, t.name, e.category_id, c.name, c.icon,
	       e.amount, e.description, e.expense_date, e.need_or_want,
	       e.could_have_saved, e.created_at, e.updated_at
	FROM expenses AS e
	JOIN expense_types AS t ON e.type_id = t.id
	JOIN expense_categories AS c ON e.category_id = c.id
`

// scanExpense reads one joined expense row.
func scanExpense(s interface{ Scan(...any) error }) (models.Expense, error) {
	var e models.Expense
	err := s.Scan(&e.ID, &e.UserID, &e.TypeID, &e.TypeName, &e.CategoryID,
		&e.CategoryName, &e.CategoryIcon, &e.Amount, &e.Description,
		&e.ExpenseDate, &e.NeedOrWant, &e.CouldHaveSaved, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CreateBatch inserts all expenses in a single transaction; either every
// record lands or none does.
func (r *PostgresExpenseRepository) CreateBatch(ctx context.Context, expenses []models.Expense) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range expenses {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (id, user_id, type_id, category_id, amount, description,
			                      expense_date, need_or_want, could_have_saved)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, e.ID, e.UserID, e.TypeID, e.CategoryID, e.Amount, e.Description,
			e.ExpenseDate, e.NeedOrWant, e.CouldHaveSaved)
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// List returns one page of the user's expenses matching the filters, with
// category and type names resolved.
func (r *PostgresExpenseRepository) List(ctx context.Context, userID string, f ExpenseFilters, sort string, limit, offset int) ([]models.Expense, error) {
	w := f.where(userID)
	order := parseSort(sort, expenseSortFields, defaultExpenseSort)
	query := fmt.Sprintf("%s %s ORDER BY %s LIMIT %s OFFSET %s",
		expenseSelect, w.clause(), order, w.arg(limit), w.arg(offset))

	rows, err := r.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Count returns the total number of the user's expenses matching the filters.
func (r *PostgresExpenseRepository) Count(ctx context.Context, userID string, f ExpenseFilters) (int, error) {
	w := f.where(userID)
	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expenses AS e "+w.clause(), w.args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return total, nil
}

// Stats aggregates the full filtered set independently of pagination.
func (r *PostgresExpenseRepository) Stats(ctx context.Context, userID string, f ExpenseFilters) (models.ExpenseStats, error) {
	w := f.where(userID)
	var s models.ExpenseStats
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(e.amount), 0),
		       COALESCE(SUM(e.could_have_saved), 0),
		       COALESCE(SUM(CASE WHEN e.need_or_want = 'need' THEN e.amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN e.need_or_want = 'want' THEN e.amount ELSE 0 END), 0)
		FROM expenses AS e `+w.clause(), w.args...).
		Scan(&s.TotalAmount, &s.TotalCouldHaveSaved, &s.TotalNeeds, &s.TotalWants)
	if err != nil {
		return models.ExpenseStats{}, fmt.Errorf("expense stats: %w", err)
	}
	return s, nil
}

// Update applies the non-nil fields to a single expense owned by the user
// and returns it with lookups resolved. Returns ErrNotFound when the record
// is absent or owned by someone else.
func (r *PostgresExpenseRepository) Update(ctx context.Context, userID, id string, u ExpenseUpdate) (*models.Expense, error) {
	var b setBuilder
	if u.TypeID != nil {
		b.set("type_id", *u.TypeID)
	}
	if u.CategoryID != nil {
		b.set("category_id", *u.CategoryID)
	}
	if u.Amount != nil {
		b.set("amount", *u.Amount)
	}
	if u.Description != nil {
		b.set("description", *u.Description)
	}
	if u.ExpenseDate != nil {
		b.set("expense_date", *u.ExpenseDate)
	}
	if u.NeedOrWant != nil {
		b.set("need_or_want", *u.NeedOrWant)
	}
	if u.CouldHaveSaved != nil {
		b.set("could_have_saved", *u.CouldHaveSaved)
	}
	b.raw("updated_at = now()")

	query := fmt.Sprintf("UPDATE expenses %s WHERE id = %s AND user_id = %s",
		b.clause(), b.arg(id), b.arg(userID))
	res, err := r.DB.ExecContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	return r.Get(ctx, userID, id)
}

// Get fetches a single expense owned by the user.
func (r *PostgresExpenseRepository) Get(ctx context.Context, userID, id string) (*models.Expense, error) {
	row := r.DB.QueryRowContext(ctx,
		expenseSelect+" WHERE e.id = $1 AND e.user_id = $2", id, userID)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// Delete removes a single expense owned by the user. Returns ErrNotFound
// when the record is absent or owned by someone else.
func (r *PostgresExpenseRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DailyTotals groups the user's expenses in [from, to] by day of month.
// Days without expenses are absent from the result; the service zero-fills.
func (r *PostgresExpenseRepository) DailyTotals(ctx context.Context, userID string, from, to time.Time) (map[int]models.DailyExpense, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT EXTRACT(DAY FROM e.expense_date)::int AS day,
		       COALESCE(SUM(e.amount), 0), COUNT(*)
		FROM expenses AS e
		WHERE e.user_id = $1 AND e.expense_date >= $2 AND e.expense_date <= $3
		GROUP BY day
		ORDER BY day
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int]models.DailyExpense)
	for rows.Next() {
		var d models.DailyExpense
		if err := rows.Scan(&d.Day, &d.Amount, &d.Count); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		totals[d.Day] = d
	}
	return totals, rows.Err()
}

// TopCategories returns the user's categories ranked by total spend within
// the optional date window. Expenses whose category was since removed would
// be dropped by an inner join; the left join keeps them with empty names.
func (r *PostgresExpenseRepository) TopCategories(ctx context.Context, userID string, f ExpenseFilters, limit int) ([]models.TopCategory, error) {
	w := f.where(userID)
	query := fmt.Sprintf(`
		SELECT e.category_id, COALESCE(c.name, ''), COALESCE(c.icon, ''),
		       COALESCE(SUM(e.amount), 0) AS total, COUNT(*)
		FROM expenses AS e
		LEFT JOIN expense_categories AS c ON e.category_id = c.id
		%s
		GROUP BY e.category_id, c.name, c.icon
		ORDER BY total DESC
		LIMIT %s`, w.clause(), w.arg(limit))

	rows, err := r.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	defer rows.Close()

	var top []models.TopCategory
	for rows.Next() {
		var tc models.TopCategory
		if err := rows.Scan(&tc.CategoryID, &tc.CategoryName, &tc.CategoryIcon, &tc.TotalAmount, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		top = append(top, tc)
	}
	return top, rows.Err()
}
