package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
)

// EarningFilters holds the optional, additive list filters for earnings.
type EarningFilters struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Type     models.EarningType
}

var earningSortFields = map[string]string{
	"createdOn": "created_on",
	"amount":    "amount",
	"title":     "title",
}

const defaultEarningSort = "-createdOn"

// PostgresEarningRepository implements the earning record store against
// a PostgreSQL database.
type PostgresEarningRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresEarningRepository creates a new PostgresEarningRepository using
// the provided *sql.DB.
func NewPostgresEarningRepository(db *sql.DB) *PostgresEarningRepository {
	return &PostgresEarningRepository{DB: db}
}

func (f EarningFilters) where(userID string) *whereBuilder {
	w := &whereBuilder{}
	w.add("user_id = " + w.arg(userID))
	if f.DateFrom != nil {
		w.add("created_on >= " + w.arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		w.add("created_on <= " + w.arg(*f.DateTo))
	}
	if f.Type != "" {
		w.add("type = " + w.arg(string(f.Type)))
	}
	return w
}

// Create inserts a new earning record.
func (r *PostgresEarningRepository) Create(ctx context.Context, e *models.Earning) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO earnings (id, user_id, amount, type, title)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_on
	`, e.ID, e.UserID, e.Amount, e.Type, e.Title).Scan(&e.CreatedOn)
	if err != nil {
		return fmt.Errorf("insert earning: %w", err)
	}
	return nil
}

// List returns one page of the user's earnings matching the filters.
func (r *PostgresEarningRepository) List(ctx context.Context, userID string, f EarningFilters, sort string, limit, offset int) ([]models.Earning, error) {
	w := f.where(userID)
	order := parseSort(sort, earningSortFields, defaultEarningSort)
	query := fmt.Sprintf(`
		SELECT id, user_id, amount, type, title, created_on FROM earnings
		%s ORDER BY %s LIMIT %s OFFSET %s`,
		w.clause(), order, w.arg(limit), w.arg(offset))

	rows, err := r.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}
	defer rows.Close()

	var earnings []models.Earning
	for rows.Next() {
		var e models.Earning
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Type, &e.Title, &e.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}

// Count returns the total number of the user's earnings matching the filters.
func (r *PostgresEarningRepository) Count(ctx context.Context, userID string, f EarningFilters) (int, error) {
	w := f.where(userID)
	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM earnings "+w.clause(), w.args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count earnings: %w", err)
	}
	return total, nil
}

// TotalsByType sums the full filtered set grouped by earning type.
func (r *PostgresEarningRepository) TotalsByType(ctx context.Context, userID string, f EarningFilters) (map[models.EarningType]float64, error) {
	w := f.where(userID)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT type, COALESCE(SUM(amount), 0) FROM earnings "+w.clause()+" GROUP BY type",
		w.args...)
	if err != nil {
		return nil, fmt.Errorf("earning totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[models.EarningType]float64)
	for rows.Next() {
		var t models.EarningType
		var sum float64
		if err := rows.Scan(&t, &sum); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		totals[t] = sum
	}
	return totals, rows.Err()
}
