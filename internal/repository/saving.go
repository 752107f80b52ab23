package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
)

// SavingFilters holds the optional, additive list filters for savings.
type SavingFilters struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Type     models.SavingType
	Category models.SavingCategory
}

var savingSortFields = map[string]string{
	"createdOn": "created_on",
	"amount":    "amount",
	"title":     "title",
}

const defaultSavingSort = "-createdOn"

// PostgresSavingRepository implements the saving record store against
// a PostgreSQL database.
type PostgresSavingRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSavingRepository creates a new PostgresSavingRepository using
// the provided *sql.DB.
func NewPostgresSavingRepository(db *sql.DB) *PostgresSavingRepository {
	return &PostgresSavingRepository{DB: db}
}

func (f SavingFilters) where(userID string) *whereBuilder {
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
	if f.Category != "" {
		w.add("category = " + w.arg(string(f.Category)))
	}
	return w
}

// Create inserts a new saving record.
func (r *PostgresSavingRepository) Create(ctx context.Context, s *models.Saving) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO savings (id, user_id, amount, type, category, title)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_on
	`, s.ID, s.UserID, s.Amount, s.Type, s.Category, s.Title).Scan(&s.CreatedOn)
	if err != nil {
		return fmt.Errorf("insert saving: %w", err)
	}
	return nil
}

// List returns one page of the user's savings matching the filters.
func (r *PostgresSavingRepository) List(ctx context.Context, userID string, f SavingFilters, sort string, limit, offset int) ([]models.Saving, error) {
	w := f.where(userID)
	order := parseSort(sort, savingSortFields, defaultSavingSort)
	query := fmt.Sprintf(`
		SELECT id, user_id, amount, type, category, title, created_on FROM savings
		%s ORDER BY %s LIMIT %s OFFSET %s`,
		w.clause(), order, w.arg(limit), w.arg(offset))

	rows, err := r.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}
	defer rows.Close()

	var savings []models.Saving
	for rows.Next() {
		var s models.Saving
		if err := rows.Scan(&s.ID, &s.UserID, &s.Amount, &s.Type, &s.Category, &s.Title, &s.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		savings = append(savings, s)
	}
	return savings, rows.Err()
}

// Count returns the total number of the user's savings matching the filters.
func (r *PostgresSavingRepository) Count(ctx context.Context, userID string, f SavingFilters) (int, error) {
	w := f.where(userID)
	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM savings "+w.clause(), w.args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count savings: %w", err)
	}
	return total, nil
}

// TotalsByType sums the full filtered set grouped by saving type.
func (r *PostgresSavingRepository) TotalsByType(ctx context.Context, userID string, f SavingFilters) (map[models.SavingType]float64, error) {
	w := f.where(userID)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT type, COALESCE(SUM(amount), 0) FROM savings "+w.clause()+" GROUP BY type",
		w.args...)
	if err != nil {
		return nil, fmt.Errorf("saving totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[models.SavingType]float64)
	for rows.Next() {
		var t models.SavingType
		var sum float64
		if err := rows.Scan(&t, &sum); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		totals[t] = sum
	}
	return totals, rows.Err()
}
