package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/repository"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
	"github.com/google/uuid"
)

// ExpenseRepository defines the persistence operations required by the
// expense record store.
type ExpenseRepository interface {
	CreateBatch(ctx context.Context, expenses []models.Expense) error
	List(ctx context.Context, userID string, f repository.ExpenseFilters, sort string, limit, offset int) ([]models.Expense, error)
	Count(ctx context.Context, userID string, f repository.ExpenseFilters) (int, error)
	Stats(ctx context.Context, userID string, f repository.ExpenseFilters) (models.ExpenseStats, error)
	Update(ctx context.Context, userID, id string, u repository.ExpenseUpdate) (*models.Expense, error)
	Delete(ctx context.Context, userID, id string) error
	DailyTotals(ctx context.Context, userID string, from, to time.Time) (map[int]models.DailyExpense, error)
	TopCategories(ctx context.Context, userID string, f repository.ExpenseFilters, limit int) ([]models.TopCategory, error)
}

// ExpenseService implements expense creation, querying, and analytics.
type ExpenseService struct {
	repo ExpenseRepository

	// now is injectable so month defaults are deterministic in tests.
	now func() time.Time
}

// NewExpenseService constructs an ExpenseService using the given repository.
func NewExpenseService(repo ExpenseRepository) *ExpenseService {
	return &ExpenseService{repo: repo, now: time.Now}
}

// ExpenseInput is one user-submitted expense.
type ExpenseInput struct {
	TypeID         string
	CategoryID     string
	Amount         float64
	Description    string
	ExpenseDate    time.Time
	NeedOrWant     models.NeedOrWant
	CouldHaveSaved float64
}

// validate reports the input's missing or malformed fields.
func (in ExpenseInput) validate() []string {
	var errs []string
	if in.Amount <= 0 {
		errs = append(errs, "amount is required and must be positive")
	}
	if in.CategoryID == "" {
		errs = append(errs, "expenseCategory is required")
	}
	if in.TypeID == "" {
		errs = append(errs, "expenseTypeId is required")
	}
	if !in.NeedOrWant.Valid() {
		errs = append(errs, `need_or_want must be either "need" or "want"`)
	}
	if in.CouldHaveSaved < 0 {
		errs = append(errs, "could_have_saved cannot be negative")
	}
	return errs
}

// CreateBatch validates and inserts the submitted expenses as one unit.
// The first invalid entry fails the whole batch, citing its index.
func (s *ExpenseService) CreateBatch(ctx context.Context, userID string, inputs []ExpenseInput) ([]models.Expense, error) {
	if len(inputs) == 0 {
		return nil, serr.Validation("Expenses array is required and must not be empty")
	}

	expenses := make([]models.Expense, 0, len(inputs))
	for i, in := range inputs {
		if fieldErrs := in.validate(); len(fieldErrs) > 0 {
			return nil, serr.Validation(
				fmt.Sprintf("Expense at index %d is missing required fields", i), fieldErrs...)
		}

		date := in.ExpenseDate
		if date.IsZero() {
			date = s.now()
		}

		expenses = append(expenses, models.Expense{
			ID:             uuid.NewString(),
			UserID:         userID,
			TypeID:         in.TypeID,
			CategoryID:     in.CategoryID,
			Amount:         in.Amount,
			Description:    in.Description,
			ExpenseDate:    date,
			NeedOrWant:     in.NeedOrWant,
			CouldHaveSaved: in.CouldHaveSaved,
		})
	}

	if err := s.repo.CreateBatch(ctx, expenses); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}
	return expenses, nil
}

// ExpenseListRequest carries the list filters. Month and year, when both set,
// take precedence over the explicit start/end range.
type ExpenseListRequest struct {
	PageParams
	StartDate   *time.Time
	EndDate     *time.Time
	Month       int
	Year        int
	CategoryIDs []string
	TypeID      string
	NeedOrWant  models.NeedOrWant
	Sort        string
}

// ExpenseListResult is one page of expenses with whole-set aggregates.
type ExpenseListResult struct {
	Expenses   []models.Expense
	Pagination models.Pagination
	Stats      models.ExpenseStats
}

// filters resolves the request's date precedence into repository filters.
func (r ExpenseListRequest) filters() (repository.ExpenseFilters, error) {
	if r.NeedOrWant != "" && !r.NeedOrWant.Valid() {
		return repository.ExpenseFilters{}, serr.Validation(`need_or_want must be either "need" or "want"`)
	}

	from, to, err := dateWindow(r.Month, r.Year, r.StartDate, r.EndDate)
	if err != nil {
		return repository.ExpenseFilters{}, err
	}

	return repository.ExpenseFilters{
		DateFrom:    from,
		DateTo:      to,
		CategoryIDs: r.CategoryIDs,
		TypeID:      r.TypeID,
		NeedOrWant:  r.NeedOrWant,
	}, nil
}

// List returns one page of the user's expenses with pagination and stats
// computed over the full filtered set.
func (s *ExpenseService) List(ctx context.Context, userID string, req ExpenseListRequest) (*ExpenseListResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	f, err := req.filters()
	if err != nil {
		return nil, err
	}

	expenses, err := s.repo.List(ctx, userID, f, req.Sort, req.Limit, req.offset())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	total, err := s.repo.Count(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("count expenses: %w", err)
	}

	stats, err := s.repo.Stats(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("expense stats: %w", err)
	}

	return &ExpenseListResult{
		Expenses:   expenses,
		Pagination: paginate(req.PageParams, total),
		Stats:      stats,
	}, nil
}

// ExpenseUpdate carries the fields of a partial expense update. Nil fields
// are left unchanged.
type ExpenseUpdate struct {
	TypeID         *string
	CategoryID     *string
	Amount         *float64
	Description    *string
	ExpenseDate    *time.Time
	NeedOrWant     *models.NeedOrWant
	CouldHaveSaved *float64
}

// validate reports the malformed fields among those provided.
func (u ExpenseUpdate) validate() []string {
	var errs []string
	if u.Amount != nil && *u.Amount <= 0 {
		errs = append(errs, "amount must be positive")
	}
	if u.CategoryID != nil && *u.CategoryID == "" {
		errs = append(errs, "expenseCategory cannot be empty")
	}
	if u.TypeID != nil && *u.TypeID == "" {
		errs = append(errs, "expenseTypeId cannot be empty")
	}
	if u.NeedOrWant != nil && !u.NeedOrWant.Valid() {
		errs = append(errs, `need_or_want must be either "need" or "want"`)
	}
	if u.CouldHaveSaved != nil && *u.CouldHaveSaved < 0 {
		errs = append(errs, "could_have_saved cannot be negative")
	}
	return errs
}

// Update applies the provided fields to a single expense owned by the user.
// Fields absent from the request keep their stored values.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, u ExpenseUpdate) (*models.Expense, error) {
	if fieldErrs := u.validate(); len(fieldErrs) > 0 {
		return nil, serr.Validation("Validation error", fieldErrs...)
	}

	updated, err := s.repo.Update(ctx, userID, id, repository.ExpenseUpdate{
		TypeID:         u.TypeID,
		CategoryID:     u.CategoryID,
		Amount:         u.Amount,
		Description:    u.Description,
		ExpenseDate:    u.ExpenseDate,
		NeedOrWant:     u.NeedOrWant,
		CouldHaveSaved: u.CouldHaveSaved,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, serr.NotFound("Expense not found or you do not have permission to update it")
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return updated, nil
}

// Delete removes a single expense owned by the user.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return serr.NotFound("Expense not found or you do not have permission to delete it")
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// DailyResult is the zero-filled per-day series for one month.
type DailyResult struct {
	Month         int
	Year          int
	DailyExpenses []models.DailyExpense
}

// Daily aggregates the user's expenses per day of the given month, with every
// day of the month present in the series. Month and year each default to the
// current one when omitted.
func (s *ExpenseService) Daily(ctx context.Context, userID string, month, year int) (*DailyResult, error) {
	now := s.now().UTC()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	from, to, err := monthWindow(month, year)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.DailyTotals(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}

	daysInMonth := to.Day()
	series := make([]models.DailyExpense, daysInMonth)
	for i := range series {
		day := i + 1
		series[i] = models.DailyExpense{Day: day}
		if d, ok := totals[day]; ok {
			series[i] = d
		}
	}

	return &DailyResult{Month: month, Year: year, DailyExpenses: series}, nil
}

// defaultTopCategoriesLimit bounds the top-categories ranking when the caller
// does not supply a limit.
const defaultTopCategoriesLimit = 10

// TopCategories ranks the user's categories by total spend, optionally within
// one calendar month.
func (s *ExpenseService) TopCategories(ctx context.Context, userID string, month, year, limit int) ([]models.TopCategory, error) {
	if limit <= 0 {
		limit = defaultTopCategoriesLimit
	}

	var f repository.ExpenseFilters
	if month != 0 && year != 0 {
		from, to, err := monthWindow(month, year)
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = &from, &to
	}

	top, err := s.repo.TopCategories(ctx, userID, f, limit)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	return top, nil
}

// CategoryTransactionsResult is one page of a single category's expenses with
// whole-set aggregates.
type CategoryTransactionsResult struct {
	Transactions []models.Expense
	Pagination   models.Pagination
	Stats        models.CategoryStats
}

// CategoryTransactions lists one category's expenses, optionally within one
// calendar month, with pagination and stats over the full filtered set.
func (s *ExpenseService) CategoryTransactions(ctx context.Context, userID, categoryID string, month, year int, p PageParams) (*CategoryTransactionsResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	f := repository.ExpenseFilters{CategoryIDs: []string{categoryID}}
	if month != 0 && year != 0 {
		from, to, err := monthWindow(month, year)
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = &from, &to
	}

	transactions, err := s.repo.List(ctx, userID, f, "", p.Limit, p.offset())
	if err != nil {
		return nil, fmt.Errorf("list category transactions: %w", err)
	}

	total, err := s.repo.Count(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("count category transactions: %w", err)
	}

	stats, err := s.repo.Stats(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}

	return &CategoryTransactionsResult{
		Transactions: transactions,
		Pagination:   paginate(p, total),
		Stats:        models.CategoryStats{ExpenseStats: stats, TransactionCount: total},
	}, nil
}
