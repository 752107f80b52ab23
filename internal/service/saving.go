package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/repository"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
	"github.com/google/uuid"
)

// SavingRepository defines the persistence operations required by the
// saving record store.
type SavingRepository interface {
	Create(ctx context.Context, s *models.Saving) error
	List(ctx context.Context, userID string, f repository.SavingFilters, sort string, limit, offset int) ([]models.Saving, error)
	Count(ctx context.Context, userID string, f repository.SavingFilters) (int, error)
	TotalsByType(ctx context.Context, userID string, f repository.SavingFilters) (map[models.SavingType]float64, error)
}

// SavingService implements saving creation and querying.
type SavingService struct {
	repo SavingRepository
}

// NewSavingService constructs a SavingService using the given repository.
func NewSavingService(repo SavingRepository) *SavingService {
	return &SavingService{repo: repo}
}

// SavingInput is one user-submitted saving.
type SavingInput struct {
	Amount   float64
	Type     models.SavingType
	Category models.SavingCategory
	Title    string
}

// Create validates and inserts a single saving record.
func (s *SavingService) Create(ctx context.Context, userID string, in SavingInput) (*models.Saving, error) {
	var fieldErrs []string
	if in.Amount <= 0 {
		fieldErrs = append(fieldErrs, "amount is required and must be positive")
	}
	if !in.Type.Valid() {
		fieldErrs = append(fieldErrs, `type must be either "add" or "withdraw"`)
	}
	if !in.Category.Valid() {
		fieldErrs = append(fieldErrs, `category must be either "fixed" or "topup"`)
	}
	if strings.TrimSpace(in.Title) == "" {
		fieldErrs = append(fieldErrs, "title is required")
	}
	if len(fieldErrs) > 0 {
		return nil, serr.Validation("Amount, type, title, and category are required", fieldErrs...)
	}

	saving := &models.Saving{
		ID:       uuid.NewString(),
		UserID:   userID,
		Amount:   in.Amount,
		Type:     in.Type,
		Category: in.Category,
		Title:    strings.TrimSpace(in.Title),
	}
	if err := s.repo.Create(ctx, saving); err != nil {
		return nil, fmt.Errorf("create saving: %w", err)
	}
	return saving, nil
}

// SavingListRequest carries the saving list filters.
type SavingListRequest struct {
	PageParams
	StartDate *time.Time
	EndDate   *time.Time
	Type      models.SavingType
	Category  models.SavingCategory
	Sort      string
}

// SavingListResult is one page of savings with whole-set aggregates.
type SavingListResult struct {
	Savings    []models.Saving
	Pagination models.Pagination
	Stats      models.SavingStats
}

// List returns one page of the user's savings with pagination and direction
// totals computed over the full filtered set.
func (s *SavingService) List(ctx context.Context, userID string, req SavingListRequest) (*SavingListResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Type != "" && !req.Type.Valid() {
		return nil, serr.Validation(`type must be either "add" or "withdraw"`)
	}
	if req.Category != "" && !req.Category.Valid() {
		return nil, serr.Validation(`category must be either "fixed" or "topup"`)
	}

	f := repository.SavingFilters{
		DateFrom: req.StartDate,
		DateTo:   req.EndDate,
		Type:     req.Type,
		Category: req.Category,
	}

	savings, err := s.repo.List(ctx, userID, f, req.Sort, req.Limit, req.offset())
	if err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}

	total, err := s.repo.Count(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("count savings: %w", err)
	}

	totals, err := s.repo.TotalsByType(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("saving totals: %w", err)
	}

	return &SavingListResult{
		Savings:    savings,
		Pagination: paginate(req.PageParams, total),
		Stats:      savingStats(totals),
	}, nil
}

// savingStats buckets direction totals into the stats shape; the net is
// derived as added minus withdrawn.
func savingStats(totals map[models.SavingType]float64) models.SavingStats {
	var stats models.SavingStats
	for t, sum := range totals {
		switch t {
		case models.SavingAdd:
			stats.TotalAdded = sum
		case models.SavingWithdraw:
			stats.TotalWithdrawn = sum
		}
	}
	stats.NetSavings = stats.TotalAdded - stats.TotalWithdrawn
	return stats
}
