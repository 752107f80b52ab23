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

// EarningRepository defines the persistence operations required by the
// earning record store.
type EarningRepository interface {
	Create(ctx context.Context, e *models.Earning) error
	List(ctx context.Context, userID string, f repository.EarningFilters, sort string, limit, offset int) ([]models.Earning, error)
	Count(ctx context.Context, userID string, f repository.EarningFilters) (int, error)
	TotalsByType(ctx context.Context, userID string, f repository.EarningFilters) (map[models.EarningType]float64, error)
}

// EarningService implements earning creation and querying.
type EarningService struct {
	repo EarningRepository
}

// NewEarningService constructs an EarningService using the given repository.
func NewEarningService(repo EarningRepository) *EarningService {
	return &EarningService{repo: repo}
}

// EarningInput is one user-submitted earning.
type EarningInput struct {
	Amount float64
	Type   models.EarningType
	Title  string
}

// Create validates and inserts a single earning record.
func (s *EarningService) Create(ctx context.Context, userID string, in EarningInput) (*models.Earning, error) {
	var fieldErrs []string
	if in.Amount <= 0 {
		fieldErrs = append(fieldErrs, "amount is required and must be positive")
	}
	if !in.Type.Valid() {
		fieldErrs = append(fieldErrs, `type must be either "salary", "freelance", or "others"`)
	}
	if strings.TrimSpace(in.Title) == "" {
		fieldErrs = append(fieldErrs, "title is required")
	}
	if len(fieldErrs) > 0 {
		return nil, serr.Validation("Amount, type, and title are required", fieldErrs...)
	}

	earning := &models.Earning{
		ID:     uuid.NewString(),
		UserID: userID,
		Amount: in.Amount,
		Type:   in.Type,
		Title:  strings.TrimSpace(in.Title),
	}
	if err := s.repo.Create(ctx, earning); err != nil {
		return nil, fmt.Errorf("create earning: %w", err)
	}
	return earning, nil
}

// EarningListRequest carries the earning list filters.
type EarningListRequest struct {
	PageParams
	StartDate *time.Time
	EndDate   *time.Time
	Type      models.EarningType
	Sort      string
}

// EarningListResult is one page of earnings with whole-set aggregates.
type EarningListResult struct {
	Earnings   []models.Earning
	Pagination models.Pagination
	Stats      models.EarningStats
}

// List returns one page of the user's earnings with pagination and per-type
// totals computed over the full filtered set.
func (s *EarningService) List(ctx context.Context, userID string, req EarningListRequest) (*EarningListResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Type != "" && !req.Type.Valid() {
		return nil, serr.Validation(`type must be either "salary", "freelance", or "others"`)
	}

	f := repository.EarningFilters{
		DateFrom: req.StartDate,
		DateTo:   req.EndDate,
		Type:     req.Type,
	}

	earnings, err := s.repo.List(ctx, userID, f, req.Sort, req.Limit, req.offset())
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}

	total, err := s.repo.Count(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("count earnings: %w", err)
	}

	totals, err := s.repo.TotalsByType(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("earning totals: %w", err)
	}

	return &EarningListResult{
		Earnings:   earnings,
		Pagination: paginate(req.PageParams, total),
		Stats:      earningStats(totals),
	}, nil
}

// earningStats buckets per-type totals into the stats shape.
func earningStats(totals map[models.EarningType]float64) models.EarningStats {
	var stats models.EarningStats
	for t, sum := range totals {
		switch t {
		case models.EarningSalary:
			stats.BySalary = sum
		case models.EarningFreelance:
			stats.ByFreelance = sum
		case models.EarningOthers:
			stats.ByOthers = sum
		}
		stats.TotalEarnings += sum
	}
	return stats
}
