package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/repository"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
)

type mockEarningRepo struct {
	CreateFunc       func(ctx context.Context, e *models.Earning) error
	ListFunc         func(ctx context.Context, userID string, f repository.EarningFilters, sort string, limit, offset int) ([]models.Earning, error)
	CountFunc        func(ctx context.Context, userID string, f repository.EarningFilters) (int, error)
	TotalsByTypeFunc func(ctx context.Context, userID string, f repository.EarningFilters) (map[models.EarningType]float64, error)
}

func (m *mockEarningRepo) Create(ctx context.Context, e *models.Earning) error {
	return m.CreateFunc(ctx, e)
}
func (m *mockEarningRepo) List(ctx context.Context, userID string, f repository.EarningFilters, sort string, limit, offset int) ([]models.Earning, error) {
	return m.ListFunc(ctx, userID, f, sort, limit, offset)
}
func (m *mockEarningRepo) Count(ctx context.Context, userID string, f repository.EarningFilters) (int, error) {
	return m.CountFunc(ctx, userID, f)
}
func (m *mockEarningRepo) TotalsByType(ctx context.Context, userID string, f repository.EarningFilters) (map[models.EarningType]float64, error) {
	return m.TotalsByTypeFunc(ctx, userID, f)
}

func TestEarningCreate_Validation(t *testing.T) {
	svc := NewEarningService(&mockEarningRepo{})

	tests := []struct {
		name  string
		input EarningInput
	}{
		{"zero amount", EarningInput{Type: models.EarningSalary, Title: "June pay"}},
		{"bad type", EarningInput{Amount: 100, Type: "bonus", Title: "June pay"}},
		{"blank title", EarningInput{Amount: 100, Type: models.EarningSalary, Title: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "u1", tt.input)
			se := serr.From(err)
			if se == nil || se.StatusCode != http.StatusBadRequest {
				t.Fatalf("Create error = %v; want 400 ServiceError", err)
			}
			if se.Msg != "Amount, type, and title are required" {
				t.Errorf("Msg = %q", se.Msg)
			}
			if len(se.Errors) == 0 {
				t.Error("expected field errors")
			}
		})
	}
}

func TestEarningCreate_TrimsTitle(t *testing.T) {
	var created *models.Earning
	svc := NewEarningService(&mockEarningRepo{
		CreateFunc: func(ctx context.Context, e *models.Earning) error {
			created = e
			return nil
		},
	})

	earning, err := svc.Create(context.Background(), "u1", EarningInput{
		Amount: 5000,
		Type:   models.EarningFreelance,
		Title:  "  Logo design  ",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Title != "Logo design" || earning.Title != "Logo design" {
		t.Errorf("Title = %q; want trimmed", created.Title)
	}
	if created.UserID != "u1" || created.ID == "" {
		t.Errorf("owner/id not stamped: %+v", created)
	}
}

func TestEarningList_StatsBucketedByType(t *testing.T) {
	svc := NewEarningService(&mockEarningRepo{
		ListFunc: func(ctx context.Context, userID string, f repository.EarningFilters, sort string, limit, offset int) ([]models.Earning, error) {
			return nil, nil
		},
		CountFunc: func(ctx context.Context, userID string, f repository.EarningFilters) (int, error) {
			return 3, nil
		},
		TotalsByTypeFunc: func(ctx context.Context, userID string, f repository.EarningFilters) (map[models.EarningType]float64, error) {
			return map[models.EarningType]float64{
				models.EarningSalary:    4000,
				models.EarningFreelance: 1500,
			}, nil
		},
	})

	result, err := svc.List(context.Background(), "u1", EarningListRequest{
		PageParams: PageParams{Page: 1, Limit: 10},
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Stats.BySalary != 4000 || result.Stats.ByFreelance != 1500 || result.Stats.ByOthers != 0 {
		t.Errorf("Stats = %+v; want salary 4000, freelance 1500, others 0", result.Stats)
	}
	if result.Stats.TotalEarnings != 5500 {
		t.Errorf("TotalEarnings = %v; want 5500", result.Stats.TotalEarnings)
	}
	if result.Earnings == nil && result.Pagination.TotalItems != 3 {
		t.Errorf("Pagination = %+v", result.Pagination)
	}
}

func TestEarningList_RejectsUnknownTypeFilter(t *testing.T) {
	svc := NewEarningService(&mockEarningRepo{})

	_, err := svc.List(context.Background(), "u1", EarningListRequest{
		PageParams: PageParams{Page: 1, Limit: 10},
		Type:       "dividends",
	})
	se := serr.From(err)
	if se == nil || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("List error = %v; want 400 ServiceError", err)
	}
}
