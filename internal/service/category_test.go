package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/repository"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
)

type mockCategoryRepo struct {
	CreateFunc       func(ctx context.Context, c *models.ExpenseCategory) error
	ListFunc         func(ctx context.Context, userID, search string) ([]models.ExpenseCategory, error)
	GetFunc          func(ctx context.Context, userID, id string) (*models.ExpenseCategory, error)
	ExistsByNameFunc func(ctx context.Context, userID, name, excludeID string) (bool, error)
	UpdateFunc       func(ctx context.Context, c *models.ExpenseCategory) error
	DeleteFunc       func(ctx context.Context, userID, id string) error
	RefCountFunc     func(ctx context.Context, userID, id string) (int, error)
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *models.ExpenseCategory) error {
	return m.CreateFunc(ctx, c)
}
func (m *mockCategoryRepo) List(ctx context.Context, userID, search string) ([]models.ExpenseCategory, error) {
	return m.ListFunc(ctx, userID, search)
}
func (m *mockCategoryRepo) Get(ctx context.Context, userID, id string) (*models.ExpenseCategory, error) {
	return m.GetFunc(ctx, userID, id)
}
func (m *mockCategoryRepo) ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	return m.ExistsByNameFunc(ctx, userID, name, excludeID)
}
func (m *mockCategoryRepo) Update(ctx context.Context, c *models.ExpenseCategory) error {
	return m.UpdateFunc(ctx, c)
}
func (m *mockCategoryRepo) Delete(ctx context.Context, userID, id string) error {
	return m.DeleteFunc(ctx, userID, id)
}
func (m *mockCategoryRepo) RefCount(ctx context.Context, userID, id string) (int, error) {
	return m.RefCountFunc(ctx, userID, id)
}

func TestCategoryCreate_TrimsAndRequiresName(t *testing.T) {
	var created *models.ExpenseCategory
	svc := NewCategoryService(&mockCategoryRepo{
		ExistsByNameFunc: func(ctx context.Context, userID, name, excludeID string) (bool, error) {
			return false, nil
		},
		CreateFunc: func(ctx context.Context, c *models.ExpenseCategory) error {
			created = c
			return nil
		},
	})

	if _, err := svc.Create(context.Background(), "u1", "   ", "🍕"); err == nil {
		t.Error("expected error for blank name")
	}

	category, err := svc.Create(context.Background(), "u1", "  Food  ", "🍕")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Name != "Food" || category.Name != "Food" {
		t.Errorf("Name = %q; want trimmed %q", created.Name, "Food")
	}
	if created.Icon != "🍕" {
		t.Errorf("Icon = %q", created.Icon)
	}
}

func TestCategoryCreate_NameCollision(t *testing.T) {
	svc := NewCategoryService(&mockCategoryRepo{
		ExistsByNameFunc: func(ctx context.Context, userID, name, excludeID string) (bool, error) {
			return true, nil
		},
	})

	_, err := svc.Create(context.Background(), "u1", "Food", "")
	se := serr.From(err)
	if se == nil || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("Create error = %v; want 400 ServiceError", err)
	}
	if se.Msg != "Category with this name already exists" {
		t.Errorf("Msg = %q", se.Msg)
	}
}

func TestCategoryUpdate_SkipsCollisionCheckWhenNameUnchanged(t *testing.T) {
	existing := &models.ExpenseCategory{ID: "c1", UserID: "u1", Name: "Food", Icon: "🍕"}
	svc := NewCategoryService(&mockCategoryRepo{
		GetFunc: func(ctx context.Context, userID, id string) (*models.ExpenseCategory, error) {
			return existing, nil
		},
		ExistsByNameFunc: func(ctx context.Context, userID, name, excludeID string) (bool, error) {
			t.Error("collision check must be skipped when the name is unchanged")
			return false, nil
		},
		UpdateFunc: func(ctx context.Context, c *models.ExpenseCategory) error {
			return nil
		},
	})

	newIcon := "🍔"
	updated, err := svc.Update(context.Background(), "u1", "c1", "Food", &newIcon)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Icon != "🍔" {
		t.Errorf("Icon = %q; want replaced", updated.Icon)
	}
	if updated.Name != "Food" {
		t.Errorf("Name = %q; want unchanged", updated.Name)
	}
}

func TestCategoryUpdate_NilIconKeepsExisting(t *testing.T) {
	existing := &models.ExpenseCategory{ID: "c1", UserID: "u1", Name: "Food", Icon: "🍕"}
	svc := NewCategoryService(&mockCategoryRepo{
		GetFunc: func(ctx context.Context, userID, id string) (*models.ExpenseCategory, error) {
			return existing, nil
		},
		ExistsByNameFunc: func(ctx context.Context, userID, name, excludeID string) (bool, error) {
			if excludeID != "c1" {
				t.Errorf("excludeID = %q; want the record's own id", excludeID)
			}
			return false, nil
		},
		UpdateFunc: func(ctx context.Context, c *models.ExpenseCategory) error {
			return nil
		},
	})

	updated, err := svc.Update(context.Background(), "u1", "c1", "Groceries", nil)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Groceries" {
		t.Errorf("Name = %q; want renamed", updated.Name)
	}
	if updated.Icon != "🍕" {
		t.Errorf("Icon = %q; want kept", updated.Icon)
	}
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	svc := NewCategoryService(&mockCategoryRepo{
		GetFunc: func(ctx context.Context, userID, id string) (*models.ExpenseCategory, error) {
			return nil, repository.ErrNotFound
		},
	})

	_, err := svc.Update(context.Background(), "u1", "missing", "Food", nil)
	se := serr.From(err)
	if se == nil || se.StatusCode != http.StatusNotFound {
		t.Fatalf("Update error = %v; want 404 ServiceError", err)
	}
}

func TestCategoryDelete_BlockedWhileReferenced(t *testing.T) {
	svc := NewCategoryService(&mockCategoryRepo{
		RefCountFunc: func(ctx context.Context, userID, id string) (int, error) {
			return 4, nil
		},
		DeleteFunc: func(ctx context.Context, userID, id string) error {
			t.Error("Delete must not run while expenses still reference the category")
			return nil
		},
	})

	err := svc.Delete(context.Background(), "u1", "c1")
	se := serr.From(err)
	if se == nil || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("Delete error = %v; want 400 ServiceError", err)
	}
	if se.Msg != "Category is still referenced by 4 expense(s)" {
		t.Errorf("Msg = %q", se.Msg)
	}
}

func TestCategoryDelete_Unreferenced(t *testing.T) {
	deleted := false
	svc := NewCategoryService(&mockCategoryRepo{
		RefCountFunc: func(ctx context.Context, userID, id string) (int, error) {
			return 0, nil
		},
		DeleteFunc: func(ctx context.Context, userID, id string) error {
			deleted = true
			return nil
		},
	})

	if err := svc.Delete(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !deleted {
		t.Error("expected Delete to reach the repository")
	}
}
