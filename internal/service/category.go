package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/repository"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
	"github.com/google/uuid"
)

// CategoryRepository defines the persistence operations required by the
// expense-category lookup store.
type CategoryRepository interface {
	Create(ctx context.Context, c *models.ExpenseCategory) error
	List(ctx context.Context, userID, search string) ([]models.ExpenseCategory, error)
	Get(ctx context.Context, userID, id string) (*models.ExpenseCategory, error)
	ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error)
	Update(ctx context.Context, c *models.ExpenseCategory) error
	Delete(ctx context.Context, userID, id string) error
	RefCount(ctx context.Context, userID, id string) (int, error)
}

// CategoryService implements the expense-category CRUD with per-user name
// uniqueness.
type CategoryService struct {
	repo CategoryRepository
}

// NewCategoryService constructs a CategoryService using the given repository.
func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// Create inserts a category after an exact-name, case-sensitive collision
// check scoped to the owning user.
func (s *CategoryService) Create(ctx context.Context, userID, name, icon string) (*models.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, serr.Validation("Expense category name is required")
	}

	exists, err := s.repo.ExistsByName(ctx, userID, name, "")
	if err != nil {
		return nil, fmt.Errorf("category name lookup: %w", err)
	}
	if exists {
		return nil, serr.Validation("Category with this name already exists")
	}

	category := &models.ExpenseCategory{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Icon:   icon,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, serr.Validation("Category with this name already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// List returns the user's categories, optionally narrowed by a name search.
func (s *CategoryService) List(ctx context.Context, userID, search string) ([]models.ExpenseCategory, error) {
	categories, err := s.repo.List(ctx, userID, search)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Update renames a category and/or replaces its icon. The name collision is
// re-checked only when the name actually changes, excluding the record's own
// id. A nil icon leaves the existing icon untouched.
func (s *CategoryService) Update(ctx context.Context, userID, id, name string, icon *string) (*models.ExpenseCategory, error) {
	category, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, serr.NotFound("Category not found or you do not have permission to update it")
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	name = strings.TrimSpace(name)
	if name != "" && name != category.Name {
		exists, err := s.repo.ExistsByName(ctx, userID, name, id)
		if err != nil {
			return nil, fmt.Errorf("category name lookup: %w", err)
		}
		if exists {
			return nil, serr.Validation("Category with this name already exists")
		}
		category.Name = name
	}
	if icon != nil {
		category.Icon = *icon
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, serr.Validation("Category with this name already exists")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, serr.NotFound("Category not found or you do not have permission to update it")
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// Delete removes a category unless expenses still reference it; dangling
// references are rejected rather than silently orphaned.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	refs, err := s.repo.RefCount(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("category ref count: %w", err)
	}
	if refs > 0 {
		return serr.New(nil, http.StatusBadRequest,
			fmt.Sprintf("Category is still referenced by %d expense(s)", refs))
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return serr.NotFound("Category not found or you do not have permission to delete it")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
