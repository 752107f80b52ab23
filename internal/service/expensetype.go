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

// TypeRepository defines the persistence operations required by the
// expense-type lookup store.
type TypeRepository interface {
	Create(ctx context.Context, t *models.ExpenseType) error
	List(ctx context.Context, userID, search string) ([]models.ExpenseType, error)
	Get(ctx context.Context, userID, id string) (*models.ExpenseType, error)
	ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error)
	Update(ctx context.Context, t *models.ExpenseType) error
	Delete(ctx context.Context, userID, id string) error
	RefCount(ctx context.Context, userID, id string) (int, error)
}

// TypeService implements the expense-type CRUD with per-user name uniqueness.
type TypeService struct {
	repo TypeRepository
}

// NewTypeService constructs a TypeService using the given repository.
func NewTypeService(repo TypeRepository) *TypeService {
	return &TypeService{repo: repo}
}

// Create inserts an expense type after an exact-name, case-sensitive
// collision check scoped to the owning user.
func (s *TypeService) Create(ctx context.Context, userID, name string) (*models.ExpenseType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, serr.Validation("Expense type name is required")
	}

	exists, err := s.repo.ExistsByName(ctx, userID, name, "")
	if err != nil {
		return nil, fmt.Errorf("type name lookup: %w", err)
	}
	if exists {
		return nil, serr.Validation("Type with this name already exists")
	}

	typ := &models.ExpenseType{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	if err := s.repo.Create(ctx, typ); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, serr.Validation("Type with this name already exists")
		}
		return nil, fmt.Errorf("create type: %w", err)
	}
	return typ, nil
}

// List returns the user's expense types, optionally narrowed by a name search.
func (s *TypeService) List(ctx context.Context, userID, search string) ([]models.ExpenseType, error) {
	types, err := s.repo.List(ctx, userID, search)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	return types, nil
}

// Update renames an expense type. The name collision is re-checked only when
// the name actually changes, excluding the record's own id.
func (s *TypeService) Update(ctx context.Context, userID, id, name string) (*models.ExpenseType, error) {
	typ, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, serr.NotFound("Type not found or you do not have permission to update it")
		}
		return nil, fmt.Errorf("get type: %w", err)
	}

	name = strings.TrimSpace(name)
	if name != "" && name != typ.Name {
		exists, err := s.repo.ExistsByName(ctx, userID, name, id)
		if err != nil {
			return nil, fmt.Errorf("type name lookup: %w", err)
		}
		if exists {
			return nil, serr.Validation("Type with this name already exists")
		}
		typ.Name = name
	}

	if err := s.repo.Update(ctx, typ); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, serr.Validation("Type with this name already exists")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, serr.NotFound("Type not found or you do not have permission to update it")
		}
		return nil, fmt.Errorf("update type: %w", err)
	}
	return typ, nil
}

// Delete removes an expense type unless expenses still reference it; dangling
// references are rejected rather than silently orphaned.
func (s *TypeService) Delete(ctx context.Context, userID, id string) error {
	refs, err := s.repo.RefCount(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("type ref count: %w", err)
	}
	if refs > 0 {
		return serr.New(nil, http.StatusBadRequest,
			fmt.Sprintf("Type is still referenced by %d expense(s)", refs))
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return serr.NotFound("Type not found or you do not have permission to delete it")
		}
		return fmt.Errorf("delete type: %w", err)
	}
	return nil
}
