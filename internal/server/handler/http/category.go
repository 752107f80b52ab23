package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/middleware"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/go-chi/chi/v5"
)

// CategoryService defines the expense-category operations required by the
// HTTP handlers.
type CategoryService interface {
	Create(ctx context.Context, userID, name, icon string) (*models.ExpenseCategory, error)
	List(ctx context.Context, userID, search string) ([]models.ExpenseCategory, error)
	Update(ctx context.Context, userID, id, name string, icon *string) (*models.ExpenseCategory, error)
	Delete(ctx context.Context, userID, id string) error
}

// CategoryHandler handles expense-category requests.
type CategoryHandler struct {
	CategoryService CategoryService
	Responder       *Responder
}

// CategoryRequest is the JSON payload for creating a category. Field names
// mirror the ExpenseCategory response shape so clients can round-trip records.
type CategoryRequest struct {
	Name string `json:"expenseCategoryName"`
	Icon string `json:"expenseCategoryIcon"`
}

// CategoryUpdateRequest is the JSON payload for updating a category. A nil
// icon leaves the stored icon unchanged.
type CategoryUpdateRequest struct {
	Name string  `json:"expenseCategoryName"`
	Icon *string `json:"expenseCategoryIcon"`
}

// Create handles POST /api/expense-categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Responder.BadRequest(w, "Invalid request body")
		return
	}

	category, err := h.CategoryService.Create(r.Context(), user.ID, req.Name, req.Icon)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to create category")
		return
	}

	h.Responder.OK(w, http.StatusCreated, "Category created successfully",
		map[string]any{"category": category})
}

// List handles GET /api/expense-categories with optional name search.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	categories, err := h.CategoryService.List(r.Context(), user.ID, r.URL.Query().Get("search"))
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch categories")
		return
	}

	if categories == nil {
		categories = []models.ExpenseCategory{}
	}
	h.Responder.OK(w, http.StatusOK, "", map[string]any{
		"categories": categories,
		"total":      len(categories),
	})
}

// Update handles PUT /api/expense-categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req CategoryUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Responder.BadRequest(w, "Invalid request body")
		return
	}

	category, err := h.CategoryService.Update(r.Context(), user.ID, id, req.Name, req.Icon)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to update category")
		return
	}

	h.Responder.OK(w, http.StatusOK, "Category updated successfully",
		map[string]any{"category": category})
}

// Delete handles DELETE /api/expense-categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.CategoryService.Delete(r.Context(), user.ID, id); err != nil {
		h.Responder.Fail(w, err, "Failed to delete category")
		return
	}

	h.Responder.OK(w, http.StatusOK, "Category deleted successfully", nil)
}
