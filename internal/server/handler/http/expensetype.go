package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/middleware"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/go-chi/chi/v5"
)

// TypeService defines the expense-type operations required by the HTTP
// handlers.
type TypeService interface {
	Create(ctx context.Context, userID, name string) (*models.ExpenseType, error)
	List(ctx context.Context, userID, search string) ([]models.ExpenseType, error)
	Update(ctx context.Context, userID, id, name string) (*models.ExpenseType, error)
	Delete(ctx context.Context, userID, id string) error
}

// TypeHandler handles expense-type requests.
type TypeHandler struct {
	TypeService TypeService
	Responder   *Responder
}

// TypeRequest is the JSON payload for creating or updating an expense type.
// The field name mirrors the ExpenseType response shape.
type TypeRequest struct {
	Name string `json:"expenseTypeName"`
}

// Create handles POST /api/expense-types.
func (h *TypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req TypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Responder.BadRequest(w, "Invalid request body")
		return
	}

	expenseType, err := h.TypeService.Create(r.Context(), user.ID, req.Name)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to create expense type")
		return
	}

	h.Responder.OK(w, http.StatusCreated, "Expense type created successfully",
		map[string]any{"expenseType": expenseType})
}

// List handles GET /api/expense-types with optional name search.
func (h *TypeHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	types, err := h.TypeService.List(r.Context(), user.ID, r.URL.Query().Get("search"))
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch expense types")
		return
	}

	if types == nil {
		types = []models.ExpenseType{}
	}
	h.Responder.OK(w, http.StatusOK, "", map[string]any{
		"expenseTypes": types,
		"total":        len(types),
	})
}

// Update handles PUT /api/expense-types/{id}.
func (h *TypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req TypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Responder.BadRequest(w, "Invalid request body")
		return
	}

	expenseType, err := h.TypeService.Update(r.Context(), user.ID, id, req.Name)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to update expense type")
		return
	}

	h.Responder.OK(w, http.StatusOK, "Expense type updated successfully",
		map[string]any{"expenseType": expenseType})
}

// Delete handles DELETE /api/expense-types/{id}.
func (h *TypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.TypeService.Delete(r.Context(), user.ID, id); err != nil {
		h.Responder.Fail(w, err, "Failed to delete expense type")
		return
	}

	h.Responder.OK(w, http.StatusOK, "Expense type deleted successfully", nil)
}
