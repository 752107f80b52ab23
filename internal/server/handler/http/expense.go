package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/middleware"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// ExpenseService defines the expense operations required by the HTTP handlers.
type ExpenseService interface {
	CreateBatch(ctx context.Context, userID string, inputs []service.ExpenseInput) ([]models.Expense, error)
	List(ctx context.Context, userID string, req service.ExpenseListRequest) (*service.ExpenseListResult, error)
	Update(ctx context.Context, userID, id string, u service.ExpenseUpdate) (*models.Expense, error)
	Delete(ctx context.Context, userID, id string) error
	Daily(ctx context.Context, userID string, month, year int) (*service.DailyResult, error)
	TopCategories(ctx context.Context, userID string, month, year, limit int) ([]models.TopCategory, error)
	CategoryTransactions(ctx context.Context, userID, categoryID string, month, year int, p service.PageParams) (*service.CategoryTransactionsResult, error)
}

// ExpenseHandler handles expense CRUD and analytics requests.
type ExpenseHandler struct {
	// ExpenseService performs the underlying expense operations.
	ExpenseService ExpenseService
	// Responder writes the JSON envelopes.
	Responder *Responder
}

// expensePayload is one expense in a create request body.
type expensePayload struct {
	TypeID         string            `json:"expenseTypeId"`
	CategoryID     string            `json:"expenseCategory"`
	Amount         float64           `json:"amount"`
	Description    string            `json:"description"`
	ExpenseDate    *time.Time        `json:"expense_date"`
	NeedOrWant     models.NeedOrWant `json:"need_or_want"`
	CouldHaveSaved float64           `json:"could_have_saved"`
}

func (p expensePayload) input() service.ExpenseInput {
	in := service.ExpenseInput{
		TypeID:         p.TypeID,
		CategoryID:     p.CategoryID,
		Amount:         p.Amount,
		Description:    p.Description,
		NeedOrWant:     p.NeedOrWant,
		CouldHaveSaved: p.CouldHaveSaved,
	}
	if p.ExpenseDate != nil {
		in.ExpenseDate = *p.ExpenseDate
	}
	return in
}

// expenseUpdatePayload is the partial update body. Absent fields keep the
// stored values.
type expenseUpdatePayload struct {
	TypeID         *string            `json:"expenseTypeId"`
	CategoryID     *string            `json:"expenseCategory"`
	Amount         *float64           `json:"amount"`
	Description    *string            `json:"description"`
	ExpenseDate    *time.Time         `json:"expense_date"`
	NeedOrWant     *models.NeedOrWant `json:"need_or_want"`
	CouldHaveSaved *float64           `json:"could_have_saved"`
}

func (p expenseUpdatePayload) update() service.ExpenseUpdate {
	return service.ExpenseUpdate{
		TypeID:         p.TypeID,
		CategoryID:     p.CategoryID,
		Amount:         p.Amount,
		Description:    p.Description,
		ExpenseDate:    p.ExpenseDate,
		NeedOrWant:     p.NeedOrWant,
		CouldHaveSaved: p.CouldHaveSaved,
	}
}

// CreateRequest is the JSON payload for POST /api/expenses.
type CreateRequest struct {
	Expenses []expensePayload `json:"expenses"`
}

// Create handles POST /api/expenses, inserting the submitted batch.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Responder.BadRequest(w, "Invalid request body")
		return
	}

	inputs := make([]service.ExpenseInput, 0, len(req.Expenses))
	for _, p := range req.Expenses {
		inputs = append(inputs, p.input())
	}

	created, err := h.ExpenseService.CreateBatch(r.Context(), user.ID, inputs)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to create expenses")
		return
	}

	h.Responder.OK(w, http.StatusCreated,
		fmt.Sprintf("%d expense(s) created successfully", len(created)),
		map[string]any{"expenses": created})
}

// List handles GET /api/expenses with pagination, filters, sorting, and stats.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	req, err := h.listRequest(r)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch expenses")
		return
	}

	result, err := h.ExpenseService.List(r.Context(), user.ID, *req)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch expenses")
		return
	}

	expenses := result.Expenses
	if expenses == nil {
		expenses = []models.Expense{}
	}
	h.Responder.OK(w, http.StatusOK, "", map[string]any{
		"expenses":   expenses,
		"pagination": result.Pagination,
		"stats":      result.Stats,
	})
}

// listRequest parses the list query parameters into a typed request.
func (h *ExpenseHandler) listRequest(r *http.Request) (*service.ExpenseListRequest, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return nil, err
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		return nil, err
	}
	month, err := queryInt(r, "month", 0)
	if err != nil {
		return nil, err
	}
	year, err := queryInt(r, "year", 0)
	if err != nil {
		return nil, err
	}
	start, err := queryDate(r, "startDate")
	if err != nil {
		return nil, err
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		return nil, err
	}

	return &service.ExpenseListRequest{
		PageParams:  service.PageParams{Page: page, Limit: limit},
		StartDate:   start,
		EndDate:     end,
		Month:       month,
		Year:        year,
		CategoryIDs: queryList(r, "categories"),
		TypeID:      r.URL.Query().Get("expenseType"),
		NeedOrWant:  models.NeedOrWant(r.URL.Query().Get("need_or_want")),
		Sort:        r.URL.Query().Get("sort"),
	}, nil
}

// Update handles PUT /api/expenses/{id}, owner-scoped.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var p expenseUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.Responder.BadRequest(w, "Invalid request body")
		return
	}

	updated, err := h.ExpenseService.Update(r.Context(), user.ID, id, p.update())
	if err != nil {
		h.Responder.Fail(w, err, "Failed to update expense")
		return
	}

	h.Responder.OK(w, http.StatusOK, "Expense updated successfully",
		map[string]any{"expense": updated})
}

// Delete handles DELETE /api/expenses/{id}, owner-scoped.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.ExpenseService.Delete(r.Context(), user.ID, id); err != nil {
		h.Responder.Fail(w, err, "Failed to delete expense")
		return
	}

	h.Responder.OK(w, http.StatusOK, "Expense deleted successfully", nil)
}

// Daily handles GET /api/expenses/analytics/daily, returning the zero-filled
// per-day series for the requested (or current) month.
func (h *ExpenseHandler) Daily(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	month, err := queryInt(r, "month", 0)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch daily expenses")
		return
	}
	year, err := queryInt(r, "year", 0)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch daily expenses")
		return
	}

	result, err := h.ExpenseService.Daily(r.Context(), user.ID, month, year)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch daily expenses")
		return
	}

	h.Responder.OK(w, http.StatusOK, "", map[string]any{
		"month":         result.Month,
		"year":          result.Year,
		"dailyExpenses": result.DailyExpenses,
	})
}

// TopCategories handles GET /api/expenses/analytics/top-categories.
func (h *ExpenseHandler) TopCategories(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	month, err := queryInt(r, "month", 0)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch top categories")
		return
	}
	year, err := queryInt(r, "year", 0)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch top categories")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch top categories")
		return
	}

	top, err := h.ExpenseService.TopCategories(r.Context(), user.ID, month, year, limit)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch top categories")
		return
	}

	if top == nil {
		top = []models.TopCategory{}
	}
	h.Responder.OK(w, http.StatusOK, "", map[string]any{"topCategories": top})
}

// CategoryTransactions handles
// GET /api/expenses/analytics/category-transactions/{categoryId}.
func (h *ExpenseHandler) CategoryTransactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	categoryID := chi.URLParam(r, "categoryId")

	month, err := queryInt(r, "month", 0)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch category transactions")
		return
	}
	year, err := queryInt(r, "year", 0)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch category transactions")
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch category transactions")
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch category transactions")
		return
	}

	result, err := h.ExpenseService.CategoryTransactions(r.Context(), user.ID, categoryID,
		month, year, service.PageParams{Page: page, Limit: limit})
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch category transactions")
		return
	}

	transactions := result.Transactions
	if transactions == nil {
		transactions = []models.Expense{}
	}
	h.Responder.OK(w, http.StatusOK, "", map[string]any{
		"transactions": transactions,
		"pagination":   result.Pagination,
		"stats":        result.Stats,
	})
}
