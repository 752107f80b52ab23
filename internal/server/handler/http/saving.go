package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/middleware"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/service"
)

// SavingService defines the saving operations required by the HTTP handlers.
type SavingService interface {
	Create(ctx context.Context, userID string, in service.SavingInput) (*models.Saving, error)
	List(ctx context.Context, userID string, req service.SavingListRequest) (*service.SavingListResult, error)
}

// SavingHandler handles saving requests.
type SavingHandler struct {
	SavingService SavingService
	Responder     *Responder
}

// SavingRequest is the JSON payload for POST /api/savings.
type SavingRequest struct {
	Amount   float64               `json:"amount"`
	Type     models.SavingType     `json:"type"`
	Category models.SavingCategory `json:"category"`
	Title    string                `json:"title"`
}

// Create handles POST /api/savings.
func (h *SavingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req SavingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Responder.BadRequest(w, "Invalid request body")
		return
	}

	saving, err := h.SavingService.Create(r.Context(), user.ID, service.SavingInput{
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Title:    req.Title,
	})
	if err != nil {
		h.Responder.Fail(w, err, "Failed to create saving")
		return
	}

	h.Responder.OK(w, http.StatusCreated, "Saving created successfully",
		map[string]any{"saving": saving})
}

// List handles GET /api/savings with pagination, filters, and net totals.
func (h *SavingHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch savings")
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch savings")
		return
	}
	start, err := queryDate(r, "startDate")
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch savings")
		return
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch savings")
		return
	}

	result, err := h.SavingService.List(r.Context(), user.ID, service.SavingListRequest{
		PageParams: service.PageParams{Page: page, Limit: limit},
		StartDate:  start,
		EndDate:    end,
		Type:       models.SavingType(r.URL.Query().Get("type")),
		Category:   models.SavingCategory(r.URL.Query().Get("category")),
		Sort:       r.URL.Query().Get("sort"),
	})
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch savings")
		return
	}

	savings := result.Savings
	if savings == nil {
		savings = []models.Saving{}
	}
	h.Responder.OK(w, http.StatusOK, "", map[string]any{
		"savings":    savings,
		"pagination": result.Pagination,
		"stats":      result.Stats,
	})
}
