package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/middleware"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/service"
)

// EarningService defines the earning operations required by the HTTP handlers.
type EarningService interface {
	Create(ctx context.Context, userID string, in service.EarningInput) (*models.Earning, error)
	List(ctx context.Context, userID string, req service.EarningListRequest) (*service.EarningListResult, error)
}

// EarningHandler handles earning requests.
type EarningHandler struct {
	EarningService EarningService
	Responder      *Responder
}

// EarningRequest is the JSON payload for POST /api/earnings.
type EarningRequest struct {
	Amount float64            `json:"amount"`
	Type   models.EarningType `json:"type"`
	Title  string             `json:"title"`
}

// Create handles POST /api/earnings.
func (h *EarningHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req EarningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Responder.BadRequest(w, "Invalid request body")
		return
	}

	earning, err := h.EarningService.Create(r.Context(), user.ID, service.EarningInput{
		Amount: req.Amount,
		Type:   req.Type,
		Title:  req.Title,
	})
	if err != nil {
		h.Responder.Fail(w, err, "Failed to create earning")
		return
	}

	h.Responder.OK(w, http.StatusCreated, "Earning created successfully",
		map[string]any{"earning": earning})
}

// List handles GET /api/earnings with pagination, filters, and totals.
func (h *EarningHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch earnings")
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch earnings")
		return
	}
	start, err := queryDate(r, "startDate")
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch earnings")
		return
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch earnings")
		return
	}

	result, err := h.EarningService.List(r.Context(), user.ID, service.EarningListRequest{
		PageParams: service.PageParams{Page: page, Limit: limit},
		StartDate:  start,
		EndDate:    end,
		Type:       models.EarningType(r.URL.Query().Get("type")),
		Sort:       r.URL.Query().Get("sort"),
	})
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch earnings")
		return
	}

	earnings := result.Earnings
	if earnings == nil {
		earnings = []models.Earning{}
	}
	h.Responder.OK(w, http.StatusOK, "", map[string]any{
		"earnings":   earnings,
		"pagination": result.Pagination,
		"stats":      result.Stats,
	})
}
