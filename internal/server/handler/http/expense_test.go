package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// fakeExpenseService implements ExpenseService for testing.
type fakeExpenseService struct {
	created    []models.Expense
	createErr  error
	gotInputs  []service.ExpenseInput
	listResult *service.ExpenseListResult
	listErr    error
	gotList    service.ExpenseListRequest
	updated    *models.Expense
	updateErr  error
	gotUpdate  service.ExpenseUpdate
	deleteErr  error
	daily      *service.DailyResult
	top        []models.TopCategory
	catResult  *service.CategoryTransactionsResult
	gotCatID   string
}

func (f *fakeExpenseService) CreateBatch(ctx context.Context, userID string, inputs []service.ExpenseInput) ([]models.Expense, error) {
	f.gotInputs = inputs
	return f.created, f.createErr
}
func (f *fakeExpenseService) List(ctx context.Context, userID string, req service.ExpenseListRequest) (*service.ExpenseListResult, error) {
	f.gotList = req
	return f.listResult, f.listErr
}
func (f *fakeExpenseService) Update(ctx context.Context, userID, id string, u service.ExpenseUpdate) (*models.Expense, error) {
	f.gotUpdate = u
	return f.updated, f.updateErr
}
func (f *fakeExpenseService) Delete(ctx context.Context, userID, id string) error {
	return f.deleteErr
}
func (f *fakeExpenseService) Daily(ctx context.Context, userID string, month, year int) (*service.DailyResult, error) {
	return f.daily, nil
}
func (f *fakeExpenseService) TopCategories(ctx context.Context, userID string, month, year, limit int) ([]models.TopCategory, error) {
	return f.top, nil
}
func (f *fakeExpenseService) CategoryTransactions(ctx context.Context, userID, categoryID string, month, year int, p service.PageParams) (*service.CategoryTransactionsResult, error) {
	f.gotCatID = categoryID
	return f.catResult, nil
}

func TestExpenseHandler_Create(t *testing.T) {
	svc := &fakeExpenseService{created: []models.Expense{{ID: "e1"}, {ID: "e2"}}}
	handler := &ExpenseHandler{ExpenseService: svc, Responder: testResponder()}

	body := `{"expenses":[
		{"expenseTypeId":"t1","expenseCategory":"c1","amount":42.5,"need_or_want":"need","could_have_saved":5},
		{"expenseTypeId":"t1","expenseCategory":"c2","amount":10,"need_or_want":"want","expense_date":"2024-02-10T00:00:00Z"}
	]}`
	req := authedRequest(http.MethodPost, "/api/expenses", body, &models.User{ID: "u1"})
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if !resp.Success || resp.Message != "2 expense(s) created successfully" {
		t.Errorf("envelope = %+v", resp)
	}
	if len(svc.gotInputs) != 2 {
		t.Fatalf("service received %d inputs; want 2", len(svc.gotInputs))
	}
	if svc.gotInputs[0].CouldHaveSaved != 5 || svc.gotInputs[0].NeedOrWant != models.Need {
		t.Errorf("inputs[0] = %+v", svc.gotInputs[0])
	}
	wantDate := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	if !svc.gotInputs[1].ExpenseDate.Equal(wantDate) {
		t.Errorf("inputs[1].ExpenseDate = %v; want %v", svc.gotInputs[1].ExpenseDate, wantDate)
	}
}

func TestExpenseHandler_CreateValidationFailure(t *testing.T) {
	svc := &fakeExpenseService{
		createErr: serr.Validation("Expense at index 0 is missing required fields", "amount is required and must be positive"),
	}
	handler := &ExpenseHandler{ExpenseService: svc, Responder: testResponder()}

	req := authedRequest(http.MethodPost, "/api/expenses",
		`{"expenses":[{"expenseTypeId":"t1"}]}`, &models.User{ID: "u1"})
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Success {
		t.Error("expected failure envelope")
	}
	if resp.Message != "Expense at index 0 is missing required fields" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Errors) != 1 {
		t.Errorf("errors = %v", resp.Errors)
	}
}

func TestExpenseHandler_ListParsesQuery(t *testing.T) {
	svc := &fakeExpenseService{listResult: &service.ExpenseListResult{}}
	handler := &ExpenseHandler{ExpenseService: svc, Responder: testResponder()}

	target := "/api/expenses?page=2&limit=25&month=2&year=2024" +
		"&categories=c1,c2&expenseType=t1&need_or_want=want&sort=-amount"
	req := authedRequest(http.MethodGet, target, "", &models.User{ID: "u1"})
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	got := svc.gotList
	if got.Page != 2 || got.Limit != 25 {
		t.Errorf("page/limit = %d/%d", got.Page, got.Limit)
	}
	if got.Month != 2 || got.Year != 2024 {
		t.Errorf("month/year = %d/%d", got.Month, got.Year)
	}
	if len(got.CategoryIDs) != 2 || got.CategoryIDs[0] != "c1" {
		t.Errorf("categories = %v", got.CategoryIDs)
	}
	if got.TypeID != "t1" || got.NeedOrWant != models.Want || got.Sort != "-amount" {
		t.Errorf("filters = %+v", got)
	}
}

func TestExpenseHandler_ListDefaults(t *testing.T) {
	svc := &fakeExpenseService{listResult: &service.ExpenseListResult{}}
	handler := &ExpenseHandler{ExpenseService: svc, Responder: testResponder()}

	req := authedRequest(http.MethodGet, "/api/expenses", "", &models.User{ID: "u1"})
	handler.List(httptest.NewRecorder(), req)

	if svc.gotList.Page != 1 || svc.gotList.Limit != 10 {
		t.Errorf("defaults = %d/%d; want 1/10", svc.gotList.Page, svc.gotList.Limit)
	}
}

func TestExpenseHandler_ListBadPage(t *testing.T) {
	handler := &ExpenseHandler{ExpenseService: &fakeExpenseService{}, Responder: testResponder()}

	req := authedRequest(http.MethodGet, "/api/expenses?page=abc", "", &models.User{ID: "u1"})
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestExpenseHandler_UpdateDecodesPartialBody(t *testing.T) {
	svc := &fakeExpenseService{updated: &models.Expense{ID: "e1", Amount: 60}}
	handler := &ExpenseHandler{ExpenseService: svc, Responder: testResponder()}

	req := authedRequest(http.MethodPut, "/api/expenses/e1",
		`{"amount":60}`, &models.User{ID: "u1"})
	req = withURLParam(req, "id", "e1")
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if svc.gotUpdate.Amount == nil || *svc.gotUpdate.Amount != 60 {
		t.Errorf("amount = %v; want 60", svc.gotUpdate.Amount)
	}
	if svc.gotUpdate.TypeID != nil || svc.gotUpdate.CategoryID != nil ||
		svc.gotUpdate.NeedOrWant != nil || svc.gotUpdate.ExpenseDate != nil {
		t.Errorf("update = %+v; want omitted fields nil", svc.gotUpdate)
	}
}

func TestExpenseHandler_UpdateNotFound(t *testing.T) {
	svc := &fakeExpenseService{
		updateErr: serr.NotFound("Expense not found or you do not have permission to update it"),
	}
	handler := &ExpenseHandler{ExpenseService: svc, Responder: testResponder()}

	req := authedRequest(http.MethodPut, "/api/expenses/e9",
		`{"expenseTypeId":"t1","expenseCategory":"c1","amount":10,"need_or_want":"need"}`,
		&models.User{ID: "u1"})
	req = withURLParam(req, "id", "e9")
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
}

func TestExpenseHandler_Delete(t *testing.T) {
	handler := &ExpenseHandler{ExpenseService: &fakeExpenseService{}, Responder: testResponder()}

	req := authedRequest(http.MethodDelete, "/api/expenses/e1", "", &models.User{ID: "u1"})
	req = withURLParam(req, "id", "e1")
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != "Expense deleted successfully" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestExpenseHandler_CategoryTransactions(t *testing.T) {
	svc := &fakeExpenseService{catResult: &service.CategoryTransactionsResult{
		Stats: models.CategoryStats{TransactionCount: 7},
	}}
	handler := &ExpenseHandler{ExpenseService: svc, Responder: testResponder()}

	req := authedRequest(http.MethodGet,
		"/api/expenses/analytics/category-transactions/c1?month=2&year=2024", "",
		&models.User{ID: "u1"})
	req = withURLParam(req, "categoryId", "c1")
	rec := httptest.NewRecorder()
	handler.CategoryTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if svc.gotCatID != "c1" {
		t.Errorf("categoryID = %q; want c1", svc.gotCatID)
	}
}
