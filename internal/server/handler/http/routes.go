package http

import (
	"net/http"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles the endpoint handlers the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Expense  *ExpenseHandler
	Earning  *EarningHandler
	Saving   *SavingHandler
	Category *CategoryHandler
	Type     *TypeHandler
	Health   *HealthHandler
}

// NewRouter constructs and returns an HTTP handler that serves the
// finance-tracker API. It applies JSON content-type enforcement and request
// logging globally, and bearer-token authentication on every record-store
// route. Login and health stay public.
//
// Routes:
//
//	POST   /api/auth                                                → Auth.Login
//	GET    /api/health                                              → Health.Health
//	GET    /api/auth/me                                             → Auth.Me       (protected)
//	POST   /api/auth/logout                                         → Auth.Logout   (protected)
//	POST   /api/expenses                                            → Expense.Create
//	GET    /api/expenses                                            → Expense.List
//	PUT    /api/expenses/{id}                                       → Expense.Update
//	DELETE /api/expenses/{id}                                       → Expense.Delete
//	GET    /api/expenses/analytics/daily                            → Expense.Daily
//	GET    /api/expenses/analytics/top-categories                   → Expense.TopCategories
//	GET    /api/expenses/analytics/category-transactions/{categoryId} → Expense.CategoryTransactions
//	POST/GET /api/earnings                                          → Earning.Create / Earning.List
//	POST/GET /api/savings                                           → Saving.Create / Saving.List
//	POST/GET /api/expense-categories (+PUT/DELETE /{id})            → Category handlers
//	POST/GET /api/expense-types      (+PUT/DELETE /{id})            → Type handlers
func NewRouter(
	h Handlers,
	verifier middleware.TokenVerifier,
	users middleware.UserResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	auth := middleware.Auth(verifier, users, h.Auth.Responder.Reject)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth", h.Auth.Login)
		r.Get("/health", h.Health.Health)

		// Protected group: requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", h.Expense.Create)
				r.Get("/", h.Expense.List)
				r.Put("/{id}", h.Expense.Update)
				r.Delete("/{id}", h.Expense.Delete)
				r.Get("/analytics/daily", h.Expense.Daily)
				r.Get("/analytics/top-categories", h.Expense.TopCategories)
				r.Get("/analytics/category-transactions/{categoryId}", h.Expense.CategoryTransactions)
			})

			r.Route("/earnings", func(r chi.Router) {
				r.Post("/", h.Earning.Create)
				r.Get("/", h.Earning.List)
			})

			r.Route("/savings", func(r chi.Router) {
				r.Post("/", h.Saving.Create)
				r.Get("/", h.Saving.List)
			})

			r.Route("/expense-categories", func(r chi.Router) {
				r.Post("/", h.Category.Create)
				r.Get("/", h.Category.List)
				r.Put("/{id}", h.Category.Update)
				r.Delete("/{id}", h.Category.Delete)
			})

			r.Route("/expense-types", func(r chi.Router) {
				r.Post("/", h.Type.Create)
				r.Get("/", h.Type.List)
				r.Put("/{id}", h.Type.Update)
				r.Delete("/{id}", h.Type.Delete)
			})
		})
	})

	return r
}
