// Package models defines the core data structures for users,
// transaction records, and expense lookup entities.
package models

import "time"

// LoginMedium identifies the sign-in channel a user came through.
type LoginMedium string

const (
	// LoginMediumGoogle marks users signed in via Google.
	LoginMediumGoogle LoginMedium = "google"
	// LoginMediumFacebook marks users signed in via Facebook.
	LoginMediumFacebook LoginMedium = "facebook"
	// LoginMediumEmail is the fallback for every other provider.
	LoginMediumEmail LoginMedium = "email"
)

// MediumForProvider maps an identity-provider identifier to a LoginMedium.
// Unrecognized providers fall back to LoginMediumEmail.
func MediumForProvider(provider string) LoginMedium {
	switch provider {
	case "google.com":
		return LoginMediumGoogle
	case "facebook.com":
		return LoginMediumFacebook
	default:
		return LoginMediumEmail
	}
}

// User represents an application user resolved from an external identity.
type User struct {
	// ID is the internal unique identifier for the user.
	ID string `json:"userId"`
	// SubjectID is the external identity provider's durable subject id.
	SubjectID string `json:"-"`
	// Name is the user's display name.
	Name string `json:"name"`
	// Email is the user's email address, normalized to lowercase.
	Email string `json:"email"`
	// LoginMedium records how the user signed in ("google", "facebook", "email").
	LoginMedium LoginMedium `json:"loginMedium"`
	// CreatedAt is when the user record was first created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is touched on every successful login.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NeedOrWant classifies an expense as a necessity or a discretionary purchase.
type NeedOrWant string

const (
	// Need marks a necessary expense.
	Need NeedOrWant = "need"
	// Want marks a discretionary expense.
	Want NeedOrWant = "want"
)

// Valid reports whether the value is one of the allowed discriminators.
func (n NeedOrWant) Valid() bool {
	switch n {
	case Need, Want:
		return true
	}
	return false
}

// Expense represents a single expense transaction owned by a user.
type Expense struct {
	ID             string     `json:"id"`
	UserID         string     `json:"-"`
	TypeID         string     `json:"expenseTypeId"`
	TypeName       string     `json:"expenseTypeName,omitempty"`
	CategoryID     string     `json:"expenseCategory"`
	CategoryName   string     `json:"expenseCategoryName,omitempty"`
	CategoryIcon   string     `json:"expenseCategoryIcon,omitempty"`
	Amount         float64    `json:"amount"`
	Description    string     `json:"description"`
	ExpenseDate    time.Time  `json:"expense_date"`
	NeedOrWant     NeedOrWant `json:"need_or_want"`
	CouldHaveSaved float64    `json:"could_have_saved"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// EarningType partitions earnings by their source.
type EarningType string

const (
	// EarningSalary is regular employment income.
	EarningSalary EarningType = "salary"
	// EarningFreelance is contract or freelance income.
	EarningFreelance EarningType = "freelance"
	// EarningOthers covers every other income source.
	EarningOthers EarningType = "others"
)

// Valid reports whether the value is one of the allowed earning types.
func (t EarningType) Valid() bool {
	switch t {
	case EarningSalary, EarningFreelance, EarningOthers:
		return true
	}
	return false
}

// Earning represents a single earning transaction owned by a user.
type Earning struct {
	ID        string      `json:"id"`
	UserID    string      `json:"-"`
	Amount    float64     `json:"amount"`
	Type      EarningType `json:"type"`
	Title     string      `json:"title"`
	CreatedOn time.Time   `json:"createdOn"`
}

// SavingType distinguishes deposits from withdrawals.
type SavingType string

const (
	// SavingAdd is money moved into savings.
	SavingAdd SavingType = "add"
	// SavingWithdraw is money taken out of savings.
	SavingWithdraw SavingType = "withdraw"
)

// Valid reports whether the value is one of the allowed saving types.
func (t SavingType) Valid() bool {
	switch t {
	case SavingAdd, SavingWithdraw:
		return true
	}
	return false
}

// SavingCategory distinguishes fixed savings from ad-hoc top-ups.
type SavingCategory string

const (
	// SavingFixed is a recurring, planned saving.
	SavingFixed SavingCategory = "fixed"
	// SavingTopup is an ad-hoc saving.
	SavingTopup SavingCategory = "topup"
)

// Valid reports whether the value is one of the allowed saving categories.
func (c SavingCategory) Valid() bool {
	switch c {
	case SavingFixed, SavingTopup:
		return true
	}
	return false
}

// Saving represents a single saving transaction owned by a user.
type Saving struct {
	ID        string         `json:"id"`
	UserID    string         `json:"-"`
	Amount    float64        `json:"amount"`
	Type      SavingType     `json:"type"`
	Category  SavingCategory `json:"category"`
	Title     string         `json:"title"`
	CreatedOn time.Time      `json:"createdOn"`
}

// ExpenseCategory is a per-user lookup entity referenced by expenses.
type ExpenseCategory struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"expenseCategoryName"`
	Icon      string    `json:"expenseCategoryIcon"`
	CreatedOn time.Time `json:"createdOn"`
}

// ExpenseType is a per-user lookup entity referenced by expenses.
type ExpenseType struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"expenseTypeName"`
	CreatedOn time.Time `json:"createdOn"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// ExpenseStats aggregates the full filtered expense set, not just one page.
type ExpenseStats struct {
	TotalAmount         float64 `json:"totalAmount"`
	TotalCouldHaveSaved float64 `json:"totalCouldHaveSaved"`
	TotalNeeds          float64 `json:"totalNeeds"`
	TotalWants          float64 `json:"totalWants"`
}

// CategoryStats extends ExpenseStats with a transaction count for the
// per-category transactions endpoint.
type CategoryStats struct {
	ExpenseStats
	TransactionCount int `json:"transactionCount"`
}

// EarningStats aggregates earnings grouped by their type.
type EarningStats struct {
	TotalEarnings float64 `json:"totalEarnings"`
	BySalary      float64 `json:"bySalary"`
	ByFreelance   float64 `json:"byFreelance"`
	ByOthers      float64 `json:"byOthers"`
}

// SavingStats aggregates savings grouped by direction, with the derived net.
type SavingStats struct {
	TotalAdded     float64 `json:"totalAdded"`
	TotalWithdrawn float64 `json:"totalWithdrawn"`
	NetSavings     float64 `json:"netSavings"`
}

// DailyExpense is one zero-filled day of the daily analytics series.
type DailyExpense struct {
	Day    int     `json:"day"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// TopCategory is one entry of the top-categories analytics response.
type TopCategory struct {
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	CategoryIcon string  `json:"categoryIcon"`
	TotalAmount  float64 `json:"totalAmount"`
	Count        int     `json:"count"`
}
