// Package service implements the business logic between the HTTP handlers
// and the Postgres repositories: the authentication flow and the filtered,
// paginated, aggregated record stores.
package service

import (
	"time"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
)

// PageParams is a 1-based page request.
type PageParams struct {
	Page  int
	Limit int
}

// validate rejects non-positive page indexes and page sizes before any
// query is built, so pagination math never divides by zero.
func (p PageParams) validate() error {
	if p.Page <= 0 {
		return serr.Validation("Page must be a positive integer")
	}
	if p.Limit <= 0 {
		return serr.Validation("Limit must be a positive integer")
	}
	return nil
}

// offset converts the 1-based page index to a row offset.
func (p PageParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// paginate builds the page descriptor for a filtered set of size total.
func paginate(p PageParams, total int) models.Pagination {
	totalPages := total / p.Limit
	if total%p.Limit != 0 {
		totalPages++
	}
	return models.Pagination{
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
	}
}

// monthWindow computes the inclusive [first instant, last instant] window of
// the given calendar month. Day 0 of month m+1 normalizes to the last day of
// month m, so leap years come out right.
func monthWindow(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, serr.Validation("Month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 999000000, time.UTC)
	return start, end, nil
}

// dateWindow resolves the date filters: a month+year shorthand takes
// precedence over an explicit start/end range when both are supplied.
func dateWindow(month, year int, start, end *time.Time) (*time.Time, *time.Time, error) {
	if month != 0 && year != 0 {
		from, to, err := monthWindow(month, year)
		if err != nil {
			return nil, nil, err
		}
		return &from, &to, nil
	}
	return start, end, nil
}
