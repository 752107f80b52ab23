package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
)

// dateLayouts are the accepted query-parameter date formats.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, serr.Validation(fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}

// queryDate reads an optional date query parameter in RFC3339 or YYYY-MM-DD
// form. Returns nil when absent.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, serr.Validation(fmt.Sprintf("%s must be a valid date", name))
}

// queryList splits a comma-separated query parameter into trimmed values.
func queryList(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
