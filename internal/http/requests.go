package http

import (
	"net/http"
	"strconv"
	"strings"

	"tally/internal/core"
	"tally/internal/storage"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// parsePagination reads page/limit query parameters, falling back to the
// defaults on absent or malformed values and capping the page size.
func parsePagination(r *http.Request) (page, limit int) {
	page, limit = defaultPage, defaultLimit
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// parseTransactionFilter builds a filter from query parameters. Unknown type
// values and unparseable ids or dates are ignored rather than rejected.
func parseTransactionFilter(r *http.Request) storage.TransactionFilter {
	q := r.URL.Query()
	var f storage.TransactionFilter

	f.Type = core.TransactionType(strings.ToUpper(strings.TrimSpace(q.Get("type"))))
	if id, err := strconv.ParseInt(q.Get("categoryId"), 10, 64); err == nil {
		f.CategoryID = id
	}
	if id, err := strconv.ParseInt(q.Get("sourceId"), 10, 64); err == nil {
		f.SourceID = id
	}
	if d, err := core.ParseDate(q.Get("startDate")); err == nil {
		f.StartDate = d
	}
	if d, err := core.ParseDate(q.Get("endDate")); err == nil {
		f.EndDate = d
	}
	return f
}

// pathID extracts the {id} path segment as a positive integer.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
