package http

import (
	"net/http"
	"strconv"
	"strings"

	"tally/internal/core"
	"tally/internal/storage"
)

// reportFilter reads the date range shared by the report endpoints; type and
// category/source filters do not apply here except where noted.
func reportFilter(r *http.Request) storage.TransactionFilter {
	var f storage.TransactionFilter
	if d, err := core.ParseDate(r.URL.Query().Get("startDate")); err == nil {
		f.StartDate = d
	}
	if d, err := core.ParseDate(r.URL.Query().Get("endDate")); err == nil {
		f.EndDate = d
	}
	return f
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.Summary(r.Context(), userID(r), reportFilter(r))
	if err != nil {
		s.writeStorageError(w, r, err, "", "Failed to generate summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	typeFilter := core.TransactionType(strings.ToUpper(r.URL.Query().Get("type")))
	breakdown, err := s.reports.CategoryBreakdown(r.Context(), userID(r), reportFilter(r), typeFilter)
	if err != nil {
		s.writeStorageError(w, r, err, "", "Failed to generate category breakdown")
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	months := 0
	if v := r.URL.Query().Get("months"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			months = n
		}
	}
	trends, err := s.reports.MonthlyTrends(r.Context(), userID(r), months)
	if err != nil {
		s.writeStorageError(w, r, err, "", "Failed to generate trends")
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	filter := reportFilter(r)
	filter.Type = core.TransactionType(strings.ToUpper(r.URL.Query().Get("type")))

	csv, err := s.reports.ExportCSV(r.Context(), userID(r), filter)
	if err != nil {
		s.writeStorageError(w, r, err, "", "Failed to export CSV")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=transactions.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}
