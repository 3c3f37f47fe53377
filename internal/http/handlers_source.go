package http

import (
	"fmt"
	"net/http"
	"strings"

	"tally/internal/core"
	"tally/internal/log"
)

type sourceRequest struct {
	Name           string          `json:"sourceName"`
	Type           core.SourceType `json:"sourceType"`
	InitialBalance *core.Money     `json:"initialBalance"`
	IsActive       *bool           `json:"isActive"`
}

// sourceView augments a stored source with its derived balance fields.
type sourceView struct {
	core.IncomeSource
	core.SourceTotals
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	sources, err := s.repo.ListSources(r.Context(), uid)
	if err != nil {
		s.writeStorageError(w, r, err, "", "Failed to fetch income sources")
		return
	}
	activity, err := s.repo.ListSourceActivity(r.Context(), uid)
	if err != nil {
		s.writeStorageError(w, r, err, "", "Failed to fetch income sources")
		return
	}

	// Balances are never stored: group the activity rows by source and
	// recompute each balance from scratch.
	bySource := make(map[int64][]core.Transaction)
	for _, t := range activity {
		bySource[t.SourceID] = append(bySource[t.SourceID], t)
	}
	views := make([]sourceView, 0, len(sources))
	for _, src := range sources {
		views = append(views, sourceView{
			IncomeSource: src,
			SourceTotals: core.SourceBalance(src.InitialBalance, bySource[src.ID]),
		})
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = core.SourceBank
	}

	source := core.IncomeSource{
		UserID:   userID(r),
		Name:     strings.TrimSpace(req.Name),
		Type:     req.Type,
		IsActive: true,
	}
	if req.InitialBalance != nil {
		source.InitialBalance = *req.InitialBalance
	}
	if err := source.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.CreateSource(r.Context(), &source); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create income source", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Failed to create income source")
		return
	}

	s.logger.InfoContext(r.Context(), "Income source created",
		log.FieldUserID, source.UserID, log.FieldSourceID, source.ID)
	writeJSON(w, http.StatusCreated, source)
}

func (s *Server) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Income source not found")
		return
	}
	source, err := s.repo.GetSource(r.Context(), id, userID(r))
	if err != nil {
		s.writeStorageError(w, r, err, "Income source not found", "Failed to update income source")
		return
	}

	var req sourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != "" {
		source.Name = strings.TrimSpace(req.Name)
	}
	if req.Type != "" {
		source.Type = req.Type
	}
	if req.InitialBalance != nil {
		source.InitialBalance = *req.InitialBalance
	}
	if req.IsActive != nil {
		source.IsActive = *req.IsActive
	}
	if err := source.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.UpdateSource(r.Context(), source); err != nil {
		s.writeStorageError(w, r, err, "Income source not found", "Failed to update income source")
		return
	}
	writeJSON(w, http.StatusOK, source)
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Income source not found")
		return
	}
	uid := userID(r)
	if _, err := s.repo.GetSource(r.Context(), id, uid); err != nil {
		s.writeStorageError(w, r, err, "Income source not found", "Failed to delete income source")
		return
	}

	count, err := s.repo.CountTransactionsBySource(r.Context(), id)
	if err != nil {
		s.writeStorageError(w, r, err, "Income source not found", "Failed to delete income source")
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Cannot delete: %d transaction(s) are linked to this source", count))
		return
	}

	if err := s.repo.DeleteSource(r.Context(), id, uid); err != nil {
		s.writeStorageError(w, r, err, "Income source not found", "Failed to delete income source")
		return
	}
	s.logger.InfoContext(r.Context(), "Income source deleted",
		log.FieldUserID, uid, log.FieldSourceID, id)
	writeJSON(w, http.StatusOK, messageBody{Message: "Income source deleted"})
}
