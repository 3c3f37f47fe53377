package http

import (
	"errors"
	"math"
	"net/http"

	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/storage"
)

type transactionRequest struct {
	Date        core.Date            `json:"transactionDate"`
	Type        core.TransactionType `json:"transactionType"`
	Amount      *core.Money          `json:"amount"`
	Description *string              `json:"description"`
	CategoryID  int64                `json:"categoryId"`
	SourceID    int64                `json:"sourceId"`
}

type categoryRef struct {
	ID   int64                `json:"id"`
	Name string               `json:"categoryName"`
	Type core.TransactionType `json:"categoryType"`
}

type sourceRef struct {
	ID   int64           `json:"id"`
	Name string          `json:"sourceName"`
	Type core.SourceType `json:"sourceType"`
}

// transactionView nests the resolved category and source the way list
// consumers expect them.
type transactionView struct {
	core.Transaction
	Category categoryRef `json:"category"`
	Source   sourceRef   `json:"source"`
}

func viewOf(t core.Transaction) transactionView {
	return transactionView{
		Transaction: t,
		Category:    categoryRef{ID: t.CategoryID, Name: t.CategoryName, Type: t.CategoryType},
		Source:      sourceRef{ID: t.SourceID, Name: t.SourceName, Type: t.SourceType},
	}
}

type paginationInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type transactionPage struct {
	Transactions []transactionView `json:"transactions"`
	Pagination   paginationInfo    `json:"pagination"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	filter := parseTransactionFilter(r)

	txns, total, err := s.repo.ListTransactions(r.Context(), userID(r), filter, page, limit)
	if err != nil {
		s.writeStorageError(w, r, err, "", "Failed to fetch transactions")
		return
	}

	views := make([]transactionView, 0, len(txns))
	for _, t := range txns {
		views = append(views, viewOf(t))
	}
	writeJSON(w, http.StatusOK, transactionPage{
		Transactions: views,
		Pagination: paginationInfo{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// checkReferences validates that the transaction's category is visible to the
// user with a type matching the transaction, and that the source belongs to
// the user. It also fills the resolved names for the response.
func (s *Server) checkReferences(w http.ResponseWriter, r *http.Request, t *core.Transaction) bool {
	category, err := s.repo.GetCategory(r.Context(), t.CategoryID, t.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Category not found")
			return false
		}
		s.writeStorageError(w, r, err, "", "Failed to save transaction")
		return false
	}
	if category.Type != t.Type {
		writeError(w, http.StatusBadRequest, core.ErrTypeMismatch.Error())
		return false
	}

	source, err := s.repo.GetSource(r.Context(), t.SourceID, t.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Income source not found")
			return false
		}
		s.writeStorageError(w, r, err, "", "Failed to save transaction")
		return false
	}

	t.CategoryName = category.Name
	t.CategoryType = category.Type
	t.SourceName = source.Name
	t.SourceType = source.Type
	return true
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	txn := core.Transaction{
		UserID:     userID(r),
		Date:       req.Date,
		Type:       req.Type,
		CategoryID: req.CategoryID,
		SourceID:   req.SourceID,
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if err := txn.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkReferences(w, r, &txn) {
		return
	}

	if err := s.repo.CreateTransaction(r.Context(), &txn); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create transaction", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	s.logger.InfoContext(r.Context(), "Transaction created",
		log.FieldUserID, txn.UserID,
		log.FieldTxnID, txn.ID,
		log.FieldTxnType, string(txn.Type),
		log.FieldAmount, txn.Amount.Cents)
	writeJSON(w, http.StatusCreated, viewOf(txn))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	txn, err := s.repo.GetTransaction(r.Context(), id, userID(r))
	if err != nil {
		s.writeStorageError(w, r, err, "Transaction not found", "Failed to update transaction")
		return
	}

	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Date.IsZero() {
		txn.Date = req.Date
	}
	if req.Type != "" {
		txn.Type = req.Type
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.CategoryID != 0 {
		txn.CategoryID = req.CategoryID
	}
	if req.SourceID != 0 {
		txn.SourceID = req.SourceID
	}
	if err := txn.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkReferences(w, r, txn) {
		return
	}

	if err := s.repo.UpdateTransaction(r.Context(), txn); err != nil {
		s.writeStorageError(w, r, err, "Transaction not found", "Failed to update transaction")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*txn))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err := s.repo.DeleteTransaction(r.Context(), id, userID(r)); err != nil {
		s.writeStorageError(w, r, err, "Transaction not found", "Failed to delete transaction")
		return
	}
	s.logger.InfoContext(r.Context(), "Transaction deleted",
		log.FieldUserID, userID(r), log.FieldTxnID, id)
	writeJSON(w, http.StatusOK, messageBody{Message: "Transaction deleted"})
}
