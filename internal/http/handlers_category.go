package http

import (
	"fmt"
	"net/http"
	"strings"

	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/storage"
)

type categoryRequest struct {
	Name     string               `json:"categoryName"`
	Type     core.TransactionType `json:"categoryType"`
	ParentID *int64               `json:"parentCategoryId"`
}

type categoryView struct {
	storage.CategoryWithCount
	SubCategories []storage.CategoryWithCount `json:"subCategories"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	typeFilter := core.TransactionType(strings.ToUpper(r.URL.Query().Get("type")))
	categories, err := s.repo.ListCategories(r.Context(), userID(r), typeFilter)
	if err != nil {
		s.writeStorageError(w, r, err, "", "Failed to fetch categories")
		return
	}

	// One grouping pass over the flat list builds each category's children.
	children := make(map[int64][]storage.CategoryWithCount)
	for _, c := range categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		sub := children[c.ID]
		if sub == nil {
			sub = []storage.CategoryWithCount{}
		}
		views = append(views, categoryView{CategoryWithCount: c, SubCategories: sub})
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	uid := userID(r)
	category := core.Category{
		Name:     strings.TrimSpace(req.Name),
		Type:     req.Type,
		ParentID: req.ParentID,
		UserID:   &uid,
	}
	if err := category.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.CreateCategory(r.Context(), &category); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create category", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	s.logger.InfoContext(r.Context(), "Category created",
		log.FieldUserID, uid, log.FieldCategoryID, category.ID)
	writeJSON(w, http.StatusCreated, category)
}

// loadOwnCategory fetches a category and enforces the mutation rules: 404 if
// invisible to the user, 403 if it is a shared system default.
func (s *Server) loadOwnCategory(w http.ResponseWriter, r *http.Request, id int64, verb string) *core.Category {
	category, err := s.repo.GetCategory(r.Context(), id, userID(r))
	if err != nil {
		s.writeStorageError(w, r, err, "Category not found", "Failed to fetch category")
		return nil
	}
	if !category.IsCustom {
		writeError(w, http.StatusForbidden, "Cannot "+verb+" system default categories")
		return nil
	}
	return category
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	category := s.loadOwnCategory(w, r, id, "modify")
	if category == nil {
		return
	}

	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != "" {
		category.Name = strings.TrimSpace(req.Name)
	}
	if req.Type != "" {
		category.Type = req.Type
	}
	if req.ParentID != nil {
		category.ParentID = req.ParentID
	}
	if err := category.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.UpdateCategory(r.Context(), category); err != nil {
		s.writeStorageError(w, r, err, "Category not found", "Failed to update category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	category := s.loadOwnCategory(w, r, id, "delete")
	if category == nil {
		return
	}

	count, err := s.repo.CountTransactionsByCategory(r.Context(), id)
	if err != nil {
		s.writeStorageError(w, r, err, "Category not found", "Failed to delete category")
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Cannot delete: %d transaction(s) use this category", count))
		return
	}

	if err := s.repo.DeleteCategory(r.Context(), id); err != nil {
		s.writeStorageError(w, r, err, "Category not found", "Failed to delete category")
		return
	}
	s.logger.InfoContext(r.Context(), "Category deleted",
		log.FieldUserID, userID(r), log.FieldCategoryID, id)
	writeJSON(w, http.StatusOK, messageBody{Message: "Category deleted"})
}
