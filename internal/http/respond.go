package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tally/internal/log"
	"tally/internal/storage"
)

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeStorageError maps storage failures to the API taxonomy: missing or
// not-owned rows are 404, anything else is a logged 500 with a generic
// message so internals never leak to the client.
func (s *Server) writeStorageError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg, internalMsg string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	log.FromContext(r.Context()).ErrorContext(r.Context(), internalMsg, log.FieldError, err)
	writeError(w, http.StatusInternalServerError, internalMsg)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
