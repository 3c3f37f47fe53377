package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"tally/internal/auth"
	"tally/internal/log"
	"tally/internal/storage"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type sessionResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if len(req.Username) < 3 || len(req.Username) > 50 {
		writeError(w, http.StatusBadRequest, "Username must be between 3 and 50 characters")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	taken, err := s.repo.UserExists(r.Context(), req.Username, req.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Registration failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	if taken {
		writeError(w, http.StatusBadRequest, "User with this email or username already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Registration failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	user, err := s.repo.CreateUser(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "User with this email or username already exists")
			return
		}
		s.logger.ErrorContext(r.Context(), "Registration failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Registration failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	s.setSessionCookie(w, token)

	s.logger.InfoContext(r.Context(), "User registered", log.FieldUserID, user.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{
		User:  userView{ID: user.ID, Username: user.Username, Email: user.Email},
		Token: token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.repo.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same message as a bad password: don't reveal which one failed.
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.ErrorContext(r.Context(), "Login failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := s.repo.TouchLastLogin(r.Context(), user.ID); err != nil {
		s.logger.WarnContext(r.Context(), "Failed to record login time",
			log.FieldUserID, user.ID, log.FieldError, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Login failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	s.setSessionCookie(w, token)

	s.logger.InfoContext(r.Context(), "User logged in", log.FieldUserID, user.ID)
	writeJSON(w, http.StatusOK, sessionResponse{
		User:  userView{ID: user.ID, Username: user.Username, Email: user.Email},
		Token: token,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageBody{Message: "Logged out successfully"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.repo.GetUserByID(r.Context(), userID(r))
	if err != nil {
		s.writeStorageError(w, r, err, "User not found", "Failed to get user")
		return
	}
	created := user.CreatedAt
	writeJSON(w, http.StatusOK, map[string]userView{"user": {
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: &created,
		LastLogin: user.LastLogin,
	}})
}
