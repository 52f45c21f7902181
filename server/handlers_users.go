package server

import (
	"net/http"

	"github.com/jrsteele09/go-identity-gateway/users"
)

type updateUserRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

// ListUsersHandler returns the stored principals (admin only).
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip := queryInt(r, "skip", 0)
		limit := queryInt(r, "limit", 100)

		stored, err := s.auth.Users().List(skip, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list users")
			return
		}

		response := make([]userResponse, 0, len(stored))
		for _, user := range stored {
			response = append(response, userResponseFrom(user))
		}
		writeJSON(w, http.StatusOK, response)
	}
}

// CreateUserHandler creates a principal on behalf of an admin.
func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" || req.FullName == "" {
			writeError(w, http.StatusBadRequest, "email and full_name are required")
			return
		}
		if err := users.ValidatePasswordStrength(req.Password); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		user := &users.User{
			Email:        req.Email,
			FullName:     req.FullName,
			PasswordHash: hash,
			Active:       true,
		}
		if err := s.registerUser(user); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, userResponseFrom(user))
	}
}

// GetUserHandler returns a principal by ID. Users can only access their own
// record unless they carry the elevated flag.
func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())
		id := r.PathValue("id")

		if id != principal.ID && !principal.Superuser {
			writeError(w, http.StatusForbidden, "Not enough permissions")
			return
		}

		user, err := s.auth.Users().GetByID(id)
		if err != nil || user == nil {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, userResponseFrom(user))
	}
}

// UpdateUserHandler patches a principal. Users can only update their own
// record unless they carry the elevated flag.
func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())
		id := r.PathValue("id")

		if id != principal.ID && !principal.Superuser {
			writeError(w, http.StatusForbidden, "Not enough permissions")
			return
		}

		user, err := s.auth.Users().GetByID(id)
		if err != nil || user == nil {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}

		var req updateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email != nil && *req.Email != "" {
			user.Email = *req.Email
		}
		if req.FullName != nil && *req.FullName != "" {
			user.FullName = *req.FullName
		}
		if req.IsActive != nil {
			user.Active = *req.IsActive
		}
		if req.Password != nil {
			if err := users.ValidatePasswordStrength(*req.Password); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			hash, err := users.HashPassword(*req.Password)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to update user")
				return
			}
			user.PasswordHash = hash
		}

		if err := s.auth.Users().Upsert(user); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		writeJSON(w, http.StatusOK, userResponseFrom(user))
	}
}

// DeleteUserHandler removes a principal (admin only).
func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Users().GetByID(r.PathValue("id"))
		if err != nil || user == nil {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		if err := s.auth.Users().Delete(user.Email); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to delete user")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
