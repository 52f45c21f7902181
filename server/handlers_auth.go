package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/go-identity-gateway/auth"
	"github.com/jrsteele09/go-identity-gateway/token"
	"github.com/jrsteele09/go-identity-gateway/users"
)

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// RegisterHandler creates a new local principal from an email, a display
// name and a password.
func (s *Server) RegisterHandler() http.HandlerFunc {
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
			writeError(w, http.StatusInternalServerError, "Failed to register user")
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

// LoginHandler authenticates a username/password form and returns a
// credential pair. It accepts the OAuth2 password-grant form field names.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid form body")
			return
		}
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		pair, err := s.auth.Login(r.Context(), username, password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, http.StatusUnauthorized, "Incorrect email or password")
				return
			}
			writeError(w, http.StatusInternalServerError, "Login failed")
			return
		}

		writeJSON(w, http.StatusOK, pair)
	}
}

// RefreshHandler mints a fresh credential pair for the bearer of a valid
// refresh token. An access token is accepted too, matching the inbound
// contract of the refresh operation.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerToken(r)
		if err != nil {
			unauthorized(w)
			return
		}

		principal, err := s.auth.PrincipalFromToken(raw, token.KindRefresh)
		if err != nil {
			principal, err = s.auth.PrincipalFromToken(raw, token.KindAccess)
		}
		if err != nil {
			unauthorized(w)
			return
		}

		pair, err := s.auth.Refresh(principal)
		if err != nil {
			unauthorized(w)
			return
		}

		writeJSON(w, http.StatusOK, pair)
	}
}

// CurrentUserHandler returns the principal resolved by RequireAuth.
func (s *Server) CurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())
		if principal == nil {
			unauthorized(w)
			return
		}
		writeJSON(w, http.StatusOK, userResponseFrom(principal))
	}
}

func (s *Server) registerUser(user *users.User) error {
	if existing, err := s.auth.Users().GetByEmail(user.Email); err == nil && existing != nil {
		return errors.New("Email already registered")
	}
	return s.auth.Users().Upsert(user)
}
