// Package api pkg/api/auth.go

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Aboubacarelhacen/silo/pkg/auth"
	httpx "github.com/Aboubacarelhacen/silo/pkg/http"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	result, err := s.authn.Login(req.Username, req.Password)

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	case errors.Is(err, auth.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// logout exists for API symmetry; token invalidation is client-side.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) validateToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		UserID:          claims.Subject,
		Username:        claims.Username,
		Role:            claims.Role,
		FullName:        claims.FullName,
		IsAuthenticated: true,
	})
}
