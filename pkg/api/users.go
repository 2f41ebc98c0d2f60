// Package api pkg/api/users.go

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/Aboubacarelhacen/silo/pkg/auth"
	httpx "github.com/Aboubacarelhacen/silo/pkg/http"
	"github.com/Aboubacarelhacen/silo/pkg/models"
)

const minPasswordLength = 6

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users := s.users.List()

	dtos := make([]models.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, users[i].DTO())
	}

	writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	user, ok := s.users.GetByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user.DTO())
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if strings.TrimSpace(req.Username) == "" ||
		strings.TrimSpace(req.Password) == "" ||
		strings.TrimSpace(req.FullName) == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")

		return
	}

	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := s.users.Create(models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
	})
	if errors.Is(err, auth.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "username already in use")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user.DTO())
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, found := s.users.GetByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		user.FullName = *req.FullName
	}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < minPasswordLength {
			writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}

		user.PasswordHash = string(hash)
	}

	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	updated, err := s.users.Update(id, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, updated.DTO())
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	if claims, found := httpx.ClaimsFrom(r.Context()); found && claims.Subject == id.String() {
		writeError(w, http.StatusBadRequest, auth.ErrSelfDeletion.Error())
		return
	}

	if !s.users.Delete(id) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}

	return id, true
}
