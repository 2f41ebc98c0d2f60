// Package auth pkg/auth/repository.go

package auth

import (
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Aboubacarelhacen/silo/pkg/models"
)

const (
	defaultAdminUser     = "admin"
	defaultAdminPassword = "admin123"
)

// Repository is the in-memory user store. Restart loses every account
// except the seeded default; durable storage is explicitly out of scope.
// All access goes through the repository's lock; callers receive copies.
type Repository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

// NewRepository creates a repository seeded with the default admin
// account.
func NewRepository() *Repository {
	r := &Repository{
		users: make(map[uuid.UUID]models.User),
	}

	r.seedDefaultAdmin()

	return r
}

func (r *Repository) seedDefaultAdmin() {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("auth: failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		ID:           uuid.New(),
		Username:     defaultAdminUser,
		PasswordHash: string(hash),
		FullName:     "System Administrator",
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	r.users[admin.ID] = admin

	log.Printf("auth: default admin user created (username: %s)", defaultAdminUser)
}

// GetByUsername looks a user up case-insensitively.
func (r *Repository) GetByUsername(username string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}

	return models.User{}, false
}

// GetByID returns the user with the given id.
func (r *Repository) GetByID(id uuid.UUID) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]

	return u, ok
}

// List returns all users ordered by username.
func (r *Repository) List() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Username < out[j].Username
	})

	return out
}

// UsernameExists reports whether a username is taken, case-insensitively.
func (r *Repository) UsernameExists(username string) bool {
	_, ok := r.GetByUsername(username)

	return ok
}

// Create stores a new user, assigning its id and creation time. Fails
// when the username is already in use.
func (r *Repository) Create(user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) {
			return models.User{}, ErrUsernameTaken
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user

	log.Printf("auth: user created: %s (role: %s)", user.Username, user.Role)

	return user, nil
}

// Update replaces a user's record, preserving its id and creation time.
func (r *Repository) Update(id uuid.UUID, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}

	user.ID = id
	user.CreatedAt = existing.CreatedAt
	r.users[id] = user

	log.Printf("auth: user updated: %s", user.Username)

	return user, nil
}

// Delete removes a user. Returns false when the id is unknown.
func (r *Repository) Delete(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return false
	}

	delete(r.users, id)

	log.Printf("auth: user deleted: %s", u.Username)

	return true
}

// touchLastLogin records a successful login time.
func (r *Repository) touchLastLogin(id uuid.UUID, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return
	}

	u.LastLoginAt = &at
	r.users[id] = u
}
