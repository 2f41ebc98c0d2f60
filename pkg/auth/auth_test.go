package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Aboubacarelhacen/silo/pkg/config"
	"github.com/Aboubacarelhacen/silo/pkg/models"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret-key",
		Issuer:        "silod-test",
		Audience:      "silo-dashboard-test",
		TokenLifetime: config.Duration(time.Hour),
	}
}

func mustCreateUser(t *testing.T, repo *Repository, username, password string, role models.Role, active bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := repo.Create(models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test " + username,
		Role:         role,
		IsActive:     active,
	})
	require.NoError(t, err)

	return user
}

func TestRepositorySeedsDefaultAdmin(t *testing.T) {
	repo := NewRepository()

	admin, ok := repo.GetByUsername("admin")
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))
}

func TestRepositoryLookupIsCaseInsensitive(t *testing.T) {
	repo := NewRepository()
	mustCreateUser(t, repo, "Operator1", "secret1", models.RoleOperator, true)

	for _, name := range []string{"operator1", "OPERATOR1", "Operator1"} {
		_, ok := repo.GetByUsername(name)
		assert.True(t, ok, "lookup for %q", name)
	}

	assert.True(t, repo.UsernameExists("oPeRaToR1"))
}

func TestRepositoryRejectsDuplicateUsername(t *testing.T) {
	repo := NewRepository()
	mustCreateUser(t, repo, "op", "secret1", models.RoleOperator, true)

	_, err := repo.Create(models.User{Username: "OP", Role: models.RoleOperator})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRepositoryUpdatePreservesIdentityAndCreation(t *testing.T) {
	repo := NewRepository()
	user := mustCreateUser(t, repo, "op", "secret1", models.RoleOperator, true)

	changed := user
	changed.FullName = "Renamed"
	changed.CreatedAt = time.Time{} // callers cannot rewrite history

	updated, err := repo.Update(user.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, user.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Renamed", updated.FullName)
}

func TestRepositoryUpdateUnknownUser(t *testing.T) {
	repo := NewRepository()

	_, err := repo.Update(uuid.New(), models.User{Username: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository()
	user := mustCreateUser(t, repo, "op", "secret1", models.RoleOperator, true)

	assert.True(t, repo.Delete(user.ID))
	assert.False(t, repo.Delete(user.ID))

	_, ok := repo.GetByID(user.ID)
	assert.False(t, ok)
}

func TestRepositoryListSortedByUsername(t *testing.T) {
	repo := NewRepository()
	mustCreateUser(t, repo, "zoe", "secret1", models.RoleOperator, true)
	mustCreateUser(t, repo, "bob", "secret1", models.RoleOperator, true)

	users := repo.List()
	require.Len(t, users, 3) // seeded admin plus two

	for i := 1; i < len(users); i++ {
		assert.LessOrEqual(t, users[i-1].Username, users[i].Username)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := NewRepository()
	service := NewService(testAuthConfig(), repo)
	mustCreateUser(t, repo, "op", "secret123", models.RoleOperator, true)

	result, err := service.Login("op", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "op", result.Username)
	assert.Equal(t, models.RoleOperator, result.Role)

	user, ok := repo.GetByUsername("op")
	require.True(t, ok)
	require.NotNil(t, user.LastLoginAt, "successful login must be recorded")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := NewRepository()
	service := NewService(testAuthConfig(), repo)
	mustCreateUser(t, repo, "active", "secret123", models.RoleOperator, true)
	mustCreateUser(t, repo, "inactive", "secret123", models.RoleOperator, false)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "secret123"},
		{"wrong password", "active", "wrong"},
		{"deactivated account", "inactive", "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials,
				"every failure mode must yield the same error")
		})
	}
}

func TestLoginThrottled(t *testing.T) {
	repo := NewRepository()
	service := NewService(testAuthConfig(), repo)

	var throttled bool

	// Exhaust the burst; the limiter must kick in before the pile of
	// attempts completes.
	for i := 0; i < loginBurst+2; i++ {
		_, err := service.Login("nobody", "nope")
		require.Error(t, err)

		if errors.Is(err, ErrTooManyAttempts) {
			throttled = true
		}
	}

	assert.True(t, throttled, "rapid attempts must be throttled")
}

func TestValidateRoundTrip(t *testing.T) {
	repo := NewRepository()
	service := NewService(testAuthConfig(), repo)
	user := mustCreateUser(t, repo, "op", "secret123", models.RoleOperator, true)

	result, err := service.Login("op", "secret123")
	require.NoError(t, err)

	claims, err := service.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "op", claims.Username)
	assert.Equal(t, models.RoleOperator, claims.Role)
	assert.Equal(t, "Test op", claims.FullName)
}

func TestValidateFailsClosed(t *testing.T) {
	repo := NewRepository()
	cfg := testAuthConfig()
	service := NewService(cfg, repo)
	mustCreateUser(t, repo, "op", "secret123", models.RoleOperator, true)

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expiredCfg := cfg
		expiredCfg.TokenLifetime = config.Duration(-time.Hour)
		expired := NewService(expiredCfg, repo)

		result, err := expired.Login("op", "secret123")
		require.NoError(t, err)

		_, err = service.Validate(result.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		otherCfg := cfg
		otherCfg.Issuer = "someone-else"
		other := NewService(otherCfg, repo)

		result, err := other.Login("op", "secret123")
		require.NoError(t, err)

		_, err = service.Validate(result.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		otherCfg := cfg
		otherCfg.JWTSecret = "a-different-secret"
		other := NewService(otherCfg, repo)

		result, err := other.Login("op", "secret123")
		require.NoError(t, err)

		_, err = service.Validate(result.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
