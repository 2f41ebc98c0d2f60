// Package auth pkg/auth/service.go

package auth

import (
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/Aboubacarelhacen/silo/pkg/config"
	"github.com/Aboubacarelhacen/silo/pkg/models"
)

const loginBurst = 10

// Claims are the verified identity facts carried by a token.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	FullName string      `json:"fullName"`
	jwt.RegisteredClaims
}

// LoginResult is returned on successful credential verification.
type LoginResult struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	FullName string      `json:"fullName"`
	Role     models.Role `json:"role"`
}

// Service verifies credentials and issues and validates signed,
// time-bounded tokens. Role enforcement is the consumer's job; the
// service only attests what the role is.
type Service struct {
	cfg     config.AuthConfig
	repo    *Repository
	limiter *rate.Limiter
}

func NewService(cfg config.AuthConfig, repo *Repository) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		limiter: rate.NewLimiter(rate.Every(time.Second), loginBurst),
	}
}

// Login verifies the username and password and returns a fresh token.
// Unknown users, inactive accounts, and wrong passwords all fail with
// the same error.
func (s *Service) Login(username, password string) (*LoginResult, error) {
	if !s.limiter.Allow() {
		return nil, ErrTooManyAttempts
	}

	user, ok := s.repo.GetByUsername(username)
	if !ok {
		log.Printf("auth: login failed, unknown user %q", username)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Printf("auth: login failed, inactive user %q", username)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("auth: login failed, bad password for %q", username)
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	s.repo.touchLastLogin(user.ID, now)

	token, err := s.issueToken(&user, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	log.Printf("auth: user %q logged in (role: %s)", user.Username, user.Role)

	return &LoginResult{
		Token:    token,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}

func (s *Service) issueToken(user *models.User, now time.Time) (string, error) {
	claims := &Claims{
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.TokenLifetime))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// Validate checks a token's signature, expiry, issuer, and audience.
// Fails closed: any verification problem yields ErrInvalidToken.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if !claims.VerifyIssuer(s.cfg.Issuer, true) {
		return nil, ErrInvalidToken
	}

	if !claims.VerifyAudience(s.cfg.Audience, true) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
