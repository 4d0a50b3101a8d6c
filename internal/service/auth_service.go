package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the supplied password does not match.
var ErrInvalidCredentials = errors.New("invalid password")

// SessionClaims represents the JWT claims carried by a session token. There
// are no per-user accounts; a valid token simply means the shared password
// was presented.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// AuthService handles the single shared-password login and session tokens.
type AuthService interface {
	// Login checks the password and, on success, issues a session token.
	Login(password string) (token string, expiresIn int64, err error)

	// ValidateSession parses and verifies a session token.
	ValidateSession(token string) (*SessionClaims, error)
}

// AuthConfig holds configuration for the auth service.
type AuthConfig struct {
	// Password is the shared plaintext password. Ignored when PasswordHash
	// is set.
	Password string

	// PasswordHash is an optional bcrypt hash of the shared password.
	PasswordHash string

	// SessionSecret signs session tokens.
	SessionSecret string

	// SessionTTL bounds session lifetime.
	SessionTTL time.Duration
}

type authService struct {
	password     string
	passwordHash string
	secret       []byte
	ttl          time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(config AuthConfig) AuthService {
	return &authService{
		password:     config.Password,
		passwordHash: config.PasswordHash,
		secret:       []byte(config.SessionSecret),
		ttl:          config.SessionTTL,
	}
}

// Login checks the password against the configured hash (preferred) or the
// plaintext value, and issues a signed session token on success.
func (s *authService) Login(password string) (string, int64, error) {
	if !s.passwordMatches(password) {
		return "", 0, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "owner",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, int64(s.ttl.Seconds()), nil
}

func (s *authService) passwordMatches(password string) bool {
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}

// ValidateSession parses and verifies a session token.
func (s *authService) ValidateSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	return claims, nil
}
