package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stemsi/ailit-assessment/internal/config"
)

// Common auth errors.
var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrAdminDisabled   = errors.New("admin login is not configured")
	ErrTokenExpired    = errors.New("token expired")
)

// TokenType distinguishes participant run tokens from admin tokens.
type TokenType string

const (
	TokenTypeRun   TokenType = "run"
	TokenTypeAdmin TokenType = "admin"
)

// adminSubject is the subject of every admin token; there is one admin key.
const adminSubject = "admin"

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
}

// RunID returns the run a run token grants access to.
func (c *Claims) RunID() string {
	return c.Subject
}

// AuthService issues and validates tokens and checks the admin key.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// HashKey hashes an admin key with the configured bcrypt cost.
func (s *AuthService) HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckAdminKey compares a presented key against ADMIN_KEY_HASH.
func (s *AuthService) CheckAdminKey(key string) error {
	if s.cfg.AdminKeyHash == "" {
		return ErrAdminDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminKeyHash), []byte(key)); err != nil {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateRunToken creates a token scoped to one run. It lives as long as
// the run state itself.
func (s *AuthService) GenerateRunToken(runID string) (string, error) {
	ttl := s.cfg.RunTTL
	if ttl <= 0 {
		ttl = s.cfg.JWTExpiry
	}
	return s.sign(TokenTypeRun, runID, ttl)
}

// GenerateAdminToken creates a token for the admin results API.
func (s *AuthService) GenerateAdminToken() (string, error) {
	return s.sign(TokenTypeAdmin, adminSubject, s.cfg.JWTExpiry)
}

func (s *AuthService) sign(tt TokenType, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tt,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
