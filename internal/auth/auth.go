// ABOUTME: Demo-credential authentication issuing HS256 session tokens
// ABOUTME: Supplies the current user id that scopes the remote profile record

package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
)

// DefaultTokenTTL is used when the config does not set one.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Config holds the demo account and signing settings.
type Config struct {
	UserID       string
	Email        string
	PasswordHash []byte // bcrypt hash of the demo password
	JWTSecret    []byte
	TokenTTL     time.Duration
}

// Service checks the single demo credential and issues session tokens.
// There is no user database: this system is single-user by design, and
// the only thing callers need from a login is the user id that scopes
// the remote profile record.
type Service struct {
	cfg    Config
	logger *slog.Logger
}

// NewService creates an auth service. The JWT secret and password hash
// must be non-empty.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	if len(cfg.PasswordHash) == 0 {
		return nil, errors.New("password hash must not be empty")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	return &Service{
		cfg:    cfg,
		logger: slog.Default().With("component", "auth"),
	}, nil
}

// Login checks the credential pair and returns a signed session token.
func (s *Service) Login(email, password string) (string, error) {
	if email != s.cfg.Email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.cfg.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": s.cfg.UserID,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.cfg.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	s.logger.Info("login succeeded", "user", s.cfg.UserID)
	return signed, nil
}

// Verify validates the token and extracts the user id from the "sub"
// claim.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.cfg.JWTSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// HashPassword produces a bcrypt hash suitable for Config.PasswordHash.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
