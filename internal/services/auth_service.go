package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/clinisafe/clinica-api/internal/config"
	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/repository"
	"github.com/clinisafe/clinica-api/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication operations, including the upgrade of
// legacy stored passwords to bcrypt on first successful login. Seed users
// are provisioned with plaintext passwords; older deployments migrated them
// to unsalted SHA-256 hex. Both forms are verified once, then rewritten.
type AuthService struct {
	userRepo repository.UserRepository
	audit    *AuditService
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, audit *AuditService, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		audit:    audit,
		cfg:      cfg,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// Login authenticates a user by username and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.audit.LogAsync(nil, models.ActionLoginFailed, fmt.Sprintf("username=%s", username))
		return nil, ErrInvalidCredentials
	}

	ok, legacy := verifyPassword(password, user.Password)
	if !ok {
		s.audit.LogAsync(nil, models.ActionLoginFailed, fmt.Sprintf("username=%s", username))
		return nil, ErrInvalidCredentials
	}

	if legacy {
		if err := s.migratePassword(ctx, user, password); err != nil {
			// The login itself succeeded; keep the legacy value and retry
			// the upgrade on the next login.
			logger.Warn("Password migration failed", "user", user.Username, "error", err)
		}
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.audit.LogAsync(user, models.ActionLogin, "Successful login")

	return &LoginResult{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// verifyPassword checks password against the stored value and reports
// whether the stored value is in a legacy (pre-bcrypt) form.
func verifyPassword(password, stored string) (ok bool, legacy bool) {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}

	// Legacy unsalted SHA-256, stored as 64 hex chars.
	if isSHA256Hex(stored) {
		digest := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(digest[:])), []byte(stored)) == 1, true
	}

	// Plaintext seed value.
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1, true
}

func isSHA256Hex(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// migratePassword rewrites a verified legacy password as bcrypt.
func (s *AuthService) migratePassword(ctx context.Context, user *models.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.UserID, string(hashed)); err != nil {
		return err
	}
	user.Password = string(hashed)
	s.audit.LogAsync(user, models.ActionPasswordMigrated, "Stored password upgraded to bcrypt")
	return nil
}

// HashPassword hashes a password for storage (used at user provisioning).
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// generateJWT creates a new JWT token for a user
func (s *AuthService) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.UserID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
