package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/clinisafe/clinica-api/internal/config"
	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	mockRepo := &mockUserRepo{}
	audit, logRepo := newTestAudit()
	service := NewAuthService(mockRepo, audit, testConfig())

	mockRepo.mockFindByUsername = func(ctx context.Context, username string) (*models.User, error) {
		return nil, assert.AnError
	}

	result, err := service.Login(context.Background(), "ghost", "password")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, []string{models.ActionLoginFailed}, logRepo.actions())
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := &mockUserRepo{}
	audit, logRepo := newTestAudit()
	service := NewAuthService(mockRepo, audit, testConfig())

	mockRepo.mockFindByUsername = func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{UserID: 1, Username: username, Password: "admin123", Role: models.RoleAdmin}, nil
	}

	result, err := service.Login(context.Background(), "admin", "nope")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, []string{models.ActionLoginFailed}, logRepo.actions())
}

func TestAuthService_Login_PlaintextSeedMigratesToBcrypt(t *testing.T) {
	mockRepo := &mockUserRepo{}
	audit, logRepo := newTestAudit()
	service := NewAuthService(mockRepo, audit, testConfig())

	mockRepo.mockFindByUsername = func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{UserID: 1, Username: username, Password: "admin123", Role: models.RoleAdmin}, nil
	}

	var rewritten string
	mockRepo.mockUpdatePassword = func(ctx context.Context, userID uint, password string) error {
		rewritten = password
		return nil
	}

	result, err := service.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "admin", result.User.Username)

	// Stored value was rewritten as bcrypt and verifies against the
	// original password.
	require.True(t, strings.HasPrefix(rewritten, "$2"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rewritten), []byte("admin123")))

	assert.Equal(t, []string{models.ActionPasswordMigrated, models.ActionLogin}, logRepo.actions())
}

func TestAuthService_Login_LegacySHA256MigratesToBcrypt(t *testing.T) {
	mockRepo := &mockUserRepo{}
	audit, _ := newTestAudit()
	service := NewAuthService(mockRepo, audit, testConfig())

	digest := sha256.Sum256([]byte("doctor123"))
	stored := hex.EncodeToString(digest[:])

	mockRepo.mockFindByUsername = func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{UserID: 2, Username: username, Password: stored, Role: models.RoleDoctor}, nil
	}

	var rewritten string
	mockRepo.mockUpdatePassword = func(ctx context.Context, userID uint, password string) error {
		rewritten = password
		return nil
	}

	result, err := service.Login(context.Background(), "dr_smith", "doctor123")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, strings.HasPrefix(rewritten, "$2"))
}

func TestAuthService_Login_BcryptNoRewrite(t *testing.T) {
	mockRepo := &mockUserRepo{}
	audit, logRepo := newTestAudit()
	service := NewAuthService(mockRepo, audit, testConfig())

	hashed, err := bcrypt.GenerateFromPassword([]byte("reception123"), bcrypt.MinCost)
	require.NoError(t, err)

	mockRepo.mockFindByUsername = func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{UserID: 3, Username: username, Password: string(hashed), Role: models.RoleReceptionist}, nil
	}
	mockRepo.mockUpdatePassword = func(ctx context.Context, userID uint, password string) error {
		t.Fatal("bcrypt password must not be rewritten")
		return nil
	}

	result, err := service.Login(context.Background(), "reception", "reception123")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []string{models.ActionLogin}, logRepo.actions())
}

func TestAuthService_Login_TokenCarriesRoleSnapshot(t *testing.T) {
	mockRepo := &mockUserRepo{}
	audit, _ := newTestAudit()
	cfg := testConfig()
	service := NewAuthService(mockRepo, audit, cfg)

	hashed, err := bcrypt.GenerateFromPassword([]byte("doctor123"), bcrypt.MinCost)
	require.NoError(t, err)

	mockRepo.mockFindByUsername = func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{UserID: 2, Username: username, Password: string(hashed), Role: models.RoleDoctor}, nil
	}

	result, err := service.Login(context.Background(), "dr_smith", "doctor123")
	require.NoError(t, err)

	token, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, models.RoleDoctor, claims["role"])
	assert.Equal(t, "dr_smith", claims["username"])
}

func TestVerifyPassword(t *testing.T) {
	digest := sha256.Sum256([]byte("secret"))
	shaStored := hex.EncodeToString(digest[:])

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name       string
		password   string
		stored     string
		wantOK     bool
		wantLegacy bool
	}{
		{"plaintext match", "secret", "secret", true, true},
		{"plaintext mismatch", "wrong", "secret", false, true},
		{"sha256 match", "secret", shaStored, true, true},
		{"sha256 mismatch", "wrong", shaStored, false, true},
		{"bcrypt match", "secret", string(hashed), true, false},
		{"bcrypt mismatch", "wrong", string(hashed), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, legacy := verifyPassword(tt.password, tt.stored)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLegacy, legacy)
		})
	}
}
