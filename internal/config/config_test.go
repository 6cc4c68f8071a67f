package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinica_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.SchemaHardened)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, "dev-secret-change-in-production", cfg.JWTSecret)
	assert.Empty(t, cfg.EncryptionKey)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RequiresJWTSecretInProduction(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinica_test")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SchemaHardenedFlag(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinica_test")
	t.Setenv("SCHEMA_HARDENED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.SchemaHardened)
}

func TestLoad_EncryptionKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinica_test")

	t.Run("valid 32-byte hex key", func(t *testing.T) {
		t.Setenv("ENCRYPTION_KEY", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Len(t, cfg.EncryptionKey, 32)
	})

	t.Run("not hex", func(t *testing.T) {
		t.Setenv("ENCRYPTION_KEY", "zzzz")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		t.Setenv("ENCRYPTION_KEY", "00ff")
		_, err := Load()
		assert.Error(t, err)
	})
}
