package services

import (
	"context"
	"testing"

	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsentService_Grant(t *testing.T) {
	repo := &mockConsentRepo{}
	var created *models.ConsentLog
	repo.mockCreate = func(ctx context.Context, consent *models.ConsentLog) error {
		created = consent
		return nil
	}

	audit, logRepo := newTestAudit()
	service := NewConsentService(repo, audit)

	user := &models.User{UserID: 4, Username: "dr_smith", Role: models.RoleDoctor}
	consent, err := service.Grant(context.Background(), user, models.ConsentDataProcessing)
	require.NoError(t, err)

	assert.Equal(t, uint(4), consent.UserID)
	assert.Equal(t, models.ConsentDataProcessing, created.ConsentType)
	assert.Equal(t, []string{models.ActionConsentGranted}, logRepo.actions())
}

func TestConsentService_Grant_EmptyType(t *testing.T) {
	audit, _ := newTestAudit()
	service := NewConsentService(&mockConsentRepo{}, audit)

	_, err := service.Grant(context.Background(), &models.User{UserID: 1}, "")
	assert.ErrorIs(t, err, ErrConsentTypeEmpty)
}

func TestConsentService_Grant_NilUser(t *testing.T) {
	repo := &mockConsentRepo{}
	repo.mockCreate = func(ctx context.Context, consent *models.ConsentLog) error {
		t.Fatal("repository must not be reached without a subject user")
		return nil
	}

	audit, _ := newTestAudit()
	service := NewConsentService(repo, audit)

	// A valid token can lack the user_id claim; the resolved user is nil.
	_, err := service.Grant(context.Background(), nil, models.ConsentDataProcessing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsentService_Grant_MissingUser(t *testing.T) {
	repo := &mockConsentRepo{}
	repo.mockCreate = func(ctx context.Context, consent *models.ConsentLog) error {
		return schema.ErrForeignKeyViolation
	}

	audit, _ := newTestAudit()
	service := NewConsentService(repo, audit)

	_, err := service.Grant(context.Background(), &models.User{UserID: 99}, models.ConsentCookies)
	assert.ErrorIs(t, err, ErrNotFound)
}
