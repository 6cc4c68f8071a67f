package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/repository"
	"github.com/clinisafe/clinica-api/internal/schema"
)

// ConsentService records GDPR consent grants. Consent rows are append-only
// from the application's point of view; they disappear only when the
// subject user is deleted (schema-enforced cascade).
type ConsentService struct {
	consentRepo repository.ConsentRepository
	audit       *AuditService
}

func NewConsentService(consentRepo repository.ConsentRepository, audit *AuditService) *ConsentService {
	return &ConsentService{consentRepo: consentRepo, audit: audit}
}

// Grant records a consent of the given type for the user. Tokens without
// an identifiable subject resolve to a nil user and are rejected.
func (s *ConsentService) Grant(ctx context.Context, user *models.User, consentType string) (*models.ConsentLog, error) {
	if user == nil {
		return nil, ErrNotFound
	}
	if consentType == "" {
		return nil, ErrConsentTypeEmpty
	}

	consent := &models.ConsentLog{
		UserID:      user.UserID,
		ConsentType: consentType,
	}
	if err := s.consentRepo.Create(ctx, consent); err != nil {
		if errors.Is(err, schema.ErrForeignKeyViolation) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.audit.LogAsync(user, models.ActionConsentGranted, fmt.Sprintf("consent_type=%s", consentType))
	return consent, nil
}

// ListByUser returns a user's consent history, newest first.
func (s *ConsentService) ListByUser(ctx context.Context, userID uint) ([]models.ConsentLog, error) {
	return s.consentRepo.FindByUser(ctx, userID)
}

// List returns all consent records with pagination and type filter.
func (s *ConsentService) List(ctx context.Context, query *repository.ListQuery) ([]models.ConsentLog, int64, error) {
	return s.consentRepo.List(ctx, query)
}
