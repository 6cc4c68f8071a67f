package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/repository"
	"github.com/clinisafe/clinica-api/internal/schema"
	"gorm.io/gorm"
)

// UserService handles user provisioning and removal. Removal exercises the
// schema's deletion semantics: consent rows cascade away, audit references
// are nulled (hardened variant).
type UserService struct {
	userRepo    repository.UserRepository
	consentRepo repository.ConsentRepository
	audit       *AuditService
}

func NewUserService(userRepo repository.UserRepository, consentRepo repository.ConsentRepository, audit *AuditService) *UserService {
	return &UserService{
		userRepo:    userRepo,
		consentRepo: consentRepo,
		audit:       audit,
	}
}

// CreateUserInput holds provisioning fields.
type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// Create provisions a new user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, actor *models.User, input CreateUserInput) (*models.User, error) {
	// The schema's CHECK would reject it anyway; failing here gives the
	// caller a better message than a raw constraint violation.
	if !models.ValidRole(input.Role) {
		return nil, ErrInvalidRole
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Password: hashed,
		Role:     input.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, schema.ErrUniqueViolation):
			return nil, ErrDuplicateUsername
		case errors.Is(err, schema.ErrCheckViolation):
			return nil, ErrInvalidRole
		}
		return nil, err
	}

	s.audit.LogAsync(actor, models.ActionUserCreated, fmt.Sprintf("username=%s, role=%s", user.Username, user.Role))
	return user, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns users with pagination, search and role filter.
func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, query)
}

// Delete removes a user. The database cascades the user's consent rows;
// what happens to the user's audit entries depends on the schema variant.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uint) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.LogAsync(actor, models.ActionUserDeleted, fmt.Sprintf("username=%s", user.Username))
	return nil
}

// Consents returns the consent history for one user.
func (s *UserService) Consents(ctx context.Context, userID uint) ([]models.ConsentLog, error) {
	return s.consentRepo.FindByUser(ctx, userID)
}
