package repository

import (
	"context"

	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/schema"
	"gorm.io/gorm"
)

// ConsentRepository defines the interface for GDPR consent records.
// Append and read only; deletion happens solely through the schema's
// ON DELETE CASCADE when the referenced user is removed.
type ConsentRepository interface {
	Create(ctx context.Context, consent *models.ConsentLog) error
	FindByUser(ctx context.Context, userID uint) ([]models.ConsentLog, error)
	List(ctx context.Context, query *ListQuery) ([]models.ConsentLog, int64, error)
}

type consentRepository struct {
	db *gorm.DB
}

// NewConsentRepository creates a new consent repository
func NewConsentRepository(db *gorm.DB) ConsentRepository {
	return &consentRepository{db: db}
}

// Create inserts a consent row. A nonexistent user_id surfaces as a
// classified foreign-key violation.
func (r *consentRepository) Create(ctx context.Context, consent *models.ConsentLog) error {
	if err := r.db.WithContext(ctx).Create(consent).Error; err != nil {
		return schema.Classify(err)
	}
	return nil
}

func (r *consentRepository) FindByUser(ctx context.Context, userID uint) ([]models.ConsentLog, error) {
	var consents []models.ConsentLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&consents).Error
	return consents, err
}

func (r *consentRepository) List(ctx context.Context, query *ListQuery) ([]models.ConsentLog, int64, error) {
	var consents []models.ConsentLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.ConsentLog{})

	if query.Filters["consent_type"] != "" {
		db = db.Where("consent_type = ?", query.Filters["consent_type"])
	}

	db.Count(&total)

	err := paginate(db, query).Order("timestamp DESC").Find(&consents).Error
	return consents, total, err
}
