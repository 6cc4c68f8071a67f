package repository

import (
	"context"

	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/schema"
	"gorm.io/gorm"
)

// LogRepository defines the interface for the append-only audit trail.
// There is deliberately no update or delete method.
type LogRepository interface {
	Append(ctx context.Context, entry *models.LogEntry) error
	List(ctx context.Context, query *ListQuery) ([]models.LogEntry, int64, error)
}

type logRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Append(ctx context.Context, entry *models.LogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return schema.Classify(err)
	}
	return nil
}

func (r *logRepository) List(ctx context.Context, query *ListQuery) ([]models.LogEntry, int64, error) {
	var entries []models.LogEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LogEntry{})

	if query.Filters["action"] != "" {
		db = db.Where("action = ?", query.Filters["action"])
	}
	if query.Filters["user_id"] != "" {
		db = db.Where("user_id = ?", query.Filters["user_id"])
	}

	db.Count(&total)

	err := paginate(db, query).Order("timestamp DESC").Find(&entries).Error
	return entries, total, err
}
