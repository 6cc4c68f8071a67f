package repository

import (
	"context"

	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/schema"
	"gorm.io/gorm"
)

// PatientRepository defines the interface for patient data access. The
// schema defines no deletion path for patients, so none is exposed here.
type PatientRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Patient, error)
	Create(ctx context.Context, patient *models.Patient) error
	Update(ctx context.Context, patient *models.Patient) error
	SetAnonymized(ctx context.Context, patientID uint, anonymizedName, anonymizedContact string) error
	List(ctx context.Context, query *ListQuery) ([]models.Patient, int64, error)
	FindAll(ctx context.Context) ([]models.Patient, error)
}

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) FindByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).First(&patient, id).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		return schema.Classify(err)
	}
	return nil
}

func (r *patientRepository) Update(ctx context.Context, patient *models.Patient) error {
	err := r.db.WithContext(ctx).Model(patient).
		Select("Name", "Contact", "Diagnosis").
		Updates(patient).Error
	if err != nil {
		return schema.Classify(err)
	}
	return nil
}

// SetAnonymized populates the shadow columns, leaving the originals intact.
func (r *patientRepository) SetAnonymized(ctx context.Context, patientID uint, anonymizedName, anonymizedContact string) error {
	return r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("patient_id = ?", patientID).
		Updates(map[string]interface{}{
			"anonymized_name":    anonymizedName,
			"anonymized_contact": anonymizedContact,
		}).Error
}

func (r *patientRepository) List(ctx context.Context, query *ListQuery) ([]models.Patient, int64, error) {
	var patients []models.Patient
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Patient{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR contact ILIKE ?", search, search)
	}

	db.Count(&total)

	err := paginate(db, query).Order("date_added DESC").Find(&patients).Error
	return patients, total, err
}

func (r *patientRepository) FindAll(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.WithContext(ctx).Order("patient_id").Find(&patients).Error
	return patients, err
}
