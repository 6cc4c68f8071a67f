package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/clinisafe/clinica-api/internal/jobs"
	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/repository"
	"github.com/clinisafe/clinica-api/internal/schema"
	"gorm.io/gorm"
)

// PatientService handles patient intake, updates and anonymization.
// Validation mirrors the hardened schema's CHECK constraints so the
// boundary cases fail identically whichever schema variant is deployed.
type PatientService struct {
	patientRepo repository.PatientRepository
	privacy     *PrivacyService
	audit       *AuditService
	worker      *jobs.Worker
}

func NewPatientService(patientRepo repository.PatientRepository, privacy *PrivacyService, audit *AuditService, worker *jobs.Worker) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		privacy:     privacy,
		audit:       audit,
		worker:      worker,
	}
}

// CreatePatientInput holds intake fields.
type CreatePatientInput struct {
	Name      string `json:"name" binding:"required"`
	Contact   string `json:"contact" binding:"required"`
	Diagnosis string `json:"diagnosis" binding:"required"`
}

func validatePatientFields(name, contact string) error {
	// Rune counts, not byte counts: the database length() checks count
	// characters, and multibyte names must hit the same boundary.
	if utf8.RuneCountInString(name) < models.MinNameLength {
		return ErrNameTooShort
	}
	if utf8.RuneCountInString(contact) < models.MinContactLength {
		return ErrContactTooShort
	}
	return nil
}

// Create registers a new patient. The anonymized columns start empty and
// date_added is assigned by the database.
func (s *PatientService) Create(ctx context.Context, actor *models.User, input CreatePatientInput) (*models.Patient, error) {
	if err := validatePatientFields(input.Name, input.Contact); err != nil {
		return nil, err
	}

	diagnosis := input.Diagnosis
	if s.privacy.EncryptionEnabled() {
		encrypted, err := s.privacy.Encrypt(diagnosis)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt diagnosis: %w", err)
		}
		diagnosis = encrypted
	}

	patient := &models.Patient{
		Name:      input.Name,
		Contact:   input.Contact,
		Diagnosis: diagnosis,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		// The DDL checks mirror validatePatientFields; report the same
		// error shape whichever layer rejected the row first.
		if errors.Is(err, schema.ErrCheckViolation) {
			if verr := validatePatientFields(input.Name, input.Contact); verr != nil {
				return nil, verr
			}
		}
		return nil, err
	}

	s.audit.LogAsync(actor, models.ActionAddPatient, fmt.Sprintf("name=%s, contact=%s", input.Name, input.Contact))
	return patient, nil
}

// Update modifies the basic patient fields. Shadow columns and date_added
// are untouched.
func (s *PatientService) Update(ctx context.Context, actor *models.User, patientID uint, input CreatePatientInput) (*models.Patient, error) {
	if err := validatePatientFields(input.Name, input.Contact); err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	patient.Name = input.Name
	patient.Contact = input.Contact
	patient.Diagnosis = input.Diagnosis
	if s.privacy.EncryptionEnabled() {
		encrypted, err := s.privacy.Encrypt(input.Diagnosis)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt diagnosis: %w", err)
		}
		patient.Diagnosis = encrypted
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}

	s.audit.LogAsync(actor, models.ActionUpdatePatient, fmt.Sprintf("patient_id=%d", patientID))
	return patient, nil
}

// Get returns one patient with the diagnosis decrypted when possible.
func (s *PatientService) Get(ctx context.Context, patientID uint) (*models.Patient, error) {
	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.decryptDiagnosis(patient)
	return patient, nil
}

// List returns patients with pagination and search.
func (s *PatientService) List(ctx context.Context, actor *models.User, query *repository.ListQuery) ([]models.Patient, int64, error) {
	patients, total, err := s.patientRepo.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	for i := range patients {
		s.decryptDiagnosis(&patients[i])
	}
	s.audit.LogAsync(actor, models.ActionViewPatients, "")
	return patients, total, nil
}

// Anonymize populates the shadow columns for one patient. The originals
// are retained; re-running is a no-op because the derivation is stable.
func (s *PatientService) Anonymize(ctx context.Context, actor *models.User, patientID uint) (*models.Patient, error) {
	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	anonName := s.privacy.AnonymizeName(patient.Name)
	maskedContact := s.privacy.MaskContact(patient.Contact)
	if err := s.patientRepo.SetAnonymized(ctx, patientID, anonName, maskedContact); err != nil {
		return nil, err
	}

	patient.AnonymizedName = &anonName
	patient.AnonymizedContact = &maskedContact

	s.audit.LogAsync(actor, models.ActionAnonymize, fmt.Sprintf("patient_id=%d", patientID))
	return patient, nil
}

// AnonymizeAll schedules anonymization of every patient on the worker pool.
func (s *PatientService) AnonymizeAll(actor *models.User) {
	s.worker.Enqueue(func(ctx context.Context) error {
		patients, err := s.patientRepo.FindAll(ctx)
		if err != nil {
			return err
		}
		for _, p := range patients {
			anonName := s.privacy.AnonymizeName(p.Name)
			maskedContact := s.privacy.MaskContact(p.Contact)
			if err := s.patientRepo.SetAnonymized(ctx, p.PatientID, anonName, maskedContact); err != nil {
				return fmt.Errorf("anonymize patient %d: %w", p.PatientID, err)
			}
		}
		return s.audit.Log(ctx, actor, models.ActionAnonymizeAll, fmt.Sprintf("patients=%d", len(patients)))
	})
}

// FindAll returns every patient, diagnoses decrypted, for exports.
func (s *PatientService) FindAll(ctx context.Context) ([]models.Patient, error) {
	patients, err := s.patientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range patients {
		s.decryptDiagnosis(&patients[i])
	}
	return patients, nil
}

// decryptDiagnosis replaces an encrypted diagnosis with its plaintext.
// Values that fail to decrypt (pre-encryption rows) are left as stored.
func (s *PatientService) decryptDiagnosis(patient *models.Patient) {
	if !s.privacy.EncryptionEnabled() {
		return
	}
	if plaintext, err := s.privacy.Decrypt(patient.Diagnosis); err == nil {
		patient.Diagnosis = plaintext
	}
}
