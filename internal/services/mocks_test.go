package services

import (
	"context"

	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/repository"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByUsername func(ctx context.Context, username string) (*models.User, error)
	mockFindByID       func(ctx context.Context, id uint) (*models.User, error)
	mockCreate         func(ctx context.Context, user *models.User) error
	mockUpdatePassword func(ctx context.Context, userID uint, password string) error
	mockDelete         func(ctx context.Context, id uint) error
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.mockFindByUsername(ctx, username)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.mockCreate(ctx, user)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID uint, password string) error {
	if m.mockUpdatePassword != nil {
		return m.mockUpdatePassword(ctx, userID, password)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	return m.mockDelete(ctx, id)
}

type mockPatientRepo struct {
	repository.PatientRepository
	mockFindByID      func(ctx context.Context, id uint) (*models.Patient, error)
	mockCreate        func(ctx context.Context, patient *models.Patient) error
	mockUpdate        func(ctx context.Context, patient *models.Patient) error
	mockSetAnonymized func(ctx context.Context, patientID uint, anonymizedName, anonymizedContact string) error
	mockFindAll       func(ctx context.Context) ([]models.Patient, error)
}

func (m *mockPatientRepo) FindByID(ctx context.Context, id uint) (*models.Patient, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockPatientRepo) Create(ctx context.Context, patient *models.Patient) error {
	return m.mockCreate(ctx, patient)
}

func (m *mockPatientRepo) Update(ctx context.Context, patient *models.Patient) error {
	return m.mockUpdate(ctx, patient)
}

func (m *mockPatientRepo) SetAnonymized(ctx context.Context, patientID uint, anonymizedName, anonymizedContact string) error {
	return m.mockSetAnonymized(ctx, patientID, anonymizedName, anonymizedContact)
}

func (m *mockPatientRepo) FindAll(ctx context.Context) ([]models.Patient, error) {
	return m.mockFindAll(ctx)
}

// mockLogRepo records appended entries so tests can assert on the audit
// trail. AuditService runs synchronously when no worker is attached.
type mockLogRepo struct {
	repository.LogRepository
	entries []models.LogEntry
}

func (m *mockLogRepo) Append(ctx context.Context, entry *models.LogEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockLogRepo) actions() []string {
	actions := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		actions = append(actions, e.Action)
	}
	return actions
}

type mockConsentRepo struct {
	repository.ConsentRepository
	mockCreate     func(ctx context.Context, consent *models.ConsentLog) error
	mockFindByUser func(ctx context.Context, userID uint) ([]models.ConsentLog, error)
}

func (m *mockConsentRepo) Create(ctx context.Context, consent *models.ConsentLog) error {
	return m.mockCreate(ctx, consent)
}

func (m *mockConsentRepo) FindByUser(ctx context.Context, userID uint) ([]models.ConsentLog, error) {
	return m.mockFindByUser(ctx, userID)
}

func newTestAudit() (*AuditService, *mockLogRepo) {
	logRepo := &mockLogRepo{}
	return NewAuditService(logRepo, nil), logRepo
}
