package services

import (
	"github.com/clinisafe/clinica-api/internal/config"
	"github.com/clinisafe/clinica-api/internal/jobs"
	"github.com/clinisafe/clinica-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth    *AuthService
	User    *UserService
	Patient *PatientService
	Privacy *PrivacyService
	Audit   *AuditService
	Consent *ConsentService
	Export  *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.Log, worker)
	privacySvc := NewPrivacyService(cfg.EncryptionKey)

	return &Services{
		Auth:    NewAuthService(repos.User, auditSvc, cfg),
		User:    NewUserService(repos.User, repos.Consent, auditSvc),
		Patient: NewPatientService(repos.Patient, privacySvc, auditSvc, worker),
		Privacy: privacySvc,
		Audit:   auditSvc,
		Consent: NewConsentService(repos.Consent, auditSvc),
		Export:  NewExportService(),
	}
}
