package handlers

import (
	"net/http"

	"github.com/clinisafe/clinica-api/internal/jobs"
	"github.com/clinisafe/clinica-api/internal/services"
	"github.com/gin-gonic/gin"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	User    *UserHandler
	Patient *PatientHandler
	Audit   *AuditHandler
	Consent *ConsentHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(worker),
		Auth:    NewAuthHandler(svcs.Auth),
		User:    NewUserHandler(svcs.User),
		Patient: NewPatientHandler(svcs.Patient, svcs.Export, svcs.Audit),
		Audit:   NewAuditHandler(svcs.Audit),
		Consent: NewConsentHandler(svcs.Consent),
	}
}

type HealthHandler struct {
	worker *jobs.Worker
}

func NewHealthHandler(worker *jobs.Worker) *HealthHandler {
	return &HealthHandler{worker: worker}
}

func (h *HealthHandler) Index(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"service": "clinica-api",
		"version": "1.0.0",
	}
	if h.worker != nil {
		body["worker"] = h.worker.Stats()
	}
	c.JSON(http.StatusOK, body)
}
