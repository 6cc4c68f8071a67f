package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/clinisafe/clinica-api/internal/middleware"
	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientService *services.PatientService
	exportService  *services.ExportService
	auditService   *services.AuditService
}

func NewPatientHandler(patientService *services.PatientService, exportService *services.ExportService, auditService *services.AuditService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
		exportService:  exportService,
		auditService:   auditService,
	}
}

func (h *PatientHandler) Create(c *gin.Context) {
	var input services.CreatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, contact and diagnosis are required"})
		return
	}

	patient, err := h.patientService.Create(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		if errors.Is(err, services.ErrNameTooShort) || errors.Is(err, services.ErrContactTooShort) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}

	c.JSON(http.StatusCreated, patient)
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "patient_id")
	if !ok {
		return
	}

	var input services.CreatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, contact and diagnosis are required"})
		return
	}

	patient, err := h.patientService.Update(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		case errors.Is(err, services.ErrNameTooShort), errors.Is(err, services.ErrContactTooShort):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update patient"})
		}
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "patient_id")
	if !ok {
		return
	}

	patient, err := h.patientService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load patient"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) List(c *gin.Context) {
	query := listQueryFromContext(c)

	patients, total, err := h.patientService.List(c.Request.Context(), middleware.CurrentUser(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list patients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patients": patients,
		"total":    total,
		"page":     query.Page,
	})
}

func (h *PatientHandler) Anonymize(c *gin.Context) {
	id, ok := parseIDParam(c, "patient_id")
	if !ok {
		return
	}

	patient, err := h.patientService.Anonymize(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to anonymize patient"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) AnonymizeAll(c *gin.Context) {
	h.patientService.AnonymizeAll(middleware.CurrentUser(c))
	c.JSON(http.StatusAccepted, gin.H{"message": "Anonymization scheduled"})
}

// Export streams a backup of all patients as csv (default), xlsx or pdf.
func (h *PatientHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	patients, err := h.patientService.FindAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load patients"})
		return
	}

	format := c.DefaultQuery("format", "csv")

	var (
		data        []byte
		filename    string
		contentType string
	)
	switch format {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(ctx, patients)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(ctx, patients)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.ExportPDF(ctx, patients)
		contentType = "application/pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv, xlsx or pdf"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate export"})
		return
	}

	h.auditService.LogAsync(middleware.CurrentUser(c), models.ActionExport, fmt.Sprintf("format=%s, patients=%d", format, len(patients)))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
