package handlers

import (
	"errors"
	"net/http"

	"github.com/clinisafe/clinica-api/internal/middleware"
	"github.com/clinisafe/clinica-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ConsentHandler struct {
	consentService *services.ConsentService
}

func NewConsentHandler(consentService *services.ConsentService) *ConsentHandler {
	return &ConsentHandler{consentService: consentService}
}

type GrantConsentRequest struct {
	ConsentType string `json:"consent_type" binding:"required"`
}

// Grant records a consent for the authenticated user.
func (h *ConsentHandler) Grant(c *gin.Context) {
	var req GrantConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "consent_type is required"})
		return
	}

	consent, err := h.consentService.Grant(c.Request.Context(), middleware.CurrentUser(c), req.ConsentType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConsentTypeEmpty):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record consent"})
		}
		return
	}

	c.JSON(http.StatusCreated, consent)
}

// Mine lists the authenticated user's consent history.
func (h *ConsentHandler) Mine(c *gin.Context) {
	consents, err := h.consentService.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load consents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"consents": consents})
}

// List returns all consent records (admin view).
func (h *ConsentHandler) List(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["consent_type"] = c.Query("consent_type")

	consents, total, err := h.consentService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list consents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consents": consents,
		"total":    total,
		"page":     query.Page,
	})
}
