package handlers

import (
	"net/http"

	"github.com/clinisafe/clinica-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List returns audit entries, newest first. Supports ?action= and ?user_id=
// filters plus the common pagination parameters.
func (h *AuditHandler) List(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["action"] = c.Query("action")
	query.Filters["user_id"] = c.Query("user_id")

	entries, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  entries,
		"total": total,
		"page":  query.Page,
	})
}
