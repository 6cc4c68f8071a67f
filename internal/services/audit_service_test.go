package services

import (
	"testing"

	"github.com/clinisafe/clinica-api/internal/jobs"
	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogAsync_WritesThroughWorker(t *testing.T) {
	logRepo := &mockLogRepo{}
	worker := jobs.NewWorker(1)
	audit := NewAuditService(logRepo, worker)

	actor := &models.User{UserID: 2, Username: "dr_smith", Role: models.RoleDoctor}
	audit.LogAsync(actor, models.ActionLogin, "")

	// Shutdown waits for the fire-and-forget write to land.
	worker.Shutdown()

	require.Len(t, logRepo.entries, 1)
	entry := logRepo.entries[0]
	assert.Equal(t, models.ActionLogin, entry.Action)
	require.NotNil(t, entry.Role)
	assert.Equal(t, models.RoleDoctor, *entry.Role)
}
