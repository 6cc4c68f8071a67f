package services

import (
	"context"

	"github.com/clinisafe/clinica-api/internal/jobs"
	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/repository"
)

// AuditService appends entries to the logs table. Entries carry a snapshot
// of the acting user's role so history stays accurate across role changes.
// Nothing in this service (or anywhere else) updates or deletes log rows.
type AuditService struct {
	logRepo repository.LogRepository
	worker  *jobs.Worker
}

func NewAuditService(logRepo repository.LogRepository, worker *jobs.Worker) *AuditService {
	return &AuditService{logRepo: logRepo, worker: worker}
}

// Log records an audit entry for the given user. A nil user records an
// anonymous entry (e.g. a failed login attempt).
func (s *AuditService) Log(ctx context.Context, user *models.User, action, details string) error {
	entry := &models.LogEntry{
		Action:  action,
		Details: details,
	}
	if user != nil {
		userID := user.UserID
		role := user.Role
		entry.UserID = &userID
		entry.Role = &role
	}
	return s.logRepo.Append(ctx, entry)
}

// LogAsync records an audit entry off the request path as a fire-and-forget
// job. Falls back to a synchronous write when no worker is attached.
func (s *AuditService) LogAsync(user *models.User, action, details string) {
	if s.worker == nil {
		_ = s.Log(context.Background(), user, action, details)
		return
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.Log(ctx, user, action, details)
	})
}

// List retrieves audit entries, newest first, with optional action and
// user filters.
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.LogEntry, int64, error) {
	return s.logRepo.List(ctx, query)
}
