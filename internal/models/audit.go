package models

import (
	"time"
)

// LogEntry represents one row of the append-only audit trail. UserID is a
// weak reference: in the hardened schema it is nulled when the user is
// deleted. Role is a denormalized snapshot of the acting user's role at the
// time of the action, so history stays accurate if the role later changes.
type LogEntry struct {
	LogID     uint      `gorm:"column:log_id;primaryKey" json:"log_id"`
	UserID    *uint     `gorm:"column:user_id" json:"user_id"`
	Role      *string   `gorm:"column:role" json:"role"`
	Action    string    `gorm:"column:action" json:"action"`
	Timestamp time.Time `gorm:"column:timestamp;<-:false" json:"timestamp"`
	Details   string    `gorm:"column:details" json:"details"`
}

// TableName specifies the table name for LogEntry
func (LogEntry) TableName() string {
	return "logs"
}

// Action tags. The schema leaves logs.action as free text; this is the
// conventional set callers use.
const (
	ActionLogin            = "login"
	ActionLoginFailed      = "login_failed"
	ActionAddPatient       = "add_patient"
	ActionUpdatePatient    = "update_patient"
	ActionViewPatients     = "view_patients"
	ActionAnonymize        = "anonymize"
	ActionAnonymizeAll     = "anonymize_all"
	ActionExport           = "export"
	ActionConsentGranted   = "consent_granted"
	ActionUserCreated      = "user_created"
	ActionUserDeleted      = "user_deleted"
	ActionPasswordMigrated = "password_migrated"
)
