package models

import (
	"time"
)

// ConsentLog represents a GDPR consent record, append-only. Unlike audit
// logs, consent rows do not outlive their subject: the schema cascades
// deletion when the referenced user is removed.
type ConsentLog struct {
	ConsentID   uint      `gorm:"column:consent_id;primaryKey" json:"consent_id"`
	UserID      uint      `gorm:"column:user_id;not null" json:"user_id"`
	ConsentType string    `gorm:"column:consent_type;not null" json:"consent_type"`
	Timestamp   time.Time `gorm:"column:timestamp;<-:false" json:"timestamp"`
}

// TableName specifies the table name for ConsentLog
func (ConsentLog) TableName() string {
	return "consent_log"
}

// Consent type constants
const (
	ConsentDataProcessing = "data_processing"
	ConsentCookies        = "cookies"
	ConsentMarketing      = "marketing"
)
