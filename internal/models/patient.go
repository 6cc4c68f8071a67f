package models

import (
	"time"
)

// Patient represents a clinical record. The anonymized columns are nullable
// shadows of name/contact, populated by the privacy service; originals are
// always retained (reversible redaction). There is no delete path.
type Patient struct {
	PatientID         uint      `gorm:"column:patient_id;primaryKey" json:"patient_id"`
	Name              string    `gorm:"column:name;not null" json:"name"`
	Contact           string    `gorm:"column:contact;not null" json:"contact"`
	Diagnosis         string    `gorm:"column:diagnosis;not null" json:"diagnosis"`
	AnonymizedName    *string   `gorm:"column:anonymized_name" json:"anonymized_name"`
	AnonymizedContact *string   `gorm:"column:anonymized_contact" json:"anonymized_contact"`
	DateAdded         time.Time `gorm:"column:date_added;<-:false" json:"date_added"`
}

// TableName specifies the table name for Patient
func (Patient) TableName() string {
	return "patients"
}

// Data-quality bounds enforced by the hardened schema's CHECK constraints
// and mirrored by service-level validation.
const (
	MinNameLength    = 2
	MinContactLength = 10
)

// IsAnonymized returns true once the shadow columns have been populated.
func (p *Patient) IsAnonymized() bool {
	return p.AnonymizedName != nil && p.AnonymizedContact != nil
}
