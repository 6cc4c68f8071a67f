// Package schema owns the relational shape of the clinic database: the four
// tables (users, patients, logs, consent_log), their integrity constraints,
// the supporting indexes and the seed users. Application is idempotent; every
// statement carries an IF NOT EXISTS or ON CONFLICT guard so the script can
// be re-run at every startup.
package schema

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Options selects between the base schema and its hardened deltas. The three
// flags are independent in DDL terms but deployed together in practice; use
// Hardened() or Base() unless a migration needs finer control.
type Options struct {
	// LogsActionNotNull makes logs.action a required column.
	LogsActionNotNull bool
	// LogsUserFKSetNull adds the logs.user_id foreign key with ON DELETE SET
	// NULL, so audit history survives user deletion. Without it the column is
	// unconstrained and deleting a referenced user leaves orphaned log rows.
	LogsUserFKSetNull bool
	// PatientLengthChecks enforces length(name) >= 2 and
	// length(contact) >= 10 on patients.
	PatientLengthChecks bool
}

// Hardened returns the canonical production variant.
func Hardened() Options {
	return Options{
		LogsActionNotNull:   true,
		LogsUserFKSetNull:   true,
		PatientLengthChecks: true,
	}
}

// Base returns the legacy variant with none of the hardening deltas.
func Base() Options {
	return Options{}
}

// FromHardenedFlag maps the single SCHEMA_HARDENED config switch onto Options.
func FromHardenedFlag(hardened bool) Options {
	if hardened {
		return Hardened()
	}
	return Base()
}

// Seed users, one per role. Passwords are stored as provisioned; AuthService
// rewrites them as bcrypt on first successful login.
var seedUsers = []struct {
	Username string
	Password string
	Role     string
}{
	{"admin", "admin123", "admin"},
	{"dr_smith", "doctor123", "doctor"},
	{"reception", "reception123", "receptionist"},
}

// Statements renders the full creation script for the given options, in
// application order: tables, indexes, seed rows.
func Statements(opts Options) []string {
	stmts := []string{
		usersTable(),
		patientsTable(opts),
		logsTable(opts),
		consentLogTable(),
		`CREATE INDEX IF NOT EXISTS idx_patients_date ON patients (date_added)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_user ON logs (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_action ON logs (action)`,
		`CREATE INDEX IF NOT EXISTS idx_consent_user ON consent_log (user_id)`,
	}
	return append(stmts, seedStatements()...)
}

// Apply runs the creation script against the database. Safe to call on every
// startup; an already-initialized database is left untouched.
func Apply(ctx context.Context, db *gorm.DB, opts Options) error {
	for _, stmt := range Statements(opts) {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

func usersTable() string {
	return `CREATE TABLE IF NOT EXISTS users (
	user_id  INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	role     TEXT NOT NULL CHECK (role IN ('admin', 'doctor', 'receptionist'))
)`
}

func patientsTable(opts Options) string {
	nameCol := "name               TEXT NOT NULL"
	contactCol := "contact            TEXT NOT NULL"
	if opts.PatientLengthChecks {
		nameCol += " CHECK (length(name) >= 2)"
		contactCol += " CHECK (length(contact) >= 10)"
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS patients (
	patient_id         INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	%s,
	%s,
	diagnosis          TEXT NOT NULL,
	anonymized_name    TEXT,
	anonymized_contact TEXT,
	date_added         TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, nameCol, contactCol)
}

func logsTable(opts Options) string {
	userCol := "user_id   INTEGER"
	if opts.LogsUserFKSetNull {
		userCol += " REFERENCES users (user_id) ON DELETE SET NULL"
	}
	actionCol := "action    TEXT"
	if opts.LogsActionNotNull {
		actionCol += " NOT NULL"
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS logs (
	log_id    INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	%s,
	role      TEXT,
	%s,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	details   TEXT
)`, userCol, actionCol)
}

func consentLogTable() string {
	return `CREATE TABLE IF NOT EXISTS consent_log (
	consent_id   INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	user_id      INTEGER NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
	consent_type TEXT NOT NULL,
	timestamp    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
}

func seedStatements() []string {
	stmts := make([]string, 0, len(seedUsers))
	for _, u := range seedUsers {
		stmts = append(stmts, fmt.Sprintf(
			`INSERT INTO users (username, password, role) VALUES ('%s', '%s', '%s') ON CONFLICT (username) DO NOTHING`,
			u.Username, u.Password, u.Role,
		))
	}
	return stmts
}
