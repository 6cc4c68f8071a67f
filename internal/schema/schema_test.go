package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements_Idempotent(t *testing.T) {
	for _, stmt := range Statements(Hardened()) {
		switch {
		case strings.HasPrefix(stmt, "CREATE TABLE"):
			assert.Contains(t, stmt, "IF NOT EXISTS")
		case strings.HasPrefix(stmt, "CREATE INDEX"):
			assert.Contains(t, stmt, "IF NOT EXISTS")
		case strings.HasPrefix(stmt, "INSERT INTO users"):
			assert.Contains(t, stmt, "ON CONFLICT (username) DO NOTHING")
		default:
			t.Fatalf("unexpected statement: %s", stmt)
		}
	}

	// Rendering twice produces the identical script.
	first := Statements(Hardened())
	second := Statements(Hardened())
	assert.Equal(t, first, second)
}

func TestStatements_TablesAndIndexes(t *testing.T) {
	script := strings.Join(Statements(Hardened()), ";\n")

	for _, table := range []string{"users", "patients", "logs", "consent_log"} {
		assert.Contains(t, script, "CREATE TABLE IF NOT EXISTS "+table)
	}
	for _, index := range []string{"idx_patients_date", "idx_logs_user", "idx_logs_action", "idx_consent_user"} {
		assert.Contains(t, script, "CREATE INDEX IF NOT EXISTS "+index)
	}
}

func TestStatements_RoleCheck(t *testing.T) {
	script := strings.Join(Statements(Base()), ";\n")
	// Closed, case-sensitive role set in both variants.
	assert.Contains(t, script, "CHECK (role IN ('admin', 'doctor', 'receptionist'))")
}

func TestStatements_HardenedDeltas(t *testing.T) {
	hardened := strings.Join(Statements(Hardened()), ";\n")
	base := strings.Join(Statements(Base()), ";\n")

	// Patient length checks only in the hardened variant.
	assert.Contains(t, hardened, "CHECK (length(name) >= 2)")
	assert.Contains(t, hardened, "CHECK (length(contact) >= 10)")
	assert.NotContains(t, base, "length(name)")
	assert.NotContains(t, base, "length(contact)")

	// Audit history survives user deletion in the hardened variant; the base
	// variant has no FK at all on logs.user_id.
	assert.Contains(t, hardened, "ON DELETE SET NULL")
	assert.NotContains(t, base, "ON DELETE SET NULL")

	// logs.action required only when hardened.
	assert.Contains(t, logsTable(Hardened()), "action    TEXT NOT NULL")
	assert.Equal(t, 1, strings.Count(logsTable(Base()), "action    TEXT"))
	assert.NotContains(t, logsTable(Base()), "action    TEXT NOT NULL")
}

func TestStatements_ConsentCascade(t *testing.T) {
	// Consent rows never outlive their subject, in both variants.
	for _, opts := range []Options{Hardened(), Base()} {
		script := strings.Join(Statements(opts), ";\n")
		assert.Contains(t, script, "ON DELETE CASCADE")
	}
}

func TestStatements_SeedUsers(t *testing.T) {
	stmts := Statements(Hardened())

	var seeds []string
	for _, stmt := range stmts {
		if strings.HasPrefix(stmt, "INSERT INTO users") {
			seeds = append(seeds, stmt)
		}
	}
	require.Len(t, seeds, 3)
	assert.Contains(t, seeds[0], "('admin', 'admin123', 'admin')")

	// One seed per role.
	joined := strings.Join(seeds, "\n")
	for _, role := range []string{"'admin'", "'doctor'", "'receptionist'"} {
		assert.Contains(t, joined, role)
	}
}

func TestFromHardenedFlag(t *testing.T) {
	assert.Equal(t, Hardened(), FromHardenedFlag(true))
	assert.Equal(t, Base(), FromHardenedFlag(false))
}
