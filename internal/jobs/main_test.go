package jobs

import (
	"os"
	"testing"

	"github.com/clinisafe/clinica-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup("test")
	os.Exit(m.Run())
}
