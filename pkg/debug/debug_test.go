package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "treegrid.log")

	closer, err := Setup("info", path)
	require.NoError(t, err)

	logger := Component("viewmodel")
	logger.Info().Int("rows", 3).Msg("rebuilt")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"cmp":"viewmodel"`)
	assert.Contains(t, line, `"rows":3`)
	assert.Contains(t, line, `"message":"rebuilt"`)
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := Setup("loud", "")
	assert.Error(t, err)
}

func TestHelpersAreNoOpsWhenDisabled(t *testing.T) {
	if Enabled() {
		t.Skip("debug enabled through environment")
	}
	Log("ignored %d", 1)
	LogIf(true, "ignored")
	Dump("x", 1)
	Assert(false, "never panics when disabled")
	LogEnterExit("noop")()
}
