package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExitCodes(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yml"))

	assert.Equal(t, 2, run([]string{"mttr-dashboard"}))
	assert.Equal(t, 2, run([]string{"mttr-dashboard", "import"}))
	assert.Equal(t, 1, run([]string{"mttr-dashboard", "report"}))

	in := filepath.Join(t.TempDir(), "tickets.csv")
	require.NoError(t, os.WriteFile(in, []byte(
		"Date/Time Opened,Responded Date/Time,Service Restored Date,Opened Date,Case Origin,Priority\n"+
			"2025-01-05 10:00:00,,2025-01-05 11:00:00,2025-01-05,Web,P1\n"), 0o644))
	out := filepath.Join(t.TempDir(), "report.xlsx")
	assert.Equal(t, 0, run([]string{"mttr-dashboard", "report", "--in", in, "--out", out}))
	assert.FileExists(t, out)
}
