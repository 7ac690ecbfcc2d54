package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunConfigShowSucceedsWithDefaults(t *testing.T) {
	require.NoError(t, runConfigShow(filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestNewConfigShowCommandHasShowSubcommand(t *testing.T) {
	cmd := NewConfigShowCommand()

	found := false

	for _, sub := range cmd.Commands() {
		if sub.Use == "show" {
			found = true
		}
	}

	require.True(t, found)
}
