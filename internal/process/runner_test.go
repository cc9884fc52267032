package process

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSilentReturnsStdout(t *testing.T) {
	if !CommandExists("sh") {
		t.Skip("sh not available")
	}

	out, err := NewRunner().RunSilent(context.Background(), "sh", []string{"-c", "echo booted"})
	require.NoError(t, err)
	assert.Equal(t, "booted\n", string(out))
}

func TestRunSilentIncludesStderrInError(t *testing.T) {
	if !CommandExists("sh") {
		t.Skip("sh not available")
	}

	_, err := NewRunner().RunSilent(context.Background(), "sh", []string{"-c", "echo 'no such device' >&2; exit 3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such device")
}

func TestCommandExists(t *testing.T) {
	assert.False(t, CommandExists("pipctl-definitely-not-a-command"))
}
