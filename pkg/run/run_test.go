package run

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}

func TestCommandSuccess(t *testing.T) {
	assert.NoError(t, Command(testContext(), "", "true"))
}

func TestCommandNonZeroExit(t *testing.T) {
	err := Command(testContext(), "", "false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "false exited with status 1")
}

func TestCommandMissingTool(t *testing.T) {
	err := Command(testContext(), "", "definitely-not-a-real-tool")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-tool")
}

func TestOutputCapturesStdout(t *testing.T) {
	out, err := Output(testContext(), "", "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestOutputWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	out, err := Output(testContext(), dir, "pwd")
	require.NoError(t, err)
	assert.Contains(t, out, dir)
}
