package runner

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString(t *testing.T) {
	assert.Equal(t, "git", Command{Name: "git"}.String())
	assert.Equal(t, "git submodule update --init --recursive",
		Command{Name: "git", Args: []string{"submodule", "update", "--init", "--recursive"}}.String())
}

func TestExitStatusSuccess(t *testing.T) {
	assert.True(t, ExitStatus{Code: 0}.Success())
	assert.False(t, ExitStatus{Code: 1}.Success())
	assert.False(t, ExitStatus{Code: -1}.Success())
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	t.Run("captures stdout", func(t *testing.T) {
		var out bytes.Buffer
		r := &ExecRunner{}
		status, err := r.Run(context.Background(), Command{
			Name:   "sh",
			Args:   []string{"-c", "echo hello"},
			Stdout: &out,
		})
		require.NoError(t, err)
		assert.True(t, status.Success())
		assert.Equal(t, "hello\n", out.String())
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		r := &ExecRunner{}
		status, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})
		require.NoError(t, err)
		assert.Equal(t, 3, status.Code)
	})

	t.Run("runs in directory", func(t *testing.T) {
		dir := t.TempDir()
		var out bytes.Buffer
		r := &ExecRunner{Stdout: &out}
		_, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "pwd -P"}, Dir: dir})
		require.NoError(t, err)
		assert.NotEmpty(t, out.String())
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		r := &ExecRunner{}
		status, err := r.Run(context.Background(), Command{Name: "definitely-not-a-real-binary-corby"})
		require.Error(t, err)
		assert.Equal(t, -1, status.Code)
	})
}
