package editor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPrefersVisual(t *testing.T) {
	t.Setenv("VISUAL", "code --wait")
	t.Setenv("EDITOR", "nano")
	assert.Equal(t, []string{"code", "--wait"}, Command())

	t.Setenv("VISUAL", "")
	assert.Equal(t, []string{"nano"}, Command())

	t.Setenv("EDITOR", "  ")
	assert.Equal(t, []string{fallback}, Command())
}

func TestEditReturnsSavedText(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script editor")
	}
	script := filepath.Join(t.TempDir(), "fake-editor.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf 'edited\\n' >> \"$1\"\n"), 0o755))
	t.Setenv("VISUAL", script)

	out, err := Edit(context.Background(), "draft\n")
	require.NoError(t, err)
	assert.Equal(t, "draft\nedited\n", out)
}

func TestEditReportsEditorFailure(t *testing.T) {
	t.Setenv("VISUAL", filepath.Join(t.TempDir(), "missing-editor"))
	_, err := Edit(context.Background(), "x")
	require.Error(t, err)
}
