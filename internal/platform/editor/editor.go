// Package editor round-trips text through the user's $VISUAL or $EDITOR.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const fallback = "vi"

// Command resolves the editor command line from the environment.
func Command() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{fallback}
}

// Edit writes initial to a temp file, runs the editor on it attached to the
// terminal and returns what was saved.
func Edit(ctx context.Context, initial string) (string, error) {
	f, err := os.CreateTemp("", "stillpoint-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	argv := append(Command(), path)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %s: %w", argv[0], err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return string(raw), nil
}
