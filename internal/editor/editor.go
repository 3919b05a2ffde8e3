// Package editor provides utilities for interactive editing with $EDITOR.
package editor

import (
	"fmt"
	"os"
	"os/exec"
)

// Command returns the $EDITOR (or vi as fallback) invocation for path
// without running it.
func Command(path string) *exec.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	return exec.Command(editor, path)
}

// ExitError converts the error from running an editor command into a
// readable one.
func ExitError(err error) error {
	if err == nil {
		return nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
	}
	return fmt.Errorf("failed to run editor: %w", err)
}
