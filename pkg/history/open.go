package history

import (
	"fmt"
	"os"
	"os/exec"
)

// defaultEditor is used when $EDITOR is unset.
const defaultEditor = "vim"

// OpenInEditor launches the user's editor on the given artifact and
// blocks until it exits.
func OpenInEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", editor, err)
	}
	return nil
}
