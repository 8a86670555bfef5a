// Package picker runs the interactive fuzzy selection step by shelling
// out to fzf. Candidates go in newline-delimited on stdin; the chosen
// paths come back newline-delimited on stdout.
package picker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// ErrToolUnavailable indicates the external picker cannot be used:
// either fzf is not installed or there is no terminal to run it on.
var ErrToolUnavailable = errors.New("picker unavailable")

// toolName is the external fuzzy-finder binary.
const toolName = "fzf"

// cancelExitCode is fzf's exit status when the user aborts (ESC/Ctrl-C).
const cancelExitCode = 130

// noMatchExitCode is fzf's exit status when nothing matched the query.
const noMatchExitCode = 1

// Picker invokes fzf in multi-select mode.
type Picker struct {
	logger *zap.Logger

	// lookPath and isTerminal are swapped out by tests.
	lookPath   func(string) (string, error)
	isTerminal func(uintptr) bool
}

// New returns a Picker. A nil logger is replaced with a no-op logger.
func New(logger *zap.Logger) *Picker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Picker{
		logger:     logger,
		lookPath:   exec.LookPath,
		isTerminal: isatty.IsTerminal,
	}
}

// Available reports whether the picker can run. It is probed before any
// selection work so a missing tool fails fast, before the filesystem is
// touched.
func (p *Picker) Available() error {
	if _, err := p.lookPath(toolName); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrToolUnavailable, toolName)
	}
	if !p.isTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("%w: interactive selection needs a terminal on stdin", ErrToolUnavailable)
	}
	return nil
}

// Pick presents candidates to the user and returns the chosen paths in
// pick order. A cancelled picker and an empty confirmed selection are
// indistinguishable here, exactly as in the original tool: both return
// an empty list and a nil error.
func (p *Picker) Pick(prompt string, candidates []string) ([]string, error) {
	cmd := exec.Command(toolName, "--multi", "--prompt", prompt)
	cmd.Stdin = strings.NewReader(strings.Join(candidates, "\n") + "\n")
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	p.logger.Debug("Launching picker",
		zap.String("tool", toolName),
		zap.Int("candidates", len(candidates)))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			switch exitErr.ExitCode() {
			case cancelExitCode, noMatchExitCode:
				p.logger.Debug("Picker returned no selection",
					zap.Int("exitCode", exitErr.ExitCode()))
				return nil, nil
			}
		}
		return nil, fmt.Errorf("running %s: %w", toolName, err)
	}

	return splitLines(stdout.String()), nil
}

// splitLines splits newline-delimited picker output, dropping blanks.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
