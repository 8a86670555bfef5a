// Package assemble streams a resolved file list into one annotated
// output document. Each file is bracketed by start/end marker lines
// carrying its path, so the artifact can be split back into the original
// segments (see Split).
package assemble

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrEmptySelection is returned when there is nothing to build. The
// output path is left untouched in that case, so an existing file is
// never truncated down to an empty artifact.
var ErrEmptySelection = errors.New("no files selected")

// Marker line templates. The fence makes a collision with real file
// content extremely unlikely while keeping the artifact splittable by
// plain line matching.
const (
	startMarkerFormat = "===== START %s =====\n"
	endMarkerFormat   = "===== END %s =====\n"
)

// Assembler writes build artifacts. File contents are copied byte for
// byte; no transformation or encoding assumption is applied.
type Assembler struct {
	logger *zap.Logger
}

// NewAssembler returns an Assembler. A nil logger is replaced with a
// no-op logger.
func NewAssembler(logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{logger: logger}
}

// Assemble writes the artifact for files, in order, to outputPath and
// returns the build's manifest. Creating the artifact truncates any
// existing file at outputPath. Any error while reading a source file or
// writing the artifact aborts the whole build: a partially written
// artifact would not be splittable, so there are no partial successes
// past this point.
func (a *Assembler) Assemble(files []string, outputPath string) (*Manifest, error) {
	files = a.withoutOutput(files, outputPath)
	if len(files) == 0 {
		return nil, ErrEmptySelection
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("creating output %s: %w", outputPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			a.logger.Warn("Failed to close output file",
				zap.String("file", outputPath),
				zap.Error(cerr))
		}
	}()

	w := bufio.NewWriter(out)

	// The artifact begins with a single blank line.
	if _, err := w.WriteString("\n"); err != nil {
		return nil, fmt.Errorf("writing output %s: %w", outputPath, err)
	}

	for _, path := range files {
		if err := a.writeSegment(w, path); err != nil {
			return nil, err
		}
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flushing output %s: %w", outputPath, err)
	}

	a.logger.Info("Assembled build artifact",
		zap.String("output", outputPath),
		zap.Int("files", len(files)))

	return newManifest(outputPath, files), nil
}

// withoutOutput drops the output artifact from the file list. A prior
// build's artifact under the root would otherwise be selected as an
// input, and creating the output truncates it before it could be read.
func (a *Assembler) withoutOutput(files []string, outputPath string) []string {
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return files
	}
	var out []string
	for _, f := range files {
		if absF, err := filepath.Abs(f); err == nil && absF == absOut {
			a.logger.Debug("Skipping the output artifact itself",
				zap.String("path", f))
			continue
		}
		out = append(out, f)
	}
	return out
}

// writeSegment emits one marker-wrapped file: start marker, the raw
// bytes, a newline, the end marker, and the separating blank line. The
// newline before the end marker is the writer's own; Split strips
// exactly one, which keeps the round trip byte-identical whether or not
// the content ends in a newline.
func (a *Assembler) writeSegment(w *bufio.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	defer src.Close()

	if _, err := fmt.Fprintf(w, startMarkerFormat, path); err != nil {
		return fmt.Errorf("writing start marker for %s: %w", path, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("copying %s: %w", path, err)
	}
	if _, err := fmt.Fprintf(w, "\n"+endMarkerFormat, path); err != nil {
		return fmt.Errorf("writing end marker for %s: %w", path, err)
	}
	if _, err := w.WriteString("\n"); err != nil {
		return fmt.Errorf("writing separator after %s: %w", path, err)
	}
	return nil
}
