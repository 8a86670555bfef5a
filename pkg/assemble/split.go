package assemble

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Segment is one file recovered from an artifact: its path and its
// byte-identical content.
type Segment struct {
	Path    string
	Content []byte
}

// Split parses an artifact back into its per-file segments, in artifact
// order. It is the exact inverse of Assemble for any input file set.
func Split(r io.Reader) ([]Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	// Leading blank line.
	rest, ok := bytes.CutPrefix(data, []byte("\n"))
	if !ok {
		return nil, fmt.Errorf("malformed artifact: missing leading blank line")
	}

	var segments []Segment
	for len(rest) > 0 {
		seg, remainder, err := cutSegment(rest)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
		rest = remainder
	}
	return segments, nil
}

// cutSegment consumes one marker-wrapped file from the front of data.
func cutSegment(data []byte) (Segment, []byte, error) {
	line, rest, found := bytes.Cut(data, []byte("\n"))
	if !found {
		return Segment{}, nil, fmt.Errorf("malformed artifact: truncated start marker %q", line)
	}

	path, ok := parseMarker(string(line), startMarkerFormat)
	if !ok {
		return Segment{}, nil, fmt.Errorf("malformed artifact: expected start marker, got %q", line)
	}

	// Content runs up to the end marker for the same path. The newline
	// immediately before the marker belongs to the writer, not the file.
	endMarker := []byte("\n" + fmt.Sprintf(endMarkerFormat, path))
	idx := bytes.Index(rest, endMarker)
	if idx < 0 {
		return Segment{}, nil, fmt.Errorf("malformed artifact: no end marker for %s", path)
	}

	content := make([]byte, idx)
	copy(content, rest[:idx])
	rest = rest[idx+len(endMarker):]

	// Separating blank line after the end marker.
	rest, ok = bytes.CutPrefix(rest, []byte("\n"))
	if !ok && len(rest) > 0 {
		return Segment{}, nil, fmt.Errorf("malformed artifact: missing separator after %s", path)
	}

	return Segment{Path: path, Content: content}, rest, nil
}

// parseMarker extracts the path from a marker line built with format.
func parseMarker(line, format string) (string, bool) {
	tpl := strings.TrimSuffix(format, "\n")
	i := strings.Index(tpl, "%s")
	prefix, suffix := tpl[:i], tpl[i+2:]
	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, suffix) {
		return "", false
	}
	path := strings.TrimSuffix(strings.TrimPrefix(line, prefix), suffix)
	if path == "" {
		return "", false
	}
	return path, true
}
