// Package selection turns a raw interactive pick list into the final,
// deduplicated, deterministically ordered list of regular files to build.
package selection

import "fmt"

// Kind discriminates what a picked path referred to at enumeration time.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PathEntry is one filesystem path plus its kind. The kind must reflect
// the actual filesystem state at resolution time; a path that changed or
// vanished in between surfaces as a PathError during expansion.
type PathEntry struct {
	Path string
	Kind Kind
}

// RawSelection is the ordered pick list as produced by the interactive
// picker. It may be empty and may contain duplicates.
type RawSelection []PathEntry

// Mode selects how a raw selection is turned into the final file list.
type Mode int

const (
	// ModeInclude builds exactly the picked entries.
	ModeInclude Mode = iota
	// ModeExclude builds everything under the root except the picked entries.
	ModeExclude
	// ModeAll builds everything under the root; the picker is not involved.
	ModeAll
)

// String returns the mode name used in logs and summaries.
func (m Mode) String() string {
	switch m {
	case ModeInclude:
		return "include"
	case ModeExclude:
		return "exclude"
	case ModeAll:
		return "all"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// PathError records a single path that could not be expanded or
// classified. Expansion continues past these; callers report them
// per-file.
type PathError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("path unavailable: %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *PathError) Unwrap() error { return e.Err }
