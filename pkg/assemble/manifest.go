package assemble

import (
	"time"

	"github.com/google/uuid"
)

// Manifest describes one completed build. It is created once per
// invocation and never mutated afterwards; the history tracker persists
// it alongside the artifact.
type Manifest struct {
	ID         string    `yaml:"id"`
	OutputPath string    `yaml:"output"`
	Files      []string  `yaml:"files"`
	Count      int       `yaml:"count"`
	CreatedAt  time.Time `yaml:"created_at"`
	Command    string    `yaml:"command,omitempty"`
}

// newManifest captures the result of a successful assembly.
func newManifest(outputPath string, files []string) *Manifest {
	owned := make([]string, len(files))
	copy(owned, files)
	return &Manifest{
		ID:         uuid.NewString(),
		OutputPath: outputPath,
		Files:      owned,
		Count:      len(owned),
		CreatedAt:  time.Now().UTC(),
	}
}
