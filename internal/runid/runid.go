// Package runid stamps a simulation run with a unique identifier and
// derives output paths and log file names from it, grounded on the
// google/uuid usage already present in chazu-lignin and
// janelia-flyem-dvid's go.mod (run/request identifiers), generalized here
// to name an entire simulation's output directory rather than a single
// request.
package runid

import (
	"path/filepath"

	"github.com/google/uuid"
)

// ID is a run identifier: a UUID plus the human-readable instrument or
// simulation name it was minted for.
type ID struct {
	UUID uuid.UUID
	Name string
}

// New mints a fresh run identifier.
func New(name string) ID {
	return ID{UUID: uuid.New(), Name: name}
}

// String returns "<name>-<uuid>", safe for use as a directory or file
// name component.
func (id ID) String() string {
	if id.Name == "" {
		return id.UUID.String()
	}
	return id.Name + "-" + id.UUID.String()
}

// OutputDir joins base with this run's directory name.
func (id ID) OutputDir(base string) string {
	return filepath.Join(base, id.String())
}

// LogFile returns the path to this run's rotating log file under dir.
func (id ID) LogFile(dir string) string {
	return filepath.Join(dir, id.String()+".log")
}
