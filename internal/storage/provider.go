// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for vault file operations. The vault is a
// single flat directory; names are bare filenames, never paths.
type Provider interface {
	// List returns metadata for every .md file in the vault directory.
	// The order is filesystem-dependent; callers must treat it as unordered.
	List() ([]models.FileMeta, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically writes content to the named file.
	Write(name string, content []byte) error
	// Delete removes the named file.
	Delete(name string) error
	// Rename moves oldName to newName in a single atomic step, refusing
	// a pre-existing destination. Renaming a file to itself is a no-op.
	Rename(oldName, newName string) error
}
