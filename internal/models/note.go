// Package models defines the domain types for Ansuz.
package models

import "time"

// Descriptor is the structured metadata a note filename encodes.
type Descriptor struct {
	// ID is the creation instant formatted YYYYMMDDThhmmss in UTC.
	// It is assigned once when the note is created and never changes.
	ID string `json:"id"`
	// Title is the human-readable title. Decoding a filename recovers the
	// space-joined slug words only; the original casing is not recoverable.
	Title string `json:"title"`
	// Tags is the note's tag set. Membership is order-insensitive, but the
	// codec always serializes tags in ascending order.
	Tags []string `json:"tags,omitempty"`
}

// HasTag reports whether tag is in the descriptor's tag set.
func (d Descriptor) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Entry is a listed note: its filename plus the decoded descriptor.
type Entry struct {
	Name string `json:"name"`
	Descriptor
}

// TagChoice is one row offered by a tag-toggling chooser: the tag name and
// whether it is already set on the note the chooser was opened for.
type TagChoice struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// FileMeta is the lightweight per-file record the storage layer reports,
// before any filename decoding happens.
type FileMeta struct {
	Name      string    `json:"name"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
