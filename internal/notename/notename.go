// Package notename encodes note descriptors into canonical filenames and
// decodes filenames back into descriptors. The filename is the only place
// a note's metadata lives:
//
//	<id>--<title-slug>__<tag>_<tag>.md
//
// where id is a UTC creation instant (YYYYMMDDThhmmss), the title slug is
// hyphen-joined words over [a-z0-9æøå], and the optional tag block lists
// sorted tag slugs over [a-z0-9æøå] joined by underscores. Title slugs
// never contain underscores and tag slugs never contain hyphens, which is
// what keeps the grammar unambiguous to decode.
package notename

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/slug"
)

// Ext is the filename extension of every managed note.
const Ext = ".md"

// StampLayout is the time layout of note identifiers.
const StampLayout = "20060102T150405"

var (
	nameRe  = regexp.MustCompile(`^(\d{8}T\d{6})([-0-9a-zæøå]+)([_0-9a-zæøå]*)\.md$`)
	stampRe = regexp.MustCompile(`^\d{8}T\d{6}$`)
)

// Stamp formats t as a note identifier: UTC, truncated to whole seconds.
func Stamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// ParseStamp parses a note identifier back into its UTC instant.
func ParseStamp(id string) (time.Time, error) {
	ts, err := time.Parse(StampLayout, id)
	if err != nil {
		return time.Time{}, fmt.Errorf("notename: parse id %q: %w", id, err)
	}
	return ts.UTC(), nil
}

// Encode builds the canonical filename for a descriptor. The title is
// normalized to its slug and the tags are normalized, deduplicated, and
// sorted, so two descriptors carrying the same metadata always encode to
// the identical name. Encoding fails only for a malformed ID or a title
// that normalizes to an empty slug.
func Encode(d models.Descriptor) (string, error) {
	if !stampRe.MatchString(d.ID) {
		return "", fmt.Errorf("notename: invalid note id %q", d.ID)
	}
	title := slug.Title(d.Title)
	if title == "" {
		return "", fmt.Errorf("notename: title %q normalizes to an empty slug", d.Title)
	}
	var b strings.Builder
	b.WriteString(d.ID)
	b.WriteString("--")
	b.WriteString(title)
	tags := NormalizeTags(d.Tags)
	if len(tags) > 0 {
		b.WriteString("_")
		for _, t := range tags {
			b.WriteString("_")
			b.WriteString(t)
		}
	}
	b.WriteString(Ext)
	return b.String(), nil
}

// Parse decodes a filename into its descriptor. ok is false when the name
// does not match the note grammar; corpus scans use that as a filter
// predicate, not an error. The recovered title is the slug with hyphens
// turned back into spaces; empty tokens from doubled or edge separators
// are discarded.
func Parse(name string) (d models.Descriptor, ok bool) {
	m := nameRe.FindStringSubmatch(name)
	if m == nil {
		return models.Descriptor{}, false
	}
	return models.Descriptor{
		ID:    m[1],
		Title: strings.Join(tokens(m[2], "-"), " "),
		Tags:  tokens(m[3], "_"),
	}, true
}

// IsNote reports whether name matches the note grammar.
func IsNote(name string) bool {
	return nameRe.MatchString(name)
}

// NormalizeTags normalizes, deduplicates, and sorts a tag set into the
// order Encode serializes it.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		s := slug.Tag(t)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// tokens splits s on sep and drops the empty tokens produced by leading,
// trailing, or doubled separators.
func tokens(s, sep string) []string {
	var out []string
	for _, tok := range strings.Split(s, sep) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
