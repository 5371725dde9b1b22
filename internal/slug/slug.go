// Package slug converts free-form text into the constrained token
// alphabet used by note filenames.
package slug

import "strings"

// Title normalizes free-form title text into a hyphen-joined slug:
// lowercase, spaces become hyphens, characters outside [a-z0-9æøå-] are
// dropped, hyphen runs collapse to one, and edge hyphens are trimmed.
// Empty input normalizes to an empty slug; callers requiring a title
// must reject that.
func Title(text string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(text) {
		if r == ' ' {
			r = '-'
		}
		if !isTitleRune(r) {
			continue
		}
		if r == '-' {
			if hyphen {
				continue
			}
			hyphen = true
		} else {
			hyphen = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "-")
}

// Tag normalizes free-form tag text into a bare alphanumeric slug.
// The pipeline order is: lowercase, spaces to hyphens, underscore runs
// collapsed, then everything outside [a-z0-9æøå] stripped. The final
// filter drops hyphens and underscores alike, so word boundaries in
// multi-word tag input do not survive ("Editor Tools" → "editortools"),
// and a tag token can never collide with the underscore separators of
// the filename tag block.
func Tag(text string) string {
	s := strings.ReplaceAll(strings.ToLower(text), " ", "-")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	var b strings.Builder
	for _, r := range s {
		if isTagRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isTitleRune(r rune) bool {
	return r == '-' || isTagRune(r)
}

func isTagRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == 'æ', r == 'ø', r == 'å':
		return true
	}
	return false
}
