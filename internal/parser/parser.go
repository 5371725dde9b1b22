// Package parser extracts note-to-note links from Markdown content.
//
// All other note metadata lives in the filename, so link targets are the
// only thing worth pulling out of a body.
package parser

import (
	"regexp"
	"strings"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	mdLinkRe   = regexp.MustCompile(`\[[^\]]+\]\(([^)]+)\)`)
)

// Links returns deduplicated link targets found in body, wikilinks first,
// then Markdown links. Markdown links count only when they point at a .md
// file in the same directory; URLs, anchors, and paths elsewhere do not.
func Links(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(target string) {
		if target == "" {
			return
		}
		if _, ok := seen[target]; ok {
			return
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}

	for _, m := range wikilinkRe.FindAllStringSubmatch(body, -1) {
		raw := m[1]
		// Handle aliases: [[Target|Alias]] → Target.
		if i := strings.Index(raw, "|"); i >= 0 {
			raw = raw[:i]
		}
		add(strings.TrimSpace(raw))
	}

	for _, m := range mdLinkRe.FindAllStringSubmatch(body, -1) {
		if t, ok := noteTarget(m[1]); ok {
			add(t)
		}
	}

	return out
}

// noteTarget reports whether a Markdown link destination refers to a sibling
// Markdown file, stripping any #fragment.
func noteTarget(raw string) (string, bool) {
	t := strings.TrimSpace(raw)
	if i := strings.Index(t, "#"); i >= 0 {
		t = t[:i]
	}
	if t == "" || strings.Contains(t, "://") || strings.ContainsAny(t, `/\`) {
		return "", false
	}
	if !strings.HasSuffix(t, ".md") {
		return "", false
	}
	return t, true
}
