// Package ui renders command output for the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

// FormatNoteLine renders one note for list output: filename first so the
// line stays parseable by external pickers, then title and tags.
func FormatNoteLine(e models.Entry) string {
	s := fmt.Sprintf("%s  %s", faint(e.Name), bold(e.Title))
	if len(e.Tags) > 0 {
		s += "  " + cyan(strings.Join(e.Tags, ", "))
	}
	return s
}

// FormatTagChoices renders the toggle menu, one tag per line with the
// tags currently on the note marked.
func FormatTagChoices(choices []models.TagChoice) string {
	var sb strings.Builder
	for _, c := range choices {
		box := faint("[ ]")
		if c.Enabled {
			box = cyan("[x]")
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", box, c.Name))
	}
	return sb.String()
}

// FormatTagList renders the corpus-wide tag listing.
func FormatTagList(tags []string) string {
	var sb strings.Builder
	for _, t := range tags {
		sb.WriteString(cyan(t))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatSearchHit renders one search result with its snippet. FTS5 match
// markers are stripped; the snippet reads as plain text.
func FormatSearchHit(r index.SearchResult) string {
	snippet := strings.NewReplacer("<b>", "", "</b>", "", "\n", " ").Replace(r.Snippet)
	return fmt.Sprintf("%s  %s\n    %s", faint(r.Name), bold(r.Title), faint(snippet))
}

// Error prefixes msg with a cross.
func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

// Notice renders an informational line for no-op outcomes.
func Notice(msg string) string {
	return faint(msg)
}
