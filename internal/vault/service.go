// Package vault implements note operations over a flat directory of
// Markdown files whose filenames carry all of the metadata.
//
// Tag toggles and retitles are realized as a single atomic rename of the
// note file. The editor buffer rides along via the Buffer collaborator
// and the search index is re-pointed afterwards; the filename itself is
// the only source of truth.
package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/notename"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/slug"
	"github.com/starford/ansuz/internal/storage"
)

// Service coordinates the filename codec, the storage provider, and the
// search index.
type Service struct {
	store  storage.Provider
	db     index.NoteIndex
	clock  func() time.Time
	logger *slog.Logger
}

// Option is a functional option for configuring the service.
type Option func(*Service)

// WithClock overrides the time source used to stamp new notes.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService creates a new vault service.
func NewService(store storage.Provider, db index.NoteIndex, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, db: db, clock: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every note in the vault, newest first. Files whose names
// do not match the note grammar are skipped.
func (s *Service) List(_ context.Context) ([]models.Entry, error) {
	metas, err := s.store.List()
	if err != nil {
		return nil, err
	}
	out := make([]models.Entry, 0, len(metas))
	for _, m := range metas {
		d, ok := notename.Parse(m.Name)
		if !ok {
			continue
		}
		d.Tags = nonNilSlice(d.Tags)
		out = append(out, models.Entry{Name: m.Name, Descriptor: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID > out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// CollectTags returns the sorted union of tags across the vault.
func (s *Service) CollectTags(ctx context.Context) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range entries {
		for _, t := range e.Tags {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}

// TagChoices returns the toggle menu for the current note: the union of
// the corpus tags and the note's own tags, enabled entries first, each
// group sorted ascending.
func (s *Service) TagChoices(ctx context.Context, current string) ([]models.TagChoice, error) {
	d, ok := notename.Parse(current)
	if !ok {
		return nil, fmt.Errorf("vault: %s: %w", current, apperr.ErrNotANote)
	}
	all, err := s.CollectTags(ctx)
	if err != nil {
		return nil, err
	}

	onSet := make(map[string]struct{}, len(d.Tags))
	for _, t := range d.Tags {
		onSet[t] = struct{}{}
	}
	seen := make(map[string]struct{})
	var enabled, disabled []string
	for _, t := range append(all, d.Tags...) {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, on := onSet[t]; on {
			enabled = append(enabled, t)
		} else {
			disabled = append(disabled, t)
		}
	}
	sort.Strings(enabled)
	sort.Strings(disabled)

	out := make([]models.TagChoice, 0, len(enabled)+len(disabled))
	for _, t := range enabled {
		out = append(out, models.TagChoice{Name: t, Enabled: true})
	}
	for _, t := range disabled {
		out = append(out, models.TagChoice{Name: t, Enabled: false})
	}
	return out, nil
}

// ToggleTag flips membership of tag on the current note and renames the
// file to the re-encoded name. A tag that normalizes to an empty slug
// counts as no selection.
func (s *Service) ToggleTag(_ context.Context, current, tag string, buf Buffer) (string, error) {
	d, ok := notename.Parse(current)
	if !ok {
		return "", fmt.Errorf("vault: %s: %w", current, apperr.ErrNotANote)
	}
	t := slug.Tag(tag)
	if t == "" {
		return "", apperr.ErrNoSelection
	}
	if d.HasTag(t) {
		kept := make([]string, 0, len(d.Tags))
		for _, x := range d.Tags {
			if x != t {
				kept = append(kept, x)
			}
		}
		d.Tags = kept
	} else {
		d.Tags = append(d.Tags, t)
	}
	newName, err := notename.Encode(d)
	if err != nil {
		return "", err
	}
	return s.rename(current, newName, buf)
}

// Retitle replaces the title of the current note and renames the file.
// The identifier and tags are preserved. Blank input is a cancel, not an
// error; a title with no sluggable characters fails to encode.
func (s *Service) Retitle(_ context.Context, current, title string, buf Buffer) (string, error) {
	d, ok := notename.Parse(current)
	if !ok {
		return "", fmt.Errorf("vault: %s: %w", current, apperr.ErrNotANote)
	}
	if strings.TrimSpace(title) == "" {
		return "", apperr.ErrNoSelection
	}
	d.Title = title
	newName, err := notename.Encode(d)
	if err != nil {
		return "", err
	}
	return s.rename(current, newName, buf)
}

// Create writes a new note stamped at the current instant and indexes it.
// When that second's identifier is already taken the instant advances one
// second at a time until free, keeping identifiers unique in the vault.
func (s *Service) Create(_ context.Context, title string, tags []string) (string, error) {
	metas, err := s.store.List()
	if err != nil {
		return "", err
	}
	taken := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		if d, ok := notename.Parse(m.Name); ok {
			taken[d.ID] = struct{}{}
		}
	}

	at := s.clock()
	d := models.Descriptor{Title: title, Tags: tags}
	for {
		d.ID = notename.Stamp(at)
		if _, dup := taken[d.ID]; !dup {
			break
		}
		at = at.Add(time.Second)
	}

	name, err := notename.Encode(d)
	if err != nil {
		return "", err
	}

	content := []byte("# " + strings.TrimSpace(title) + "\n")
	if err := s.store.Write(name, content); err != nil {
		return "", err
	}
	if err := s.indexNote(name, content); err != nil {
		s.logger.Warn("create: index failed", slog.String("name", name), slog.String("error", err.Error()))
	}
	return name, nil
}

// LinkText returns the Markdown link text for a note, with the decoded
// title as the label.
func (s *Service) LinkText(_ context.Context, target string) (string, error) {
	d, ok := notename.Parse(target)
	if !ok {
		return "", fmt.Errorf("vault: %s: %w", target, apperr.ErrNotANote)
	}
	return fmt.Sprintf("[%s](%s)", d.Title, target), nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Backlinks lists the notes whose bodies link to target, by name
// ascending. The target must itself be a note name.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	if !notename.IsNote(target) {
		return nil, fmt.Errorf("vault: %s: %w", target, apperr.ErrNotANote)
	}
	return s.db.Backlinks(target)
}

// rename carries a metadata change through the shared protocol: capture
// unsaved edits, rename the file as the single atomic step, re-point the
// editor buffer, then the index. Index maintenance is best-effort; a
// failed upsert is repaired by the next sync.
func (s *Service) rename(oldName, newName string, buf Buffer) (string, error) {
	if newName == oldName {
		return newName, nil
	}

	var pending []byte
	var dirty bool
	if buf != nil {
		pending, dirty = buf.Unsaved()
	}

	if err := s.store.Rename(oldName, newName); err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("vault: rename %s: %w", oldName, apperr.ErrNotFound)
		case errors.Is(err, os.ErrExist):
			return "", fmt.Errorf("vault: rename to %s: %w", newName, apperr.ErrAlreadyExists)
		}
		return "", err
	}

	data, readErr := s.store.Read(newName)
	if readErr != nil {
		s.logger.Warn("rename: read back failed",
			slog.String("name", newName), slog.String("error", readErr.Error()))
	}

	if buf != nil {
		// When the read back failed the buffer keeps its own captured
		// view; only the name moves.
		content := pending
		if !dirty && readErr == nil {
			content = data
		}
		if err := buf.Reload(newName, content, dirty); err != nil {
			s.logger.Warn("rename: buffer reload failed",
				slog.String("name", newName), slog.String("error", err.Error()))
		}
	}

	if err := s.db.DeleteNote(oldName); err != nil {
		s.logger.Warn("rename: index delete failed",
			slog.String("name", oldName), slog.String("error", err.Error()))
	}
	if readErr == nil {
		if err := s.indexNote(newName, data); err != nil {
			s.logger.Warn("rename: index update failed",
				slog.String("name", newName), slog.String("error", err.Error()))
		}
	}

	return newName, nil
}

// indexNote decodes name and upserts the note into the index.
func (s *Service) indexNote(name string, data []byte) error {
	d, ok := notename.Parse(name)
	if !ok {
		return fmt.Errorf("vault: %s: %w", name, apperr.ErrNotANote)
	}
	body := string(data)
	return s.db.UpsertNote(index.NoteRow{
		Name:      name,
		ID:        d.ID,
		Title:     d.Title,
		Checksum:  checksum.Sum(data),
		Tags:      nonNilSlice(d.Tags),
		UpdatedAt: s.clock(),
	}, body, parser.Links(body))
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
