package index

import (
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/notename"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - decodable files whose checksum changed are re-read and upserted
//   - files removed from disk (or no longer decodable) are deleted
//
// Files that do not match the note name grammar are skipped silently.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		d, ok := notename.Parse(m.Name)
		if !ok {
			continue
		}
		disk[m.Name] = struct{}{}

		if checksums[m.Name] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Name)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("name", m.Name), slog.String("error", err.Error()))
			continue
		}
		if err := indexNote(db, m.Name, d, data, m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("name", m.Name), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("name", m.Name))
		}
	}

	// Remove stale entries.
	for name := range checksums {
		if _, ok := disk[name]; !ok {
			if err := db.DeleteNote(name); err != nil {
				logger.Warn("sync: delete failed", slog.String("name", name), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("name", name))
			}
		}
	}

	return nil
}

// indexNote upserts one decoded note into the DB.
func indexNote(db *DB, name string, d models.Descriptor, data []byte, updated time.Time) error {
	body := string(data)
	row := NoteRow{
		Name:      name,
		ID:        d.ID,
		Title:     d.Title,
		Checksum:  checksum.Sum(data),
		Tags:      d.Tags,
		UpdatedAt: updated,
	}
	return db.UpsertNote(row, body, parser.Links(body))
}
