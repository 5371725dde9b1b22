package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/ui"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search across note bodies, titles, and tags",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of hits",
				Value: 20,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			return runSearch(ctx, app, os.Stdout, query, int(cmd.Int("limit")))
		},
	}
}

func runSearch(ctx context.Context, app *internal.App, w io.Writer, query string, limit int) error {
	if query == "" {
		return apperr.ErrNoSelection
	}

	// The index is rebuilt from the vault on demand; there is no watcher
	// keeping it warm between runs.
	if err := app.SyncIndex(); err != nil {
		app.Logger.Warn("search: sync failed", slog.String("error", err.Error()))
	}

	hits, err := app.Vault.Search(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	for _, h := range hits {
		fmt.Fprintln(w, ui.FormatSearchHit(h))
	}
	return nil
}
