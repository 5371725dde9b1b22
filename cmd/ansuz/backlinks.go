package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/notename"
	"github.com/starford/ansuz/internal/ui"
)

func backlinksCommand() *cli.Command {
	return &cli.Command{
		Name:      "backlinks",
		Usage:     "List the notes whose bodies link to a note",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("missing note filename, see 'ansuz backlinks --help'")
			}
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return runBacklinks(ctx, app, os.Stdout, cmd.Args().First())
		},
	}
}

func runBacklinks(ctx context.Context, app *internal.App, w io.Writer, file string) error {
	// Link edges live in the index; rebuild it before reading them.
	if err := app.SyncIndex(); err != nil {
		app.Logger.Warn("backlinks: sync failed", slog.String("error", err.Error()))
	}

	sources, err := app.Vault.Backlinks(ctx, file)
	if err != nil {
		return err
	}
	for _, name := range sources {
		if d, ok := notename.Parse(name); ok {
			fmt.Fprintln(w, ui.FormatNoteLine(models.Entry{Name: name, Descriptor: d}))
			continue
		}
		fmt.Fprintln(w, name)
	}
	return nil
}
