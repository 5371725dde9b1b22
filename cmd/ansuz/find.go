package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/ui"
)

func findCommand() *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "List every note, newest first",
		Description: "Prints one line per note with the filename first, so the\n" +
			"output can feed fuzzy pickers like fzf unchanged.",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return runFind(ctx, app, os.Stdout)
		},
	}
}

func runFind(ctx context.Context, app *internal.App, w io.Writer) error {
	entries, err := app.Vault.List(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	for _, e := range entries {
		fmt.Fprintln(w, ui.FormatNoteLine(e))
	}
	return nil
}
