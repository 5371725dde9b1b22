package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/apperr"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a note stamped with the current instant",
		ArgsUsage: "<title> [tags...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return apperr.ErrNoSelection
			}
			return runNew(ctx, app, os.Stdout, args[0], args[1:])
		},
	}
}

func runNew(ctx context.Context, app *internal.App, w io.Writer, title string, tags []string) error {
	name, err := app.Vault.Create(ctx, title, tags)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, name)
	return nil
}
