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

func tagsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "List every tag in use across the vault",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return runTags(ctx, app, os.Stdout)
		},
	}
}

func runTags(ctx context.Context, app *internal.App, w io.Writer) error {
	tags, err := app.Vault.CollectTags(ctx)
	if err != nil {
		return fmt.Errorf("collect tags: %w", err)
	}
	fmt.Fprint(w, ui.FormatTagList(tags))
	return nil
}
