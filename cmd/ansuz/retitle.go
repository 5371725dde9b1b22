package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
)

func retitleCommand() *cli.Command {
	return &cli.Command{
		Name:      "retitle",
		Usage:     "Change a note's title, keeping its identifier and tags",
		ArgsUsage: "<file> <title>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("missing note filename, see 'ansuz retitle --help'")
			}
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			title := strings.Join(cmd.Args().Slice()[1:], " ")
			return runRetitle(ctx, app, os.Stdout, cmd.Args().First(), title)
		},
	}
}

func runRetitle(ctx context.Context, app *internal.App, w io.Writer, file, title string) error {
	newName, err := app.Vault.Retitle(ctx, file, title, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, newName)
	return nil
}
