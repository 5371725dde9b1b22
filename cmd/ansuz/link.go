package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
)

func linkCommand() *cli.Command {
	return &cli.Command{
		Name:      "link",
		Usage:     "Print a Markdown link to a note, titled from its filename",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("missing note filename, see 'ansuz link --help'")
			}
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return runLink(ctx, app, os.Stdout, cmd.Args().First())
		},
	}
}

func runLink(ctx context.Context, app *internal.App, w io.Writer, file string) error {
	text, err := app.Vault.LinkText(ctx, file)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, text)
	return nil
}
