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

func tagCommand() *cli.Command {
	return &cli.Command{
		Name:      "tag",
		Usage:     "Toggle a tag on a note by renaming it",
		ArgsUsage: "<file> [tag]",
		Description: "With a tag argument the tag is added when absent and removed\n" +
			"when present, and the new filename is printed. Without one the\n" +
			"available choices are listed, current tags marked.",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("missing note filename, see 'ansuz tag --help'")
			}
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return runTag(ctx, app, os.Stdout, cmd.Args().First(), cmd.Args().Get(1))
		},
	}
}

func runTag(ctx context.Context, app *internal.App, w io.Writer, file, tag string) error {
	if tag == "" {
		choices, err := app.Vault.TagChoices(ctx, file)
		if err != nil {
			return err
		}
		fmt.Fprint(w, ui.FormatTagChoices(choices))
		return nil
	}

	// No editor buffer on the command line; the file on disk is current.
	newName, err := app.Vault.ToggleTag(ctx, file, tag, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, newName)
	return nil
}
