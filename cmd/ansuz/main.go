package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/ui"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func main() {
	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Flat-directory Markdown notes whose filenames carry the metadata",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/ansuz/config.yaml",
				Sources:     cli.EnvVars("ANSUZ_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Notes directory",
				Sources: cli.EnvVars("ANSUZ_VAULT"),
			},
		},
		Commands: []*cli.Command{
			findCommand(),
			searchCommand(),
			tagCommand(),
			retitleCommand(),
			linkCommand(),
			backlinksCommand(),
			newCommand(),
			tagsCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		// Canceled picks and blank input are no-ops, not failures.
		if errors.Is(err, apperr.ErrNoSelection) {
			fmt.Fprintln(os.Stderr, ui.Notice("nothing selected"))
			return
		}
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}

// openApp builds the application graph for one command run. The config
// file is optional; the --vault flag and ANSUZ_VAULT env override it.
func openApp(cmd *cli.Command, opts ...internal.Option) (*internal.App, error) {
	cfg := internal.NewDefaultConfig()

	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		if _, err := pkgconfig.LoadIfPresent(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if v := cmd.String("vault"); v != "" {
		cfg.Vault.Path = v
	}

	opts = append([]internal.Option{internal.WithConfig(cfg)}, opts...)
	return internal.NewApp(opts...)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ansuz", "config.yaml")
}
