package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/mcpserver"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the editor bridge over stdio",
		Description: "Exposes the vault as MCP tools for editor hosts. The protocol\n" +
			"owns stdout, so logs go to stderr only.",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.SyncIndex(); err != nil {
				app.Logger.Warn("initial sync failed", slog.String("error", err.Error()))
			}

			srv := mcpserver.New(app.Vault, app.Store, app.DB, app.Logger)
			app.Logger.Info("MCP server starting on stdio",
				slog.String("vault_path", app.Config.Vault.Path))

			g, gCtx := errgroup.WithContext(ctx)
			serveCtx, cancel := context.WithCancel(gCtx)
			defer cancel()

			// Serve until stdin closes or the signal handler cancels.
			g.Go(func() error {
				defer cancel()
				if err := srv.Serve(serveCtx); err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("mcp server error: %w", err)
				}
				return nil
			})

			// Handle shutdown signals.
			g.Go(func() error {
				quit := make(chan os.Signal, 1)
				signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
				defer signal.Stop(quit)

				select {
				case sig := <-quit:
					app.Logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
					cancel()
				case <-serveCtx.Done():
				}
				return nil
			})

			if err := g.Wait(); err != nil {
				app.Logger.Error("MCP server error", slog.String("error", err.Error()))
				return err
			}

			app.Logger.Info("MCP server stopped")
			return nil
		},
	}
}
