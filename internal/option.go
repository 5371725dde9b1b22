package internal

import (
	"log/slog"
	"time"
)

type clockFunc func() time.Time

// Option is a functional option for configuring the application.
type Option func(*App)

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithLogger overrides the default stderr JSON logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.Logger = logger
	}
}

// WithClock overrides the time source used to stamp new notes.
func WithClock(clock func() time.Time) Option {
	return func(a *App) {
		a.clock = clock
	}
}
