package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/apperr"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
}

// Validate validates the configuration loaded from a file. The vault path
// is deliberately not required here: commands that touch notes call
// RequireVault after the --vault flag and ANSUZ_VAULT have had their say.
func (c *Config) Validate() error {
	return c.App.Validate()
}

// RequireVault checks that a notes directory has been configured and
// returns ErrVaultNotConfigured when it has not.
func (c *Config) RequireVault() error {
	err := validation.ValidateStruct(&c.Vault,
		validation.Field(&c.Vault.Path, validation.Required),
	)
	if err != nil {
		return apperr.ErrVaultNotConfigured
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// UnmarshalYAML reads log_level by its slog name (DEBUG, INFO, WARN,
// ERROR). yaml.v3 does not consult encoding.TextUnmarshaler, so the name
// form is decoded here.
func (c *ApplicationConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		LogLevel string `yaml:"log_level"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.LogLevel == "" {
		return nil
	}
	if err := c.LogLevel.UnmarshalText([]byte(raw.LogLevel)); err != nil {
		return fmt.Errorf("parse log_level: %w", err)
	}
	return nil
}

// Validate restricts the log level to the four named slog levels.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In(
			slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError)),
	)
}

// VaultConfig holds the path to the flat notes directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// SQLiteConfig holds the search index database location. An empty path
// places the index inside the vault as .ansuz-index.db, which keeps each
// vault paired with its own index.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
	}
}
