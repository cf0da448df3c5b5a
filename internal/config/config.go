// Package config loads daybook settings from flags, the environment,
// ~/.daybook/config.yaml and ~/.daybook/.env, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/balkashynov/daybook/internal/db"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. DAYBOOK_DATA_DIR.
	EnvPrefix = "DAYBOOK"
	// DirName is the per-user directory holding config and data.
	DirName = ".daybook"
)

// Config is the resolved application configuration.
type Config struct {
	DataDir  string `mapstructure:"data_dir" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Verbose  bool   `mapstructure:"verbose"`
}

var validate = validator.New()

// DefaultDir returns ~/.daybook.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, DirName), nil
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper, baseDir string) {
	v.SetDefault("data_dir", baseDir)
	v.SetDefault("log_level", "warn")
	v.SetDefault("verbose", false)
}

// Load reads configuration from fs into a Config. configFile may be empty,
// in which case config.yaml in baseDir is used when present. Flags must
// already be bound to v.
func Load(v *viper.Viper, fs afero.Fs, baseDir, configFile string) (Config, error) {
	v.SetFs(fs)
	SetDefaults(v, baseDir)
	if err := loadDotEnv(v, fs, baseDir); err != nil {
		return Config{}, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(baseDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv reads DAYBOOK_* entries from baseDir/.env. They only replace
// the built-in defaults; the config file and real environment still win.
func loadDotEnv(v *viper.Viper, fs afero.Fs, baseDir string) error {
	f, err := fs.Open(filepath.Join(baseDir, ".env"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open .env: %w", err)
	}
	defer f.Close()

	entries, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse .env: %w", err)
	}
	for name, value := range entries {
		key, ok := strings.CutPrefix(name, EnvPrefix+"_")
		if !ok {
			continue
		}
		v.SetDefault(strings.ToLower(key), value)
	}
	return nil
}

// EnsureDataDir creates the data directory on fs.
func EnsureDataDir(fs afero.Fs, cfg Config) error {
	if err := fs.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// NewLogger builds the process logger at the configured level.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	if cfg.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// StoreConfig maps the application config onto the store settings.
func (c Config) StoreConfig(logger *slog.Logger) db.Config {
	return db.Config{
		Dir:     c.DataDir,
		Verbose: c.Verbose,
		Logger:  logger,
	}
}
