package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedFormat is returned for config files viper cannot decode
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrInvalid is returned when a merged config fails validation
	ErrInvalid = errors.New("invalid config")
)

// supportedFormats is the set of config extensions this build can parse.
// It is fixed at startup; anything else falls back to defaults.
var supportedFormats = map[string]bool{
	"yaml": true,
	"yml":  true,
	"json": true,
	"toml": true,
}

var validate = validator.New()

// SupportsFormat reports whether a config file with the given extension can be parsed
func SupportsFormat(ext string) bool {
	return supportedFormats[strings.TrimPrefix(strings.ToLower(ext), ".")]
}

// Path returns the config file to use: explicit when given, otherwise
// FileName inside projectDir
func Path(projectDir, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(projectDir, FileName)
}

// Load builds the run configuration. A missing file yields the defaults; an
// unreadable, unsupported or invalid file is logged as a warning and also
// yields the defaults.
func Load(projectDir, explicit string, logger *zap.Logger) Config {
	path := Path(projectDir, explicit)

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot access config, using defaults", zap.String("path", path), zap.Error(err))
		} else {
			logger.Debug("no config file, using defaults", zap.String("path", path))
		}
		return Default()
	}

	cfg, err := LoadFile(path)
	if err != nil {
		logger.Warn("ignoring config, using defaults", zap.String("path", path), zap.Error(err))
		return Default()
	}

	logger.Debug("loaded config", zap.String("path", path))
	return cfg
}

// LoadFile reads the override at path, merges it onto the defaults and
// validates the result
func LoadFile(path string) (Config, error) {
	override, err := ReadOverride(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Merge(Default(), override)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadOverride decodes a config file into an Override
func ReadOverride(path string) (Override, error) {
	var override Override

	ext := filepath.Ext(path)
	if !SupportsFormat(ext) {
		return override, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(normalizeFormat(ext))

	if err := v.ReadInConfig(); err != nil {
		return override, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := v.Unmarshal(&override); err != nil {
		return override, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return override, nil
}

// Validate checks structural constraints on a merged config
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func normalizeFormat(ext string) string {
	format := strings.TrimPrefix(strings.ToLower(ext), ".")
	if format == "yml" {
		return "yaml"
	}
	return format
}
