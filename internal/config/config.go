// Package config loads the command-line configuration.
//
// Precedence (highest wins): CLI flags, explicit --config file or the project
// file (.quill.json) in the working directory, defaults. Files are JSON with
// comments and trailing commas allowed (JSONC).
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"
)

// FileName is the default project config file name.
const FileName = ".quill.json"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config")
)

// Config holds all configuration options.
type Config struct {
	StoreDir   string `json:"store_dir" validate:"required"`
	Notebook   string `json:"notebook,omitempty"`
	QuotaBytes int64  `json:"quota_bytes,omitempty" validate:"gte=0"`
	Format     string `json:"format,omitempty" validate:"oneof=text json yaml"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		StoreDir: ".quill",
		Format:   FormatText,
	}
}

// Load merges the config file over the defaults. An explicit path must exist;
// otherwise {workDir}/.quill.json is read when present. It returns the path
// actually loaded (empty when none).
func Load(workDir, path string) (Config, string, error) {
	cfg := Default()

	file := path
	mustExist := file != ""
	if !mustExist {
		file = filepath.Join(workDir, FileName)
	} else if !filepath.IsAbs(file) {
		file = filepath.Join(workDir, file)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, path)
			}
			return cfg, "", nil
		}
		return Config{}, "", fmt.Errorf("failed to read config %s: %w", file, err)
	}

	fileCfg, err := parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", errConfigInvalid, file, err)
	}

	return merge(cfg, fileCfg), file, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func merge(base, over Config) Config {
	if over.StoreDir != "" {
		base.StoreDir = over.StoreDir
	}
	if over.Notebook != "" {
		base.Notebook = over.Notebook
	}
	if over.QuotaBytes != 0 {
		base.QuotaBytes = over.QuotaBytes
	}
	if over.Format != "" {
		base.Format = over.Format
	}
	return base
}

var validate = validator.New()

// Validate checks the final configuration, after flags were applied.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s must satisfy %q", errConfigInvalid, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	return nil
}

// IsInvalid reports whether err was caused by an invalid configuration.
func IsInvalid(err error) bool {
	return errors.Is(err, errConfigInvalid) || errors.Is(err, errConfigFileNotFound)
}
