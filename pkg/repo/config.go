package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrConfigMissing reports a repository whose config file is absent.
var ErrConfigMissing = errors.New("repository configuration file missing")

// UnsupportedVersionError reports a metadata directory format version this
// implementation does not understand. Only version 0 is supported.
type UnsupportedVersionError struct {
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported repositoryformatversion: %d", e.Version)
}

// Config holds repository-local settings read from the config file.
type Config struct {
	Core CoreConfig `toml:"core"`
}

// CoreConfig is the [core] section.
type CoreConfig struct {
	RepositoryFormatVersion int  `toml:"repositoryformatversion"`
	FileMode                bool `toml:"filemode"`
	Bare                    bool `toml:"bare"`
}

func defaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			RepositoryFormatVersion: 0,
			FileMode:                false,
			Bare:                    false,
		},
	}
}

func configPath(gatDir string) string {
	return filepath.Join(gatDir, "config")
}

// readConfig loads and validates the config file under gatDir. A missing
// file is ErrConfigMissing; any format version other than 0 is a hard
// UnsupportedVersionError.
func readConfig(gatDir string) (*Config, error) {
	path := configPath(gatDir)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigMissing
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Core.RepositoryFormatVersion != 0 {
		return nil, &UnsupportedVersionError{Version: cfg.Core.RepositoryFormatVersion}
	}
	return &cfg, nil
}

// writeConfig writes cfg to the config file under gatDir.
func writeConfig(gatDir string, cfg *Config) error {
	f, err := os.Create(configPath(gatDir))
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	enc := toml.NewEncoder(f)
	enc.Indent = ""
	if err := enc.Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write config: close: %w", err)
	}
	return nil
}
