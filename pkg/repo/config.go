package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/odvcencio/minigit/pkg/fsio"
)

// ErrUnsupportedFormat is returned when the repository format version is
// newer than this implementation understands.
var ErrUnsupportedFormat = errors.New("unsupported repository format version")

// Config is the [core] section of .git/config. Git writes this section as
// plain "key = value" lines under a table header, which is valid TOML.
type Config struct {
	Core CoreConfig `toml:"core"`
}

// CoreConfig holds the settings init writes.
type CoreConfig struct {
	RepositoryFormatVersion int  `toml:"repositoryformatversion"`
	FileMode                bool `toml:"filemode"`
	Bare                    bool `toml:"bare"`
}

// DefaultConfig returns the configuration a new repository starts with.
func DefaultConfig() *Config {
	return &Config{Core: CoreConfig{
		RepositoryFormatVersion: 0,
		FileMode:                true,
		Bare:                    false,
	}}
}

// Validate rejects configurations this implementation cannot honour.
func (c *Config) Validate() error {
	if v := c.Core.RepositoryFormatVersion; v != 0 {
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, v)
	}
	return nil
}

// Encode renders the config in Git's layout: a [core] header followed by
// tab-indented keys.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = "\t"
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

func configPath(gitDir string) string {
	return filepath.Join(gitDir, "config")
}

// readConfig reads .git/config. A missing file yields the defaults.
func readConfig(fsys fsio.FS, gitDir string) (*Config, error) {
	data, err := fsys.ReadFile(configPath(gitDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// loadConfig is readConfig for Init and Open: a config that uses Git syntax
// outside the TOML subset (such as [remote "origin"]) is not fatal, the
// defaults are used instead.
func loadConfig(o options, gitDir string) (*Config, error) {
	cfg, err := readConfig(o.fs, gitDir)
	var perr toml.ParseError
	if errors.As(err, &perr) {
		o.log.Warn("config outside supported syntax, using defaults",
			zap.String("path", configPath(gitDir)),
			zap.Error(err),
		)
		return DefaultConfig(), nil
	}
	return cfg, err
}

// ReadConfig re-reads the repository's config file.
func (r *Repo) ReadConfig() (*Config, error) {
	return readConfig(r.fs, r.GitDir)
}

// WriteConfig atomically replaces .git/config.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	data, err := cfg.Encode()
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := r.fs.WriteFile(configPath(r.GitDir), data, false); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	r.Config = cfg
	return nil
}
