// Package project finds and reads seqdiag.toml.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigName is the file looked up by FindConfig.
const ConfigName = "seqdiag.toml"

// Config mirrors seqdiag.toml.
type Config struct {
	Render RenderConfig `toml:"render"`
}

// RenderConfig is the [render] table. Paths are relative to the config file.
type RenderConfig struct {
	Style    string `toml:"style,omitempty"`
	Out      string `toml:"out,omitempty"`
	Jobs     int    `toml:"jobs"`
	Cache    bool   `toml:"cache"`
	Measurer string `toml:"measurer"`
}

// Manifest is a loaded config together with where it came from.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// DefaultConfig is what `seqdiag init` writes.
func DefaultConfig() Config {
	return Config{Render: RenderConfig{
		Out:      "out",
		Jobs:     0,
		Cache:    true,
		Measurer: "approx",
	}}
}

// FindConfig walks up from startDir to locate seqdiag.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and loads the nearest config. ok is false when there is
// none; that is not an error.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig reads path over DefaultConfig. Keys that are not set keep their
// default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("render", "jobs") && cfg.Render.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [render].jobs must be >= 0, got %d", path, cfg.Render.Jobs)
	}
	if meta.IsDefined("render", "style") && strings.TrimSpace(cfg.Render.Style) == "" {
		return Config{}, fmt.Errorf("%s: [render].style is empty", path)
	}
	if meta.IsDefined("render", "out") && strings.TrimSpace(cfg.Render.Out) == "" {
		return Config{}, fmt.Errorf("%s: [render].out is empty", path)
	}
	return cfg, nil
}

// StylePath returns the style file resolved against the manifest root, or
// "" when none is configured.
func (m *Manifest) StylePath() string {
	if m == nil || m.Config.Render.Style == "" {
		return ""
	}
	return m.resolve(m.Config.Render.Style)
}

// OutDir returns the output directory resolved against the manifest root.
func (m *Manifest) OutDir() string {
	if m == nil || m.Config.Render.Out == "" {
		return ""
	}
	return m.resolve(m.Config.Render.Out)
}

func (m *Manifest) resolve(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteConfig creates seqdiag.toml in dir. It refuses to overwrite unless
// force is set.
func WriteConfig(dir string, cfg Config, force bool) (string, error) {
	path := filepath.Join(dir, ConfigName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("already initialized: %s exists", path)
		}
	}
	data, err := Encode(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
