// Package config handles loading and saving treegrid configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/treegrid/config.yaml
//   - State:   ~/.local/state/treegrid/ (flag state, logs)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "treegrid"

// ViewConfig holds view model settings.
type ViewConfig struct {
	FixedRows      int  `yaml:"fixed_rows"`
	VisibleCount   int  `yaml:"visible_count"`
	ExpandLevel    int  `yaml:"expand_level"` // -1 expands everything on refresh
	CorrelateCheck bool `yaml:"correlate_check"`
	OnlyChildren   bool `yaml:"only_children"`
	Tree           bool `yaml:"tree"` // false = flat mode
}

// SourceConfig maps record source columns onto the record model.
type SourceConfig struct {
	KeyField    string `yaml:"key_field"`
	ParentField string `yaml:"parent_field"`
	TitleField  string `yaml:"title_field"`
	Table       string `yaml:"table,omitempty"`      // sqlite table
	StateFile   string `yaml:"state_file,omitempty"` // flag state JSON
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// NamedSource is a record file registered under a short name, opened with
// "@name" on the command line.
type NamedSource struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Config is the top-level configuration for treegrid.
type Config struct {
	View    ViewConfig    `yaml:"view"`
	Source  SourceConfig  `yaml:"source"`
	Log     LogConfig     `yaml:"log"`
	Sources []NamedSource `yaml:"sources,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		View: ViewConfig{
			VisibleCount:   20,
			ExpandLevel:    -1,
			CorrelateCheck: true,
			Tree:           true,
		},
		Source: SourceConfig{
			KeyField:    "id",
			ParentField: "parent_id",
			TitleField:  "title",
			Table:       "records",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true, "disabled": true,
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.View.FixedRows < 0 {
		errs = append(errs, fmt.Errorf("view.fixed_rows must be >= 0, got %d", c.View.FixedRows))
	}
	if c.View.VisibleCount < 0 {
		errs = append(errs, fmt.Errorf("view.visible_count must be >= 0, got %d", c.View.VisibleCount))
	}
	if c.View.ExpandLevel < -1 {
		errs = append(errs, fmt.Errorf("view.expand_level must be >= -1, got %d", c.View.ExpandLevel))
	}
	if c.Source.KeyField == "" {
		errs = append(errs, errors.New("source.key_field is required"))
	}
	if c.Source.ParentField == "" {
		errs = append(errs, errors.New("source.parent_field is required"))
	}
	if c.Source.KeyField != "" && c.Source.KeyField == c.Source.ParentField {
		errs = append(errs, fmt.Errorf("source.key_field and source.parent_field are both %q", c.Source.KeyField))
	}
	if c.Log.Level != "" && !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level %q is not a known level", c.Log.Level))
	}
	seen := make(map[string]bool)
	for _, s := range c.Sources {
		key := strings.ToLower(s.Name)
		if s.Name == "" || s.Path == "" {
			errs = append(errs, fmt.Errorf("sources: entry %q needs a name and a path", s.Name))
		} else if seen[key] {
			errs = append(errs, fmt.Errorf("sources: duplicate name %q", s.Name))
		}
		seen[key] = true
	}
	return errors.Join(errs...)
}

// ConfigDir returns the XDG config directory for treegrid.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for treegrid.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads config from path, or from ConfigPath when path is empty.
// Returns DefaultConfig if the file doesn't exist.
func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Source.StateFile = expandHome(cfg.Source.StateFile)
	cfg.Log.File = expandHome(cfg.Log.File)
	for i := range cfg.Sources {
		cfg.Sources[i].Path = expandHome(cfg.Sources[i].Path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, or to ConfigPath when path is empty.
func Save(path string, cfg Config) error {
	if path == "" {
		path = ConfigPath()
	}
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindSource returns the named source, or nil.
func (c Config) FindSource(name string) *NamedSource {
	for i := range c.Sources {
		if strings.EqualFold(c.Sources[i].Name, name) {
			return &c.Sources[i]
		}
	}
	return nil
}

// ResolvePaths replaces "@name" arguments with the registered source path.
func (c Config) ResolvePaths(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if !strings.HasPrefix(a, "@") {
			out = append(out, expandHome(a))
			continue
		}
		s := c.FindSource(a[1:])
		if s == nil {
			return nil, fmt.Errorf("unknown source %q", a)
		}
		out = append(out, s.Path)
	}
	return out, nil
}

// SetSource registers or replaces a named source. An empty path removes it.
func (c *Config) SetSource(name, path string) {
	for i := range c.Sources {
		if strings.EqualFold(c.Sources[i].Name, name) {
			if path == "" {
				c.Sources = append(c.Sources[:i], c.Sources[i+1:]...)
			} else {
				c.Sources[i].Path = path
			}
			return
		}
	}
	if path != "" {
		c.Sources = append(c.Sources, NamedSource{Name: name, Path: path})
	}
}

// DefaultLogFile returns the log file under the state directory.
func DefaultLogFile() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "treegrid.log")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
