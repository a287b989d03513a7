package store

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the per-root configuration, read from config.yaml under the
// store root when present.
type Config struct {
	Store     string `yaml:"store"`
	ExportDir string `yaml:"export_dir"`
	Color     string `yaml:"color"` // auto|always|never
}

func defaultConfig(root string) Config {
	return Config{
		Store:     "todos.txt",
		ExportDir: filepath.Join(root, "exports"),
		Color:     "auto",
	}
}

// LoadConfig reads <root>/config.yaml. A missing or unreadable file, and
// any key left unset, fall back to defaults.
func LoadConfig(root string) Config {
	cfg := defaultConfig(root)
	b, err := os.ReadFile(filepath.Join(root, "config.yaml"))
	if err != nil {
		return cfg
	}
	var loaded Config
	if err := yaml.Unmarshal(b, &loaded); err != nil {
		return cfg
	}
	if strings.TrimSpace(loaded.Store) != "" {
		cfg.Store = loaded.Store
	}
	if strings.TrimSpace(loaded.ExportDir) != "" {
		cfg.ExportDir = loaded.ExportDir
	}
	if strings.TrimSpace(loaded.Color) != "" {
		cfg.Color = strings.ToLower(strings.TrimSpace(loaded.Color))
	}
	return cfg
}

// StorePath resolves the backing file location under the root.
func (c Config) StorePath(root string) string {
	if filepath.IsAbs(c.Store) {
		return c.Store
	}
	return filepath.Join(root, c.Store)
}

// ExpandHome resolves a leading ~ against the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
