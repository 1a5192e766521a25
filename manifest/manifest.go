// Package manifest handles minitalk.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file the loader looks for.
const FileName = "minitalk.toml"

// Manifest represents a minitalk.toml project configuration.
type Manifest struct {
	Project Project     `toml:"project"`
	Source  Source      `toml:"source"`
	Image   ImageConfig `toml:"image"`
	Log     LogConfig   `toml:"log"`

	// Dir is the directory containing the minitalk.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Source configures source file locations.
type Source struct {
	Entry string `toml:"entry"`
}

// ImageConfig configures image snapshot output.
type ImageConfig struct {
	Output string `toml:"output"`
}

// LogConfig configures logging verbosity.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Load parses a minitalk.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Source.Entry == "" {
		m.Source.Entry = "main.mt"
	}
	if m.Image.Output == "" {
		m.Image.Output = m.Project.Name + ".image"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a minitalk.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// EntryPath returns the absolute path of the configured entry script.
func (m *Manifest) EntryPath() string {
	return filepath.Join(m.Dir, m.Source.Entry)
}

// ImagePath returns the absolute path of the configured image output.
func (m *Manifest) ImagePath() string {
	return filepath.Join(m.Dir, m.Image.Output)
}
