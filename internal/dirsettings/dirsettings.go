// Package dirsettings remembers export settings per asset directory.
//
// A conversion run reads the settings before starting (so repeated exports of
// assets from the same directory reuse the previous filename and output
// directory) and writes them back after a successful run. The store is a
// small TOML file kept next to the assets under a conventional filename.
package dirsettings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the conventional per-directory settings filename.
const FileName = "rigroot-export.toml"

// Known property keys.
const (
	KeyOutputFilename = "output_filename"
	KeyOutputDir      = "output_dir"
	KeyRootBoneName   = "root_bone_name"
	KeySampleRate     = "sample_rate"
)

// Settings is a key -> string property bag persisted per asset directory.
type Settings struct {
	Properties map[string]string `toml:"properties"`
}

// Get returns the stored value for key, or "" when absent.
func (s *Settings) Get(key string) string {
	if s == nil || s.Properties == nil {
		return ""
	}
	return s.Properties[key]
}

// Set stores value under key. Empty values delete the key.
func (s *Settings) Set(key, value string) {
	if s.Properties == nil {
		s.Properties = make(map[string]string)
	}
	if strings.TrimSpace(value) == "" {
		delete(s.Properties, key)
		return
	}
	s.Properties[key] = value
}

// Load reads the settings file from dir. A missing file yields empty
// settings, not an error.
func Load(dir string) (*Settings, error) {
	settings := &Settings{Properties: map[string]string{}}
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("read directory settings: %w", err)
	}
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse directory settings %s: %w", path, err)
	}
	if settings.Properties == nil {
		settings.Properties = map[string]string{}
	}
	return settings, nil
}

// Store writes the settings file into dir.
func Store(dir string, settings *Settings) error {
	if settings == nil {
		return nil
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode directory settings: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write directory settings: %w", err)
	}
	return nil
}
