package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Conversion contains the rig restructuring and motion baking settings.
type Conversion struct {
	// HipBoneName is the name of the bone that is the rig's root before
	// conversion, as produced by the rigging service.
	HipBoneName string `toml:"hip_bone_name"`
	// RootBoneName is the name of the root-motion bone injected above it.
	RootBoneName string `toml:"root_bone_name"`
	// AnimationSampleRate is the target sampling rate in frames per second.
	AnimationSampleRate float64 `toml:"animation_sample_rate"`
	// AppendAssetTypeDir appends Actor/ or Motions/ to the output directory.
	AppendAssetTypeDir bool `toml:"append_asset_type_dir"`
	// DumpDiagnostics writes one CSV row per sampled frame next to the export.
	DumpDiagnostics bool `toml:"dump_diagnostics"`
	// SmoothCutoffHz enables low-pass smoothing of the extracted root
	// translation curves when greater than zero.
	SmoothCutoffHz float64 `toml:"smooth_cutoff_hz"`
	// UVMapsToKeep trims UV layers beyond this count on Actor meshes.
	// Negative values keep everything.
	UVMapsToKeep int `toml:"uv_maps_to_keep"`
	// ExtractTextures saves embedded images next to the exported asset.
	ExtractTextures bool `toml:"extract_textures"`
	// GroundTolerance snaps near-zero ground heights to zero, in scene units.
	GroundTolerance float64 `toml:"ground_tolerance"`
}

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	DataDir   string `toml:"data_dir"`
}

// Interchange contains settings for the external interchange converter.
type Interchange struct {
	ConverterBinary string `toml:"converter_binary"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	ForwardAxis     string `toml:"forward_axis"`
	UpAxis          string `toml:"up_axis"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for rigroot.
//
// Configuration sections by subsystem:
//   - Conversion: bone names, sample rate, baking and export toggles
//   - Paths: output, log, and journal directories
//   - Interchange: external converter binary and axis convention
//   - Logging: log format and level
type Config struct {
	Conversion  Conversion  `toml:"conversion"`
	Paths       Paths       `toml:"paths"`
	Interchange Interchange `toml:"interchange"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/rigroot/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("rigroot.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the converter writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.DataDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
