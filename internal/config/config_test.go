package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rigroot/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Conversion.HipBoneName != "Hips" {
		t.Fatalf("unexpected hip bone name: %q", cfg.Conversion.HipBoneName)
	}
	if cfg.Conversion.RootBoneName != "root" {
		t.Fatalf("unexpected root bone name: %q", cfg.Conversion.RootBoneName)
	}
	if cfg.Conversion.AnimationSampleRate != 60 {
		t.Fatalf("unexpected sample rate: %g", cfg.Conversion.AnimationSampleRate)
	}
	if !cfg.Conversion.AppendAssetTypeDir {
		t.Fatal("expected append_asset_type_dir enabled by default")
	}
	if cfg.Conversion.UVMapsToKeep != -1 {
		t.Fatalf("expected uv_maps_to_keep default -1, got %d", cfg.Conversion.UVMapsToKeep)
	}
	if cfg.Interchange.ForwardAxis != "Y" || cfg.Interchange.UpAxis != "Z" {
		t.Fatalf("unexpected axis convention: %s/%s", cfg.Interchange.ForwardAxis, cfg.Interchange.UpAxis)
	}
	wantLogDir := filepath.Join(tempHome, ".local", "share", "rigroot", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[conversion]
hip_bone_name = "Pelvis"
animation_sample_rate = 30.0
dump_diagnostics = true

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected file at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Conversion.HipBoneName != "Pelvis" {
		t.Fatalf("unexpected hip bone name: %q", cfg.Conversion.HipBoneName)
	}
	if cfg.Conversion.AnimationSampleRate != 30 {
		t.Fatalf("unexpected sample rate: %g", cfg.Conversion.AnimationSampleRate)
	}
	if !cfg.Conversion.DumpDiagnostics {
		t.Fatal("expected dump_diagnostics enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
	if cfg.Conversion.RootBoneName != "root" {
		t.Fatalf("expected default root bone name, got %q", cfg.Conversion.RootBoneName)
	}
}

func TestValidateRejectsMatchingBoneNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[conversion]
hip_bone_name = "root"
root_bone_name = "root"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadSampleRate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[conversion]\nanimation_sample_rate = -24.0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for negative sample rate")
	}
}

func TestValidateRejectsBadAxis(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[interchange]\nup_axis = \"W\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unsupported axis")
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Conversion.HipBoneName != "Hips" {
		t.Fatalf("sample should carry defaults, got hip=%q", cfg.Conversion.HipBoneName)
	}
}
