package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"rigroot/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The converter binary defaults to "sh" so binary checks resolve without an
// actual interchange tool on the host.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Interchange.ConverterBinary = "sh"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithConverterBinary overrides the interchange converter on the test config.
func WithConverterBinary(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Interchange.ConverterBinary = path
	}
}

// WithStubConverter installs a shell converter that copies snapshots verbatim
// in either direction and points the config at it. Imports then accept
// snapshot files directly, which lets tests feed scenes built in memory
// through the full interchange path.
func WithStubConverter() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "fakeconv")
		script := []byte("#!/bin/sh\n" +
			"eval src=\\${$(($# - 1))}\n" +
			"eval dst=\\${$#}\n" +
			"cp \"$src\" \"$dst\"\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write stub converter: %v", err)
		}
		b.cfg.Interchange.ConverterBinary = target
	}
}
