package interchange_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/interchange"
	"rigroot/internal/rig"
	"rigroot/internal/scene"
	"rigroot/internal/services"
	"rigroot/internal/testsupport"
)

func sampleScene(t *testing.T) *scene.Memory {
	t.Helper()
	m := scene.NewMemory("hero")
	err := m.StructuralEdit(func(h *rig.Hierarchy) error {
		_, err := h.AddBone("Hips", rig.NoBone, mgl64.Translate3D(0, 0, 1), mgl64.Vec3{0, 0, 0.2})
		return err
	})
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}
	return m
}

func TestExportImportRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubConverter())
	codec := interchange.NewExecCodec(cfg)
	dest := filepath.Join(t.TempDir(), "hero.fbx")

	if err := codec.Export(context.Background(), sampleScene(t), dest); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("exported file missing: %v", err)
	}

	loaded, err := codec.Import(context.Background(), dest)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if loaded.Name() != "hero" {
		t.Fatalf("unexpected asset name %q", loaded.Name())
	}
	if _, ok := loaded.Hierarchy().Lookup("Hips"); !ok {
		t.Fatal("hierarchy lost in round trip")
	}
}

func TestImportFailureIsExternalToolError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failconv")
	script := "#!/bin/sh\necho 'unsupported file' >&2\nexit 3\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write converter stub: %v", err)
	}
	cfg := testsupport.NewConfig(t, testsupport.WithConverterBinary(path))
	codec := interchange.NewExecCodec(cfg)

	_, err := codec.Import(context.Background(), "/assets/hero.fbx")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !errors.Is(err, services.ErrImport) {
		t.Fatalf("expected ErrImport wrapping, got %v", err)
	}
}

func TestUnconfiguredBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithConverterBinary("  "))
	codec := interchange.NewExecCodec(cfg)
	if _, err := codec.Import(context.Background(), "/assets/hero.fbx"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}
