// Package outputpath resolves where a converted asset is written.
package outputpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rigroot/internal/rig"
	"rigroot/internal/services"
	"rigroot/internal/textutil"
)

// Extension is the interchange file extension every export uses.
const Extension = ".fbx"

// Resolve builds the export path for an asset and creates the directory
// chain. The filename keeps its stem but always gets the interchange
// extension. With appendKindDir set, the asset kind's conventional
// subdirectory (Actor or Motions) is appended to dir unless dir already ends
// in it, so re-exports into a previously resolved directory do not nest.
func Resolve(dir, filename string, kind rig.AssetKind, appendKindDir bool) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "", services.Wrap(services.ErrValidation, "output", "resolve",
			"output filename is empty", nil)
	}
	name = textutil.SanitizeFileName(name)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name += Extension

	if appendKindDir && filepath.Base(filepath.Clean(dir)) != kind.DirName() {
		dir = filepath.Join(dir, kind.DirName())
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrExport, "output", "mkdir",
			fmt.Sprintf("create output directory %s", dir), err)
	}
	return filepath.Join(dir, name), nil
}
