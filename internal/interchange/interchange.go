// Package interchange moves assets between interchange files and scene
// snapshots by driving an external converter binary. The converter owns the
// interchange format details; this package owns process lifecycle, timeouts,
// and snapshot handoff.
package interchange

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"rigroot/internal/config"
	"rigroot/internal/scene"
	"rigroot/internal/services"
)

// ExecCodec converts through a configurable external binary. The binary is
// expected to accept two subcommands:
//
//	<binary> to-snapshot --forward <axis> --up <axis> <source> <snapshot>
//	<binary> from-snapshot --forward <axis> --up <axis> <snapshot> <dest>
type ExecCodec struct {
	binary      string
	timeout     time.Duration
	forwardAxis string
	upAxis      string
}

// NewExecCodec builds a codec from the interchange configuration.
func NewExecCodec(cfg *config.Config) *ExecCodec {
	timeout := time.Duration(cfg.Interchange.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ExecCodec{
		binary:      cfg.Interchange.ConverterBinary,
		timeout:     timeout,
		forwardAxis: cfg.Interchange.ForwardAxis,
		upAxis:      cfg.Interchange.UpAxis,
	}
}

// Import reads an interchange file into a memory scene.
func (c *ExecCodec) Import(ctx context.Context, sourcePath string) (*scene.Memory, error) {
	tmp, err := os.MkdirTemp("", "rigroot-import-")
	if err != nil {
		return nil, services.Wrap(services.ErrImport, "interchange", "tempdir", "", err)
	}
	defer os.RemoveAll(tmp)

	snapshotPath := filepath.Join(tmp, "scene.json")
	if err := c.run(ctx, "to-snapshot", sourcePath, snapshotPath); err != nil {
		return nil, services.Wrap(services.ErrImport, "interchange", "to_snapshot", sourcePath, err)
	}
	return scene.LoadSnapshot(snapshotPath)
}

// Export writes a memory scene to an interchange file.
func (c *ExecCodec) Export(ctx context.Context, graph *scene.Memory, destPath string) error {
	tmp, err := os.MkdirTemp("", "rigroot-export-")
	if err != nil {
		return services.Wrap(services.ErrExport, "interchange", "tempdir", "", err)
	}
	defer os.RemoveAll(tmp)

	snapshotPath := filepath.Join(tmp, "scene.json")
	if err := graph.SaveSnapshot(snapshotPath); err != nil {
		return err
	}
	if err := c.run(ctx, "from-snapshot", snapshotPath, destPath); err != nil {
		return services.Wrap(services.ErrExport, "interchange", "from_snapshot", destPath, err)
	}
	return nil
}

func (c *ExecCodec) run(ctx context.Context, subcommand, input, output string) error {
	if strings.TrimSpace(c.binary) == "" {
		return services.Wrap(services.ErrExternalTool, "interchange", subcommand,
			"converter binary not configured", nil)
	}
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{
		subcommand,
		"--forward", c.forwardAxis,
		"--up", c.upAxis,
		input,
		output,
	}
	cmd := exec.CommandContext(runCtx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := fmt.Sprintf("%s %s", c.binary, subcommand)
		if msg := lastLine(stderr.String()); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		if runCtx.Err() == context.DeadlineExceeded {
			detail = fmt.Sprintf("%s (timed out after %s)", detail, c.timeout)
		}
		return services.Wrap(services.ErrExternalTool, "interchange", subcommand, detail, err)
	}
	return nil
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
