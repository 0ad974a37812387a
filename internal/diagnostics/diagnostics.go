// Package diagnostics writes the per-frame root-motion decomposition as CSV
// next to the exported asset, for inspection in a spreadsheet or plotter.
package diagnostics

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"rigroot/internal/motion"
	"rigroot/internal/services"
)

var header = []string{
	"time",
	"root_x", "root_y", "root_z",
	"yaw_rad", "yaw_deg",
	"hip_x", "hip_y", "hip_z",
	"hip_qw", "hip_qx", "hip_qy", "hip_qz",
}

// Write dumps the decomposed frames to path.
func Write(path string, frames []motion.FrameSample) error {
	f, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrExport, "diagnostics", "create",
			fmt.Sprintf("create diagnostics file %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return services.Wrap(services.ErrExport, "diagnostics", "write", path, err)
	}
	record := make([]string, len(header))
	for _, frame := range frames {
		record[0] = formatFloat(frame.Time)
		record[1] = formatFloat(frame.RootTranslation.X())
		record[2] = formatFloat(frame.RootTranslation.Y())
		record[3] = formatFloat(frame.RootTranslation.Z())
		record[4] = formatFloat(frame.YawRadians)
		record[5] = formatFloat(frame.YawRadians * 180 / math.Pi)
		record[6] = formatFloat(frame.HipTranslation.X())
		record[7] = formatFloat(frame.HipTranslation.Y())
		record[8] = formatFloat(frame.HipTranslation.Z())
		record[9] = formatFloat(frame.HipRotation.W)
		record[10] = formatFloat(frame.HipRotation.V.X())
		record[11] = formatFloat(frame.HipRotation.V.Y())
		record[12] = formatFloat(frame.HipRotation.V.Z())
		if err := w.Write(record); err != nil {
			return services.Wrap(services.ErrExport, "diagnostics", "write", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return services.Wrap(services.ErrExport, "diagnostics", "flush", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 9, 64)
}
