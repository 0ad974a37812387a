package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/motion"
	"rigroot/internal/rig"
	"rigroot/internal/services"
)

// Snapshot schema version. Bump on incompatible changes.
const snapshotVersion = 1

type snapshot struct {
	Version        int                      `json:"version"`
	Name           string                   `json:"name"`
	ObjectScale    float64                  `json:"object_scale"`
	ObjectRotation [4]float64               `json:"object_rotation"`
	FrameRate      float64                  `json:"frame_rate"`
	Start          float64                  `json:"start"`
	End            float64                  `json:"end"`
	Bones          []snapshotBone           `json:"bones"`
	Meshes         []Mesh                   `json:"meshes,omitempty"`
	Tracks         map[string]snapshotTrack `json:"tracks,omitempty"`
	Images         []snapshotImage          `json:"images,omitempty"`
}

type snapshotBone struct {
	Name   string      `json:"name"`
	Parent string      `json:"parent,omitempty"`
	Rest   [16]float64 `json:"rest"`
	Tail   [3]float64  `json:"tail"`
}

type snapshotTrack struct {
	Times        []float64    `json:"times"`
	Translations [][3]float64 `json:"translations"`
	Rotations    [][4]float64 `json:"rotations"`
}

type snapshotImage struct {
	Name     string `json:"name"`
	Data     []byte `json:"data,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// LoadSnapshot reads a snapshot file into a memory scene. Bones are listed
// parent-before-child in the file, which lets the hierarchy be rebuilt in a
// single pass.
func LoadSnapshot(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrImport, "snapshot", "read", path, err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, services.Wrap(services.ErrImport, "snapshot", "parse", path, err)
	}
	if snap.Version != snapshotVersion {
		return nil, services.Wrap(services.ErrImport, "snapshot", "version",
			fmt.Sprintf("unsupported snapshot version %d", snap.Version), nil)
	}

	m := NewMemory(snap.Name)
	if snap.ObjectScale > 0 {
		m.objectScale = snap.ObjectScale
	}
	m.objectRotation = mgl64.Quat{
		W: snap.ObjectRotation[0],
		V: mgl64.Vec3{snap.ObjectRotation[1], snap.ObjectRotation[2], snap.ObjectRotation[3]},
	}.Normalize()
	if snap.FrameRate > 0 {
		m.frameRate = snap.FrameRate
	}
	m.start, m.end = snap.Start, snap.End

	for _, b := range snap.Bones {
		parent := rig.NoBone
		if b.Parent != "" {
			id, ok := m.hierarchy.Lookup(b.Parent)
			if !ok {
				return nil, services.Wrap(services.ErrImport, "snapshot", "bones",
					fmt.Sprintf("bone %q references unknown parent %q", b.Name, b.Parent), nil)
			}
			parent = id
		}
		rest := mgl64.Mat4(b.Rest)
		tail := mgl64.Vec3(b.Tail)
		if _, err := m.hierarchy.AddBone(b.Name, parent, rest, tail); err != nil {
			return nil, services.Wrap(services.ErrImport, "snapshot", "bones", b.Name, err)
		}
	}
	m.meshes = append(m.meshes, snap.Meshes...)
	for bone, st := range snap.Tracks {
		track := &motion.Track{Times: st.Times}
		for _, v := range st.Translations {
			track.Translations = append(track.Translations, mgl64.Vec3(v))
		}
		for _, q := range st.Rotations {
			track.Rotations = append(track.Rotations, mgl64.Quat{W: q[0], V: mgl64.Vec3{q[1], q[2], q[3]}})
		}
		m.clip.Tracks[bone] = track
	}
	for _, img := range snap.Images {
		m.images = append(m.images, Image(img))
	}
	return m, nil
}

// SaveSnapshot writes the scene to a snapshot file.
func (m *Memory) SaveSnapshot(path string) error {
	snap := snapshot{
		Version:     snapshotVersion,
		Name:        m.name,
		ObjectScale: m.objectScale,
		ObjectRotation: [4]float64{
			m.objectRotation.W,
			m.objectRotation.V.X(), m.objectRotation.V.Y(), m.objectRotation.V.Z(),
		},
		FrameRate: m.frameRate,
		Start:     m.start,
		End:       m.end,
		Meshes:    m.meshes,
	}
	for _, id := range boneOrder(m.hierarchy) {
		b := m.hierarchy.Bone(id)
		sb := snapshotBone{Name: b.Name, Rest: [16]float64(b.Rest), Tail: [3]float64(b.Tail)}
		if b.Parent != rig.NoBone {
			sb.Parent = m.hierarchy.Bone(b.Parent).Name
		}
		snap.Bones = append(snap.Bones, sb)
	}
	if len(m.clip.Tracks) > 0 {
		snap.Tracks = make(map[string]snapshotTrack, len(m.clip.Tracks))
		for bone, track := range m.clip.Tracks {
			st := snapshotTrack{Times: track.Times}
			for _, v := range track.Translations {
				st.Translations = append(st.Translations, [3]float64(v))
			}
			for _, q := range track.Rotations {
				st.Rotations = append(st.Rotations, [4]float64{q.W, q.V.X(), q.V.Y(), q.V.Z()})
			}
			snap.Tracks[bone] = st
		}
	}
	for _, img := range m.images {
		snap.Images = append(snap.Images, snapshotImage(img))
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrExport, "snapshot", "encode", m.name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrExport, "snapshot", "write", path, err)
	}
	return nil
}

// boneOrder returns all bone ids parent-before-child.
func boneOrder(h *rig.Hierarchy) []rig.BoneID {
	order := make([]rig.BoneID, 0, h.Len())
	var walk func(id rig.BoneID)
	walk = func(id rig.BoneID) {
		order = append(order, id)
		for _, child := range h.Bone(id).Children {
			walk(child)
		}
	}
	for _, root := range h.Roots() {
		walk(root)
	}
	return order
}
