package scene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/fileutil"
	"rigroot/internal/motion"
	"rigroot/internal/rig"
	"rigroot/internal/services"
	"rigroot/internal/textutil"
)

// Mesh is a mesh object parented to the armature.
type Mesh struct {
	Name     string   `json:"name"`
	UVLayers []string `json:"uv_layers,omitempty"`
}

// Image is a texture referenced by the asset. Embedded images carry their
// bytes in Data; external ones carry only a FilePath.
type Image struct {
	Name     string
	Data     []byte
	FilePath string
}

// Memory is an in-memory scene host. It evaluates bone world transforms from
// the rest pose and the pose tracks, and memoizes evaluations until the next
// cache clear.
type Memory struct {
	name           string
	hierarchy      *rig.Hierarchy
	objectScale    float64
	objectRotation mgl64.Quat
	meshes         []Mesh
	images         []Image
	clip           *motion.Clip
	frameRate      float64
	start, end     float64

	worldCache map[worldKey]mgl64.Mat4
}

var _ Graph = (*Memory)(nil)

type worldKey struct {
	bone string
	t    float64
}

// NewMemory builds an empty scene host with unit object transform.
func NewMemory(name string) *Memory {
	return &Memory{
		name:           name,
		hierarchy:      rig.NewHierarchy(),
		objectScale:    1,
		objectRotation: mgl64.QuatIdent(),
		clip:           motion.NewClip(),
		frameRate:      30,
		worldCache:     make(map[worldKey]mgl64.Mat4),
	}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Hierarchy() *rig.Hierarchy { return m.hierarchy }

// StructuralEdit clones the skeleton, applies fn, and swaps the clone in
// only when fn succeeds.
func (m *Memory) StructuralEdit(fn func(*rig.Hierarchy) error) error {
	work := m.hierarchy.Clone()
	if err := fn(work); err != nil {
		return err
	}
	m.hierarchy = work
	m.ClearAnimationCaches()
	return nil
}

func (m *Memory) ObjectScale() float64 { return m.objectScale }

// SetObjectScale overrides the armature object scale.
func (m *Memory) SetObjectScale(scale float64) {
	m.objectScale = scale
	m.ClearAnimationCaches()
}

func (m *Memory) ObjectRotation() mgl64.Quat { return m.objectRotation }

// SetObjectRotation overrides the armature object rotation.
func (m *Memory) SetObjectRotation(q mgl64.Quat) {
	m.objectRotation = q.Normalize()
	m.ClearAnimationCaches()
}

// ApplyRotationToRest folds the object rotation into every bone's rest
// transform and resets the object rotation to identity. World-space bone
// transforms are unchanged by the fold.
func (m *Memory) ApplyRotationToRest() error {
	m.hierarchy.FoldRotationIntoRest(m.objectRotation.Mat4())
	m.objectRotation = mgl64.QuatIdent()
	m.ClearAnimationCaches()
	return nil
}

// AddMesh registers a mesh child of the armature.
func (m *Memory) AddMesh(name string, uvLayers ...string) {
	m.meshes = append(m.meshes, Mesh{Name: name, UVLayers: append([]string(nil), uvLayers...)})
}

func (m *Memory) MeshChildren() []string {
	names := make([]string, len(m.meshes))
	for i := range m.meshes {
		names[i] = m.meshes[i].Name
	}
	return names
}

func (m *Memory) UVLayers(mesh string) ([]string, error) {
	mm := m.mesh(mesh)
	if mm == nil {
		return nil, services.Wrap(services.ErrValidation, "scene", "uv_layers",
			fmt.Sprintf("mesh %q not found", mesh), nil)
	}
	return append([]string(nil), mm.UVLayers...), nil
}

func (m *Memory) RemoveUVLayer(mesh, layer string) error {
	mm := m.mesh(mesh)
	if mm == nil {
		return services.Wrap(services.ErrValidation, "scene", "remove_uv_layer",
			fmt.Sprintf("mesh %q not found", mesh), nil)
	}
	for i, name := range mm.UVLayers {
		if name == layer {
			mm.UVLayers = append(mm.UVLayers[:i], mm.UVLayers[i+1:]...)
			return nil
		}
	}
	return services.Wrap(services.ErrValidation, "scene", "remove_uv_layer",
		fmt.Sprintf("mesh %q has no UV layer %q", mesh, layer), nil)
}

func (m *Memory) mesh(name string) *Mesh {
	for i := range m.meshes {
		if m.meshes[i].Name == name {
			return &m.meshes[i]
		}
	}
	return nil
}

// SetTimeRange sets the animated interval in seconds.
func (m *Memory) SetTimeRange(start, end float64) {
	m.start, m.end = start, end
}

func (m *Memory) TimeRange() (float64, float64) { return m.start, m.end }

// SetSourceFrameRate sets the native sampling rate of the animation.
func (m *Memory) SetSourceFrameRate(rate float64) {
	m.frameRate = rate
}

func (m *Memory) SourceFrameRate() float64 { return m.frameRate }

// SetBoneTrack replaces the pose channel of a bone.
func (m *Memory) SetBoneTrack(bone string, track *motion.Track) error {
	if _, ok := m.hierarchy.Lookup(bone); !ok {
		return services.Wrap(services.ErrUnknownBone, "scene", "set_track",
			fmt.Sprintf("bone %q not found", bone), nil)
	}
	m.clip.Tracks[bone] = track
	m.ClearAnimationCaches()
	return nil
}

// CommitBakedTracks installs a world-space root track and a root-relative
// hip track as pose channels, compensating the object scale and the rest
// offsets of both bones. The object rotation must have been folded into the
// rest pose first, otherwise the committed keys would replay it twice.
func (m *Memory) CommitBakedTracks(rootBone, hipBone string, rootTrack, hipTrack *motion.Track) error {
	if q := m.objectRotation; math.Abs(math.Abs(q.W)-1) > 1e-9 {
		return services.Wrap(services.ErrValidation, "scene", "commit_tracks",
			"object rotation must be folded into the rest pose before committing keys", nil)
	}
	rootID, ok := m.hierarchy.Lookup(rootBone)
	if !ok {
		return services.Wrap(services.ErrUnknownBone, "scene", "commit_tracks",
			fmt.Sprintf("bone %q not found", rootBone), nil)
	}
	hipID, ok := m.hierarchy.Lookup(hipBone)
	if !ok {
		return services.Wrap(services.ErrUnknownBone, "scene", "commit_tracks",
			fmt.Sprintf("bone %q not found", hipBone), nil)
	}
	scale := m.objectScale
	if scale <= 0 {
		scale = 1
	}

	toPose := func(restInv mgl64.Mat4, track *motion.Track) *motion.Track {
		pose := &motion.Track{}
		for i, t := range track.Times {
			// World-unit translations shrink to armature units before the
			// rest offset is removed.
			translation := track.Translations[i].Mul(1 / scale)
			local := restInv.Mul4(
				mgl64.Translate3D(translation.X(), translation.Y(), translation.Z()).
					Mul4(track.Rotations[i].Mat4()))
			pose.Append(t, local.Col(3).Vec3(), mgl64.Mat4ToQuat(local).Normalize())
		}
		return pose
	}
	m.clip.Tracks[rootBone] = toPose(m.hierarchy.LocalRest(rootID).Inv(), rootTrack)
	m.clip.Tracks[hipBone] = toPose(m.hierarchy.LocalRest(hipID).Inv(), hipTrack)
	m.ClearAnimationCaches()
	return nil
}

// BoneTrack returns the pose channel of a bone, or nil when unkeyed.
func (m *Memory) BoneTrack(bone string) *motion.Track {
	return m.clip.Tracks[bone]
}

// BoneWorldAt evaluates the world transform of a bone at time t:
// the object transform, then parent-to-child rest and pose transforms.
func (m *Memory) BoneWorldAt(bone string, t float64) (mgl64.Mat4, error) {
	id, ok := m.hierarchy.Lookup(bone)
	if !ok {
		return mgl64.Mat4{}, services.Wrap(services.ErrUnknownBone, "scene", "bone_world",
			fmt.Sprintf("bone %q not found", bone), nil)
	}
	object := m.objectRotation.Mat4().Mul4(mgl64.Scale3D(m.objectScale, m.objectScale, m.objectScale))
	return object.Mul4(m.armatureSpace(id, t)), nil
}

func (m *Memory) armatureSpace(id rig.BoneID, t float64) mgl64.Mat4 {
	b := m.hierarchy.Bone(id)
	key := worldKey{bone: b.Name, t: t}
	if cached, ok := m.worldCache[key]; ok {
		return cached
	}
	local := m.hierarchy.LocalRest(id)
	if track, ok := m.clip.Tracks[b.Name]; ok && track.Len() > 0 {
		translation, rotation := track.Sample(t)
		pose := mgl64.Translate3D(translation.X(), translation.Y(), translation.Z()).
			Mul4(rotation.Mat4())
		local = local.Mul4(pose)
	}
	world := local
	if b.Parent != rig.NoBone {
		world = m.armatureSpace(b.Parent, t).Mul4(local)
	}
	m.worldCache[key] = world
	return world
}

// BoundsBaseAt approximates the character's bounding-box base from the bone
// head and tail positions at time t: the horizontal center of their extent
// at the lowest world height.
func (m *Memory) BoundsBaseAt(t float64) (mgl64.Vec3, error) {
	if m.hierarchy.Len() == 0 {
		return mgl64.Vec3{}, services.Wrap(services.ErrValidation, "scene", "bounds",
			"armature has no bones", nil)
	}
	object := m.objectRotation.Mat4().Mul4(mgl64.Scale3D(m.objectScale, m.objectScale, m.objectScale))
	first := true
	var minX, maxX, minY, maxY, minZ float64
	consider := func(p mgl64.Vec3) {
		if first {
			minX, maxX, minY, maxY, minZ = p.X(), p.X(), p.Y(), p.Y(), p.Z()
			first = false
			return
		}
		minX = min(minX, p.X())
		maxX = max(maxX, p.X())
		minY = min(minY, p.Y())
		maxY = max(maxY, p.Y())
		minZ = min(minZ, p.Z())
	}
	for i := 0; i < m.hierarchy.Len(); i++ {
		id := rig.BoneID(i)
		world := object.Mul4(m.armatureSpace(id, t))
		head := world.Col(3).Vec3()
		consider(head)
		tail := world.Mul4x1(m.hierarchy.Bone(id).Tail.Vec4(1)).Vec3()
		consider(tail)
	}
	return mgl64.Vec3{(minX + maxX) / 2, (minY + maxY) / 2, minZ}, nil
}

// ClearAnimationCaches drops all memoized world transforms.
func (m *Memory) ClearAnimationCaches() {
	m.worldCache = make(map[worldKey]mgl64.Mat4)
}

// AddImage registers a texture.
func (m *Memory) AddImage(img Image) {
	m.images = append(m.images, img)
}

func (m *Memory) Images() []string {
	names := make([]string, len(m.images))
	for i := range m.images {
		names[i] = m.images[i].Name
	}
	sort.Strings(names)
	return names
}

// ExtractImage writes the image into dir under "<asset>_<image>" and returns
// the written path. Embedded bytes are written out; already-external images
// are copied. The image's own path reference is left untouched, so the live
// scene is unaffected by the save.
func (m *Memory) ExtractImage(name, dir string) (string, error) {
	var img *Image
	for i := range m.images {
		if m.images[i].Name == name {
			img = &m.images[i]
			break
		}
	}
	if img == nil {
		return "", services.Wrap(services.ErrValidation, "scene", "extract_image",
			fmt.Sprintf("image %q not found", name), nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrExport, "scene", "extract_image",
			fmt.Sprintf("create texture directory %s", dir), err)
	}
	dest := filepath.Join(dir, textutil.SanitizeFileName(m.name+"_"+name))
	switch {
	case len(img.Data) > 0:
		if err := os.WriteFile(dest, img.Data, 0o644); err != nil {
			return "", services.Wrap(services.ErrExport, "scene", "extract_image",
				fmt.Sprintf("write image %s", dest), err)
		}
	case img.FilePath != "":
		if err := fileutil.CopyFile(img.FilePath, dest); err != nil {
			return "", services.Wrap(services.ErrExport, "scene", "extract_image",
				fmt.Sprintf("copy image %s", img.FilePath), err)
		}
	default:
		return "", services.Wrap(services.ErrValidation, "scene", "extract_image",
			fmt.Sprintf("image %q has no data and no source path", name), nil)
	}
	return dest, nil
}

// ImagePath returns the bound file path of an image, or "" when embedded.
func (m *Memory) ImagePath(name string) string {
	for i := range m.images {
		if m.images[i].Name == name {
			return m.images[i].FilePath
		}
	}
	return ""
}
