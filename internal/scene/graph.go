package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/motion"
	"rigroot/internal/rig"
)

// Graph is the scene host surface the pipeline operates on. It combines
// structural access to the skeleton, animation evaluation, mesh and texture
// access, and keyframe commits.
type Graph interface {
	// Name identifies the asset, usually the source file stem.
	Name() string

	// Hierarchy returns the current skeleton for read-only inspection.
	Hierarchy() *rig.Hierarchy
	// StructuralEdit runs fn against the skeleton with all-or-nothing
	// commit semantics.
	StructuralEdit(fn func(*rig.Hierarchy) error) error

	// ObjectScale is the uniform scale of the armature object.
	ObjectScale() float64
	// ObjectRotation is the rotation of the armature object.
	ObjectRotation() mgl64.Quat
	// ApplyRotationToRest folds the object rotation into the rest pose and
	// resets the object rotation to identity.
	ApplyRotationToRest() error

	// MeshChildren lists the names of meshes directly parented to the
	// armature.
	MeshChildren() []string
	// UVLayers lists the UV layer names of a mesh in storage order.
	UVLayers(mesh string) ([]string, error)
	// RemoveUVLayer deletes one UV layer from a mesh.
	RemoveUVLayer(mesh, layer string) error

	// TimeRange returns the animated interval in seconds.
	TimeRange() (start, end float64)
	// SourceFrameRate returns the native sampling rate of the animation.
	SourceFrameRate() float64
	// BoneWorldAt evaluates the world transform of a bone at time t.
	BoneWorldAt(bone string, t float64) (mgl64.Mat4, error)
	// BoundsBaseAt returns the center of the character's bounding-box base
	// at time t, in world space.
	BoundsBaseAt(t float64) (mgl64.Vec3, error)

	// SetBoneTrack replaces the pose channel of a bone with a baked track.
	SetBoneTrack(bone string, track *motion.Track) error
	// CommitBakedTracks installs root-relative baked tracks produced by the
	// motion baker onto the root and hip bones.
	CommitBakedTracks(rootBone, hipBone string, rootTrack, hipTrack *motion.Track) error
	// ClearAnimationCaches drops memoized evaluation state. Call after any
	// change that invalidates previously evaluated transforms.
	ClearAnimationCaches()

	// Images lists the asset's image names.
	Images() []string
	// ExtractImage materializes an image into dir and returns the written
	// path. The image's own path reference is not changed by the save.
	ExtractImage(name, dir string) (string, error)
}
