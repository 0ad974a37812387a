package scene_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/motion"
	"rigroot/internal/rig"
	"rigroot/internal/scene"
)

// bipedScene builds a memory scene with Hips above the origin, a Spine
// child, and a simple forward-walk track on the hips.
func bipedScene(t *testing.T) *scene.Memory {
	t.Helper()
	m := scene.NewMemory("walk")
	err := m.StructuralEdit(func(h *rig.Hierarchy) error {
		hips, err := h.AddBone("Hips", rig.NoBone, mgl64.Translate3D(0, 0, 1), mgl64.Vec3{0, 0, 0.2})
		if err != nil {
			return err
		}
		_, err = h.AddBone("Spine", hips, mgl64.Translate3D(0, 0, 1.2), mgl64.Vec3{0, 0, 0.3})
		return err
	})
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}
	track := &motion.Track{}
	track.Append(0, mgl64.Vec3{}, mgl64.QuatIdent())
	track.Append(1, mgl64.Vec3{0, 2, 0}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	if err := m.SetBoneTrack("Hips", track); err != nil {
		t.Fatalf("set track: %v", err)
	}
	m.SetTimeRange(0, 1)
	m.SetSourceFrameRate(30)
	return m
}

func TestBoneWorldAtComposesRestAndPose(t *testing.T) {
	m := bipedScene(t)

	world, err := m.BoneWorldAt("Hips", 0)
	if err != nil {
		t.Fatalf("BoneWorldAt: %v", err)
	}
	if got := world.Col(3).Vec3(); got.Sub(mgl64.Vec3{0, 0, 1}).Len() > 1e-9 {
		t.Fatalf("hips rest position: %v", got)
	}

	world, err = m.BoneWorldAt("Hips", 1)
	if err != nil {
		t.Fatalf("BoneWorldAt: %v", err)
	}
	if got := world.Col(3).Vec3(); got.Sub(mgl64.Vec3{0, 2, 1}).Len() > 1e-9 {
		t.Fatalf("hips keyed position: %v", got)
	}

	// The spine inherits the hip pose: its rest offset (0,0,0.2) from the
	// hips is rotated by the hip's 90 degree yaw.
	world, err = m.BoneWorldAt("Spine", 1)
	if err != nil {
		t.Fatalf("BoneWorldAt: %v", err)
	}
	want := mgl64.Vec3{-0, 2, 1.2}
	got := world.Col(3).Vec3()
	if got.Sub(want).Len() > 1e-9 {
		t.Fatalf("spine keyed position: got %v want %v", got, want)
	}
}

func TestBoneWorldAtAppliesObjectTransform(t *testing.T) {
	m := bipedScene(t)
	m.SetObjectScale(0.5)
	world, err := m.BoneWorldAt("Hips", 0)
	if err != nil {
		t.Fatalf("BoneWorldAt: %v", err)
	}
	if got := world.Col(3).Vec3(); got.Sub(mgl64.Vec3{0, 0, 0.5}).Len() > 1e-9 {
		t.Fatalf("scaled hips position: %v", got)
	}
}

func TestApplyRotationToRestKeepsWorldTransforms(t *testing.T) {
	m := bipedScene(t)
	m.SetObjectRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}))

	before, err := m.BoneWorldAt("Spine", 0.5)
	if err != nil {
		t.Fatalf("BoneWorldAt before: %v", err)
	}
	if err := m.ApplyRotationToRest(); err != nil {
		t.Fatalf("ApplyRotationToRest: %v", err)
	}
	if q := m.ObjectRotation(); math.Abs(q.W-1) > 1e-12 {
		t.Fatalf("object rotation not reset: %v", q)
	}
	after, err := m.BoneWorldAt("Spine", 0.5)
	if err != nil {
		t.Fatalf("BoneWorldAt after: %v", err)
	}
	if !after.ApproxEqualThreshold(before, 1e-9) {
		t.Fatalf("world transform changed by rest fold:\n got %v\nwant %v", after, before)
	}
}

func TestBoundsBaseFollowsLowestBone(t *testing.T) {
	m := bipedScene(t)
	base, err := m.BoundsBaseAt(0)
	if err != nil {
		t.Fatalf("BoundsBaseAt: %v", err)
	}
	// Lowest point is the hips head at z=1; everything sits on the armature
	// Y axis, so the base center has x=y=0.
	if math.Abs(base.Z()-1) > 1e-9 || math.Abs(base.X()) > 1e-9 || math.Abs(base.Y()) > 1e-9 {
		t.Fatalf("unexpected bounds base %v", base)
	}
}

func TestUVLayerRemoval(t *testing.T) {
	m := scene.NewMemory("actor")
	m.AddMesh("Body", "UVMap", "Lightmap", "Detail")
	if err := m.RemoveUVLayer("Body", "Lightmap"); err != nil {
		t.Fatalf("RemoveUVLayer: %v", err)
	}
	layers, err := m.UVLayers("Body")
	if err != nil {
		t.Fatalf("UVLayers: %v", err)
	}
	if len(layers) != 2 || layers[0] != "UVMap" || layers[1] != "Detail" {
		t.Fatalf("unexpected layers %v", layers)
	}
	if err := m.RemoveUVLayer("Body", "Missing"); err == nil {
		t.Fatal("expected error for unknown layer")
	}
	if err := m.RemoveUVLayer("Ghost", "UVMap"); err == nil {
		t.Fatal("expected error for unknown mesh")
	}
}

func TestExtractImageWritesEmbeddedData(t *testing.T) {
	dir := t.TempDir()
	m := scene.NewMemory("actor")
	m.AddImage(scene.Image{Name: "skin.png", Data: []byte{0x89, 0x50, 0x4e, 0x47}})

	path, err := m.ExtractImage("skin.png", filepath.Join(dir, "textures"))
	if err != nil {
		t.Fatalf("ExtractImage: %v", err)
	}
	if filepath.Base(path) != "actor_skin.png" {
		t.Fatalf("unexpected extracted filename %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read extracted image: %v", err)
	}
	if len(data) != 4 || data[0] != 0x89 {
		t.Fatalf("unexpected image bytes %v", data)
	}
	// Save-as-copy: the live reference keeps its original value.
	if got := m.ImagePath("skin.png"); got != "" {
		t.Fatalf("image path must stay unbound, got %q", got)
	}
}

func TestExtractImageUnknownName(t *testing.T) {
	m := scene.NewMemory("actor")
	if _, err := m.ExtractImage("ghost.png", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown image")
	}
}
