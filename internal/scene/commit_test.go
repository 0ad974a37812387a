package scene_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/motion"
	"rigroot/internal/rig"
)

// matNear reports whether every element of got is within tol of want.
func matNear(got, want mgl64.Mat4, tol float64) bool {
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}

func TestCommitBakedTracksReproducesWorldTransforms(t *testing.T) {
	m := bipedScene(t)
	if err := rig.InjectRootBone(m, "Hips", "root", m.ObjectScale()); err != nil {
		t.Fatalf("inject root: %v", err)
	}

	rootTrack := &motion.Track{}
	hipTrack := &motion.Track{}
	for _, tt := range []float64{0, 0.5, 1} {
		yaw := 0.4 * tt
		rootWorld := mgl64.Translate3D(0.1*tt, tt, 0).Mul4(mgl64.QuatRotate(yaw, mgl64.Vec3{0, 0, 1}).Mat4())
		hipLocal := mgl64.Translate3D(0, 0, 1+0.05*tt).Mul4(mgl64.QuatRotate(0.2, mgl64.Vec3{1, 0, 0}).Mat4())

		rootTrack.Append(tt, rootWorld.Col(3).Vec3(), mgl64.Mat4ToQuat(rootWorld).Normalize())
		hipTrack.Append(tt, hipLocal.Col(3).Vec3(), mgl64.Mat4ToQuat(hipLocal).Normalize())
	}
	if err := m.CommitBakedTracks("root", "Hips", rootTrack, hipTrack); err != nil {
		t.Fatalf("CommitBakedTracks: %v", err)
	}

	for i, tt := range rootTrack.Times {
		rootWorld := mgl64.Translate3D(
			rootTrack.Translations[i].X(), rootTrack.Translations[i].Y(), rootTrack.Translations[i].Z(),
		).Mul4(rootTrack.Rotations[i].Mat4())
		hipLocal := mgl64.Translate3D(
			hipTrack.Translations[i].X(), hipTrack.Translations[i].Y(), hipTrack.Translations[i].Z(),
		).Mul4(hipTrack.Rotations[i].Mat4())
		want := rootWorld.Mul4(hipLocal)

		got, err := m.BoneWorldAt("Hips", tt)
		if err != nil {
			t.Fatalf("BoneWorldAt: %v", err)
		}
		if !got.ApproxEqualThreshold(want, 1e-9) {
			t.Fatalf("t=%g: committed keys do not reproduce the hip world transform\n got %v\nwant %v", tt, got, want)
		}

		gotRoot, err := m.BoneWorldAt("root", tt)
		if err != nil {
			t.Fatalf("BoneWorldAt root: %v", err)
		}
		if !gotRoot.ApproxEqualThreshold(rootWorld, 1e-9) {
			t.Fatalf("t=%g: committed root keys diverge", tt)
		}
	}
}

func TestCommitBakedTracksScaledRig(t *testing.T) {
	m := bipedScene(t)
	m.SetObjectScale(0.01)
	if err := rig.InjectRootBone(m, "Hips", "root", m.ObjectScale()); err != nil {
		t.Fatalf("inject root: %v", err)
	}

	samples := []float64{0, 0.5, 1}
	want := make([]mgl64.Mat4, len(samples))
	for i, tt := range samples {
		world, err := m.BoneWorldAt("Hips", tt)
		if err != nil {
			t.Fatalf("source eval: %v", err)
		}
		want[i] = world
	}

	result, err := motion.Bake(m, motion.Options{
		HipBone:         "Hips",
		SampleRate:      60,
		GroundTolerance: 0.1,
	})
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if err := m.CommitBakedTracks("root", "Hips", &result.Root, &result.Hip); err != nil {
		t.Fatalf("CommitBakedTracks: %v", err)
	}

	for i, tt := range samples {
		got, err := m.BoneWorldAt("Hips", tt)
		if err != nil {
			t.Fatalf("BoneWorldAt: %v", err)
		}
		if !matNear(got, want[i], 1e-5) {
			t.Fatalf("t=%g: committed keys diverge on a scaled rig\n got %v\nwant %v", tt, got, want[i])
		}
	}
}

func TestCommitBakedTracksRequiresFoldedRotation(t *testing.T) {
	m := bipedScene(t)
	if err := rig.InjectRootBone(m, "Hips", "root", 1); err != nil {
		t.Fatalf("inject root: %v", err)
	}
	m.SetObjectRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}))
	err := m.CommitBakedTracks("root", "Hips", &motion.Track{}, &motion.Track{})
	if err == nil {
		t.Fatal("expected error while object rotation is pending")
	}
	if err := m.ApplyRotationToRest(); err != nil {
		t.Fatalf("ApplyRotationToRest: %v", err)
	}
	if err := m.CommitBakedTracks("root", "Hips", &motion.Track{}, &motion.Track{}); err != nil {
		t.Fatalf("CommitBakedTracks after fold: %v", err)
	}
}
