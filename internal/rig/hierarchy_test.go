package rig_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/rig"
	"rigroot/internal/services"
)

// humanoid builds the minimal biped used across the structural tests:
// Hips at the top, Spine and both legs underneath.
func humanoid(t *testing.T) *rig.Hierarchy {
	t.Helper()
	h := rig.NewHierarchy()
	hips, err := h.AddBone("Hips", rig.NoBone, mgl64.Translate3D(0, 0, 1), mgl64.Vec3{0, 0, 0.2})
	if err != nil {
		t.Fatalf("add Hips: %v", err)
	}
	for _, name := range []string{"Spine", "LeftLeg", "RightLeg"} {
		if _, err := h.AddBone(name, hips, mgl64.Translate3D(0, 0, 1), mgl64.Vec3{0, 0, 0.3}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	return h
}

func TestAddBoneRejectsDuplicateNames(t *testing.T) {
	h := humanoid(t)
	if _, err := h.AddBone("Spine", rig.NoBone, mgl64.Ident4(), mgl64.Vec3{}); err == nil {
		t.Fatal("expected duplicate name to be rejected")
	}
}

func TestReparentRejectsCycles(t *testing.T) {
	h := humanoid(t)
	hips, _ := h.Lookup("Hips")
	spine, _ := h.Lookup("Spine")
	if err := h.Reparent(hips, spine); err == nil {
		t.Fatal("expected cycle to be rejected")
	}
	if err := h.Reparent(hips, hips); err == nil {
		t.Fatal("expected self-parenting to be rejected")
	}
}

func TestLocalRestCancelsParentTransform(t *testing.T) {
	h := rig.NewHierarchy()
	parentRest := mgl64.Translate3D(1, 2, 3).Mul4(mgl64.HomogRotate3DZ(0.5))
	childRest := parentRest.Mul4(mgl64.Translate3D(0, 0, 1))
	parent, err := h.AddBone("parent", rig.NoBone, parentRest, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("add parent: %v", err)
	}
	child, err := h.AddBone("child", parent, childRest, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("add child: %v", err)
	}
	got := h.LocalRest(child)
	want := mgl64.Translate3D(0, 0, 1)
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("local rest mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	h := humanoid(t)
	clone := h.Clone()
	if _, err := clone.AddBone("Extra", rig.NoBone, mgl64.Ident4(), mgl64.Vec3{}); err != nil {
		t.Fatalf("add to clone: %v", err)
	}
	if h.Len() != 4 {
		t.Fatalf("original mutated: %d bones", h.Len())
	}
	if clone.Len() != 5 {
		t.Fatalf("clone has %d bones, want 5", clone.Len())
	}
	if _, ok := h.Lookup("Extra"); ok {
		t.Fatal("original name index leaked into clone")
	}
}

func TestGuardAcceptsSingleRoot(t *testing.T) {
	if err := rig.Guard(humanoid(t), "root"); err != nil {
		t.Fatalf("unexpected guard error: %v", err)
	}
}

func TestGuardRejectsMultipleRoots(t *testing.T) {
	h := humanoid(t)
	if _, err := h.AddBone("Prop", rig.NoBone, mgl64.Ident4(), mgl64.Vec3{}); err != nil {
		t.Fatalf("add Prop: %v", err)
	}
	err := rig.Guard(h, "root")
	if !errors.Is(err, services.ErrAmbiguousHierarchy) {
		t.Fatalf("expected ErrAmbiguousHierarchy, got %v", err)
	}
}

func TestGuardRejectsConvertedRig(t *testing.T) {
	h := rig.NewHierarchy()
	root, err := h.AddBone("root", rig.NoBone, mgl64.Ident4(), mgl64.Vec3{0, -1, 0})
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	if _, err := h.AddBone("Hips", root, mgl64.Translate3D(0, 0, 1), mgl64.Vec3{}); err != nil {
		t.Fatalf("add Hips: %v", err)
	}
	err = rig.Guard(h, "root")
	if !errors.Is(err, services.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	if kind := rig.Classify([]string{"Body", "Hair"}); !kind.IsActor() {
		t.Fatalf("mesh children should classify as actor, got %s", kind)
	}
	if kind := rig.Classify(nil); kind != rig.KindMotion {
		t.Fatalf("mesh-less armature should classify as motion, got %s", kind)
	}
	if rig.KindActor.DirName() != "Actor" || rig.KindMotion.DirName() != "Motions" {
		t.Fatal("unexpected asset directory names")
	}
}
