package rig_test

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/rig"
	"rigroot/internal/services"
)

// editor applies edits directly with clone-and-commit semantics, mirroring
// what the scene host does.
type editor struct {
	hierarchy *rig.Hierarchy
}

func (e *editor) StructuralEdit(fn func(*rig.Hierarchy) error) error {
	work := e.hierarchy.Clone()
	if err := fn(work); err != nil {
		return err
	}
	e.hierarchy = work
	return nil
}

func TestInjectRootBone(t *testing.T) {
	ed := &editor{hierarchy: humanoid(t)}
	if err := rig.InjectRootBone(ed, "Hips", "root", 1.0); err != nil {
		t.Fatalf("InjectRootBone: %v", err)
	}
	h := ed.hierarchy

	roots := h.Roots()
	if len(roots) != 1 {
		t.Fatalf("expected a single root after injection, got %d", len(roots))
	}
	root := h.Bone(roots[0])
	if root.Name != "root" {
		t.Fatalf("unexpected root bone name %q", root.Name)
	}
	if !root.Rest.ApproxEqualThreshold(mgl64.Ident4(), 1e-12) {
		t.Fatal("root bone rest should be the armature origin")
	}
	wantTail := mgl64.Vec3{0, -1, 0}
	if root.Tail.Sub(wantTail).Len() > 1e-12 {
		t.Fatalf("unexpected root tail %v, want %v", root.Tail, wantTail)
	}

	hips, ok := h.Lookup("Hips")
	if !ok {
		t.Fatal("Hips disappeared")
	}
	if h.Bone(hips).Parent != roots[0] {
		t.Fatal("Hips should be parented under the new root")
	}
	for _, name := range []string{"Spine", "LeftLeg", "RightLeg"} {
		id, ok := h.Lookup(name)
		if !ok {
			t.Fatalf("%s disappeared", name)
		}
		if h.Bone(id).Parent != hips {
			t.Fatalf("%s should still be parented under Hips", name)
		}
	}
}

func TestInjectRootBoneCompensatesObjectScale(t *testing.T) {
	ed := &editor{hierarchy: humanoid(t)}
	if err := rig.InjectRootBone(ed, "Hips", "root", 0.01); err != nil {
		t.Fatalf("InjectRootBone: %v", err)
	}
	roots := ed.hierarchy.Roots()
	tail := ed.hierarchy.Bone(roots[0]).Tail
	if math.Abs(tail.Y()+100) > 1e-9 || tail.X() != 0 || tail.Z() != 0 {
		t.Fatalf("unexpected scaled tail %v", tail)
	}
}

func TestInjectRootBoneUnknownHipLeavesRigUntouched(t *testing.T) {
	ed := &editor{hierarchy: humanoid(t)}
	err := rig.InjectRootBone(ed, "Pelvis", "root", 1.0)
	if !errors.Is(err, services.ErrUnknownBone) {
		t.Fatalf("expected ErrUnknownBone, got %v", err)
	}
	if ed.hierarchy.Len() != 4 {
		t.Fatalf("failed injection must not add bones, have %d", ed.hierarchy.Len())
	}
	if _, ok := ed.hierarchy.Lookup("root"); ok {
		t.Fatal("failed injection left a stray root bone")
	}
}

func TestFoldRotationIntoRestPreservesLocals(t *testing.T) {
	h := humanoid(t)
	spine, _ := h.Lookup("Spine")
	before := h.LocalRest(spine)

	rot := mgl64.HomogRotate3DX(math.Pi / 2)
	h.FoldRotationIntoRest(rot)

	after := h.LocalRest(spine)
	if !after.ApproxEqualThreshold(before, 1e-9) {
		t.Fatalf("child local rest changed by fold:\n got %v\nwant %v", after, before)
	}

	hips, _ := h.Lookup("Hips")
	got := h.Bone(hips).Rest
	want := rot.Mul4(mgl64.Translate3D(0, 0, 1))
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("root rest not rotated:\n got %v\nwant %v", got, want)
	}
}
