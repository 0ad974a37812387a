package rig

import "github.com/go-gl/mathgl/mgl64"

// FoldRotationIntoRest premultiplies every bone's armature-space rest
// transform by rot, and rotates the tail offsets to match. Afterwards the
// hierarchy's rest pose looks the way the armature did with the object
// rotation applied, so the host can reset the object rotation to identity
// without changing the world-space skeleton.
//
// Parent-relative rest transforms of non-root bones are unaffected: the
// rotation cancels out of parentRest⁻¹ · boneRest. Only root bones change
// their local rest.
func (h *Hierarchy) FoldRotationIntoRest(rot mgl64.Mat4) {
	rot3 := rot.Mat3()
	for i := range h.bones {
		b := &h.bones[i]
		b.Rest = rot.Mul4(b.Rest)
		b.Tail = rot3.Mul3x1(b.Tail)
	}
}
