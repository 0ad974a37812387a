package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/services"
)

// StructuralEditor applies a structural mutation to a hierarchy with
// all-or-nothing semantics: when fn returns an error the hierarchy is left
// exactly as it was.
type StructuralEditor interface {
	StructuralEdit(fn func(*Hierarchy) error) error
}

// InjectRootBone creates the root-motion bone at the armature origin and
// reparents the hip bone under it. The new bone's tail points along -Y with
// a length of one world unit, so it compensates the armature object scale.
//
// The hip bone is resolved before anything is created, which keeps a failed
// injection from leaving a stray bone behind.
func InjectRootBone(ed StructuralEditor, hipBoneName, rootBoneName string, objectScale float64) error {
	return ed.StructuralEdit(func(h *Hierarchy) error {
		hip, ok := h.Lookup(hipBoneName)
		if !ok {
			return services.Wrap(services.ErrUnknownBone, "synthesize", "lookup",
				fmt.Sprintf("hip bone %q not found in armature", hipBoneName), nil)
		}
		tailLength := 1.0
		if objectScale > 0 {
			tailLength = 1.0 / objectScale
		}
		root, err := h.AddBone(rootBoneName, NoBone, mgl64.Ident4(), mgl64.Vec3{0, -tailLength, 0})
		if err != nil {
			return services.Wrap(services.ErrValidation, "synthesize", "add_bone",
				fmt.Sprintf("create root bone %q", rootBoneName), err)
		}
		if err := h.Reparent(hip, root); err != nil {
			return services.Wrap(services.ErrValidation, "synthesize", "reparent",
				fmt.Sprintf("reparent %q under %q", hipBoneName, rootBoneName), err)
		}
		return nil
	})
}
