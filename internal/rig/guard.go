package rig

import (
	"fmt"

	"rigroot/internal/services"
)

// Guard verifies that the hierarchy is eligible for root-motion conversion.
// It requires exactly one root bone, and that root must not already carry the
// configured root bone name, since that indicates a rig converted by an
// earlier run. Guard never mutates the hierarchy.
func Guard(h *Hierarchy, rootBoneName string) error {
	roots := h.Roots()
	switch len(roots) {
	case 0:
		return services.Wrap(services.ErrAmbiguousHierarchy, "guard", "roots",
			"armature has no bones", nil)
	case 1:
	default:
		names := make([]string, len(roots))
		for i, id := range roots {
			names[i] = h.Bone(id).Name
		}
		return services.Wrap(services.ErrAmbiguousHierarchy, "guard", "roots",
			fmt.Sprintf("armature has %d root bones %v, expected exactly one", len(roots), names), nil)
	}
	if h.Bone(roots[0]).Name == rootBoneName {
		return services.Wrap(services.ErrAlreadyProcessed, "guard", "roots",
			fmt.Sprintf("root bone is already named %q", rootBoneName), nil)
	}
	return nil
}
