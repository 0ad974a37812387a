package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// BoneID addresses a bone inside a Hierarchy. IDs are stable for the lifetime
// of the hierarchy: bones are never removed, only added and relinked.
type BoneID int

// NoBone marks the absence of a parent link.
const NoBone BoneID = -1

// Bone is one joint of the skeleton. Rest is the armature-space rest
// transform of the bone head; Tail is the rest tail offset relative to the
// head, in armature space.
type Bone struct {
	Name     string
	Parent   BoneID
	Children []BoneID
	Rest     mgl64.Mat4
	Tail     mgl64.Vec3
}

// Hierarchy is an arena of bones with a name index. The zero value is not
// usable; construct with NewHierarchy.
type Hierarchy struct {
	bones []Bone
	names map[string]BoneID
}

// NewHierarchy returns an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{names: make(map[string]BoneID)}
}

// Len reports the number of bones.
func (h *Hierarchy) Len() int {
	return len(h.bones)
}

// AddBone appends a bone and links it under parent (NoBone for a root).
// Names must be unique within the hierarchy.
func (h *Hierarchy) AddBone(name string, parent BoneID, rest mgl64.Mat4, tail mgl64.Vec3) (BoneID, error) {
	if name == "" {
		return NoBone, fmt.Errorf("bone name must not be empty")
	}
	if _, exists := h.names[name]; exists {
		return NoBone, fmt.Errorf("bone %q already exists", name)
	}
	if parent != NoBone && !h.valid(parent) {
		return NoBone, fmt.Errorf("parent bone id %d out of range", parent)
	}
	id := BoneID(len(h.bones))
	h.bones = append(h.bones, Bone{Name: name, Parent: parent, Rest: rest, Tail: tail})
	h.names[name] = id
	if parent != NoBone {
		p := &h.bones[parent]
		p.Children = append(p.Children, id)
	}
	return id, nil
}

// Bone returns the record for id. The pointer stays valid until the next
// AddBone call.
func (h *Hierarchy) Bone(id BoneID) *Bone {
	return &h.bones[id]
}

// Lookup resolves a bone name to its id.
func (h *Hierarchy) Lookup(name string) (BoneID, bool) {
	id, ok := h.names[name]
	return id, ok
}

// Roots returns the ids of all parentless bones in insertion order.
func (h *Hierarchy) Roots() []BoneID {
	var roots []BoneID
	for i := range h.bones {
		if h.bones[i].Parent == NoBone {
			roots = append(roots, BoneID(i))
		}
	}
	return roots
}

// Reparent relinks child under parent, or detaches it when parent is NoBone.
// The move is rejected if it would create a cycle.
func (h *Hierarchy) Reparent(child, parent BoneID) error {
	if !h.valid(child) {
		return fmt.Errorf("child bone id %d out of range", child)
	}
	if parent != NoBone {
		if !h.valid(parent) {
			return fmt.Errorf("parent bone id %d out of range", parent)
		}
		if child == parent {
			return fmt.Errorf("bone %q cannot parent itself", h.bones[child].Name)
		}
		for cur := parent; cur != NoBone; cur = h.bones[cur].Parent {
			if cur == child {
				return fmt.Errorf("reparenting %q under %q would create a cycle",
					h.bones[child].Name, h.bones[parent].Name)
			}
		}
	}
	c := &h.bones[child]
	if c.Parent == parent {
		return nil
	}
	if c.Parent != NoBone {
		old := &h.bones[c.Parent]
		for i, sibling := range old.Children {
			if sibling == child {
				old.Children = append(old.Children[:i], old.Children[i+1:]...)
				break
			}
		}
	}
	c.Parent = parent
	if parent != NoBone {
		p := &h.bones[parent]
		p.Children = append(p.Children, child)
	}
	return nil
}

// LocalRest returns the bone's rest transform relative to its parent. Roots
// return their armature-space rest unchanged.
func (h *Hierarchy) LocalRest(id BoneID) mgl64.Mat4 {
	b := &h.bones[id]
	if b.Parent == NoBone {
		return b.Rest
	}
	return h.bones[b.Parent].Rest.Inv().Mul4(b.Rest)
}

// Clone returns a deep copy of the hierarchy.
func (h *Hierarchy) Clone() *Hierarchy {
	out := &Hierarchy{
		bones: make([]Bone, len(h.bones)),
		names: make(map[string]BoneID, len(h.names)),
	}
	copy(out.bones, h.bones)
	for i := range out.bones {
		if n := len(h.bones[i].Children); n > 0 {
			out.bones[i].Children = append([]BoneID(nil), h.bones[i].Children...)
		}
	}
	for name, id := range h.names {
		out.names[name] = id
	}
	return out
}

func (h *Hierarchy) valid(id BoneID) bool {
	return id >= 0 && int(id) < len(h.bones)
}
