package rig

// AssetKind distinguishes the two conversion branches. A skinned character
// carries its meshes as direct children of the armature; a pure animation
// asset has none.
type AssetKind string

const (
	// KindActor is a skinned character asset.
	KindActor AssetKind = "actor"
	// KindMotion is a mesh-less animation asset.
	KindMotion AssetKind = "motion"
)

// Classify derives the asset kind from the armature's direct mesh children.
func Classify(meshChildren []string) AssetKind {
	if len(meshChildren) > 0 {
		return KindActor
	}
	return KindMotion
}

// IsActor reports whether the kind is KindActor.
func (k AssetKind) IsActor() bool {
	return k == KindActor
}

// DirName returns the output subdirectory conventionally used for the kind.
func (k AssetKind) DirName() string {
	if k.IsActor() {
		return "Actor"
	}
	return "Motions"
}

func (k AssetKind) String() string {
	return string(k)
}
