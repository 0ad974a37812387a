package motion

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Track is a sampled transform channel for one bone. Times are strictly
// increasing; Translations and Rotations run parallel to Times.
type Track struct {
	Times        []float64
	Translations []mgl64.Vec3
	Rotations    []mgl64.Quat
}

// Len reports the number of keys.
func (tr *Track) Len() int {
	return len(tr.Times)
}

// Append adds one key at the end of the track.
func (tr *Track) Append(t float64, translation mgl64.Vec3, rotation mgl64.Quat) {
	tr.Times = append(tr.Times, t)
	tr.Translations = append(tr.Translations, translation)
	tr.Rotations = append(tr.Rotations, rotation)
}

// Sample evaluates the track at time t, linearly interpolating translations
// and spherically interpolating rotations between the surrounding keys.
// Times outside the keyed range clamp to the first or last key.
func (tr *Track) Sample(t float64) (mgl64.Vec3, mgl64.Quat) {
	n := len(tr.Times)
	if n == 0 {
		return mgl64.Vec3{}, mgl64.QuatIdent()
	}
	if t <= tr.Times[0] {
		return tr.Translations[0], tr.Rotations[0]
	}
	if t >= tr.Times[n-1] {
		return tr.Translations[n-1], tr.Rotations[n-1]
	}
	// Index of the first key strictly after t. The clamps above guarantee
	// 1 <= hi <= n-1.
	hi := sort.SearchFloat64s(tr.Times, t)
	if tr.Times[hi] == t {
		return tr.Translations[hi], tr.Rotations[hi]
	}
	lo := hi - 1
	span := tr.Times[hi] - tr.Times[lo]
	f := (t - tr.Times[lo]) / span
	translation := tr.Translations[lo].Add(tr.Translations[hi].Sub(tr.Translations[lo]).Mul(f))
	rotation := mgl64.QuatSlerp(tr.Rotations[lo], tr.Rotations[hi], f)
	return translation, rotation.Normalize()
}

// Clip is a set of bone tracks keyed by bone name.
type Clip struct {
	Tracks map[string]*Track
}

// NewClip returns an empty clip.
func NewClip() *Clip {
	return &Clip{Tracks: make(map[string]*Track)}
}

// Track returns the channel for bone, creating it on first use.
func (c *Clip) Track(bone string) *Track {
	tr, ok := c.Tracks[bone]
	if !ok {
		tr = &Track{}
		c.Tracks[bone] = tr
	}
	return tr
}
