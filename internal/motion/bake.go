package motion

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"rigroot/internal/services"
)

// Source supplies everything the baker needs to read from the scene host.
type Source interface {
	// TimeRange returns the animated interval in seconds.
	TimeRange() (start, end float64)
	// SourceFrameRate returns the native sampling rate of the animation.
	SourceFrameRate() float64
	// BoneWorldAt evaluates the world transform of a bone at time t.
	BoneWorldAt(bone string, t float64) (mgl64.Mat4, error)
	// BoundsBaseAt returns the center of the bounding-box base of the
	// animated character at time t, in world space.
	BoundsBaseAt(t float64) (mgl64.Vec3, error)
}

// Options controls the root-motion bake.
type Options struct {
	HipBone         string
	SampleRate      float64
	SmoothCutoffHz  float64
	GroundTolerance float64
}

// FrameSample captures one decomposed frame for diagnostics output.
type FrameSample struct {
	Time            float64
	RootTranslation mgl64.Vec3
	YawRadians      float64
	HipTranslation  mgl64.Vec3
	HipRotation     mgl64.Quat
}

// Result is the output of a bake: a planar root track, the residual hip
// track expressed relative to the root, and the per-frame samples.
type Result struct {
	Root   Track
	Hip    Track
	Frames []FrameSample
}

// Bake resamples the animation uniformly and splits the hip trajectory into
// a root track and a residual hip track.
//
// Per frame, the root takes the hip's horizontal position, the ground height
// under the character, and the hip's heading around the up axis. Ground
// heights within the tolerance of zero snap to zero so idle animations do
// not float. The hip keeps whatever the root did not take, computed as the
// hip world transform re-expressed in the root's frame, so composing the two
// tracks reproduces the original hip trajectory exactly.
func Bake(src Source, opts Options) (*Result, error) {
	if opts.HipBone == "" {
		return nil, services.Wrap(services.ErrValidation, "bake", "options", "hip bone name is empty", nil)
	}
	rate := opts.SampleRate
	if rate <= 0 {
		rate = src.SourceFrameRate()
	}
	if rate <= 0 {
		return nil, services.Wrap(services.ErrValidation, "bake", "options", "no usable sample rate", nil)
	}
	start, end := src.TimeRange()
	if end < start {
		return nil, services.Wrap(services.ErrValidation, "bake", "time_range",
			fmt.Sprintf("animation ends (%g) before it starts (%g)", end, start), nil)
	}
	frames := int(math.Floor((end-start)*rate+0.5)) + 1

	times := make([]float64, frames)
	hipWorld := make([]mgl64.Mat4, frames)
	rootX := make([]float64, frames)
	rootY := make([]float64, frames)
	rootZ := make([]float64, frames)
	yaw := make([]float64, frames)

	for i := 0; i < frames; i++ {
		t := start + float64(i)/rate
		times[i] = t

		world, err := src.BoneWorldAt(opts.HipBone, t)
		if err != nil {
			return nil, services.Wrap(services.ErrUnknownBone, "bake", "hip_world",
				fmt.Sprintf("evaluate %q at t=%g", opts.HipBone, t), err)
		}
		hipWorld[i] = world

		base, err := src.BoundsBaseAt(t)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "bake", "bounds",
				fmt.Sprintf("evaluate bounds at t=%g", t), err)
		}
		ground := base.Z()
		if math.Abs(ground) < opts.GroundTolerance {
			ground = 0
		}

		translation := world.Col(3).Vec3()
		rootX[i] = translation.X()
		rootY[i] = translation.Y()
		rootZ[i] = ground
		yaw[i] = YawFromQuat(rotationOf(world))
	}

	if opts.SmoothCutoffHz > 0 {
		rootX = Lowpass(rootX, opts.SmoothCutoffHz, rate)
		rootY = Lowpass(rootY, opts.SmoothCutoffHz, rate)
		rootZ = Lowpass(rootZ, opts.SmoothCutoffHz, rate)
	}

	result := &Result{Frames: make([]FrameSample, 0, frames)}
	for i := 0; i < frames; i++ {
		rootTranslation := mgl64.Vec3{rootX[i], rootY[i], rootZ[i]}
		rootRotation := YawQuat(yaw[i])
		rootWorld := mgl64.Translate3D(rootTranslation.X(), rootTranslation.Y(), rootTranslation.Z()).
			Mul4(rootRotation.Mat4())

		hipLocal := rootWorld.Inv().Mul4(hipWorld[i])
		hipTranslation := hipLocal.Col(3).Vec3()
		hipRotation := rotationOf(hipLocal)

		result.Root.Append(times[i], rootTranslation, rootRotation)
		result.Hip.Append(times[i], hipTranslation, hipRotation)
		result.Frames = append(result.Frames, FrameSample{
			Time:            times[i],
			RootTranslation: rootTranslation,
			YawRadians:      yaw[i],
			HipTranslation:  hipTranslation,
			HipRotation:     hipRotation,
		})
	}
	return result, nil
}

// rotationOf reads the rotation of a world transform whose basis may carry a
// uniform object scale, such as the 0.01 armature scale common on imported
// rigs. The quaternion conversion expects a pure rotation, so the scale is
// divided out of the basis first.
func rotationOf(world mgl64.Mat4) mgl64.Quat {
	scale := world.Col(0).Vec3().Len()
	if scale == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.Mat4ToQuat(world.Mul(1 / scale)).Normalize()
}
