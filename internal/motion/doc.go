// Package motion implements the animation side of the conversion: uniform
// resampling of the source animation, decomposition of the hip trajectory
// into a planar root track plus a residual hip track, yaw extraction, and
// optional zero-phase smoothing of the root translation curves.
//
// All math uses the scene convention of the interchange layer: Z up,
// Y forward, right-handed.
package motion
