// Package rig models the skeletal hierarchy and implements its structural
// transformations: the pre-mutation guard, the Actor/Motion classification,
// the root-motion bone injection, and the rest-pose rotation fold.
//
// The hierarchy is an arena of bone records addressed by stable indices.
// Parent links are indices rather than pointers, which keeps the tree free of
// aliasing hazards while preserving O(1) parent lookup and cheap child
// enumeration.
package rig
