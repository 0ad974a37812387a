// Package scene defines the port through which the conversion pipeline talks
// to a scene host, plus an in-memory host backed by JSON snapshot files.
//
// The pipeline never touches interchange files directly: an external
// converter turns them into snapshots and back, and the in-memory host gives
// the pipeline a fully evaluatable scene graph in between.
package scene
