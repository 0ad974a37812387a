// Package pipeline orchestrates a conversion run: import, hierarchy guard,
// asset classification, root bone injection, motion baking, and export.
//
// A run is consumed as a pull-based event stream. Progress events carry a
// machine-readable tag and a display message; recoverable problems surface
// as warning events, and only errors that abort the run come back through
// Err. A file lock serializes runs so two invocations never race on the
// journal or the output tree.
package pipeline
