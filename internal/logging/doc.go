// Package logging centralizes slog construction for the converter.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Helper constructors attach the
// standardized component/run/stage fields so every package logs the same
// vocabulary.
package logging
