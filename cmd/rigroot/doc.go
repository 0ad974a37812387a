// Command rigroot converts rigged character assets into root-motion rigs:
// it injects a root bone above the hips, re-expresses the animation against
// it, and exports the result through an external interchange converter.
package main
