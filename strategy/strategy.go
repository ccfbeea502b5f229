// Package strategy holds the variant sets CellSampler dispatches over: color
// classification (Absolute, Relative, LAB) and symbol classification
// (QuadrantThreshold, HashFuzzy). Both are small capability interfaces
// registered by name, the same registry shape this codebase uses for its
// other pluggable pieces.
package strategy

import "github.com/cocosip/cimbar-decode/imaging"

// ColorStrategy maps a sampled cell color to one of the 8 palette indices.
type ColorStrategy interface {
	// Classify returns the palette index nearest to the given RGB sample.
	Classify(r, g, b uint8) int

	// Name returns a short, registry-unique identifier.
	Name() string
}

// SymbolStrategy maps one cell of a rectified frame to one of the 16
// corner-dot symbol indices. The cell under examination is at (ox, oy) in
// frame's pixel space; driftX/driftY carry the accumulated whole-pixel drift
// from prior cells, and the returned newDriftX/newDriftY become the input
// to the next cell. Stateless strategies (quadrant threshold) return the
// drift unchanged.
type SymbolStrategy interface {
	DetectSymbol(frame *imaging.RGBImage, ox, oy, driftX, driftY int) (symbol, newDriftX, newDriftY int)

	// Name returns a short, registry-unique identifier.
	Name() string
}

// Options is implemented by strategy-specific tuning parameters.
type Options interface {
	// Validate checks whether the options are internally consistent.
	Validate() error
}
