package cellsampler

import (
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/strategy"
	"github.com/cocosip/cimbar-decode/symbolhash"
)

// hashFuzzy implements strategy.SymbolStrategy with the two-pass perceptual-
// hash classifier: pass 1 (this type) finds the best-matching symbol and
// updated drift; SampleFrame's pass 2 samples color at the drift-corrected
// cell center once every cell's symbol is known.
type hashFuzzy struct {
	opts strategy.HashFuzzyOptions
}

func (h hashFuzzy) Name() string { return "hash-fuzzy" }

func (h hashFuzzy) DetectSymbol(frame *imaging.RGBImage, ox, oy, driftX, driftY int) (symbol, newDriftX, newDriftY int) {
	symbol, newDriftX, newDriftY, _ = symbolhash.DetectSymbolFuzzy(frame, ox, oy, driftX, driftY)
	return symbol, newDriftX, newDriftY
}

func init() {
	strategy.RegisterSymbol(hashFuzzy{})
}
