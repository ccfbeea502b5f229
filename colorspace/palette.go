package colorspace

import "github.com/cocosip/cimbar-decode/cimbar"

// AbsoluteTriple is the identity transform: the Triple is just (R,G,B).
// It shares the Triple type with the other two strategies, but is compared
// with WeightedDistance2 rather than Distance2 - see ClassifyColor.
func AbsoluteTriple(r, g, b uint8) Triple {
	return Triple{X: float64(r), Y: float64(g), Z: float64(b)}
}

// paletteAbsolute, paletteRelative and paletteLab are the 8 cimbar.Palette
// entries pre-projected into each strategy's comparison space, computed once
// at package init rather than on every cell sample.
var (
	paletteAbsolute [8]Triple
	paletteRelative [8]Triple
	paletteLab      [8]Triple
)

func init() {
	for i, c := range cimbar.Palette {
		paletteAbsolute[i] = AbsoluteTriple(c.R, c.G, c.B)
		paletteRelative[i] = RelativeTriple(c.R, c.G, c.B)
		paletteLab[i] = LabTriple(c.R, c.G, c.B)
	}
}

// Strategy names a color-classification approach over the palette.
type Strategy int

const (
	StrategyAbsolute Strategy = iota
	StrategyRelative
	StrategyLab
)

// ClassifyColor maps a sampled cell color to the closest of the 8 palette
// entries under the given strategy, returning its index.
func ClassifyColor(r, g, b uint8, strategy Strategy) int {
	var sample Triple
	var table *[8]Triple

	switch strategy {
	case StrategyRelative:
		sample = RelativeTriple(r, g, b)
		table = &paletteRelative
	case StrategyLab:
		sample = LabTriple(r, g, b)
		table = &paletteLab
	default:
		sample = AbsoluteTriple(r, g, b)
		table = &paletteAbsolute
	}

	distance := Distance2
	if strategy != StrategyRelative && strategy != StrategyLab {
		distance = WeightedDistance2
	}

	best := 0
	bestDist := distance(sample, table[0])
	for i := 1; i < 8; i++ {
		d := distance(sample, table[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
