package strategy

import "github.com/cocosip/cimbar-decode/colorspace"

type colorStrategyFunc struct {
	name string
	kind colorspace.Strategy
}

func (c colorStrategyFunc) Name() string { return c.name }

func (c colorStrategyFunc) Classify(r, g, b uint8) int {
	return colorspace.ClassifyColor(r, g, b, c.kind)
}

func init() {
	RegisterColor(colorStrategyFunc{name: "absolute", kind: colorspace.StrategyAbsolute})
	RegisterColor(colorStrategyFunc{name: "relative", kind: colorspace.StrategyRelative})
	RegisterColor(colorStrategyFunc{name: "lab", kind: colorspace.StrategyLab})
}
