package cellsampler

import (
	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/strategy"
)

// quadrantThreshold implements strategy.SymbolStrategy by sampling luma at
// the cell center and its four corner points and thresholding each against
// either a multiplicative (camera) or additive (source-side) formula.
type quadrantThreshold struct {
	opts strategy.QuadrantThresholdOptions
}

func (q quadrantThreshold) Name() string { return "quadrant-threshold" }

func (q quadrantThreshold) DetectSymbol(frame *imaging.RGBImage, ox, oy, driftX, driftY int) (symbol, newDriftX, newDriftY int) {
	qOff := int(q.opts.Offset * cimbar.CellSize)
	if qOff < 1 {
		qOff = 1
	}

	centerLuma := frame.Luma(ox+cimbar.CellSize/2, oy+cimbar.CellSize/2)
	tl := frame.Luma(ox+qOff, oy+qOff)
	tr := frame.Luma(ox+cimbar.CellSize-qOff, oy+qOff)
	bl := frame.Luma(ox+qOff, oy+cimbar.CellSize-qOff)
	br := frame.Luma(ox+cimbar.CellSize-qOff, oy+cimbar.CellSize-qOff)

	var threshold float64
	if q.opts.Threshold != nil {
		threshold = *q.opts.Threshold * float64(centerLuma)
	} else {
		threshold = 0.5*float64(centerLuma) + 20
	}

	bit := func(l int) int {
		if float64(l) > threshold {
			return 1
		}
		return 0
	}

	symbol = bit(tl)<<3 | bit(tr)<<2 | bit(bl)<<1 | bit(br)
	return symbol, driftX, driftY
}

func init() {
	strategy.RegisterSymbol(quadrantThreshold{opts: strategy.QuadrantThresholdOptions{Offset: cimbar.QuadrantOffsetDefault}})
}
