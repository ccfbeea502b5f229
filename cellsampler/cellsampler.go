// Package cellsampler reads the color and symbol index of every data cell
// in a rectified frame and packs them into the frame's raw (still
// ECC-coded) byte stream.
package cellsampler

import (
	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/strategy"
)

func colorStrategyName(cfg *cimbar.TuningConfig) string {
	if cfg.UseRelativeColor {
		return "relative"
	}
	return "absolute"
}

// SampleFrame reads every data cell of frame (already rectified to exactly
// frame.Width x frame.Width pixels, a supported FrameSize) and returns its
// raw bytes, per cfg's color and symbol strategy selection.
func SampleFrame(frame *imaging.RGBImage, cfg *cimbar.TuningConfig) ([]byte, error) {
	return sampleFrame(frame, cfg, colorStrategyName(cfg))
}

// SampleFrameLAB re-samples frame with the LAB color strategy, used as the
// one-shot failover FramePipeline runs when the primary color path fails
// the plausibility gate.
func SampleFrameLAB(frame *imaging.RGBImage, cfg *cimbar.TuningConfig) ([]byte, error) {
	return sampleFrame(frame, cfg, "lab")
}

func sampleFrame(frame *imaging.RGBImage, cfg *cimbar.TuningConfig, colorName string) ([]byte, error) {
	frameSize := frame.Width
	colorStrat, err := strategy.GetColor(colorName)
	if err != nil {
		return nil, err
	}

	var adapt func(r, g, b uint8) (uint8, uint8, uint8)
	if cfg.EnableWhiteBalance {
		if m, ok := adaptationMatrixFor(frame, frameSize); ok {
			adapt = m
		}
	}

	sampleColor := func(x, y int) int {
		r, g, b := frame.At(x, y)
		if adapt != nil {
			r, g, b = adapt(r, g, b)
		}
		return colorStrat.Classify(r, g, b)
	}

	cols := cimbar.CellsPerSide(frameSize)
	w := &bitWriter{}

	if cfg.UseHashDetection {
		sampleHashFuzzy(frame, cfg, cols, sampleColor, w)
	} else {
		sampleQuadrant(frame, cfg, cols, sampleColor, w)
	}

	return w.bytes(cimbar.RawBytesPerFrame(frameSize)), nil
}

func sampleQuadrant(frame *imaging.RGBImage, cfg *cimbar.TuningConfig, cols int, sampleColor func(x, y int) int, w *bitWriter) {
	strat := quadrantThreshold{opts: strategy.QuadrantThresholdOptions{
		Threshold: cfg.SymbolThreshold,
		Offset:    cfg.QuadrantOffset,
	}}

	frameSize := cols * cimbar.CellSize
	for row := 0; row < cols; row++ {
		for col := 0; col < cols; col++ {
			if cimbar.IsFinderCell(row, col, frameSize) {
				continue
			}
			ox, oy := col*cimbar.CellSize, row*cimbar.CellSize
			symbol, _, _ := strat.DetectSymbol(frame, ox, oy, 0, 0)
			colorIdx := sampleColor(ox+cimbar.CellSize/2, oy+cimbar.CellSize/2)
			w.writeBits(uint8(colorIdx<<4|symbol), 7)
		}
	}
}

type hashCell struct {
	ox, oy         int
	symbol         int
	driftX, driftY int
}

func sampleHashFuzzy(frame *imaging.RGBImage, cfg *cimbar.TuningConfig, cols int, sampleColor func(x, y int) int, w *bitWriter) {
	strat := hashFuzzy{}
	frameSize := cols * cimbar.CellSize

	var cells []hashCell
	driftX, driftY := 0, 0
	for row := 0; row < cols; row++ {
		for col := 0; col < cols; col++ {
			if cimbar.IsFinderCell(row, col, frameSize) {
				continue
			}
			ox, oy := col*cimbar.CellSize, row*cimbar.CellSize
			symbol, newDriftX, newDriftY := strat.DetectSymbol(frame, ox, oy, driftX, driftY)
			driftX, driftY = newDriftX, newDriftY
			cells = append(cells, hashCell{ox: ox, oy: oy, symbol: symbol, driftX: driftX, driftY: driftY})
		}
	}

	for _, c := range cells {
		cx := c.ox + c.driftX + cimbar.CellSize/2
		cy := c.oy + c.driftY + cimbar.CellSize/2
		colorIdx := sampleColor(cx, cy)
		w.writeBits(uint8(colorIdx<<4|c.symbol), 7)
	}
}
