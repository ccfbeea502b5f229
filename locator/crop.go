package locator

import (
	"image"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/perspective"
)

const cropMargin = 0.02

// cropFromAnchors pads a bounding box around the classified finder anchors
// by 1.5 cell widths, squares it, adds a 2% margin, and clamps to the
// source image. cellSize is estimated as avgWidth/3 (a finder pattern spans
// roughly 3 cells); ok is false if cellSize comes out below 1 pixel.
func cropFromAnchors(src *imaging.RGBImage, tl, tr, bl, br *perspective.Point, avgWidth float64) (*LocateResult, bool) {
	cellSize := avgWidth / 3
	if cellSize < 1 {
		return nil, false
	}
	pad := 1.5 * cellSize

	anchors := make([]perspective.Point, 0, 4)
	for _, p := range []*perspective.Point{tl, tr, bl, br} {
		if p != nil {
			anchors = append(anchors, *p)
		}
	}
	if len(anchors) < 2 {
		return nil, false
	}

	minX, minY := anchors[0].X, anchors[0].Y
	maxX, maxY := anchors[0].X, anchors[0].Y
	for _, a := range anchors[1:] {
		minX = minF(minX, a.X)
		minY = minF(minY, a.Y)
		maxX = maxF(maxX, a.X)
		maxY = maxF(maxY, a.Y)
	}
	minX -= pad
	minY -= pad
	maxX += pad
	maxY += pad

	rect := squareWithMargin(minX, minY, maxX, maxY, cropMargin, src.Width, src.Height)
	return &LocateResult{
		Cropped: src.Crop(rect),
		Rect:    rect,
		TL:      tl, TR: tr, BL: bl, BR: br,
	}, true
}

// cropFromLumaThreshold falls back to the bounding box of every downscaled
// pixel whose luma exceeds 30, scaled back to full resolution.
func cropFromLumaThreshold(src *imaging.RGBImage, small []uint8, smallW, smallH, downscale int) (*LocateResult, error) {
	const threshold = 30

	minX, minY := smallW, smallH
	maxX, maxY := -1, -1
	for y := 0; y < smallH; y++ {
		for x := 0; x < smallW; x++ {
			if small[y*smallW+x] > threshold {
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < minX || maxY < minY {
		return nil, cimbar.ErrNoBarcode
	}

	fx0 := float64(minX * downscale)
	fy0 := float64(minY * downscale)
	fx1 := float64((maxX + 1) * downscale)
	fy1 := float64((maxY + 1) * downscale)

	rect := squareWithMargin(fx0, fy0, fx1, fy1, cropMargin, src.Width, src.Height)
	return &LocateResult{Cropped: src.Crop(rect), Rect: rect}, nil
}

// squareWithMargin expands a bounding box into a square centered on its
// midpoint, adds a proportional margin, and clamps to [0,w)x[0,h).
func squareWithMargin(minX, minY, maxX, maxY, margin float64, w, h int) image.Rectangle {
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	side := maxF(maxX-minX, maxY-minY)
	side *= 1 + 2*margin

	half := side / 2
	x0 := int(cx - half)
	y0 := int(cy - half)
	x1 := int(cx + half)
	y1 := int(cy + half)

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > w {
		x1 = w
	}
	if y1 > h {
		y1 = h
	}
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return image.Rect(x0, y0, x1, y1)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
