// Package render draws the corner-dot symbol patterns shared by the
// SymbolHash reference table and any test harness that needs to synthesize
// a cell for round-trip verification.
package render

import "github.com/cocosip/cimbar-decode/cimbar"

// DotGeometry returns the corner inset q and dot half-size h, in pixels,
// for a CellSize-pixel cell, per the wire-format formula
// q = max(1, floor(CELL_SIZE*0.28)), h = max(1, floor(q*0.75)).
func DotGeometry() (q, h int) {
	cellSize := float64(cimbar.CellSize)
	q = int(cellSize * 0.28)
	if q < 1 {
		q = 1
	}
	h = int(float64(q) * 0.75)
	if h < 1 {
		h = 1
	}
	return q, h
}

// CornerCenters returns the TL, TR, BL, BR corner-dot centers, in
// cell-local pixel coordinates, for dot inset q.
func CornerCenters(q int) (tl, tr, bl, br [2]int) {
	far := cimbar.CellSize - q
	tl = [2]int{q, q}
	tr = [2]int{far, q}
	bl = [2]int{q, far}
	br = [2]int{far, far}
	return
}

// DrawSymbol paints symbol's corner dots onto an 8x8 cell via set(x,y),
// called once per pixel of each dot square that should be black. The 4-bit
// mask is ordered (tl<<3 | tr<<2 | bl<<1 | br); a 0 bit means "dot present."
// The cell center is never touched, so it reliably carries the tile color.
func DrawSymbol(symbol int, set func(x, y int)) {
	q, h := DotGeometry()
	tl, tr, bl, br := CornerCenters(q)
	corners := [4][2]int{tl, tr, bl, br}

	for i, c := range corners {
		bit := uint(3 - i)
		if (symbol>>bit)&1 == 1 {
			continue
		}
		for dy := -h; dy < h; dy++ {
			for dx := -h; dx < h; dx++ {
				x, y := c[0]+dx, c[1]+dy
				if x < 0 || x >= cimbar.CellSize || y < 0 || y >= cimbar.CellSize {
					continue
				}
				set(x, y)
			}
		}
	}
}
