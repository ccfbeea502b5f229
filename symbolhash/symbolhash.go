// Package symbolhash implements the 16-entry reference average-hash table
// used to recognize a cell's 4-bit corner-dot symbol from a noisy,
// perspective-warped camera capture. Like the GF256 tables it stands next
// to in the pipeline, the table is computed once at init and is read-only
// thereafter.
package symbolhash

import (
	"math/bits"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/render"
)

const baseLuma = 180
const numSymbols = 16

// references holds the 64-bit average hash of each of the 16 symbols,
// rendered onto a mid-brightness cell.
var references [numSymbols]uint64

const minPairwiseHammingDistance = 4

func init() {
	for s := 0; s < numSymbols; s++ {
		references[s] = hashCell(renderReferenceCell(s))
	}
	for i := 0; i < numSymbols; i++ {
		for j := i + 1; j < numSymbols; j++ {
			if d := bits.OnesCount64(references[i] ^ references[j]); d < minPairwiseHammingDistance {
				panic("symbolhash: reference table has pairwise Hamming distance below minimum")
			}
		}
	}
}

// renderReferenceCell paints symbol's corner dots over a mid-brightness
// background, returning an 8x8 luma grid.
func renderReferenceCell(symbol int) [cimbar.CellSize][cimbar.CellSize]uint8 {
	var cell [cimbar.CellSize][cimbar.CellSize]uint8
	for y := range cell {
		for x := range cell[y] {
			cell[y][x] = baseLuma
		}
	}
	render.DrawSymbol(symbol, func(x, y int) { cell[y][x] = 0 })
	return cell
}

// hashCell computes the 64-bit average hash of an 8x8 luma grid: bit k (row-
// major, MSB first) is 1 where pixel k exceeds the cell's mean luma.
func hashCell(cell [cimbar.CellSize][cimbar.CellSize]uint8) uint64 {
	var sum int
	for y := range cell {
		for x := range cell[y] {
			sum += int(cell[y][x])
		}
	}
	mean := sum / (cimbar.CellSize * cimbar.CellSize)

	var h uint64
	bit := uint(63)
	for y := range cell {
		for x := range cell[y] {
			if int(cell[y][x]) > mean {
				h |= 1 << bit
			}
			bit--
		}
	}
	return h
}

// lumaPatch is anything that can report luma at an absolute pixel
// coordinate; *imaging.RGBImage satisfies it.
type lumaPatch interface {
	Luma(x, y int) int
}

// hashPatch hashes the 8x8 luma patch of img with its top-left corner at
// (ox, oy).
func hashPatch(img lumaPatch, ox, oy int) uint64 {
	var cell [cimbar.CellSize][cimbar.CellSize]uint8
	var sum int
	for y := 0; y < cimbar.CellSize; y++ {
		for x := 0; x < cimbar.CellSize; x++ {
			l := img.Luma(ox+x, oy+y)
			cell[y][x] = uint8(l)
			sum += l
		}
	}
	mean := sum / (cimbar.CellSize * cimbar.CellSize)

	var h uint64
	bit := uint(63)
	for y := range cell {
		for x := range cell[y] {
			if int(cell[y][x]) > mean {
				h |= 1 << bit
			}
			bit--
		}
	}
	return h
}

// DetectSymbol extracts the 8x8 luma patch at (ox, oy) and returns the
// reference symbol with the smallest Hamming distance.
func DetectSymbol(img lumaPatch, ox, oy int) int {
	h := hashPatch(img, ox, oy)
	best, bestDist := 0, 65
	for s, ref := range references {
		if d := bits.OnesCount64(h ^ ref); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// driftOffsets is the nine-position search order: center first, then the
// four axis neighbors, then the four diagonals.
var driftOffsets = [9][2]int{
	{0, 0},
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

const maxDrift = 7

// boundedLumaPatch is the subset of lumaPatch implementations (namely
// *imaging.RGBImage) that can also report their pixel dimensions, letting
// DetectSymbolFuzzy skip a drift position rather than sample it via edge
// clamping. Implementations that don't satisfy it (such as test doubles)
// are treated as unbounded.
type boundedLumaPatch interface {
	Size() (width, height int)
}

// fullyInBounds reports whether the 8x8 patch at (x, y) lies entirely
// within img's bounds, for implementations that expose Size(). img types
// without bounds information are always considered in-bounds.
func fullyInBounds(img lumaPatch, x, y int) bool {
	b, ok := img.(boundedLumaPatch)
	if !ok {
		return true
	}
	w, h := b.Size()
	return x >= 0 && y >= 0 && x+cimbar.CellSize <= w && y+cimbar.CellSize <= h
}

// DetectSymbolFuzzy searches the eight neighbors of (ox+driftX, oy+driftY)
// plus the center itself for the best hash match, and returns the symbol,
// the updated accumulated drift (clamped to [-maxDrift, maxDrift] per axis),
// and the winning Hamming distance. Positions that would sample outside the
// image are skipped rather than edge-clamped. It returns immediately on a
// perfect (distance 0) match.
func DetectSymbolFuzzy(img lumaPatch, ox, oy, driftX, driftY int) (symbol, newDriftX, newDriftY, distance int) {
	baseX, baseY := ox+driftX, oy+driftY

	bestSymbol, bestDx, bestDy, bestDist := 0, 0, 0, 65
	for _, off := range driftOffsets {
		px, py := baseX+off[0], baseY+off[1]
		if !fullyInBounds(img, px, py) {
			continue
		}
		h := hashPatch(img, px, py)
		for s, ref := range references {
			d := bits.OnesCount64(h ^ ref)
			if d < bestDist {
				bestSymbol, bestDx, bestDy, bestDist = s, off[0], off[1], d
			}
			if d == 0 {
				return s, clampDrift(driftX + off[0]), clampDrift(driftY + off[1]), 0
			}
		}
	}
	return bestSymbol, clampDrift(driftX + bestDx), clampDrift(driftY + bestDy), bestDist
}

func clampDrift(v int) int {
	if v < -maxDrift {
		return -maxDrift
	}
	if v > maxDrift {
		return maxDrift
	}
	return v
}
