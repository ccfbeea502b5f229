package locator

import (
	"math"

	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/perspective"
)

const brightnessGapThreshold = 20
const patchRadius = 2 // 5x5 patch

// classify maps deduplicated downscaled-coordinate candidates to finder
// roles in full-resolution source coordinates. ok reports whether at least
// TL and BR were determined. avgWidth is the mean finder width in
// full-resolution pixels of the TL and BR candidates, used
// downstream to size the anchor-based crop's padding.
func classify(src *imaging.RGBImage, cands []candidate, downscale int) (tl, tr, bl, br *perspective.Point, avgWidth float64, ok bool) {
	if len(cands) < 2 {
		return nil, nil, nil, nil, 0, false
	}

	pts := make([]perspective.Point, len(cands))
	widths := make([]float64, len(cands))
	for i, c := range cands {
		pts[i] = perspective.Point{X: c.x * float64(downscale), Y: c.y * float64(downscale)}
		widths[i] = math.Max(c.hSize, c.vSize) * float64(downscale)
	}

	brightness := make([]float64, len(pts))
	for i, p := range pts {
		brightness[i] = patchMeanLuma(src, int(p.X+0.5), int(p.Y+0.5))
	}

	order := argsortAsc(brightness)

	if len(order) >= 3 && brightness[order[1]]-brightness[order[0]] >= brightnessGapThreshold {
		tlIdx := order[0]
		brIdx := farthestFrom(pts, tlIdx)
		tl, tr, bl, br, ok = buildResult(pts, tlIdx, brIdx)
		return tl, tr, bl, br, meanWidth(widths, tlIdx, brIdx), ok
	}

	// Coordinate-extremes fallback: TL minimizes x+y, BR maximizes x+y. Also
	// covers the len(cands)==2 case, where the brightness gap between the
	// only two candidates is whatever it is and extremes alone must decide.

	tlIdx, brIdx := 0, 0
	minSum, maxSum := math.Inf(1), math.Inf(-1)
	for i, p := range pts {
		s := p.X + p.Y
		if s < minSum {
			minSum, tlIdx = s, i
		}
		if s > maxSum {
			maxSum, brIdx = s, i
		}
	}
	if tlIdx == brIdx {
		return nil, nil, nil, nil, 0, false
	}
	tl, tr, bl, br, ok = buildResult(pts, tlIdx, brIdx)
	return tl, tr, bl, br, meanWidth(widths, tlIdx, brIdx), ok
}

func meanWidth(widths []float64, tlIdx, brIdx int) float64 {
	return (widths[tlIdx] + widths[brIdx]) / 2
}

func buildResult(pts []perspective.Point, tlIdx, brIdx int) (tl, tr, bl, br *perspective.Point, ok bool) {
	tlPt, brPt := pts[tlIdx], pts[brIdx]
	tl, br = &tlPt, &brPt

	d := perspective.Point{X: brPt.X - tlPt.X, Y: brPt.Y - tlPt.Y}
	for i, p := range pts {
		if i == tlIdx || i == brIdx {
			continue
		}
		cross := d.X*(p.Y-tlPt.Y) - d.Y*(p.X-tlPt.X)
		pp := p
		if cross < 0 {
			tr = &pp
		} else {
			bl = &pp
		}
	}
	return tl, tr, bl, br, true
}

func argsortAsc(v []float64) []int {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && v[idx[j]] < v[idx[j-1]]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	return idx
}

func farthestFrom(pts []perspective.Point, from int) int {
	best, bestDist := from, -1.0
	for i, p := range pts {
		if i == from {
			continue
		}
		d := math.Hypot(p.X-pts[from].X, p.Y-pts[from].Y)
		if d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func patchMeanLuma(src *imaging.RGBImage, cx, cy int) float64 {
	var sum int
	n := 0
	for dy := -patchRadius; dy <= patchRadius; dy++ {
		for dx := -patchRadius; dx <= patchRadius; dx++ {
			sum += src.Luma(cx+dx, cy+dy)
			n++
		}
	}
	return float64(sum) / float64(n)
}
