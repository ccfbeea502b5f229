package locator

import "math"

// candidate is a finder-pattern candidate in downscaled-image coordinates.
type candidate struct {
	x, y     float64
	hSize    float64
	vSize    float64
	contrast float64
	hits     int
}

type run struct {
	start, length int
	bright        bool
	meanLuma      float64
}

// runLength splits one row of the downscaled luma buffer into alternating
// bright/dark runs.
func runLength(buf []uint8, w, y int) []run {
	var runs []run
	x := 0
	for x < w {
		bright := buf[y*w+x] >= brightThreshold
		start := x
		var sum int
		n := 0
		for x < w && (buf[y*w+x] >= brightThreshold) == bright {
			sum += int(buf[y*w+x])
			n++
			x++
		}
		runs = append(runs, run{start: start, length: x - start, bright: bright, meanLuma: float64(sum) / float64(n)})
	}
	return runs
}

// scanCandidates performs the horizontal run-length scan (every 2 rows) and
// vertical confirmation pass described in the specification.
func scanCandidates(buf []uint8, w, h int) []candidate {
	var out []candidate

	for y := 0; y < h; y += 2 {
		runs := runLength(buf, w, y)
		for i := 0; i+2 < len(runs); i++ {
			r0, r1, r2 := runs[i], runs[i+1], runs[i+2]
			if !r0.bright || r1.bright || !r2.bright {
				continue
			}

			total := r0.length + r1.length + r2.length
			if total < 6 {
				continue
			}

			minBright := math.Min(float64(r0.length), float64(r2.length))
			if minBright == 0 {
				continue
			}
			ratio := minBright / float64(r1.length)
			if ratio < 0.25 || ratio > 4.0 {
				continue
			}

			contrast := r0.meanLuma - r1.meanLuma
			if contrast < 30 {
				continue
			}

			hx := float64(r0.start) + float64(total)/2
			cand := candidate{x: hx, y: float64(y), hSize: float64(total), contrast: contrast, hits: 1}

			if confirmed, ok := verticalConfirm(buf, w, h, cand); ok {
				out = append(out, confirmed)
			}
		}
	}
	return out
}

// verticalConfirm scans the column at the candidate's rounded x for a
// matching bright/dark/bright triple within [y-3*hSize, y+3*hSize], keeping
// the triple whose vertical center is closest to y.
func verticalConfirm(buf []uint8, w, h int, cand candidate) (candidate, bool) {
	cx := int(cand.x + 0.5)
	if cx < 0 || cx >= w {
		return candidate{}, false
	}

	lo := int(cand.y - 3*cand.hSize)
	hi := int(cand.y + 3*cand.hSize)
	if lo < 0 {
		lo = 0
	}
	if hi >= h {
		hi = h - 1
	}
	if hi <= lo {
		return candidate{}, false
	}

	colRuns := columnRunLength(buf, w, h, cx, lo, hi)

	bestDist := math.MaxFloat64
	bestCenter := -1.0
	bestTotal := 0
	for i := 0; i+2 < len(colRuns); i++ {
		r0, r1, r2 := colRuns[i], colRuns[i+1], colRuns[i+2]
		if !r0.bright || r1.bright || !r2.bright {
			continue
		}
		total := r0.length + r1.length + r2.length
		if float64(total) < 0.5*cand.hSize || float64(total) > 2.0*cand.hSize {
			continue
		}
		center := float64(lo+r0.start) + float64(total)/2
		if d := math.Abs(center - cand.y); d < bestDist {
			bestDist, bestCenter, bestTotal = d, center, total
		}
	}

	if bestCenter < 0 {
		return candidate{}, false
	}

	cand.y = bestCenter
	cand.vSize = float64(bestTotal)
	return cand, true
}

func columnRunLength(buf []uint8, w, h, x, lo, hi int) []run {
	var runs []run
	y := lo
	for y <= hi {
		bright := buf[y*w+x] >= brightThreshold
		start := y
		var sum int
		n := 0
		for y <= hi && (buf[y*w+x] >= brightThreshold) == bright {
			sum += int(buf[y*w+x])
			n++
			y++
		}
		runs = append(runs, run{start: start - lo, length: y - start, bright: bright, meanLuma: float64(sum) / float64(n)})
	}
	return runs
}
