package locator

import "math"

// dedup merges candidates within max(w,h)/30 pixels of each other using a
// single-pass union-find, averaging centroids and summing hit counts.
func dedup(cands []candidate, w, h int) []candidate {
	n := len(cands)
	if n == 0 {
		return nil
	}

	radius := math.Max(float64(w), float64(h)) / 30
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := cands[i].x - cands[j].x
			dy := cands[i].y - cands[j].y
			if math.Hypot(dx, dy) <= radius {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		r := find(i)
		groups[r] = append(groups[r], i)
	}

	out := make([]candidate, 0, len(groups))
	for _, members := range groups {
		var sumX, sumY, maxH, maxV, maxContrast float64
		hits := 0
		for _, idx := range members {
			c := cands[idx]
			sumX += c.x
			sumY += c.y
			if c.hSize > maxH {
				maxH = c.hSize
			}
			if c.vSize > maxV {
				maxV = c.vSize
			}
			if c.contrast > maxContrast {
				maxContrast = c.contrast
			}
			hits += c.hits
		}
		count := float64(len(members))
		out = append(out, candidate{
			x: sumX / count, y: sumY / count,
			hSize: maxH, vSize: maxV,
			contrast: maxContrast, hits: hits,
		})
	}
	return out
}
