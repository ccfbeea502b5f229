// Package perspective computes the barcode's four outer corners from two
// or four finder anchors, fits a homography to them, and warps a photo to
// a canonical frameSize x frameSize square by nearest-neighbor inverse
// sampling.
package perspective

import (
	"errors"
	"math"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/imaging"
)

// ErrDegenerateAnchors is returned when the supplied anchors are too close
// together, non-convex, or otherwise too unreliable to fit a homography.
var ErrDegenerateAnchors = errors.New("perspective: degenerate anchors")

// Point is an (x, y) coordinate in source-image pixel space.
type Point struct {
	X, Y float64
}

func sub(a, b Point) Point { return Point{a.X - b.X, a.Y - b.Y} }
func add(a, b Point) Point { return Point{a.X + b.X, a.Y + b.Y} }
func scale(p Point, k float64) Point { return Point{p.X * k, p.Y * k} }

// axes returns the unit basis vectors (ux, uy) along the barcode's local x
// and y axes, derived from the TL-BR diagonal: the diagonal spans n pixels
// along each axis, and the y axis is the x axis rotated 90 degrees
// clockwise. Returns an error if the anchors are too close or n is
// non-positive.
func axes(tl, br Point, frameSize int) (ux, uy Point, err error) {
	cols := frameSize / cimbar.CellSize
	n := float64((cols - 3) * cimbar.CellSize)

	d := sub(br, tl)
	dist := math.Hypot(d.X, d.Y)
	if dist < 10 || n <= 0 {
		return Point{}, Point{}, ErrDegenerateAnchors
	}

	ux = Point{(d.X + d.Y) / (2 * n), (d.Y - d.X) / (2 * n)}
	uy = Point{-(d.Y - d.X) / (2 * n), (d.X + d.Y) / (2 * n)}
	return ux, uy, nil
}

// CornersFrom2Anchors computes the barcode's four outer corners in source
// coordinates from the TL and BR finder centers, in canonical order
// (TL, TR, BL, BR).
func CornersFrom2Anchors(tl, br Point, frameSize int) ([4]Point, error) {
	ux, uy, err := axes(tl, br, frameSize)
	if err != nil {
		return [4]Point{}, err
	}

	inset := 1.5 * cimbar.CellSize
	origin := sub(tl, scale(add(ux, uy), inset))

	s := float64(frameSize)
	corners := [4]Point{
		origin,
		add(origin, scale(ux, s)),
		add(origin, scale(uy, s)),
		add(origin, scale(add(ux, uy), s)),
	}
	return corners, nil
}

// CornersFrom4Anchors computes the barcode's four outer corners directly
// from all four finder centers, each offset outward by 1.5 cells along the
// basis derived from the TL-BR diagonal. Returns ErrDegenerateAnchors if
// the anchors are not in convex (TL, TR, BR, BL) order.
func CornersFrom4Anchors(tl, tr, bl, br Point, frameSize int) ([4]Point, error) {
	ux, uy, err := axes(tl, br, frameSize)
	if err != nil {
		return [4]Point{}, err
	}
	if !isConvexQuad(tl, tr, br, bl) {
		return [4]Point{}, ErrDegenerateAnchors
	}

	inset := 1.5 * cimbar.CellSize
	corners := [4]Point{
		sub(tl, scale(add(ux, uy), inset)),
		add(tr, scale(sub(ux, uy), inset)),
		add(bl, scale(sub(uy, ux), inset)),
		add(br, scale(add(ux, uy), inset)),
	}
	return corners, nil
}

// isConvexQuad reports whether the four points, taken in the given order,
// form a convex quadrilateral (all cross products of consecutive edges have
// the same sign).
func isConvexQuad(a, b, c, d Point) bool {
	pts := [4]Point{a, b, c, d}
	var sign float64
	for i := 0; i < 4; i++ {
		p0, p1, p2 := pts[i], pts[(i+1)%4], pts[(i+2)%4]
		cross := (p1.X-p0.X)*(p2.Y-p1.Y) - (p1.Y-p0.Y)*(p2.X-p1.X)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}
