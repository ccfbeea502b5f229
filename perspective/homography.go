package perspective

import "github.com/cocosip/cimbar-decode/cimbar"

// Homography is a planar projective transform h0..h7 with h8 implicitly 1:
//
//	x' = (h0*x + h1*y + h2) / (h6*x + h7*y + 1)
//	y' = (h3*x + h4*y + h5) / (h6*x + h7*y + 1)
type Homography [8]float64

// Fit solves for the homography mapping each dst[i] to src[i] (four point
// correspondences), via Gaussian elimination with partial pivoting on the
// 8x8 DLT system. Returns cimbar.ErrSingular if any pivot falls below 1e-12.
func Fit(dst, src [4]Point) (Homography, error) {
	var a [8][8]float64
	var b [8]float64

	for i := 0; i < 4; i++ {
		x, y := dst[i].X, dst[i].Y
		xp, yp := src[i].X, src[i].Y

		r0 := 2 * i
		a[r0] = [8]float64{x, y, 1, 0, 0, 0, -x * xp, -y * xp}
		b[r0] = xp

		r1 := 2*i + 1
		a[r1] = [8]float64{0, 0, 0, x, y, 1, -x * yp, -y * yp}
		b[r1] = yp
	}

	h, err := solve8(a, b)
	if err != nil {
		return Homography{}, err
	}
	return Homography(h), nil
}

// solve8 solves the 8x8 linear system a*x = b via Gaussian elimination with
// partial pivoting.
func solve8(a [8][8]float64, b [8]float64) ([8]float64, error) {
	const n = 8
	const minPivot = 1e-12

	for col := 0; col < n; col++ {
		pivotRow := col
		pivotMag := abs(a[col][col])
		for row := col + 1; row < n; row++ {
			if m := abs(a[row][col]); m > pivotMag {
				pivotRow, pivotMag = row, m
			}
		}
		if pivotMag < minPivot {
			return [8]float64{}, cimbar.ErrSingular
		}
		a[col], a[pivotRow] = a[pivotRow], a[col]
		b[col], b[pivotRow] = b[pivotRow], b[col]

		pivot := a[col][col]
		for row := col + 1; row < n; row++ {
			factor := a[row][col] / pivot
			if factor == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	var x [8]float64
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
