package perspective

import "github.com/cocosip/cimbar-decode/imaging"

const denomEpsilon = 1e-10

// Warp renders a frameSize x frameSize square by, for each destination
// pixel center, applying h to find the corresponding source coordinate and
// nearest-neighbor sampling src there. Destinations whose homography
// denominator magnitude falls below 1e-10 are painted opaque black.
func Warp(src *imaging.RGBImage, h Homography, frameSize int) *imaging.RGBImage {
	dst := imaging.NewRGBImage(frameSize, frameSize)

	for y := 0; y < frameSize; y++ {
		dy := float64(y) + 0.5
		for x := 0; x < frameSize; x++ {
			dx := float64(x) + 0.5

			denom := h[6]*dx + h[7]*dy + 1
			if abs(denom) < denomEpsilon {
				dst.Set(x, y, 0, 0, 0)
				continue
			}

			sx := (h[0]*dx + h[1]*dy + h[2]) / denom
			sy := (h[3]*dx + h[4]*dy + h[5]) / denom

			r, g, b := src.At(nearestIndex(sx), nearestIndex(sy))
			dst.Set(x, y, r, g, b)
		}
	}
	return dst
}

// nearestIndex maps a continuous pixel-center coordinate (consistent with
// the dx+0.5/dy+0.5 convention used above) to the source pixel index whose
// [i, i+1) span contains it.
func nearestIndex(v float64) int {
	if v >= 0 {
		return int(v)
	}
	return int(v) - 1
}
