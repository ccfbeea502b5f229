package cellsampler

import (
	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/colorspace"
	"github.com/cocosip/cimbar-decode/imaging"
)

const whiteBalancePatch = 4
const minWhiteLuma = 30

// adaptationMatrixFor samples the two outer finder corners (the white ring,
// not the dark finder center) and returns the Von Kries adaptation matrix
// to apply before color classification. ok is false when the measured
// white point is too dark to trust (likely occlusion or a failed capture).
func adaptationMatrixFor(frame *imaging.RGBImage, frameSize int) (m func(r, g, b uint8) (uint8, uint8, uint8), ok bool) {
	tlR, tlG, tlB := patchMean(frame, 0, 0)
	brR, brG, brB := patchMean(frame, frameSize-whiteBalancePatch, frameSize-whiteBalancePatch)

	w := [3]float64{
		maxF(tlR, brR),
		maxF(tlG, brG),
		maxF(tlB, brB),
	}

	if cimbar.Luma(uint8(w[0]), uint8(w[1]), uint8(w[2])) < minWhiteLuma {
		return nil, false
	}

	adapt := colorspace.AdaptationMatrix(w)
	return adapt.ApplyPixel, true
}

func patchMean(frame *imaging.RGBImage, x0, y0 int) (r, g, b float64) {
	var sumR, sumG, sumB int
	n := 0
	for y := y0; y < y0+whiteBalancePatch; y++ {
		for x := x0; x < x0+whiteBalancePatch; x++ {
			pr, pg, pb := frame.At(x, y)
			sumR += int(pr)
			sumG += int(pg)
			sumB += int(pb)
			n++
		}
	}
	return float64(sumR) / float64(n), float64(sumG) / float64(n), float64(sumB) / float64(n)
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
