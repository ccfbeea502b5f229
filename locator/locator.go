// Package locator finds the barcode's finder patterns in a noisy camera
// photo and returns a cropped square image plus up to four finder-center
// coordinates in source-image space.
package locator

import (
	"image"

	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/perspective"
)

const brightThreshold = 180
const downscaleFactor = 2

// LocateResult is the output of Locate: a cropped square crop of the
// source photo, the crop's bounding rect in source coordinates, and up to
// four finder centers in source coordinates. TL and BR are set together or
// are both nil; TR and BL can each be nil.
type LocateResult struct {
	Cropped        *imaging.RGBImage
	Rect           image.Rectangle
	TL, TR, BL, BR *perspective.Point
}

// Locate runs the full finder-location pipeline against a full-resolution
// source photo.
func Locate(src *imaging.RGBImage) (*LocateResult, error) {
	small, smallW, smallH := downscale(src, downscaleFactor)

	candidates := scanCandidates(small, smallW, smallH)
	candidates = dedup(candidates, smallW, smallH)

	tl, tr, bl, br, avgWidth, classified := classify(src, candidates, downscaleFactor)
	if classified {
		if result, ok := cropFromAnchors(src, tl, tr, bl, br, avgWidth); ok {
			return result, nil
		}
	}

	return cropFromLumaThreshold(src, small, smallW, smallH, downscaleFactor)
}

// downscale averages src down by factor, returning a row-major luma buffer.
func downscale(src *imaging.RGBImage, factor int) (luma []uint8, w, h int) {
	w, h = src.Width/factor, src.Height/factor
	luma = make([]uint8, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum int
			n := 0
			for dy := 0; dy < factor; dy++ {
				for dx := 0; dx < factor; dx++ {
					sum += src.Luma(x*factor+dx, y*factor+dy)
					n++
				}
			}
			luma[y*w+x] = uint8(sum / n)
		}
	}
	return luma, w, h
}
