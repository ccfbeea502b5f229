package imaging

import (
	"image"

	"golang.org/x/image/draw"
)

// Resize scales img to width x height using nearest-neighbor sampling, the
// cheapest resampler and the correct choice here: the source crop is
// already an approximate square around the barcode, so there's no
// fractional-pixel blending to preserve.
func (img *RGBImage) Resize(width, height int) *RGBImage {
	src := img.ToStdImage()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return FromStdImage(dst)
}
