// Package imaging holds the small raw-RGB image type the decoder pipeline
// passes between stages, plus the two named external collaborators the
// specification treats as boundary contracts: a GIF frame source and a
// camera YUV-to-RGB converter.
package imaging

import (
	"image"
	"image/color"
)

// RGBImage is a tightly packed, top-left-origin RGB pixel buffer. Every
// pipeline stage from FrameLocator through CellSampler reads and writes this
// type rather than the standard library's image.Image, because nearest-
// neighbor warping and per-cell sampling both want direct byte access.
type RGBImage struct {
	Width, Height int
	// Pix holds width*height*3 bytes, row-major, R,G,B per pixel.
	Pix []uint8
}

// NewRGBImage allocates a zeroed (opaque black) image of the given size.
func NewRGBImage(width, height int) *RGBImage {
	return &RGBImage{Width: width, Height: height, Pix: make([]uint8, width*height*3)}
}

// At returns the pixel at (x, y). Out-of-range coordinates are clamped to
// the nearest edge pixel, matching how every caller in this codebase already
// guards against off-by-one sampling near image borders.
func (img *RGBImage) At(x, y int) (r, g, b uint8) {
	x = clamp(x, 0, img.Width-1)
	y = clamp(y, 0, img.Height-1)
	i := (y*img.Width + x) * 3
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Set writes the pixel at (x, y). Out-of-range coordinates are a no-op.
func (img *RGBImage) Set(x, y int, r, g, b uint8) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	i := (y*img.Width + x) * 3
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
}

// Luma returns the BT.601 luma at (x, y).
func (img *RGBImage) Luma(x, y int) int {
	r, g, b := img.At(x, y)
	return int(0.299*float64(r)+0.587*float64(g)+0.114*float64(b) + 0.5)
}

// Size returns the image's pixel dimensions, for callers that only hold a
// narrower interface (e.g. symbolhash's lumaPatch) but still need to test a
// patch for being fully in-bounds.
func (img *RGBImage) Size() (width, height int) {
	return img.Width, img.Height
}

// Crop returns a new image holding the pixels within rect, clamped to the
// source bounds.
func (img *RGBImage) Crop(rect image.Rectangle) *RGBImage {
	rect = rect.Intersect(image.Rect(0, 0, img.Width, img.Height))
	if rect.Empty() {
		return NewRGBImage(0, 0)
	}
	out := NewRGBImage(rect.Dx(), rect.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, b := img.At(rect.Min.X+x, rect.Min.Y+y)
			out.Set(x, y, r, g, b)
		}
	}
	return out
}

// FromStdImage copies a standard library image.Image into an RGBImage.
func FromStdImage(src image.Image) *RGBImage {
	b := src.Bounds()
	out := NewRGBImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bch, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Set(x, y, uint8(r>>8), uint8(g>>8), uint8(bch>>8))
		}
	}
	return out
}

// ToStdImage converts to a standard library *image.RGBA, for interop with
// encoders/decoders (PNG dumps, test fixtures) that expect it.
func (img *RGBImage) ToStdImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := img.At(x, y)
			out.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
