package imaging

import (
	"bytes"
	"image/gif"
	"io"
)

// GifDecoder is the external collaborator boundary for an animated,
// offline barcode source: it hands back one square RGB image per frame,
// independent of the source GIF's disposal method. Any implementation that
// satisfies this signature may be substituted; StdGifDecoder below is the
// simple reference implementation sketched by the specification.
type GifDecoder interface {
	DecodeFrames(r io.Reader) ([]*RGBImage, error)
}

// StdGifDecoder decodes frame-by-frame using the standard library's
// image/gif, compositing each frame over its predecessor per the GIF
// disposal method so that every returned frame is a complete image rather
// than a sparse delta. Only DisposalBackground is acted on (that frame's
// area is cleared to black); other disposal methods, including
// DisposalPrevious, leave the canvas as drawn.
type StdGifDecoder struct{}

// DecodeFrames implements GifDecoder.
func (StdGifDecoder) DecodeFrames(r io.Reader) ([]*RGBImage, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, nil
	}

	bounds := g.Image[0].Bounds()
	canvas := NewRGBImage(bounds.Dx(), bounds.Dy())
	out := make([]*RGBImage, 0, len(g.Image))

	for i, frame := range g.Image {
		fb := frame.Bounds()
		for y := 0; y < fb.Dy(); y++ {
			for x := 0; x < fb.Dx(); x++ {
				r, gch, b, a := frame.At(fb.Min.X+x, fb.Min.Y+y).RGBA()
				if a == 0 {
					continue
				}
				canvas.Set(fb.Min.X-bounds.Min.X+x, fb.Min.Y-bounds.Min.Y+y, uint8(r>>8), uint8(gch>>8), uint8(b>>8))
			}
		}

		snapshot := NewRGBImage(canvas.Width, canvas.Height)
		copy(snapshot.Pix, canvas.Pix)
		out = append(out, snapshot)

		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalBackground {
			for y := fb.Min.Y; y < fb.Max.Y; y++ {
				for x := fb.Min.X; x < fb.Max.X; x++ {
					canvas.Set(x-bounds.Min.X, y-bounds.Min.Y, 0, 0, 0)
				}
			}
		}
	}
	return out, nil
}

// DecodeFramesBytes is a convenience wrapper over DecodeFrames for callers
// holding an in-memory GIF.
func DecodeFramesBytes(d GifDecoder, data []byte) ([]*RGBImage, error) {
	return d.DecodeFrames(bytes.NewReader(data))
}
