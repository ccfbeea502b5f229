package pipeline

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/locator"
	"github.com/cocosip/cimbar-decode/reedsolomon"
	"github.com/cocosip/cimbar-decode/rsframe"
)

// finderBlockSize is the pixel footprint of one corner's finder pattern:
// FinderCells cells of CellSize pixels each, same geometry CellSampler and
// FrameLocator both assume.
const finderBlockSize = cimbar.FinderCells * cimbar.CellSize

// drawFinder paints one concentric-square finder pattern: a bright outer
// square filling the block, and a darker inner core. The top-left finder's
// core is drawn noticeably darker than the other three so classify's
// brightness-gap test can recover which physical corner is logically "TL"
// no matter how the photo containing the frame was rotated.
func drawFinder(img *imaging.RGBImage, ox, oy int, coreLuma uint8) {
	for y := 0; y < finderBlockSize; y++ {
		for x := 0; x < finderBlockSize; x++ {
			img.Set(ox+x, oy+y, 255, 255, 255)
		}
	}
	const coreMargin = 6
	for y := coreMargin; y < finderBlockSize-coreMargin; y++ {
		for x := coreMargin; x < finderBlockSize-coreMargin; x++ {
			img.Set(ox+x, oy+y, coreLuma, coreLuma, coreLuma)
		}
	}
}

// drawFinders overlays all four corner finder patterns onto a frame
// produced by renderFrame, which otherwise leaves those cells at their
// zero value.
func drawFinders(img *imaging.RGBImage, frameSize int) {
	const otherCoreLuma = 80
	drawFinder(img, 0, 0, 0) // logical TL: deliberately the darkest core
	drawFinder(img, frameSize-finderBlockSize, 0, otherCoreLuma)
	drawFinder(img, 0, frameSize-finderBlockSize, otherCoreLuma)
	drawFinder(img, frameSize-finderBlockSize, frameSize-finderBlockSize, otherCoreLuma)
}

// rotate90CW returns a copy of a square image rotated 90 degrees clockwise:
// out(x,y) = in(y, n-1-x).
func rotate90CW(img *imaging.RGBImage) *imaging.RGBImage {
	n := img.Width
	out := imaging.NewRGBImage(n, n)
	for oy := 0; oy < n; oy++ {
		for ox := 0; ox < n; ox++ {
			r, g, b := img.At(oy, n-1-ox)
			out.Set(ox, oy, r, g, b)
		}
	}
	return out
}

// embedInPhoto centers frame on a photoSize x photoSize canvas filled with
// a uniform dark background, emulating a barcode photographed against a
// plain dark surface.
func embedInPhoto(frame *imaging.RGBImage, photoSize int, bg uint8) *imaging.RGBImage {
	photo := imaging.NewRGBImage(photoSize, photoSize)
	for y := 0; y < photoSize; y++ {
		for x := 0; x < photoSize; x++ {
			photo.Set(x, y, bg, bg, bg)
		}
	}
	offset := (photoSize - frame.Width) / 2
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			r, g, b := frame.At(x, y)
			photo.Set(offset+x, offset+y, r, g, b)
		}
	}
	return photo
}

// TestDecodeRecoversRotated90FramePlacedInLargerPhoto exercises the full
// locate -> perspective warp -> sample -> RS-decode chain end to end: a
// 256x256 frame, rotated 90 degrees clockwise and placed in the middle of a
// 1024x1024 dark photo, must still locate and decode back to the original
// bytes.
func TestDecodeRecoversRotated90FramePlacedInLargerPhoto(t *testing.T) {
	const frameSize = 256
	const photoSize = 1024

	dataLen := cimbar.DataBytesPerFrame(frameSize)
	data := make([]byte, dataLen)
	binary.BigEndian.PutUint32(data[0:4], 200)
	for i := 4; i < dataLen; i++ {
		data[i] = byte(i*13 + 5)
	}

	codec := reedsolomon.New(cimbar.ECCBytes)
	raw, err := rsframe.Encode(codec, data, frameSize)
	if err != nil {
		t.Fatalf("rsframe.Encode: %v", err)
	}

	codes := padUnpack7(raw, cimbar.UsableCells(frameSize))
	frame := renderFrame(frameSize, codes)
	drawFinders(frame, frameSize)

	rotated := rotate90CW(frame)
	photo := embedInPhoto(rotated, photoSize, 50)

	loc, err := locator.Locate(photo)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if loc.TL == nil || loc.TR == nil || loc.BL == nil || loc.BR == nil {
		t.Fatalf("expected all four finder anchors, got %+v", loc)
	}

	result, err := pipelineDecode(t, photo, loc, frameSize)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.FrameSize != frameSize {
		t.Errorf("FrameSize = %d, want %d", result.FrameSize, frameSize)
	}
	if !bytes.Equal(result.Bytes, data) {
		t.Errorf("Bytes mismatch: got %x, want %x", result.Bytes, data)
	}
}
