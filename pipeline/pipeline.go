// Package pipeline implements FramePipeline: given one photo (plus the
// FrameLocator's crop and optional finder anchors), it tries every
// supported frame size against a ladder of rectification strategies until
// one produces plausible, RS-correctable frame bytes.
package pipeline

import (
	"encoding/binary"

	"github.com/cocosip/cimbar-decode/cellsampler"
	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/locator"
	"github.com/cocosip/cimbar-decode/perspective"
	"github.com/cocosip/cimbar-decode/reedsolomon"
	"github.com/cocosip/cimbar-decode/rsframe"
)

// Result is one successfully decoded frame.
type Result struct {
	Bytes     []byte
	FrameSize int
}

// Decode runs the frame-size x warp-strategy search against photo, guided
// by loc (the FrameLocator's crop and, when available, finder anchors). If
// lockedFrameSize is non-zero, only that size is tried.
func Decode(photo *imaging.RGBImage, loc *locator.LocateResult, cfg *cimbar.TuningConfig, lockedFrameSize int) (*Result, error) {
	sizes := cimbar.FrameSizes[:]
	if lockedFrameSize != 0 {
		sizes = []int{lockedFrameSize}
	}

	codec := reedsolomon.New(cimbar.ECCBytes)

	for _, frameSize := range sizes {
		for _, rectified := range candidateFrames(photo, loc, frameSize) {
			if data, ok := decodeFrame(rectified, frameSize, cfg, codec); ok {
				return &Result{Bytes: data, FrameSize: frameSize}, nil
			}
		}
	}
	return nil, cimbar.ErrFrameSizeMismatch
}

// candidateFrames yields the rectified frameSize x frameSize images
// produced by each applicable strategy, in the order the specification
// prescribes: 4-point warp, 2-point warp, crop+resize.
func candidateFrames(photo *imaging.RGBImage, loc *locator.LocateResult, frameSize int) []*imaging.RGBImage {
	var out []*imaging.RGBImage

	dst := canonicalSquare(frameSize)

	if loc.TL != nil && loc.TR != nil && loc.BL != nil && loc.BR != nil {
		corners, err := perspective.CornersFrom4Anchors(*loc.TL, *loc.TR, *loc.BL, *loc.BR, frameSize)
		if err == nil {
			if h, err := perspective.Fit(dst, corners); err == nil {
				out = append(out, perspective.Warp(photo, h, frameSize))
			}
		}
	}

	if loc.TL != nil && loc.BR != nil {
		corners, err := perspective.CornersFrom2Anchors(*loc.TL, *loc.BR, frameSize)
		if err == nil {
			if h, err := perspective.Fit(dst, corners); err == nil {
				out = append(out, perspective.Warp(photo, h, frameSize))
			}
		}
	}

	if loc.Cropped != nil && loc.Cropped.Width > 0 && loc.Cropped.Height > 0 {
		out = append(out, loc.Cropped.Resize(frameSize, frameSize))
	}

	return out
}

func canonicalSquare(frameSize int) [4]perspective.Point {
	s := float64(frameSize)
	return [4]perspective.Point{
		{X: 0, Y: 0},
		{X: s, Y: 0},
		{X: 0, Y: s},
		{X: s, Y: s},
	}
}

// decodeFrame samples, RS-decodes, and gates one rectified frame, retrying
// once with the LAB color path if the primary sample fails the gate.
func decodeFrame(rectified *imaging.RGBImage, frameSize int, cfg *cimbar.TuningConfig, codec *reedsolomon.Codec) ([]byte, bool) {
	if raw, err := cellsampler.SampleFrame(rectified, cfg); err == nil {
		if data, ok := rsDecodeAndGate(codec, raw, frameSize); ok {
			return data, true
		}
	}

	raw, err := cellsampler.SampleFrameLAB(rectified, cfg)
	if err != nil {
		return nil, false
	}
	return rsDecodeAndGate(codec, raw, frameSize)
}

func rsDecodeAndGate(codec *reedsolomon.Codec, raw []byte, frameSize int) ([]byte, bool) {
	data, err := rsframe.Decode(codec, raw, frameSize)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	if !passesGates(data) {
		return nil, false
	}
	return data, true
}

// passesGates applies the two plausibility gates: a sane length prefix
// (Gate A) and at least one non-zero byte among the first 64 (Gate B),
// which rejects the all-zero output of a block whose RS decode silently
// produced garbage.
func passesGates(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	payloadLength := binary.BigEndian.Uint32(data[0:4])
	if payloadLength < 32 || uint64(payloadLength) > uint64(len(data)-4) {
		return false
	}

	limit := len(data)
	if limit > 64 {
		limit = 64
	}
	for _, b := range data[:limit] {
		if b != 0 {
			return true
		}
	}
	return false
}
