package cellsampler

import (
	"testing"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/render"
)

// buildUniformFrame renders a frameSize x frameSize image whose every
// non-finder cell carries the same (colorIdx, symIdx) pair.
func buildUniformFrame(frameSize, colorIdx, symIdx int) *imaging.RGBImage {
	img := imaging.NewRGBImage(frameSize, frameSize)
	cols := cimbar.CellsPerSide(frameSize)
	c := cimbar.Palette[colorIdx]

	for row := 0; row < cols; row++ {
		for col := 0; col < cols; col++ {
			ox, oy := col*cimbar.CellSize, row*cimbar.CellSize
			for y := 0; y < cimbar.CellSize; y++ {
				for x := 0; x < cimbar.CellSize; x++ {
					img.Set(ox+x, oy+y, c.R, c.G, c.B)
				}
			}
			if cimbar.IsFinderCell(row, col, frameSize) {
				continue
			}
			render.DrawSymbol(symIdx, func(x, y int) { img.Set(ox+x, oy+y, 0, 0, 0) })
		}
	}
	return img
}

// unpack7 extracts count 7-bit MSB-first groups from raw.
func unpack7(raw []byte, count int) []int {
	out := make([]int, 0, count)
	var cur uint32
	var nbits uint
	bi := 0
	for len(out) < count {
		for nbits < 7 {
			if bi >= len(raw) {
				break
			}
			cur = (cur << 8) | uint32(raw[bi])
			nbits += 8
			bi++
		}
		if nbits < 7 {
			break
		}
		nbits -= 7
		out = append(out, int((cur>>nbits)&0x7F))
	}
	return out
}

func TestSampleFrameRecoversExactColorAndSymbol(t *testing.T) {
	cfg := cimbar.NewSourceTuningConfig()
	const frameSize = 128

	for colorIdx := 0; colorIdx < 8; colorIdx++ {
		for symIdx := 0; symIdx < 16; symIdx++ {
			frame := buildUniformFrame(frameSize, colorIdx, symIdx)
			raw, err := SampleFrame(frame, cfg)
			if err != nil {
				t.Fatalf("color=%d symbol=%d: SampleFrame error: %v", colorIdx, symIdx, err)
			}
			codes := unpack7(raw, 4)
			want := colorIdx<<4 | symIdx
			for i, got := range codes {
				if got != want {
					t.Fatalf("color=%d symbol=%d: cell %d decoded to %#x, want %#x", colorIdx, symIdx, i, got, want)
				}
			}
		}
	}
}

func TestSampleFrameHashDetectionRecoversUniformFrame(t *testing.T) {
	cfg := cimbar.NewCameraTuningConfig()
	cfg.EnableWhiteBalance = false
	const frameSize = 128

	frame := buildUniformFrame(frameSize, 3, 9)
	raw, err := SampleFrame(frame, cfg)
	if err != nil {
		t.Fatalf("SampleFrame error: %v", err)
	}
	codes := unpack7(raw, 4)
	want := 3<<4 | 9
	for i, got := range codes {
		if got != want {
			t.Fatalf("cell %d decoded to %#x, want %#x", i, got, want)
		}
	}
}
