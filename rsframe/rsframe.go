// Package rsframe interleaves and de-interleaves a frame's raw bytes across
// the N Reed-Solomon blocks that cover it, the way a multi-component pixel
// buffer is interleaved and de-interleaved across its channels: byte j of
// block i lands at output position j*N+i, so that damage localized to one
// patch of the frame (an occluded corner, a smudge) is spread across every
// block instead of blowing out a single block's correction capacity.
package rsframe

import (
	"fmt"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/reedsolomon"
)

// BlockSizes returns the total (data+parity) size of each of the N RS
// blocks a frame of the given size is split across: BlockTotal for every
// block but the last, which carries whatever remains.
func BlockSizes(frameSize int) []int {
	raw := cimbar.RawBytesPerFrame(frameSize)
	n := cimbar.BlockCount(raw)
	sizes := make([]int, n)
	remaining := raw
	for i := 0; i < n; i++ {
		if remaining >= cimbar.BlockTotal {
			sizes[i] = cimbar.BlockTotal
			remaining -= cimbar.BlockTotal
		} else {
			sizes[i] = remaining
			remaining = 0
		}
	}
	return sizes
}

// interleave lays out blocks byte-stride: row j emits block[i][j] for every
// block still holding a byte at that row, in block order. Blocks shorter
// than the longest simply stop contributing rows past their own length,
// which is what keeps the output exactly sum(len(blocks)) bytes long
// instead of padded out to maxLen*N.
func interleave(blocks [][]byte) []byte {
	maxLen := 0
	total := 0
	for _, b := range blocks {
		if len(b) > maxLen {
			maxLen = len(b)
		}
		total += len(b)
	}
	out := make([]byte, 0, total)
	for j := 0; j < maxLen; j++ {
		for _, b := range blocks {
			if j < len(b) {
				out = append(out, b[j])
			}
		}
	}
	return out
}

// deinterleave reverses interleave given the exact block sizes used to
// build it.
func deinterleave(raw []byte, sizes []int) ([][]byte, error) {
	maxLen := 0
	total := 0
	for _, s := range sizes {
		if s > maxLen {
			maxLen = s
		}
		total += s
	}
	if len(raw) != total {
		return nil, fmt.Errorf("rsframe: raw length %d does not match expected %d", len(raw), total)
	}

	blocks := make([][]byte, len(sizes))
	for i, s := range sizes {
		blocks[i] = make([]byte, 0, s)
	}
	pos := 0
	for j := 0; j < maxLen; j++ {
		for i, s := range sizes {
			if j < s {
				blocks[i] = append(blocks[i], raw[pos])
				pos++
			}
		}
	}
	return blocks, nil
}

// Decode de-interleaves a frame's raw bytes into its N RS blocks, RS-decodes
// each, and concatenates the recovered data portions into FrameBytes. Fails
// with whatever error the first failing block's RS decode returns.
func Decode(codec *reedsolomon.Codec, raw []byte, frameSize int) ([]byte, error) {
	sizes := BlockSizes(frameSize)
	blocks, err := deinterleave(raw, sizes)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, cimbar.DataBytesPerFrame(frameSize))
	for i, block := range blocks {
		data, err := codec.Decode(block)
		if err != nil {
			return nil, fmt.Errorf("rsframe: block %d: %w", i, err)
		}
		out = append(out, data...)
	}
	return out, nil
}

// Encode is the reference (encoder-side) mirror of Decode: it splits data
// across the N blocks implied by frameSize, RS-encodes each, and
// interleaves the results. Used by this package's own tests and by any
// caller that wants to synthesize a frame for the decoder to exercise.
func Encode(codec *reedsolomon.Codec, data []byte, frameSize int) ([]byte, error) {
	sizes := BlockSizes(frameSize)
	blocks := make([][]byte, len(sizes))
	pos := 0
	for i, total := range sizes {
		dataLen := total - codec.ECCLen()
		if dataLen < 0 || pos+dataLen > len(data) {
			return nil, fmt.Errorf("rsframe: data length %d insufficient for frame size %d", len(data), frameSize)
		}
		blocks[i] = codec.Encode(data[pos : pos+dataLen])
		pos += dataLen
	}
	if pos != len(data) {
		return nil, fmt.Errorf("rsframe: data length %d does not exactly fill frame size %d (expected %d)", len(data), frameSize, pos)
	}
	return interleave(blocks), nil
}
