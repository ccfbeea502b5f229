// Package livescanner implements LiveScanner: the stateful, multi-frame
// assembly layer that sits above FramePipeline during a live scan session,
// tracking which decoded frames have been seen, how they chain together,
// and when enough have arrived to assemble the full byte stream.
package livescanner

import (
	"encoding/binary"

	"github.com/cocosip/cimbar-decode/cimbar"
)

const fnvOffsetBasis uint32 = 0x811c9dc5
const fnvPrime uint32 = 0x01000193
const fingerprintBytes = 64

// Fingerprint is the opaque FNV-1a 32-bit key identifying a decoded frame's
// content, used to dedup frames and track the adjacency chain between
// them.
type Fingerprint uint32

// Fingerprint32 computes the FNV-1a 32-bit hash over the first 64 bytes of
// a decoded frame (or all of it, if shorter).
func Fingerprint32(frameBytes []byte) Fingerprint {
	n := len(frameBytes)
	if n > fingerprintBytes {
		n = fingerprintBytes
	}
	h := fnvOffsetBasis
	for _, b := range frameBytes[:n] {
		h = (h ^ uint32(b)) * fnvPrime
	}
	return Fingerprint(h)
}

// ScanProgress reports the session's state after processing one frame, for
// a UI to render (finder count is the caller's concern; this package
// reports the assembly-relevant counts).
type ScanProgress struct {
	FramesSeen  int
	TotalFrames int
	HaveFrame0  bool
	FrameSize   int
	Complete    bool
}

// ScanResult is the outcome of a completed assembly.
type ScanResult struct {
	Bytes     []byte
	FrameSize int
}

// ScanState is the mutable state of one live-scan session: the set of
// decoded frames seen so far, the adjacency chain between them, and the
// frame-0 bookkeeping needed to know when assembly is possible.
type ScanState struct {
	frames          map[Fingerprint][]byte
	adjacency       map[Fingerprint]Fingerprint
	lastFingerprint Fingerprint
	haveLast        bool

	frame0      Fingerprint
	haveFrame0  bool
	totalFrames int
	frameSize   int
}

// New returns an empty scan session.
func New() *ScanState {
	return &ScanState{
		frames:    make(map[Fingerprint][]byte),
		adjacency: make(map[Fingerprint]Fingerprint),
	}
}

// ProcessDecodedData folds one pipeline-decoded frame into the session and
// reports the resulting progress.
func (s *ScanState) ProcessDecodedData(frameBytes []byte, frameSize int) ScanProgress {
	fp := Fingerprint32(frameBytes)

	if s.haveLast && s.lastFingerprint != fp {
		if _, exists := s.adjacency[s.lastFingerprint]; !exists {
			s.adjacency[s.lastFingerprint] = fp
		}
	}
	s.lastFingerprint = fp
	s.haveLast = true

	if _, seen := s.frames[fp]; !seen {
		s.frames[fp] = frameBytes

		if !s.haveFrame0 {
			if n, ok := detectFrame0(frameBytes, frameSize); ok {
				s.frame0 = fp
				s.haveFrame0 = true
				s.totalFrames = n
				s.frameSize = frameSize
			}
		}
	}

	return s.progress()
}

// detectFrame0 reports whether frameBytes looks like the first frame of a
// multi-frame stream: its length prefix implies a sane total byte count and
// a frame count within [1, 255].
func detectFrame0(frameBytes []byte, frameSize int) (numFrames int, ok bool) {
	if len(frameBytes) < 4 {
		return 0, false
	}
	payloadLength := binary.BigEndian.Uint32(frameBytes[0:4])
	if payloadLength < 32 {
		return 0, false
	}
	framedLength := int(payloadLength) + 4

	perFrame := cimbar.DataBytesPerFrame(frameSize)
	if perFrame <= 0 {
		return 0, false
	}
	numFrames = (framedLength + perFrame - 1) / perFrame
	if numFrames < 1 || numFrames > 255 {
		return 0, false
	}
	return numFrames, true
}

func (s *ScanState) progress() ScanProgress {
	return ScanProgress{
		FramesSeen:  len(s.frames),
		TotalFrames: s.totalFrames,
		HaveFrame0:  s.haveFrame0,
		FrameSize:   s.frameSize,
		Complete:    s.complete(),
	}
}

// complete reports whether frame0 is known, enough frames have arrived, and
// the adjacency chain from frame0 reaches exactly totalFrames distinct
// fingerprints without revisiting one.
func (s *ScanState) complete() bool {
	if !s.haveFrame0 || len(s.frames) < s.totalFrames {
		return false
	}
	_, err := s.walkChain()
	return err == nil
}

// walkChain follows the adjacency chain from frame0 for exactly
// totalFrames hops, returning the fingerprints visited in order.
func (s *ScanState) walkChain() ([]Fingerprint, error) {
	visited := make(map[Fingerprint]bool, s.totalFrames)
	chain := make([]Fingerprint, 0, s.totalFrames)

	current := s.frame0
	for i := 0; i < s.totalFrames; i++ {
		if _, ok := s.frames[current]; !ok {
			return nil, cimbar.ErrIncompleteChain
		}
		if visited[current] {
			return nil, cimbar.ErrCycleDetected
		}
		visited[current] = true
		chain = append(chain, current)

		if i == s.totalFrames-1 {
			break
		}
		next, ok := s.adjacency[current]
		if !ok {
			return nil, cimbar.ErrIncompleteChain
		}
		current = next
	}
	return chain, nil
}

// Assemble concatenates the chain's frame bytes in order, returning
// ScanResult. It returns the same error walkChain would, unwrapped by the
// caller; a nil ScanResult pointer signals no result.
func (s *ScanState) Assemble() (*ScanResult, error) {
	if !s.haveFrame0 {
		return nil, cimbar.ErrIncompleteChain
	}
	chain, err := s.walkChain()
	if err != nil {
		return nil, err
	}

	var out []byte
	for _, fp := range chain {
		out = append(out, s.frames[fp]...)
	}
	return &ScanResult{Bytes: out, FrameSize: s.frameSize}, nil
}

// Reset drops all decoded frame bytes and adjacency state, releasing the
// session's memory between scans.
func (s *ScanState) Reset() {
	s.frames = make(map[Fingerprint][]byte)
	s.adjacency = make(map[Fingerprint]Fingerprint)
	s.lastFingerprint = 0
	s.haveLast = false
	s.frame0 = 0
	s.haveFrame0 = false
	s.totalFrames = 0
	s.frameSize = 0
}
