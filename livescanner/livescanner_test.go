package livescanner

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cocosip/cimbar-decode/cimbar"
)

func TestFingerprint32KnownVectors(t *testing.T) {
	tests := []struct {
		in   string
		want Fingerprint
	}{
		{"a", 0xe40c292c},
		{"cimbar", 0x77b46001},
	}
	for _, tt := range tests {
		if got := Fingerprint32([]byte(tt.in)); got != tt.want {
			t.Errorf("Fingerprint32(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestFingerprint32TruncatesToFirst64Bytes(t *testing.T) {
	short := make([]byte, 64)
	long := make([]byte, 200)
	for i := range short {
		short[i] = byte(i)
		long[i] = byte(i)
	}
	for i := 64; i < len(long); i++ {
		long[i] = 0xFF
	}
	if Fingerprint32(short) != Fingerprint32(long) {
		t.Error("fingerprint should ignore bytes past the first 64")
	}
}

func makeFrame(payloadLength uint32, size int, fill byte) []byte {
	b := make([]byte, size)
	binary.BigEndian.PutUint32(b[0:4], payloadLength)
	for i := 4; i < size; i++ {
		b[i] = fill
	}
	return b
}

func TestTwoFrameSessionAssembles(t *testing.T) {
	const frameSize = 128
	perFrame := cimbar.DataBytesPerFrame(frameSize)

	frame0 := makeFrame(300, perFrame, 0xAA) // framedLength=304, numFrames=ceil(304/160)=2
	frame1 := makeFrame(0, perFrame, 0xBB)

	s := New()
	p0 := s.ProcessDecodedData(frame0, frameSize)
	if !p0.HaveFrame0 || p0.TotalFrames != 2 || p0.Complete {
		t.Fatalf("after frame0: %+v", p0)
	}

	p1 := s.ProcessDecodedData(frame1, frameSize)
	if !p1.Complete || p1.FramesSeen != 2 {
		t.Fatalf("after frame1: %+v", p1)
	}

	result, err := s.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := append(append([]byte{}, frame0...), frame1...)
	if string(result.Bytes) != string(want) {
		t.Error("assembled bytes do not match frame0+frame1 concatenation")
	}
	if result.FrameSize != frameSize {
		t.Errorf("FrameSize = %d, want %d", result.FrameSize, frameSize)
	}
}

func TestDuplicateFrameDoesNotBreakChain(t *testing.T) {
	const frameSize = 128
	perFrame := cimbar.DataBytesPerFrame(frameSize)

	frame0 := makeFrame(300, perFrame, 0xAA)
	frame1 := makeFrame(0, perFrame, 0xBB)

	s := New()
	s.ProcessDecodedData(frame0, frameSize)
	s.ProcessDecodedData(frame0, frameSize) // repeat, e.g. a looping camera feed
	p := s.ProcessDecodedData(frame1, frameSize)

	if !p.Complete {
		t.Fatalf("expected completion after duplicate + frame1, got %+v", p)
	}
	if _, err := s.Assemble(); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
}

func TestAdjacencyKeepsFirstSeenSuccessorOnLaterLoopPass(t *testing.T) {
	const frameSize = 128
	perFrame := cimbar.DataBytesPerFrame(frameSize)

	frame0 := makeFrame(460, perFrame, 0xAA) // framedLength=464, numFrames=ceil(464/160)=3
	frame1 := makeFrame(1, perFrame, 0xBB)
	frame2 := makeFrame(2, perFrame, 0xCC)
	garbage := makeFrame(3, perFrame, 0xDD)

	s := New()
	s.ProcessDecodedData(frame0, frameSize)
	s.ProcessDecodedData(frame1, frameSize)
	p := s.ProcessDecodedData(frame2, frameSize)
	if !p.Complete {
		t.Fatalf("expected completion after the first pass, got %+v", p)
	}

	// A second pass around a looping feed: frame0 repeats (fine, first-seen
	// edge into frame1 already recorded), then a different, wrong frame
	// follows frame0 instead of frame1. The original frame0->frame1 edge
	// must survive this - the spec requires the adjacency map store only
	// the first transition out of a fingerprint.
	s.ProcessDecodedData(frame0, frameSize)
	s.ProcessDecodedData(garbage, frameSize)

	result, err := s.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := append(append(append([]byte{}, frame0...), frame1...), frame2...)
	if string(result.Bytes) != string(want) {
		t.Error("a later conflicting transition corrupted the original adjacency chain")
	}
}

func TestAssembleReturnsIncompleteChainWhenLinkMissing(t *testing.T) {
	const frameSize = 128
	perFrame := cimbar.DataBytesPerFrame(frameSize)
	frame0 := makeFrame(300, perFrame, 0xAA)

	s := New()
	s.ProcessDecodedData(frame0, frameSize)

	if _, err := s.Assemble(); !errors.Is(err, cimbar.ErrIncompleteChain) {
		t.Fatalf("err = %v, want ErrIncompleteChain", err)
	}
}

func TestWalkChainDetectsCycle(t *testing.T) {
	s := &ScanState{
		frames: map[Fingerprint][]byte{
			1: {1}, 2: {2},
		},
		adjacency: map[Fingerprint]Fingerprint{
			1: 2,
			2: 1,
		},
		frame0:      1,
		haveFrame0:  true,
		totalFrames: 3,
	}
	if _, err := s.walkChain(); !errors.Is(err, cimbar.ErrCycleDetected) {
		t.Fatalf("err = %v, want ErrCycleDetected", err)
	}
}

func TestResetClearsState(t *testing.T) {
	const frameSize = 128
	perFrame := cimbar.DataBytesPerFrame(frameSize)
	frame0 := makeFrame(300, perFrame, 0xAA)

	s := New()
	s.ProcessDecodedData(frame0, frameSize)
	s.Reset()

	if s.haveFrame0 || len(s.frames) != 0 || len(s.adjacency) != 0 {
		t.Fatalf("expected fully reset state, got frames=%d adjacency=%d haveFrame0=%v",
			len(s.frames), len(s.adjacency), s.haveFrame0)
	}
}
