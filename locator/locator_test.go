package locator

import (
	"errors"
	"image"
	"testing"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/imaging"
	"github.com/cocosip/cimbar-decode/perspective"
)

func fillSquare(img *imaging.RGBImage, cx, cy, half int, r, g, b uint8) {
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			img.Set(x, y, r, g, b)
		}
	}
}

func TestDedupMergesNearbyCandidates(t *testing.T) {
	cands := []candidate{
		{x: 10, y: 10, hSize: 20, vSize: 20, contrast: 40, hits: 1},
		{x: 11, y: 11, hSize: 24, vSize: 18, contrast: 50, hits: 1},
		{x: 90, y: 90, hSize: 20, vSize: 20, contrast: 40, hits: 1},
	}
	out := dedup(cands, 100, 100)
	if len(out) != 2 {
		t.Fatalf("got %d groups, want 2", len(out))
	}
	var merged, lone *candidate
	for i := range out {
		if out[i].hits == 2 {
			merged = &out[i]
		} else {
			lone = &out[i]
		}
	}
	if merged == nil || lone == nil {
		t.Fatalf("expected one merged (hits=2) and one lone (hits=1) group, got %+v", out)
	}
	if merged.x != 10.5 || merged.y != 10.5 {
		t.Errorf("merged centroid = (%v,%v), want (10.5,10.5)", merged.x, merged.y)
	}
	if merged.hSize != 24 || merged.vSize != 20 {
		t.Errorf("merged size = (%v,%v), want (24,20)", merged.hSize, merged.vSize)
	}
}

func TestClassifyBrightnessBased(t *testing.T) {
	src := imaging.NewRGBImage(200, 200)
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			src.Set(x, y, 255, 255, 255)
		}
	}
	fillSquare(src, 20, 20, 6, 0, 0, 0)
	fillSquare(src, 180, 20, 6, 150, 150, 150)
	fillSquare(src, 20, 180, 6, 150, 150, 150)
	fillSquare(src, 180, 180, 6, 150, 150, 150)

	cands := []candidate{
		{x: 20, y: 20, hSize: 24, vSize: 24},
		{x: 180, y: 20, hSize: 24, vSize: 24},
		{x: 20, y: 180, hSize: 24, vSize: 24},
		{x: 180, y: 180, hSize: 24, vSize: 24},
	}

	tl, tr, bl, br, avgWidth, ok := classify(src, cands, 1)
	if !ok {
		t.Fatal("classify reported not ok")
	}
	if tl == nil || tr == nil || bl == nil || br == nil {
		t.Fatalf("expected all four anchors, got tl=%v tr=%v bl=%v br=%v", tl, tr, bl, br)
	}
	if tl.X != 20 || tl.Y != 20 {
		t.Errorf("TL = %+v, want (20,20)", *tl)
	}
	if br.X != 180 || br.Y != 180 {
		t.Errorf("BR = %+v, want (180,180)", *br)
	}
	if tr.X != 180 || tr.Y != 20 {
		t.Errorf("TR = %+v, want (180,20)", *tr)
	}
	if bl.X != 20 || bl.Y != 180 {
		t.Errorf("BL = %+v, want (20,180)", *bl)
	}
	if avgWidth != 24 {
		t.Errorf("avgWidth = %v, want 24", avgWidth)
	}
}

func TestClassifyCoordinateExtremesFallback(t *testing.T) {
	src := imaging.NewRGBImage(200, 200)
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			src.Set(x, y, 0, 0, 0)
		}
	}

	cands := []candidate{
		{x: 20, y: 20, hSize: 24, vSize: 24},
		{x: 180, y: 20, hSize: 24, vSize: 24},
		{x: 20, y: 180, hSize: 24, vSize: 24},
		{x: 180, y: 180, hSize: 24, vSize: 24},
	}

	tl, tr, bl, br, _, ok := classify(src, cands, 1)
	if !ok {
		t.Fatal("classify reported not ok")
	}
	if tl.X != 20 || tl.Y != 20 {
		t.Errorf("TL = %+v, want (20,20)", *tl)
	}
	if br.X != 180 || br.Y != 180 {
		t.Errorf("BR = %+v, want (180,180)", *br)
	}
	if tr.X != 180 || tr.Y != 20 {
		t.Errorf("TR = %+v, want (180,20)", *tr)
	}
	if bl.X != 20 || bl.Y != 180 {
		t.Errorf("BL = %+v, want (20,180)", *bl)
	}
}

func TestClassifyWithThreeCandidatesLeavesOneNil(t *testing.T) {
	src := imaging.NewRGBImage(200, 200)
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			src.Set(x, y, 0, 0, 0)
		}
	}

	cands := []candidate{
		{x: 20, y: 20, hSize: 24, vSize: 24},
		{x: 180, y: 20, hSize: 24, vSize: 24},
		{x: 180, y: 180, hSize: 24, vSize: 24},
	}

	tl, tr, bl, br, _, ok := classify(src, cands, 1)
	if !ok {
		t.Fatal("classify reported not ok")
	}
	if tl.X != 20 || tl.Y != 20 {
		t.Errorf("TL = %+v, want (20,20)", *tl)
	}
	if br.X != 180 || br.Y != 180 {
		t.Errorf("BR = %+v, want (180,180)", *br)
	}
	if tr == nil || tr.X != 180 || tr.Y != 20 {
		t.Errorf("TR = %+v, want (180,20)", tr)
	}
	if bl != nil {
		t.Errorf("BL = %+v, want nil", bl)
	}
}

func TestClassifyRequiresAtLeastTwoCandidates(t *testing.T) {
	src := imaging.NewRGBImage(50, 50)
	_, _, _, _, _, ok := classify(src, []candidate{{x: 10, y: 10}}, 1)
	if ok {
		t.Fatal("classify should refuse fewer than two candidates")
	}
}

func TestCropFromAnchorsPadsSquaresAndMargins(t *testing.T) {
	src := imaging.NewRGBImage(300, 300)
	tl := &perspective.Point{X: 50, Y: 50}
	tr := &perspective.Point{X: 250, Y: 50}
	bl := &perspective.Point{X: 50, Y: 250}
	br := &perspective.Point{X: 250, Y: 250}

	result, ok := cropFromAnchors(src, tl, tr, bl, br, 24)
	if !ok {
		t.Fatal("cropFromAnchors reported not ok")
	}
	want := image.Rect(33, 33, 266, 266)
	if result.Rect != want {
		t.Errorf("rect = %v, want %v", result.Rect, want)
	}
}

func TestCropFromAnchorsRejectsTinyCellSize(t *testing.T) {
	src := imaging.NewRGBImage(100, 100)
	tl := &perspective.Point{X: 10, Y: 10}
	br := &perspective.Point{X: 20, Y: 20}
	if _, ok := cropFromAnchors(src, tl, nil, nil, br, 2); ok {
		t.Fatal("expected cropFromAnchors to reject a sub-pixel cell size")
	}
}

func TestCropFromLumaThresholdFindsBoundingBox(t *testing.T) {
	const smallW, smallH = 50, 50
	buf := make([]uint8, smallW*smallH)
	for y := 15; y <= 25; y++ {
		for x := 10; x <= 20; x++ {
			buf[y*smallW+x] = 200
		}
	}
	src := imaging.NewRGBImage(300, 300)

	result, err := cropFromLumaThreshold(src, buf, smallW, smallH, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := image.Rect(39, 59, 84, 104)
	if result.Rect != want {
		t.Errorf("rect = %v, want %v", result.Rect, want)
	}
}

func TestCropFromLumaThresholdReturnsErrNoBarcodeWhenEmpty(t *testing.T) {
	buf := make([]uint8, 50*50)
	src := imaging.NewRGBImage(300, 300)

	_, err := cropFromLumaThreshold(src, buf, 50, 50, 4)
	if !errors.Is(err, cimbar.ErrNoBarcode) {
		t.Fatalf("err = %v, want ErrNoBarcode", err)
	}
}
