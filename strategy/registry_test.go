package strategy_test

import (
	"testing"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/strategy"
)

func TestColorRegistry(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantFound bool
	}{
		{name: "absolute registered", key: "absolute", wantFound: true},
		{name: "relative registered", key: "relative", wantFound: true},
		{name: "lab registered", key: "lab", wantFound: true},
		{name: "unknown strategy", key: "nonexistent", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := strategy.GetColor(tt.key)
			if tt.wantFound {
				if err != nil {
					t.Fatalf("GetColor(%q) unexpected error: %v", tt.key, err)
				}
				if s.Name() != tt.key {
					t.Fatalf("GetColor(%q).Name() = %q", tt.key, s.Name())
				}
			} else if err == nil {
				t.Fatalf("GetColor(%q) expected error, got strategy %q", tt.key, s.Name())
			}
		})
	}
}

func TestColorRegistryClassifiesExactPaletteEntries(t *testing.T) {
	for _, name := range []string{"absolute", "relative", "lab"} {
		s, err := strategy.GetColor(name)
		if err != nil {
			t.Fatalf("GetColor(%q): %v", name, err)
		}
		for i, c := range cimbar.Palette {
			got := s.Classify(c.R, c.G, c.B)
			if got != i {
				t.Errorf("%s.Classify(palette[%d]) = %d, want %d", name, i, got, i)
			}
		}
	}
}

func TestListColorReturnsAllRegistered(t *testing.T) {
	all := strategy.ListColor()
	if len(all) != 3 {
		t.Fatalf("ListColor() returned %d strategies, want 3", len(all))
	}
}

func TestQuadrantThresholdOptionsValidate(t *testing.T) {
	bad := strategy.QuadrantThresholdOptions{Offset: 0.6}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected validation error for offset >= 0.5")
	}
	good := strategy.QuadrantThresholdOptions{Offset: 0.28}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestHashFuzzyOptionsValidate(t *testing.T) {
	if err := (strategy.HashFuzzyOptions{MaxDrift: -1}).Validate(); err == nil {
		t.Fatal("expected validation error for negative drift")
	}
	if err := (strategy.HashFuzzyOptions{MaxDrift: 1}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
