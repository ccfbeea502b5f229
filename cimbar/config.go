package cimbar

// TuningConfig selects the cell-sampling strategies and their parameters.
// The two call sites the decoder supports - a GIF/image source where pixel
// colors are exact, and a live camera feed where exposure and focus vary -
// want different defaults, so construct one with NewCameraTuningConfig or
// NewSourceTuningConfig rather than the zero value.
type TuningConfig struct {
	// EnableWhiteBalance samples the two outer finder corners and applies a
	// Von Kries chromatic adaptation before color classification.
	EnableWhiteBalance bool

	// UseRelativeColor classifies color by channel-difference ratios instead
	// of absolute RGB distance, which tolerates a global color cast.
	UseRelativeColor bool

	// UseHashDetection selects the two-pass perceptual-hash symbol
	// classifier with drift tracking, instead of the single-pass quadrant
	// threshold classifier.
	UseHashDetection bool

	// SymbolThreshold, when non-nil, multiplies the measured center luma to
	// get the corner-dot threshold. When nil, the quadrant classifier uses
	// the additive formula 0.5*centerLuma + 20 instead.
	SymbolThreshold *float64

	// QuadrantOffset is the fractional cell inset of the four corner sample
	// points used by the quadrant threshold classifier.
	QuadrantOffset float64
}

// Validate resets any out-of-range field to its source-side default rather
// than failing outright: tuning knobs are best-effort, not wire-format.
func (c *TuningConfig) Validate() error {
	if c.QuadrantOffset <= 0 || c.QuadrantOffset >= 0.5 {
		c.QuadrantOffset = QuadrantOffsetDefault
	}
	if c.SymbolThreshold != nil && (*c.SymbolThreshold <= 0 || *c.SymbolThreshold > 2) {
		c.SymbolThreshold = nil
	}
	return nil
}

// NewCameraTuningConfig returns the defaults tuned for a live camera feed:
// varying exposure and focus make white balance, relative color, and
// hash-based symbol detection all worthwhile.
func NewCameraTuningConfig() *TuningConfig {
	t := 0.85
	return &TuningConfig{
		EnableWhiteBalance: true,
		UseRelativeColor:   true,
		UseHashDetection:   true,
		SymbolThreshold:    &t,
		QuadrantOffset:     QuadrantOffsetDefault,
	}
}

// NewSourceTuningConfig returns the defaults tuned for an offline GIF/image
// source, where pixel colors are exact and the additive threshold and
// absolute color distance are both sufficient and cheaper.
func NewSourceTuningConfig() *TuningConfig {
	return &TuningConfig{
		EnableWhiteBalance: false,
		UseRelativeColor:   false,
		UseHashDetection:   false,
		SymbolThreshold:    nil,
		QuadrantOffset:     QuadrantOffsetDefault,
	}
}
