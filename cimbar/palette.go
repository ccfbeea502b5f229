package cimbar

// RGB is a byte-per-channel color triplet.
type RGB struct {
	R, G, B uint8
}

// Palette is the fixed, ordered 8-color set a cell's color index selects
// into. The literal values are part of the wire format and must match
// between encoder and decoder.
var Palette = [8]RGB{
	{0, 200, 200},
	{220, 40, 40},
	{30, 100, 220},
	{255, 130, 20},
	{200, 40, 200},
	{40, 200, 60},
	{230, 220, 40},
	{100, 20, 200},
}

// Luma returns the ITU-R BT.601 luma of an RGB triplet, rounded to the
// nearest integer.
func Luma(r, g, b uint8) int {
	return int(0.299*float64(r)+0.587*float64(g)+0.114*float64(b) + 0.5)
}
