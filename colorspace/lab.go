package colorspace

import "github.com/lucasb-eyer/go-colorful"

// LabTriple converts an sRGB pixel to CIE LAB, returned as a Triple so it can
// be compared with Distance2 like the other strategies.
func LabTriple(r, g, b uint8) Triple {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	l, a, bb := c.Lab()
	return Triple{X: l, Y: a, Z: bb}
}
