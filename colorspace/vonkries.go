package colorspace

// mat3 is a row-major 3x3 matrix.
type mat3 [3][3]float64

// vonKries is the standard cone-response matrix used for chromatic
// adaptation.
var vonKries = mat3{
	{0.4002400, 0.7076000, -0.0808100},
	{-0.2263000, 1.1653200, 0.0457000},
	{0, 0, 0.9182200},
}

var vonKriesInv = invert3(vonKries)

func (m mat3) apply(r, g, b float64) (x, y, z float64) {
	return m[0][0]*r + m[0][1]*g + m[0][2]*b,
		m[1][0]*r + m[1][1]*g + m[1][2]*b,
		m[2][0]*r + m[2][1]*g + m[2][2]*b
}

func invert3(m mat3) mat3 {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if det == 0 {
		return mat3{}
	}
	invDet := 1 / det

	return mat3{
		{(e*i - f*h) * invDet, (c*h - b*i) * invDet, (b*f - c*e) * invDet},
		{(f*g - d*i) * invDet, (a*i - c*g) * invDet, (c*d - a*f) * invDet},
		{(d*h - e*g) * invDet, (b*g - a*h) * invDet, (a*e - b*d) * invDet},
	}
}

// AdaptationMatrix returns the Von Kries adaptation matrix that maps colors
// observed under an illuminant appearing as observedWhite toward how they'd
// appear under a canonical (255,255,255) white point:
//
//	M_adapt = Mvk^-1 * diag(cone(255,255,255) / cone(observedWhite)) * Mvk
func AdaptationMatrix(observedWhite [3]float64) mat3 {
	refL, refM, refS := vonKries.apply(255, 255, 255)
	wL, wM, wS := vonKries.apply(observedWhite[0], observedWhite[1], observedWhite[2])

	scale := mat3{
		{safeDiv(refL, wL), 0, 0},
		{0, safeDiv(refM, wM), 0},
		{0, 0, safeDiv(refS, wS)},
	}

	return matMul(matMul(vonKriesInv, scale), vonKries)
}

// ApplyPixel chromatically adapts one pixel through m, clamping to [0,255].
func (m mat3) ApplyPixel(r, g, b uint8) (uint8, uint8, uint8) {
	x, y, z := m.apply(float64(r), float64(g), float64(b))
	return clampByte(x), clampByte(y), clampByte(z)
}

func matMul(a, b mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	return a / b
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
