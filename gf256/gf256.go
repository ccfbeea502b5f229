// Package gf256 implements GF(2^8) arithmetic over the primitive polynomial
// 0x11D with generator alpha=2: exponent/log tables precomputed once at
// process init and shared read-only thereafter, the same table-driven shape
// the rest of this codebase uses for its own field/context tables.
package gf256

import "github.com/cocosip/cimbar-decode/cimbar"

const primPoly = 0x11D

// exp[i] = alpha^i for i in [0, 509]; doubled past 255 so callers can index
// exp[a+b] directly without a modulo on every multiply.
var exp [510]uint8

// log[v] = i such that alpha^i = v, for v in [1, 255]. log[0] is unused.
var log [256]int

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		exp[i] = uint8(x)
		log[x] = i
		x <<= 1
		if x&0x100 != 0 {
			x ^= primPoly
		}
	}
	for i := 255; i < 510; i++ {
		exp[i] = exp[i-255]
	}
}

// Exp returns alpha^i. i may range over [0, 509].
func Exp(i int) uint8 { return exp[i] }

// Log returns the discrete log base alpha of a non-zero field element.
func Log(v uint8) int { return log[v] }

// Mul multiplies two field elements.
func Mul(a, b uint8) uint8 {
	if a == 0 || b == 0 {
		return 0
	}
	return exp[log[a]+log[b]]
}

// Div divides a by b. Returns ErrDivideByZero if b is 0.
func Div(a, b uint8) (uint8, error) {
	if b == 0 {
		return 0, cimbar.ErrDivideByZero
	}
	if a == 0 {
		return 0, nil
	}
	return exp[(log[a]+255-log[b])%255], nil
}

// Pow raises a field element to a non-negative integer power.
func Pow(a uint8, power int) uint8 {
	if a == 0 {
		if power == 0 {
			return 1
		}
		return 0
	}
	e := (log[a] * power) % 255
	if e < 0 {
		e += 255
	}
	return exp[e]
}

// Inv returns the multiplicative inverse of a non-zero field element.
func Inv(a uint8) uint8 {
	if a == 0 {
		return 0
	}
	return exp[255-log[a]]
}
