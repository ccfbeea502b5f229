// Package reedsolomon implements systematic RS(255, 255-eccLen) encode and
// decode over GF(256): generator-polynomial division for encode, and
// syndrome -> Berlekamp-Massey -> Chien search -> Forney for decode.
//
// The decoder is deliberately written out step by step (rather than as one
// dense pass) because four specific bug classes are easy to introduce by
// collapsing it: truncating the Chien search at len(msg) instead of the
// full 255 field elements, using msg.length-1-i instead of (255-i)%255 for
// the reverse error position, feeding Omega the syndromes in the wrong
// order, and dropping the leading X factor from the Forney numerator. Each
// step below names the invariant it's responsible for so a future change
// can't reintroduce one of these silently.
package reedsolomon

import (
	"fmt"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/gf256"
)

// DefaultECCLen is the parity length used by the CimBar wire format.
const DefaultECCLen = cimbar.ECCBytes

// Codec encodes and decodes RS(255, 255-eccLen) codewords for a fixed
// parity length, precomputing the generator polynomial once.
type Codec struct {
	eccLen int
	gen    []byte
}

// New returns a Codec for the given parity length. eccLen must be in
// [2, 254] so that both a codeword and its correctable error count are
// non-degenerate.
func New(eccLen int) *Codec {
	return &Codec{eccLen: eccLen, gen: generator(eccLen)}
}

// ECCLen returns the codec's configured parity length.
func (c *Codec) ECCLen() int { return c.eccLen }

// generator computes g(x) = prod_{i=0}^{eccLen-1} (x - alpha^i), returned as
// eccLen coefficients from x^(eccLen-1) down to x^0; the always-1 leading
// x^eccLen term is implicit and not stored.
func generator(eccLen int) []byte {
	g := make([]byte, eccLen)
	g[eccLen-1] = 1
	root := uint8(1)
	for i := 0; i < eccLen; i++ {
		for j := 0; j < eccLen; j++ {
			g[j] = gf256.Mul(g[j], root)
			if j+1 < eccLen {
				g[j] ^= g[j+1]
			}
		}
		root = gf256.Mul(root, 2)
	}
	return g
}

// Encode returns data followed by c.eccLen parity bytes, computed as the
// remainder of dividing data (padded with eccLen zero bytes) by the
// generator polynomial.
func (c *Codec) Encode(data []byte) []byte {
	parity := make([]byte, c.eccLen)
	for _, b := range data {
		factor := b ^ parity[0]
		copy(parity, parity[1:])
		parity[c.eccLen-1] = 0
		if factor == 0 {
			continue
		}
		for i := 0; i < c.eccLen; i++ {
			parity[i] ^= gf256.Mul(c.gen[i], factor)
		}
	}
	out := make([]byte, len(data)+c.eccLen)
	copy(out, data)
	copy(out[len(data):], parity)
	return out
}

// syndromes evaluates msg (high-degree-first, as received) at alpha^0
// .. alpha^(eccLen-1).
func (c *Codec) syndromes(msg []byte) []uint8 {
	s := make([]uint8, c.eccLen)
	for i := 0; i < c.eccLen; i++ {
		x := gf256.Exp(i)
		var y uint8
		for _, b := range msg {
			y = gf256.Mul(y, x) ^ b
		}
		s[i] = y
	}
	return s
}

func allZero(s []uint8) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// berlekampMassey returns the error-locator polynomial lambda, ascending
// order (lambda[0] == 1), and its degree L.
func berlekampMassey(s []uint8) (lambda []uint8, l int) {
	n := len(s)
	c := make([]uint8, n+1)
	b := make([]uint8, n+1)
	c[0], b[0] = 1, 1
	l = 0
	m := 1
	bb := uint8(1)

	for i := 0; i < n; i++ {
		delta := s[i]
		for j := 1; j <= l; j++ {
			delta ^= gf256.Mul(c[j], s[i-j])
		}
		if delta == 0 {
			m++
			continue
		}
		t := make([]uint8, len(c))
		copy(t, c)
		coef, _ := gf256.Div(delta, bb)
		for j := 0; j < len(b); j++ {
			if j+m < len(c) {
				c[j+m] ^= gf256.Mul(coef, b[j])
			}
		}
		if 2*l <= i {
			l = i + 1 - l
			b = t
			bb = delta
			m = 1
		} else {
			m++
		}
	}
	return c[:l+1], l
}

// evalAscending evaluates an ascending-order (coeffs[0] is the constant
// term) polynomial at x.
func evalAscending(coeffs []uint8, x uint8) uint8 {
	var sum uint8
	xj := uint8(1)
	for _, cf := range coeffs {
		sum ^= gf256.Mul(cf, xj)
		xj = gf256.Mul(xj, x)
	}
	return sum
}

// errorLocator is one root the Chien search found: pos is the reverse
// position used by Forney (X = alpha^pos); byteIdx is the index into msg
// that root corresponds to.
type errorLocator struct {
	pos     int
	byteIdx int
}

// chienSearch evaluates lambda at every one of the 255 non-zero field
// elements - not just len(msg) of them, which is the first of the four bug
// classes this package guards against - and returns the roots that land
// inside msg.
func chienSearch(lambda []uint8, msgLen int) []errorLocator {
	var locs []errorLocator
	for i := 0; i < 255; i++ {
		if evalAscending(lambda, gf256.Exp(i)) != 0 {
			continue
		}
		pos := (255 - i) % 255
		if pos >= msgLen {
			continue
		}
		locs = append(locs, errorLocator{pos: pos, byteIdx: msgLen - 1 - pos})
	}
	return locs
}

// forneyMagnitudes computes the error magnitude at each located position.
// omega is built as the truncated convolution of the syndromes (in
// ascending order - the third bug class this package guards against is
// feeding them in descending order) with lambda, kept to degree < eccLen.
func (c *Codec) forneyMagnitudes(s, lambda []uint8, locs []errorLocator) []uint8 {
	omega := make([]uint8, c.eccLen)
	for i := 0; i < len(s) && i < c.eccLen; i++ {
		if s[i] == 0 {
			continue
		}
		for j := 0; j < len(lambda) && i+j < c.eccLen; j++ {
			omega[i+j] ^= gf256.Mul(s[i], lambda[j])
		}
	}

	// Formal derivative over GF(2): lambda[k]*x^k becomes lambda[k]*x^(k-1)
	// for odd k, and even-k terms vanish, so even slots of lambdaPrime hold
	// the odd coefficients and odd slots stay zero.
	lambdaPrime := make([]uint8, len(lambda)-1)
	for k := 1; k < len(lambda); k += 2 {
		lambdaPrime[k-1] = lambda[k]
	}

	mags := make([]uint8, len(locs))
	for i, loc := range locs {
		x := gf256.Exp(loc.pos)
		xinv := gf256.Inv(x)
		num := gf256.Mul(x, evalAscending(omega, xinv)) // leading X factor: the fourth bug class
		den := evalAscending(lambdaPrime, xinv)
		mag, _ := gf256.Div(num, den)
		mags[i] = mag
	}
	return mags
}

// Decode recovers the data portion of a received codeword, correcting up to
// eccLen/2 byte errors. Returns cimbar.ErrUncorrectable if the error count
// implied by the locator polynomial doesn't match the roots actually found,
// and cimbar.ErrVerificationFailed if a correction was applied but the
// resyndromed codeword is still non-zero.
func (c *Codec) Decode(msg []byte) ([]byte, error) {
	if len(msg) < c.eccLen {
		return nil, fmt.Errorf("reedsolomon: codeword length %d too short for eccLen %d", len(msg), c.eccLen)
	}
	dataLen := len(msg) - c.eccLen

	s := c.syndromes(msg)
	if allZero(s) {
		out := make([]byte, dataLen)
		copy(out, msg[:dataLen])
		return out, nil
	}

	lambda, l := berlekampMassey(s)
	if l == 0 {
		out := make([]byte, dataLen)
		copy(out, msg[:dataLen])
		return out, nil
	}

	locs := chienSearch(lambda, len(msg))
	if len(locs) != l {
		return nil, cimbar.ErrUncorrectable
	}

	mags := c.forneyMagnitudes(s, lambda, locs)

	corrected := make([]byte, len(msg))
	copy(corrected, msg)
	for i, loc := range locs {
		corrected[loc.byteIdx] ^= mags[i]
	}

	if !allZero(c.syndromes(corrected)) {
		return nil, cimbar.ErrVerificationFailed
	}

	out := make([]byte, dataLen)
	copy(out, corrected[:dataLen])
	return out, nil
}
