package cimbar

import "errors"

// Sentinel errors returned at package boundaries throughout the decoder.
// Callers should compare with errors.Is; internal layers wrap these with
// fmt.Errorf("...: %w", ...) for context.
var (
	// ErrDivideByZero is returned by GF256 division when the divisor is 0.
	ErrDivideByZero = errors.New("gf256: divide by zero")

	// ErrUncorrectable is returned when the roots Reed-Solomon's Chien
	// search finds do not match its error-locator polynomial degree.
	ErrUncorrectable = errors.New("reedsolomon: uncorrectable")

	// ErrVerificationFailed is returned when a correction was applied but
	// the recomputed syndromes are still non-zero.
	ErrVerificationFailed = errors.New("reedsolomon: verification failed after correction")

	// ErrSingular is returned when the homography's linear system has no
	// solution within numerical tolerance.
	ErrSingular = errors.New("perspective: singular system")

	// ErrNoBarcode is returned when even the luma-threshold fallback finds
	// no bright pixels to crop around.
	ErrNoBarcode = errors.New("locator: no barcode found")

	// ErrBarcodeNotFound is the single-shot-decode surfacing of ErrNoBarcode.
	ErrBarcodeNotFound = errors.New("decode: barcode not found")

	// ErrFrameSizeMismatch is returned when no frame size and warp strategy
	// combination produces a plausible frame.
	ErrFrameSizeMismatch = errors.New("decode: no frame size matched")

	// ErrRSUncorrectable surfaces an uncorrectable RS block at the public
	// decode boundary.
	ErrRSUncorrectable = errors.New("decode: reed-solomon block uncorrectable")

	// ErrBadMagic is returned when an envelope's magic bytes don't match.
	ErrBadMagic = errors.New("envelope: bad magic")

	// ErrUnsupportedVersion is returned when an envelope's version byte is
	// not one this decoder understands.
	ErrUnsupportedVersion = errors.New("envelope: unsupported version")

	// ErrTooShort is returned when a buffer is shorter than the minimum
	// envelope length.
	ErrTooShort = errors.New("envelope: buffer too short")

	// ErrAuthFailed covers wrong passphrase, tampered ciphertext, and a
	// truncated tag; the AEAD does not distinguish these.
	ErrAuthFailed = errors.New("envelope: authentication failed")

	// ErrTruncated is returned when a payload's declared length exceeds
	// what's actually present.
	ErrTruncated = errors.New("payload: truncated")

	// ErrIncompleteChain is returned when the adjacency walk from frame 0
	// cannot be completed in totalFrames hops.
	ErrIncompleteChain = errors.New("scanner: incomplete adjacency chain")

	// ErrCycleDetected is returned when the adjacency walk revisits a
	// fingerprint before reaching totalFrames hops.
	ErrCycleDetected = errors.New("scanner: cycle detected in adjacency chain")
)
