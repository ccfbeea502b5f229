// Package cryptoenvelope implements the wire-level envelope that wraps
// every CimBar payload: PBKDF2-HMAC-SHA256 key derivation feeding
// AES-256-GCM authenticated encryption, framed as
// magic(2) | version(1) | reserved(1) | salt(16) | iv(12) | ciphertext || tag(16).
package cryptoenvelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/cocosip/cimbar-decode/cimbar"
)

// deriveKey runs PBKDF2-HMAC-SHA256 over the UTF-8 passphrase bytes with the
// wire-fixed iteration count, producing a 32-byte AES-256 key.
func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, cimbar.PBKDF2Iterations, 32, sha256.New)
}

// Encrypt builds a complete envelope for plaintext under passphrase, drawing
// a fresh random salt and IV.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, cimbar.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("cryptoenvelope: generating salt: %w", err)
	}
	iv := make([]byte, cimbar.IVLen)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("cryptoenvelope: generating iv: %w", err)
	}

	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nil, iv, plaintext, nil)

	env := make([]byte, 0, 4+cimbar.SaltLen+cimbar.IVLen+len(sealed))
	env = append(env, cimbar.EnvelopeMagic[0], cimbar.EnvelopeMagic[1], cimbar.EnvelopeVersion, 0x00)
	env = append(env, salt...)
	env = append(env, iv...)
	env = append(env, sealed...)
	return env, nil
}

// Decrypt validates an envelope's framing, derives the key from passphrase,
// and authenticates and decrypts the ciphertext. The three crypto-layer
// failure modes the specification names - wrong passphrase, tampered
// ciphertext, truncated tag - all surface as cimbar.ErrAuthFailed, since
// AES-GCM itself does not distinguish them.
func Decrypt(envelope []byte, passphrase string) ([]byte, error) {
	if len(envelope) < cimbar.MinEnvelopeLen {
		return nil, cimbar.ErrTooShort
	}
	if envelope[0] != cimbar.EnvelopeMagic[0] || envelope[1] != cimbar.EnvelopeMagic[1] {
		return nil, cimbar.ErrBadMagic
	}
	if envelope[2] != cimbar.EnvelopeVersion {
		return nil, cimbar.ErrUnsupportedVersion
	}

	salt := envelope[4 : 4+cimbar.SaltLen]
	iv := envelope[4+cimbar.SaltLen : 4+cimbar.SaltLen+cimbar.IVLen]
	sealed := envelope[4+cimbar.SaltLen+cimbar.IVLen:]

	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, cimbar.ErrAuthFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoenvelope: building AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, cimbar.IVLen)
	if err != nil {
		return nil, fmt.Errorf("cryptoenvelope: building GCM mode: %w", err)
	}
	return gcm, nil
}
