package cryptoenvelope

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cocosip/cimbar-decode/cimbar"
)

func TestEncryptDecryptIdentity(t *testing.T) {
	cases := [][]byte{
		{},
		[]byte("hello"),
		bytes.Repeat([]byte{0xAB}, 4096),
	}
	for _, pt := range cases {
		env, err := Encrypt(pt, "correct horse battery staple")
		if err != nil {
			t.Fatalf("encrypt error: %v", err)
		}
		got, err := Decrypt(env, "correct horse battery staple")
		if err != nil {
			t.Fatalf("decrypt error: %v", err)
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("round trip mismatch for length %d", len(pt))
		}
	}
}

func TestDecryptWrongPassphraseFails(t *testing.T) {
	env, err := Encrypt([]byte("secret file contents"), "correct-password")
	if err != nil {
		t.Fatalf("encrypt error: %v", err)
	}
	got, err := Decrypt(env, "wrong-password")
	if err == nil {
		t.Fatal("decrypt with wrong passphrase should fail")
	}
	if !errors.Is(err, cimbar.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if got != nil {
		t.Fatal("decrypt must not return bytes on failure")
	}
}

func TestDecryptRejectsBadMagic(t *testing.T) {
	env, _ := Encrypt([]byte("x"), "pw")
	env[0] = 0x00
	if _, err := Decrypt(env, "pw"); !errors.Is(err, cimbar.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestDecryptRejectsBadVersion(t *testing.T) {
	env, _ := Encrypt([]byte("x"), "pw")
	env[2] = 0x02
	if _, err := Decrypt(env, "pw"); !errors.Is(err, cimbar.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecryptRejectsTooShort(t *testing.T) {
	if _, err := Decrypt(make([]byte, 10), "pw"); !errors.Is(err, cimbar.ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	env, _ := Encrypt([]byte("tamper me"), "pw")
	env[len(env)-1] ^= 0xFF
	if _, err := Decrypt(env, "pw"); !errors.Is(err, cimbar.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestPassphraseStrengthMonotonicInLength(t *testing.T) {
	short := PassphraseStrength("ab")
	long := PassphraseStrength("abcdefghijklmnop")
	if long <= short {
		t.Fatalf("longer passphrase should score higher: %d vs %d", long, short)
	}
}
