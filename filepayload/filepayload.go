// Package filepayload implements FilePayload: the thin orchestration layer
// that turns an assembled multi-frame byte stream into a decrypted,
// named file, tying together RSFrame's output, the crypto envelope, and
// the wire-level length-prefix framing shared with LiveScanner.
package filepayload

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/cocosip/cimbar-decode/cryptoenvelope"
)

// DecodeResult is the final product of a successful scan: the original
// filename and its decrypted bytes.
type DecodeResult struct {
	Filename string
	FileData []byte
}

// Decode unpacks an assembled byte stream (every chained frame's bytes
// concatenated in order) into a decrypted file. It expects this wire
// layout: a big-endian length prefix, the
// envelope it bounds, and - once decrypted - a length-prefixed filename
// followed by the file body.
func Decode(stream []byte, passphrase string) (*DecodeResult, error) {
	if len(stream) < 4 {
		return nil, cimbar.ErrTruncated
	}
	payloadLength := binary.BigEndian.Uint32(stream[0:4])
	if uint64(payloadLength) > uint64(len(stream)-4) {
		return nil, cimbar.ErrTruncated
	}
	envelope := stream[4 : 4+payloadLength]

	plaintext, err := cryptoenvelope.Decrypt(envelope, passphrase)
	if err != nil {
		return nil, err
	}

	if len(plaintext) < 4 {
		return nil, cimbar.ErrTruncated
	}
	nameLen := binary.BigEndian.Uint32(plaintext[0:4])
	if uint64(nameLen) > uint64(len(plaintext)-4) {
		return nil, cimbar.ErrTruncated
	}

	filename := string(plaintext[4 : 4+nameLen])
	fileData := plaintext[4+nameLen:]

	return &DecodeResult{Filename: filename, FileData: fileData}, nil
}

// Encode is the reference (encoder-side) mirror of Decode, used by this
// package's own tests to synthesize a wire stream: it encrypts
// nameLenBE32|name|fileData under passphrase and frames the resulting
// envelope with its own length prefix.
func Encode(filename string, fileData []byte, passphrase string) ([]byte, error) {
	plaintext := make([]byte, 0, 4+len(filename)+len(fileData))
	var nameLenBuf [4]byte
	binary.BigEndian.PutUint32(nameLenBuf[:], uint32(len(filename)))
	plaintext = append(plaintext, nameLenBuf[:]...)
	plaintext = append(plaintext, filename...)
	plaintext = append(plaintext, fileData...)

	envelope, err := cryptoenvelope.Encrypt(plaintext, passphrase)
	if err != nil {
		return nil, fmt.Errorf("filepayload: encrypting: %w", err)
	}

	stream := make([]byte, 0, 4+len(envelope))
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(envelope)))
	stream = append(stream, lenBuf[:]...)
	stream = append(stream, envelope...)
	return stream, nil
}
