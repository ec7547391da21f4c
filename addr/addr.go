// Package addr converts between raw 20-byte account ids and their
// base58-checked string form, and derives account ids from signing
// public keys.
package addr

import (
	"crypto/sha256"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ripemd160"
)

// IDSize is the raw account id length.
const IDSize = 20

// version is the address version byte carried under the checksum.
const version = 0x00

var (
	ErrBadLength   = errors.New("addr: account id must be 20 bytes")
	ErrBadChecksum = errors.New("addr: bad address checksum")
)

// Encode renders a raw account id as a base58-checked address.
func Encode(id []byte) (string, error) {
	if len(id) != IDSize {
		return "", ErrBadLength
	}
	return base58.CheckEncode(id, version), nil
}

// Decode parses a base58-checked address back into the raw account id.
func Decode(s string) ([IDSize]byte, error) {
	var id [IDSize]byte
	payload, ver, err := base58.CheckDecode(s)
	if err != nil {
		return id, ErrBadChecksum
	}
	if ver != version || len(payload) != IDSize {
		return id, ErrBadLength
	}
	copy(id[:], payload)
	return id, nil
}

// FromPubKey derives the account id of a signing public key:
// RIPEMD160 over SHA-256 of the key bytes.
func FromPubKey(pub []byte) [IDSize]byte {
	sha := sha256.Sum256(pub)
	h := ripemd160.New()
	h.Write(sha[:])
	var id [IDSize]byte
	copy(id[:], h.Sum(nil))
	return id
}
