package hook

import (
	"crypto/ed25519"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/ledgerhooks/hookexec/addr"
	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/ledger"
	"github.com/ledgerhooks/hookexec/sto"
)

// HookAccount writes the 20-byte id of the account the hook runs on.
func (c *Context) HookAccount(m Memory, writePtr, writeLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if errc := writeCheck(m, writePtr, writeLen, len(c.account)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, c.account[:])
}

// HookHash writes the 256-bit hash of the running hook program.
func (c *Context) HookHash(m Memory, writePtr, writeLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if errc := writeCheck(m, writePtr, writeLen, len(c.hookHash)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, c.hookHash[:])
}

// FeeBase returns the snapshot's minimum fee unit.
func (c *Context) FeeBase() int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	return c.lazyFeeBase()
}

// LedgerSeq returns the open ledger's sequence number.
func (c *Context) LedgerSeq() int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	return int64(c.applyCtx.LedgerSeq())
}

// UtilRaddr converts a raw 20-byte account id into its checked address
// form.
func (c *Context) UtilRaddr(m Memory, writePtr, writeLen, readPtr, readLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	b, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	s, err := addr.Encode(b)
	if err != nil {
		return hookapi.InvalidAccount
	}
	if errc := writeCheck(m, writePtr, writeLen, len(s)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, []byte(s))
}

// UtilAccid converts a checked address back into the raw 20-byte id.
func (c *Context) UtilAccid(m Memory, writePtr, writeLen, readPtr, readLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if readLen > 64 {
		return hookapi.TooBig
	}
	b, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	id, err := addr.Decode(string(b))
	if err != nil {
		return hookapi.InvalidAccount
	}
	if errc := writeCheck(m, writePtr, writeLen, len(id)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, id[:])
}

// UtilVerify checks a signature over the data region. Keys are 33
// bytes: 0xED prefixing an ed25519 key, 0x02/0x03 a compressed
// secp256k1 key (verified over the SHA-512-half digest). Returns 1 on
// valid, 0 on invalid.
func (c *Context) UtilVerify(m Memory, dreadPtr, dreadLen, sreadPtr, sreadLen, kreadPtr, kreadLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	data, errc := memRead(m, dreadPtr, dreadLen)
	if errc != 0 {
		return errc
	}
	sig, errc := memRead(m, sreadPtr, sreadLen)
	if errc != 0 {
		return errc
	}
	key, errc := memRead(m, kreadPtr, kreadLen)
	if errc != 0 {
		return errc
	}
	if len(key) != 33 {
		return hookapi.InvalidArgument
	}
	switch key[0] {
	case 0xed:
		if len(sig) != ed25519.SignatureSize {
			return 0
		}
		if ed25519.Verify(ed25519.PublicKey(key[1:]), data, sig) {
			return 1
		}
		return 0
	case 0x02, 0x03:
		pub, err := secp256k1.ParsePubKey(key)
		if err != nil {
			return hookapi.InvalidArgument
		}
		parsed, err := secpecdsa.ParseDERSignature(sig)
		if err != nil {
			return 0
		}
		digest := ledger.SHA512Half(data)
		if parsed.Verify(digest[:], pub) {
			return 1
		}
		return 0
	default:
		return hookapi.InvalidArgument
	}
}

// UtilVerifySTO reports whether the read region is a well-formed
// serialised object whose inner objects match their registered
// templates. Returns 1 or 0.
func (c *Context) UtilVerifySTO(m Memory, treadPtr, treadLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	b, errc := memRead(m, treadPtr, treadLen)
	if errc != 0 {
		return errc
	}
	if sto.VerifyBlob(b) {
		return 1
	}
	return 0
}

// UtilSha512h writes the first 256 bits of SHA-512 over the read
// region.
func (c *Context) UtilSha512h(m Memory, writePtr, writeLen, readPtr, readLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	b, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	if errc := writeCheck(m, writePtr, writeLen, 32); errc != 0 {
		return errc
	}
	h := ledger.SHA512Half(b)
	return memWrite(m, writePtr, h[:])
}

// subResult packs a located region into the int64 channel: absolute
// guest offset in the high 32 bits, length in the low 32.
func subResult(base uint32, off, length int) int64 {
	return int64(uint64(base)+uint64(off))<<32 | int64(uint32(length))
}

// UtilSubfield locates field fieldID inside the serialised object in
// the read region and returns its payload's guest offset and length.
func (c *Context) UtilSubfield(m Memory, readPtr, readLen, fieldID uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	b, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	off, n, err := sto.SubField(b, sto.FieldID(fieldID))
	if err != nil {
		if errors.Is(err, sto.ErrFieldNotFound) {
			return hookapi.DoesntExist
		}
		return hookapi.ParseError
	}
	return subResult(readPtr, off, n)
}

// UtilSubarray locates element arrayID of the serialised array in the
// read region and returns its guest offset and length.
func (c *Context) UtilSubarray(m Memory, readPtr, readLen, arrayID uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	b, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	off, n, err := sto.SubArray(b, int(arrayID))
	if err != nil {
		if errors.Is(err, sto.ErrFieldNotFound) {
			return hookapi.DoesntExist
		}
		return hookapi.ParseError
	}
	return subResult(readPtr, off, n)
}
