// Package sto implements the canonical serialised-object format used
// for ledger objects and transactions: typed fields with compact
// headers, variable-length blobs, nested objects and arrays. It also
// provides the raw-byte traversal primitives backing util_subfield and
// util_subarray, and the inner-object templates consumed when
// validating guest-supplied data.
package sto

import (
	"errors"
	"fmt"
)

// FieldType is the wire type of a field.
type FieldType uint8

const (
	TypeUInt16  FieldType = 1
	TypeUInt32  FieldType = 2
	TypeUInt64  FieldType = 3
	TypeHash256 FieldType = 5
	TypeAmount  FieldType = 6
	TypeBlob    FieldType = 7
	TypeAccount FieldType = 8
	TypeObject  FieldType = 14
	TypeArray   FieldType = 15
)

// FieldID identifies a field: wire type in the high 16 bits, field code
// in the low 16.
type FieldID uint32

// MakeField builds a FieldID from a type and code. Code 0 is reserved.
func MakeField(t FieldType, code uint16) FieldID {
	return FieldID(uint32(t)<<16 | uint32(code))
}

func (f FieldID) Type() FieldType { return FieldType(f >> 16) }
func (f FieldID) Code() uint16    { return uint16(f) }

func (f FieldID) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d,%d)", f.Type(), f.Code())
}

// Errors surfaced by decoding and traversal. Hosts map ErrMalformed to
// PARSE_ERROR and ErrFieldNotFound to DOESNT_EXIST.
var (
	ErrMalformed     = errors.New("sto: malformed data")
	ErrFieldNotFound = errors.New("sto: field not found")
)

// header encoding: one byte when the field code fits a nibble, two
// bytes otherwise. All defined types fit the high nibble.
func appendHeader(dst []byte, f FieldID) []byte {
	t, c := f.Type(), f.Code()
	if c < 16 {
		return append(dst, byte(t)<<4|byte(c))
	}
	return append(dst, byte(t)<<4, byte(c))
}

// headerSize returns the encoded header length for a field id.
func headerSize(f FieldID) int {
	if f.Code() < 16 {
		return 1
	}
	return 2
}

// readHeader decodes a field header at data[off].
func readHeader(data []byte, off int) (FieldID, int, error) {
	if off >= len(data) {
		return 0, 0, ErrMalformed
	}
	b := data[off]
	t := FieldType(b >> 4)
	c := uint16(b & 0x0f)
	off++
	if t == 0 {
		return 0, 0, ErrMalformed
	}
	if c == 0 {
		if off >= len(data) {
			return 0, 0, ErrMalformed
		}
		c = uint16(data[off])
		off++
		if c < 16 {
			// would have fit the nibble; non-canonical
			return 0, 0, ErrMalformed
		}
	}
	return MakeField(t, c), off, nil
}

// Variable-length prefix: 1 byte up to 192, 2 bytes up to 12480,
// 3 bytes up to 918744.
const (
	vlMax1 = 192
	vlMax2 = 12480
	vlMax3 = 918744
)

func appendVL(dst []byte, n int) []byte {
	switch {
	case n <= vlMax1:
		return append(dst, byte(n))
	case n <= vlMax2:
		n -= vlMax1 + 1
		return append(dst, byte(193+n>>8), byte(n&0xff))
	case n <= vlMax3:
		n -= vlMax2 + 1
		return append(dst, byte(241+n>>16), byte(n>>8&0xff), byte(n&0xff))
	default:
		// callers bound blob sizes well below vlMax3
		panic("sto: blob too large for vl encoding")
	}
}

func readVL(data []byte, off int) (length, next int, err error) {
	if off >= len(data) {
		return 0, 0, ErrMalformed
	}
	b1 := int(data[off])
	off++
	switch {
	case b1 <= vlMax1:
		return b1, off, nil
	case b1 <= 240:
		if off >= len(data) {
			return 0, 0, ErrMalformed
		}
		return vlMax1 + 1 + (b1-193)<<8 + int(data[off]), off + 1, nil
	case b1 <= 254:
		if off+1 >= len(data) {
			return 0, 0, ErrMalformed
		}
		return vlMax2 + 1 + (b1-241)<<16 + int(data[off])<<8 + int(data[off+1]), off + 2, nil
	default:
		return 0, 0, ErrMalformed
	}
}

// fixedSize returns the payload size of fixed-width types, or -1.
func fixedSize(t FieldType) int {
	switch t {
	case TypeUInt16:
		return 2
	case TypeUInt32:
		return 4
	case TypeUInt64, TypeAmount:
		return 8
	case TypeHash256:
		return 32
	}
	return -1
}
