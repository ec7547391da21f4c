package hook

import (
	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/sto"
)

// OtxnField serialises one field of the triggering transaction into
// the write region, canonical form, header included.
func (c *Context) OtxnField(m Memory, writePtr, writeLen, fieldID uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	enc, ok := encodeField(c.applyCtx.Tx().Obj(), sto.FieldID(fieldID))
	if !ok {
		return hookapi.InvalidField
	}
	if errc := writeCheck(m, writePtr, writeLen, len(enc)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, enc)
}

// OtxnFieldTxt writes a human-readable rendering of the field.
func (c *Context) OtxnFieldTxt(m Memory, writePtr, writeLen, fieldID uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	txt, ok := fieldText(c.applyCtx.Tx().Obj(), sto.FieldID(fieldID))
	if !ok {
		return hookapi.InvalidField
	}
	if errc := writeCheck(m, writePtr, writeLen, len(txt)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, []byte(txt))
}

// OtxnID writes the triggering transaction's 256-bit id.
func (c *Context) OtxnID(m Memory, writePtr, writeLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	id := c.applyCtx.Tx().ID()
	if errc := writeCheck(m, writePtr, writeLen, len(id)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, id[:])
}

// OtxnType returns the triggering transaction's type code.
func (c *Context) OtxnType() int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	return int64(c.applyCtx.Tx().Type())
}

// OtxnBurden returns the triggering transaction's burden, memoised on
// first use.
func (c *Context) OtxnBurden() int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	return c.lazyBurden()
}

// OtxnGeneration returns the triggering transaction's emission
// generation, memoised on first use.
func (c *Context) OtxnGeneration() int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	return int64(c.lazyGeneration())
}
