package hook

import (
	"encoding/hex"
	"unicode/utf8"

	"github.com/ledgerhooks/hookexec/hookapi"
)

// Trace writes the read region to the out-of-band trace channel,
// hex-encoded when asHex is non-zero. Never alters ledger state.
func (c *Context) Trace(m Memory, readPtr, readLen, asHex uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	b, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	var msg string
	if asHex != 0 || !utf8.Valid(b) {
		msg = hex.EncodeToString(b)
	} else {
		msg = string(b)
	}
	c.log.Info().Str("hook", c.hookHash.String()).Msg(msg)
	return int64(readLen)
}

// TraceNum writes a labelled number to the trace channel.
func (c *Context) TraceNum(m Memory, readPtr, readLen uint32, number int64) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	b, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	c.log.Info().Str("hook", c.hookHash.String()).Int64("num", number).Msg(string(b))
	return int64(readLen)
}

// TraceSlot dumps a slot's serialised view to the trace channel and
// returns its length.
func (c *Context) TraceSlot(slot uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	e, ok := c.slots[int(slot)]
	if !ok {
		return hookapi.DoesntExist
	}
	c.log.Info().
		Str("hook", c.hookHash.String()).
		Uint32("slot", slot).
		Str("view", hex.EncodeToString(e.view)).
		Msg("slot")
	return int64(len(e.view))
}
