package hook

import (
	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/ledger"
)

// readStateKey validates and copies a guest-supplied 32-byte state key.
func readStateKey(m Memory, ptr, n uint32) (ledger.Hash256, int64) {
	var key ledger.Hash256
	b, errc := memRead(m, ptr, n)
	if errc != 0 {
		return key, errc
	}
	if len(b) < len(key) {
		return key, hookapi.TooSmall
	}
	if len(b) > len(key) {
		return key, hookapi.TooBig
	}
	copy(key[:], b)
	return key, 0
}

// State reads a state entry of the hook's own account into the write
// region. Pending writes from this invocation shadow the ledger.
func (c *Context) State(m Memory, writePtr, writeLen, kreadPtr, kreadLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	key, errc := readStateKey(m, kreadPtr, kreadLen)
	if errc != 0 {
		return errc
	}
	v, ok := c.stateRead(key)
	if !ok {
		return hookapi.DoesntExist
	}
	if errc := writeCheck(m, writePtr, writeLen, len(v)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, v)
}

// StateForeign reads a state entry under an explicit owner account.
// Foreign state is read-only; reads of the hook's own account observe
// this invocation's pending writes.
func (c *Context) StateForeign(m Memory, writePtr, writeLen, kreadPtr, kreadLen, areadPtr, areadLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	key, errc := readStateKey(m, kreadPtr, kreadLen)
	if errc != 0 {
		return errc
	}
	ab, errc := memRead(m, areadPtr, areadLen)
	if errc != 0 {
		return errc
	}
	if len(ab) != len(ledger.AccountID{}) {
		return hookapi.InvalidAccount
	}
	var owner ledger.AccountID
	copy(owner[:], ab)

	if owner == c.account {
		return c.State(m, writePtr, writeLen, kreadPtr, kreadLen)
	}
	v, ok := c.applyCtx.GetState(owner, key)
	if !ok {
		return hookapi.DoesntExist
	}
	if errc := writeCheck(m, writePtr, writeLen, len(v)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, v)
}

// StateSet stages a write to the hook's own state. An empty value is a
// pending delete. Nothing reaches the ledger until the verdict is
// ACCEPT.
func (c *Context) StateSet(m Memory, readPtr, readLen, kreadPtr, kreadLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	key, errc := readStateKey(m, kreadPtr, kreadLen)
	if errc != 0 {
		return errc
	}
	v, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	if len(v) > c.maxStateSize {
		return hookapi.TooBig
	}
	c.changedState[key] = stateEntry{dirty: true, value: append([]byte(nil), v...)}
	return int64(len(v))
}
