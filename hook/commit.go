package hook

import (
	"bytes"
	"sort"

	"github.com/ledgerhooks/hookexec/ledger"
)

// commit flushes an accepted invocation's staged effects inside one
// apply boundary: dirty state entries in deterministic key order, then
// the emission queue. Any failure aborts the whole batch and surfaces
// as a non-success TER.
func commit(c *Context) ledger.TER {
	keys := make([]ledger.Hash256, 0, len(c.changedState))
	for k, e := range c.changedState {
		if e.dirty {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	err := c.applyCtx.Update(func(w ledger.StateWriter) error {
		for _, k := range keys {
			e := c.changedState[k]
			var ter ledger.TER
			if len(e.value) == 0 {
				ter = w.EraseState(c.account, k)
			} else {
				ter = w.SetState(c.account, k, e.value)
			}
			if !ter.Success() {
				return ledger.TERError{TER: ter}
			}
		}
		for _, tx := range c.emitted {
			if ter := w.Attach(tx); !ter.Success() {
				return ledger.TERError{TER: ter}
			}
		}
		return nil
	})
	if err == nil {
		return ledger.TesSUCCESS
	}
	if te, ok := err.(ledger.TERError); ok {
		return te.TER
	}
	return ledger.TecINTERNAL
}

// dirtyState snapshots the committed entries for the result summary.
// Deletes carry a nil value.
func dirtyState(c *Context) map[ledger.Hash256][]byte {
	out := make(map[ledger.Hash256][]byte)
	for k, e := range c.changedState {
		if !e.dirty {
			continue
		}
		if len(e.value) == 0 {
			out[k] = nil
		} else {
			out[k] = append([]byte(nil), e.value...)
		}
	}
	return out
}
