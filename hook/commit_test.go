package hook

import (
	"bytes"
	"sort"
	"testing"

	"github.com/ledgerhooks/hookexec/ledger"
)

// orderedLedger records the order of state writes flowing through the
// commit boundary.
type orderedLedger struct {
	*ledger.MemLedger
	writes []ledger.Hash256
}

func (o *orderedLedger) Update(fn func(w ledger.StateWriter) error) error {
	return o.MemLedger.Update(func(w ledger.StateWriter) error {
		return fn(&orderedWriter{inner: w, ledger: o})
	})
}

type orderedWriter struct {
	inner  ledger.StateWriter
	ledger *orderedLedger
}

func (w *orderedWriter) SetState(owner ledger.AccountID, key ledger.Hash256, value []byte) ledger.TER {
	w.ledger.writes = append(w.ledger.writes, key)
	return w.inner.SetState(owner, key, value)
}

func (w *orderedWriter) EraseState(owner ledger.AccountID, key ledger.Hash256) ledger.TER {
	w.ledger.writes = append(w.ledger.writes, key)
	return w.inner.EraseState(owner, key)
}

func (w *orderedWriter) Attach(tx *ledger.Tx) ledger.TER {
	return w.inner.Attach(tx)
}

func TestCommitDeterministicKeyOrder(t *testing.T) {
	l := &orderedLedger{MemLedger: ledger.NewMemLedger(testTriggerTx())}
	c := newContext(l, testAccount, testHookHash, defaultRunnerConfig())

	// stage writes in scrambled order
	for _, b := range []byte{0x90, 0x10, 0xf0, 0x30} {
		var k ledger.Hash256
		k[0] = b
		c.changedState[k] = stateEntry{dirty: true, value: []byte{b}}
	}

	if ter := commit(c); !ter.Success() {
		t.Fatalf("commit: %v", ter)
	}
	if len(l.writes) != 4 {
		t.Fatalf("writes = %d", len(l.writes))
	}
	sorted := append([]ledger.Hash256(nil), l.writes...)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})
	for i := range sorted {
		if l.writes[i] != sorted[i] {
			t.Fatalf("write %d out of order: %x", i, l.writes[i][:1])
		}
	}
}

func TestCommitDeletesEmptyValues(t *testing.T) {
	l := ledger.NewMemLedger(testTriggerTx())
	var key ledger.Hash256
	key[0] = 0x42
	l.PutState(testAccount, key, []byte("old"))

	c := newContext(l, testAccount, testHookHash, defaultRunnerConfig())
	c.changedState[key] = stateEntry{dirty: true, value: nil}

	if ter := commit(c); !ter.Success() {
		t.Fatalf("commit: %v", ter)
	}
	if _, ok := l.GetState(testAccount, key); ok {
		t.Error("empty staged value must delete the entry")
	}
}

func TestCommitSkipsCleanReads(t *testing.T) {
	l := &orderedLedger{MemLedger: ledger.NewMemLedger(testTriggerTx())}
	var key ledger.Hash256
	key[0] = 0x55
	l.PutState(testAccount, key, []byte("cached"))

	c := newContext(l, testAccount, testHookHash, defaultRunnerConfig())
	if _, ok := c.stateRead(key); !ok {
		t.Fatal("seeded state missing")
	}
	if ter := commit(c); !ter.Success() {
		t.Fatalf("commit: %v", ter)
	}
	if len(l.writes) != 0 {
		t.Errorf("clean cache entries must not be written, got %d writes", len(l.writes))
	}
}

func TestCommitOversizePropagates(t *testing.T) {
	l := ledger.NewMemLedger(testTriggerTx())
	l.MaxStateSize = 4
	c := newContext(l, testAccount, testHookHash, defaultRunnerConfig())
	var key ledger.Hash256
	c.changedState[key] = stateEntry{dirty: true, value: []byte("too long for the ledger")}

	if ter := commit(c); ter != ledger.TecOVERSIZE {
		t.Errorf("commit TER = %v, want tecOVERSIZE", ter)
	}
}
