package hook

import (
	"bytes"
	"testing"

	"github.com/ledgerhooks/hookexec/ledger"
	"github.com/ledgerhooks/hookexec/sto"
)

// testMemory is a plain 64KiB buffer standing in for guest linear
// memory in context-level tests.
type testMemory struct {
	data []byte
}

func newTestMemory() *testMemory {
	return &testMemory{data: make([]byte, 65536)}
}

func (m *testMemory) Size() uint32 { return uint32(len(m.data)) }

func (m *testMemory) Read(off, n uint32) ([]byte, bool) {
	if uint64(off)+uint64(n) > uint64(len(m.data)) {
		return nil, false
	}
	return m.data[off : off+n], true
}

func (m *testMemory) Write(off uint32, v []byte) bool {
	if uint64(off)+uint64(len(v)) > uint64(len(m.data)) {
		return false
	}
	copy(m.data[off:], v)
	return true
}

func (m *testMemory) put(off uint32, v []byte) {
	copy(m.data[off:], v)
}

var (
	testAccount  = ledger.AccountID{0x11, 0x22, 0x33}
	testHookHash = ledger.Hash256{0xab, 0xcd}
)

func testTriggerTx() *ledger.Tx {
	obj := sto.NewObject()
	obj.SetUint(sto.FieldTransactionType, uint64(ledger.TxPayment))
	obj.SetBytes(sto.FieldAccount, bytes.Repeat([]byte{0x44}, 20))
	obj.SetBytes(sto.FieldDestination, testAccount[:])
	obj.SetUint(sto.FieldFee, 12)
	obj.SetUint(sto.FieldAmount, 5000)
	return ledger.NewTx(obj)
}

// newTestContext builds a context over a fresh in-memory ledger.
func newTestContext(t *testing.T) (*Context, *ledger.MemLedger) {
	t.Helper()
	l := ledger.NewMemLedger(testTriggerTx())
	c := newContext(l, testAccount, testHookHash, defaultRunnerConfig())
	return c, l
}

// catchUnwind runs fn, absorbing the VM unwind that terminal host
// calls raise.
func catchUnwind(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

// seedAccountObject registers a minimal account root under an
// arbitrary 32-byte key so slot_set can materialise it.
func seedAccountObject(l *ledger.MemLedger, key ledger.Hash256) *sto.Object {
	obj := sto.NewObject()
	obj.SetBytes(sto.FieldAccount, bytes.Repeat([]byte{0x55}, 20))
	obj.SetUint(sto.FieldSequence, 1)
	l.PutObject(ledger.Keylet{Type: ledger.KeyletAccount, Key: key}, obj)
	return obj
}
