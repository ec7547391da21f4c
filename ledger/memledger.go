package ledger

import (
	"fmt"
	"sync"

	"github.com/ledgerhooks/hookexec/sto"
)

// MemLedger is an in-memory ApplyContext used by tests and tooling. It
// gives a hook a fixed snapshot and a transactional Update boundary:
// writes land on a staged copy and are swapped in only when the update
// function succeeds.
type MemLedger struct {
	mu      sync.Mutex
	tx      *Tx
	seq     uint32
	feeBase int64

	objects map[Keylet]*sto.Object
	state   map[AccountID]map[Hash256][]byte
	emitted []*Tx

	// MaxStateSize caps state entry values, enforced at write time
	// the way the real ledger rejects oversize entries.
	MaxStateSize int

	// FailAttach makes the next Attach fail, for exercising the
	// commit rollback path.
	FailAttach bool
}

// NewMemLedger builds a ledger snapshot around a triggering
// transaction.
func NewMemLedger(tx *Tx) *MemLedger {
	return &MemLedger{
		tx:           tx,
		seq:          3,
		feeBase:      10,
		objects:      make(map[Keylet]*sto.Object),
		state:        make(map[AccountID]map[Hash256][]byte),
		MaxStateSize: 128,
	}
}

func (l *MemLedger) Tx() *Tx { return l.tx }

func (l *MemLedger) LedgerSeq() uint32 { return l.seq }

func (l *MemLedger) FeeBase() int64 { return l.feeBase }

// SetLedgerSeq fixes the snapshot's ledger sequence.
func (l *MemLedger) SetLedgerSeq(seq uint32) { l.seq = seq }

// SetFeeBase fixes the snapshot's fee base.
func (l *MemLedger) SetFeeBase(fee int64) { l.feeBase = fee }

// PutObject seeds a ledger object under a keylet.
func (l *MemLedger) PutObject(k Keylet, obj *sto.Object) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.objects[k] = obj
}

func (l *MemLedger) Read(k Keylet) (*sto.Object, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	obj, ok := l.objects[k]
	return obj, ok
}

// PutState seeds a state entry outside the apply boundary.
func (l *MemLedger) PutState(owner AccountID, key Hash256, value []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.state[owner]
	if m == nil {
		m = make(map[Hash256][]byte)
		l.state[owner] = m
	}
	m[key] = append([]byte(nil), value...)
}

func (l *MemLedger) GetState(owner AccountID, key Hash256) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.state[owner][key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// Emitted returns the transactions attached so far, in queue order.
func (l *MemLedger) Emitted() []*Tx {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Tx(nil), l.emitted...)
}

// Update applies fn against a staged copy of the mutable ledger state
// and swaps it in on success.
func (l *MemLedger) Update(fn func(w StateWriter) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := &memWriter{
		ledger:  l,
		state:   make(map[AccountID]map[Hash256][]byte, len(l.state)),
		emitted: append([]*Tx(nil), l.emitted...),
	}
	for owner, m := range l.state {
		cp := make(map[Hash256][]byte, len(m))
		for k, v := range m {
			cp[k] = v
		}
		w.state[owner] = cp
	}

	if err := fn(w); err != nil {
		return err
	}
	l.state = w.state
	l.emitted = w.emitted
	return nil
}

type memWriter struct {
	ledger  *MemLedger
	state   map[AccountID]map[Hash256][]byte
	emitted []*Tx
}

func (w *memWriter) SetState(owner AccountID, key Hash256, value []byte) TER {
	if len(value) > w.ledger.MaxStateSize {
		return TecOVERSIZE
	}
	m := w.state[owner]
	if m == nil {
		m = make(map[Hash256][]byte)
		w.state[owner] = m
	}
	m[key] = append([]byte(nil), value...)
	return TesSUCCESS
}

func (w *memWriter) EraseState(owner AccountID, key Hash256) TER {
	m, ok := w.state[owner]
	if !ok {
		return TesSUCCESS
	}
	delete(m, key)
	return TesSUCCESS
}

func (w *memWriter) Attach(tx *Tx) TER {
	if w.ledger.FailAttach {
		w.ledger.FailAttach = false
		return TecDIR_FULL
	}
	w.emitted = append(w.emitted, tx)
	return TesSUCCESS
}

// TERError wraps a non-success TER as an error for use inside Update.
type TERError struct{ TER TER }

func (e TERError) Error() string { return fmt.Sprintf("ledger: %s", e.TER) }
