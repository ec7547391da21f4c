package ledger

import "github.com/ledgerhooks/hookexec/sto"

// ApplyContext is the hook core's window onto the ledger for one
// transaction application: the triggering transaction, read access to
// ledger objects and hook state, and a single-shot write boundary for
// commit. An ApplyContext is exclusively owned by the running hook for
// the duration of the invocation; reads observe a snapshot fixed when
// the context was created.
type ApplyContext interface {
	// Tx is the triggering transaction.
	Tx() *Tx

	// LedgerSeq is the sequence number of the open ledger.
	LedgerSeq() uint32

	// FeeBase is the minimum fee unit used to price emissions.
	FeeBase() int64

	// Read resolves a ledger object by keylet.
	Read(k Keylet) (*sto.Object, bool)

	// GetState reads one hook state entry under an owner account.
	GetState(owner AccountID, key Hash256) ([]byte, bool)

	// Update runs fn inside a single ledger-transaction boundary.
	// If fn returns an error every write staged through the
	// StateWriter is undone and the error is returned.
	Update(fn func(w StateWriter) error) error
}

// StateWriter is the write half of the apply boundary, only reachable
// inside ApplyContext.Update.
type StateWriter interface {
	// SetState writes one hook state entry, creating it if absent.
	SetState(owner AccountID, key Hash256, value []byte) TER

	// EraseState deletes one hook state entry.
	EraseState(owner AccountID, key Hash256) TER

	// Attach queues an emitted transaction for post-apply
	// processing.
	Attach(tx *Tx) TER
}
