package ledger

import (
	"fmt"

	"github.com/ledgerhooks/hookexec/sto"
)

// txnIDPrefix namespaces transaction id hashing.
var txnIDPrefix = []byte("TXN\x00")

// Tx is a parsed transaction: a serialised object with the canonical
// encoding and id cached. Immutable after construction; to modify,
// work on the underlying object copy and rewrap with NewTx.
type Tx struct {
	obj *sto.Object
	raw []byte
	id  Hash256
}

// NewTx wraps a transaction object, canonicalising its encoding.
func NewTx(obj *sto.Object) *Tx {
	raw := obj.Encode()
	return &Tx{obj: obj, raw: raw, id: SHA512Half(txnIDPrefix, raw)}
}

// Obj exposes the parsed fields.
func (t *Tx) Obj() *sto.Object { return t.obj }

// Bytes returns the canonical encoding.
func (t *Tx) Bytes() []byte { return t.raw }

// ID is the transaction's 256-bit identifier.
func (t *Tx) ID() Hash256 { return t.id }

// Type returns the transaction type field.
func (t *Tx) Type() TxType {
	v, _ := t.obj.Uint(sto.FieldTransactionType)
	return TxType(v)
}

// Account returns the sending account.
func (t *Tx) Account() (AccountID, bool) {
	var acc AccountID
	b, ok := t.obj.Bytes(sto.FieldAccount)
	if !ok || len(b) != len(acc) {
		return acc, false
	}
	copy(acc[:], b)
	return acc, true
}

// Fee returns the fee in drops.
func (t *Tx) Fee() (int64, bool) {
	v, ok := t.obj.Uint(sto.FieldFee)
	if !ok || v > 1<<62 {
		return 0, false
	}
	return int64(v), true
}

// Generation returns the emission generation carried by the
// transaction's EmitDetails, or 0 when it is not an emitted
// transaction.
func (t *Tx) Generation() uint32 {
	ed, ok := t.obj.Object(sto.FieldEmitDetails)
	if !ok {
		return 0
	}
	g, _ := ed.Uint(sto.FieldEmitGeneration)
	return uint32(g)
}

// Burden returns the emission burden carried by the transaction's
// EmitDetails, or 1 for an ordinary transaction.
func (t *Tx) Burden() int64 {
	ed, ok := t.obj.Object(sto.FieldEmitDetails)
	if !ok {
		return 1
	}
	b, _ := ed.Uint(sto.FieldEmitBurden)
	if b == 0 || b > 1<<62 {
		return 1
	}
	return int64(b)
}

// TxFactory parses wire bytes into transactions. Signing and outward
// wire encoding live behind this boundary.
type TxFactory interface {
	FromBytes(data []byte) (*Tx, error)
}

// StdTxFactory parses with the sto codec and enforces the baseline
// shape every transaction shares.
type StdTxFactory struct{}

// FromBytes parses and validates a serialised transaction.
func (StdTxFactory) FromBytes(data []byte) (*Tx, error) {
	obj, err := sto.Decode(data)
	if err != nil {
		return nil, err
	}
	tt, ok := obj.Uint(sto.FieldTransactionType)
	if !ok {
		return nil, fmt.Errorf("tx: missing TransactionType")
	}
	if !TxType(tt).Known() {
		return nil, fmt.Errorf("tx: unknown TransactionType %d", tt)
	}
	if _, ok := obj.Bytes(sto.FieldAccount); !ok {
		return nil, fmt.Errorf("tx: missing Account")
	}
	if err := sto.ValidateInner(obj); err != nil {
		return nil, fmt.Errorf("tx: %w", err)
	}
	return NewTx(obj), nil
}
