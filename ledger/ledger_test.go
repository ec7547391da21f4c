package ledger

import (
	"bytes"
	"testing"

	"github.com/ledgerhooks/hookexec/sto"
)

func paymentTx(t *testing.T) *Tx {
	t.Helper()
	obj := sto.NewObject()
	obj.SetUint(sto.FieldTransactionType, uint64(TxPayment))
	obj.SetBytes(sto.FieldAccount, bytes.Repeat([]byte{0x11}, 20))
	obj.SetBytes(sto.FieldDestination, bytes.Repeat([]byte{0x22}, 20))
	obj.SetUint(sto.FieldFee, 12)
	obj.SetUint(sto.FieldAmount, 5000)
	return NewTx(obj)
}

func TestKeyletDeterminism(t *testing.T) {
	var acc AccountID
	acc[0] = 1
	a := AccountKeylet(acc)
	b := AccountKeylet(acc)
	if a != b {
		t.Error("keylet derivation must be deterministic")
	}
	if a == HookKeylet(acc) || a == OwnerDirKeylet(acc) {
		t.Error("keylet spaces must not collide for one account")
	}
	var key Hash256
	key[31] = 9
	if HookStateKeylet(acc, key) == HookStateKeylet(acc, Hash256{}) {
		t.Error("distinct state keys must produce distinct keylets")
	}
}

func TestCanHook(t *testing.T) {
	tests := []struct {
		name   string
		tt     TxType
		hookOn uint64
		want   bool
	}{
		{"payment, all enabled", TxPayment, 0, true},
		{"payment suppressed", TxPayment, 1 << 0, false},
		{"trustset, payment suppressed", TxTrustSet, 1 << 0, true},
		{"hookset never fires", TxHookSet, 0, false},
		{"unknown type never fires", TxType(60), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanHook(tt.tt, tt.hookOn); got != tt.want {
				t.Errorf("CanHook(%v, %#x) = %v, want %v", tt.tt, tt.hookOn, got, tt.want)
			}
		})
	}
}

func TestHookReturnCode(t *testing.T) {
	if got := HookReturnCode(TesSUCCESS); got != 0 {
		t.Errorf("tesSUCCESS -> %d, want 0", got)
	}
	if got := HookReturnCode(TecHOOK_REJECTED); got != -(int64(153) << 16) {
		t.Errorf("tecHOOK_REJECTED -> %d", got)
	}
}

func TestTxIdentityAndFields(t *testing.T) {
	tx := paymentTx(t)
	if tx.Type() != TxPayment {
		t.Errorf("Type = %v", tx.Type())
	}
	acc, ok := tx.Account()
	if !ok || acc[0] != 0x11 {
		t.Errorf("Account = %x, %v", acc, ok)
	}
	if fee, ok := tx.Fee(); !ok || fee != 12 {
		t.Errorf("Fee = %d, %v", fee, ok)
	}
	if tx.Burden() != 1 || tx.Generation() != 0 {
		t.Error("ordinary tx must report burden 1, generation 0")
	}

	// identical bytes, identical id
	tx2, err := (StdTxFactory{}).FromBytes(tx.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if tx2.ID() != tx.ID() {
		t.Error("round-tripped tx must keep its id")
	}
}

func TestTxEmitLineage(t *testing.T) {
	obj := sto.NewObject()
	obj.SetUint(sto.FieldTransactionType, uint64(TxPayment))
	obj.SetBytes(sto.FieldAccount, bytes.Repeat([]byte{0x31}, 20))
	ed := sto.NewObject()
	ed.SetUint(sto.FieldEmitGeneration, 4)
	ed.SetUint(sto.FieldEmitBurden, 16)
	obj.SetObject(sto.FieldEmitDetails, ed)
	tx := NewTx(obj)
	if tx.Generation() != 4 || tx.Burden() != 16 {
		t.Errorf("lineage = (%d, %d), want (4, 16)", tx.Generation(), tx.Burden())
	}
}

func TestStdTxFactoryRejects(t *testing.T) {
	missingType := sto.NewObject()
	missingType.SetBytes(sto.FieldAccount, bytes.Repeat([]byte{1}, 20))
	if _, err := (StdTxFactory{}).FromBytes(missingType.Encode()); err == nil {
		t.Error("missing TransactionType accepted")
	}

	unknown := sto.NewObject()
	unknown.SetUint(sto.FieldTransactionType, 60)
	unknown.SetBytes(sto.FieldAccount, bytes.Repeat([]byte{1}, 20))
	if _, err := (StdTxFactory{}).FromBytes(unknown.Encode()); err == nil {
		t.Error("unknown TransactionType accepted")
	}

	if _, err := (StdTxFactory{}).FromBytes([]byte{0xff}); err == nil {
		t.Error("garbage accepted")
	}
}

func TestMemLedgerUpdateAtomicity(t *testing.T) {
	l := NewMemLedger(paymentTx(t))
	var owner AccountID
	owner[0] = 7
	var key Hash256
	key[0] = 1
	l.PutState(owner, key, []byte("before"))

	err := l.Update(func(w StateWriter) error {
		if ter := w.SetState(owner, key, []byte("after")); !ter.Success() {
			return TERError{ter}
		}
		return TERError{TecINTERNAL} // force rollback
	})
	if err == nil {
		t.Fatal("Update must propagate the error")
	}
	if v, _ := l.GetState(owner, key); string(v) != "before" {
		t.Errorf("state after failed update = %q, want %q", v, "before")
	}

	if err := l.Update(func(w StateWriter) error {
		if ter := w.SetState(owner, key, []byte("after")); !ter.Success() {
			return TERError{ter}
		}
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v, _ := l.GetState(owner, key); string(v) != "after" {
		t.Errorf("state after update = %q, want %q", v, "after")
	}
}

func TestMemLedgerStateSizeCap(t *testing.T) {
	l := NewMemLedger(paymentTx(t))
	var owner AccountID
	err := l.Update(func(w StateWriter) error {
		if ter := w.SetState(owner, Hash256{}, make([]byte, 129)); ter != TecOVERSIZE {
			t.Errorf("oversize write TER = %v, want tecOVERSIZE", ter)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestMemLedgerAttachFailure(t *testing.T) {
	l := NewMemLedger(paymentTx(t))
	l.FailAttach = true
	err := l.Update(func(w StateWriter) error {
		if ter := w.Attach(paymentTx(t)); !ter.Success() {
			return TERError{ter}
		}
		return nil
	})
	if err == nil {
		t.Fatal("attach failure must abort the update")
	}
	if len(l.Emitted()) != 0 {
		t.Error("failed update must not leave attached transactions")
	}
}
