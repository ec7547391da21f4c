package hook

import (
	"bytes"
	"context"
	"testing"

	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/internal/wasmgen"
	"github.com/ledgerhooks/hookexec/ledger"
	"github.com/ledgerhooks/hookexec/sto"
)

var (
	sig2 = []wasmgen.ValType{wasmgen.I32, wasmgen.I32}
	sig3 = []wasmgen.ValType{wasmgen.I32, wasmgen.I32, wasmgen.I32}
	sig4 = []wasmgen.ValType{wasmgen.I32, wasmgen.I32, wasmgen.I32, wasmgen.I32}
	ri64 = []wasmgen.ValType{wasmgen.I64}
	ri32 = []wasmgen.ValType{wasmgen.I32}
	sig1 = []wasmgen.ValType{wasmgen.I32}
)

func applyModule(t *testing.T, b *wasmgen.Builder, l *ledger.MemLedger) HookResult {
	t.Helper()
	r := NewRunner()
	return r.Apply(context.Background(), testHookHash, b.Build(), l, testAccount, false)
}

func TestApplyAcceptWithStateWrite(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, 32)

	b := wasmgen.New()
	stateSet := b.Import("state_set", sig4, ri64)
	accept := b.Import("accept", sig3, ri64)
	b.Data(0, key)
	b.Data(32, []byte("hello"))
	b.Body(
		wasmgen.I32Const(32), wasmgen.I32Const(5), // value
		wasmgen.I32Const(0), wasmgen.I32Const(32), // key
		wasmgen.Call(stateSet), wasmgen.Drop(),
		wasmgen.I32Const(0), wasmgen.I32Const(0), wasmgen.I32Const(0),
		wasmgen.Call(accept),
	)

	l := ledger.NewMemLedger(testTriggerTx())
	res := applyModule(t, b, l)

	if res.ExitType != hookapi.ExitAccept {
		t.Fatalf("verdict = %v, reason %q", res.ExitType, res.ExitReason)
	}
	if !res.Committed() {
		t.Fatalf("commit TER = %v", res.TER)
	}
	var k ledger.Hash256
	copy(k[:], key)
	v, ok := l.GetState(testAccount, k)
	if !ok || string(v) != "hello" {
		t.Errorf("post-state = %q, %v", v, ok)
	}
	if got, ok := res.ChangedState[k]; !ok || string(got) != "hello" {
		t.Errorf("result diff = %q, %v", got, ok)
	}
}

func TestApplyRollbackDiscardsWrites(t *testing.T) {
	key := bytes.Repeat([]byte{0x02}, 32)

	b := wasmgen.New()
	stateSet := b.Import("state_set", sig4, ri64)
	rollback := b.Import("rollback", sig3, ri64)
	b.Data(0, key)
	b.Data(32, []byte("x"))
	b.Data(40, []byte("no"))
	b.Body(
		wasmgen.I32Const(32), wasmgen.I32Const(1),
		wasmgen.I32Const(0), wasmgen.I32Const(32),
		wasmgen.Call(stateSet), wasmgen.Drop(),
		wasmgen.I32Const(40), wasmgen.I32Const(2), wasmgen.I32Const(42),
		wasmgen.Call(rollback),
	)

	l := ledger.NewMemLedger(testTriggerTx())
	res := applyModule(t, b, l)

	if res.ExitType != hookapi.ExitRollback {
		t.Fatalf("verdict = %v", res.ExitType)
	}
	if res.ExitCode != 42 || string(res.ExitReason) != "no" {
		t.Errorf("exit payload = %d, %q", res.ExitCode, res.ExitReason)
	}
	var k ledger.Hash256
	copy(k[:], key)
	if _, ok := l.GetState(testAccount, k); ok {
		t.Error("rolled-back write reached the ledger")
	}
	if len(res.ChangedState) != 0 || len(res.Emitted) != 0 {
		t.Error("discarded effects must not appear in the result")
	}
}

func TestApplyGuardTrip(t *testing.T) {
	b := wasmgen.New()
	guard := b.Import("_g", sig2, ri32)
	accept := b.Import("accept", sig3, ri64)
	var body [][]byte
	for i := 0; i < 11; i++ {
		body = append(body,
			wasmgen.I32Const(1), wasmgen.I32Const(10),
			wasmgen.Call(guard), wasmgen.Drop(),
		)
	}
	body = append(body,
		wasmgen.I32Const(0), wasmgen.I32Const(0), wasmgen.I32Const(0),
		wasmgen.Call(accept),
	)
	b.Body(body...)

	l := ledger.NewMemLedger(testTriggerTx())
	res := applyModule(t, b, l)
	if res.ExitType != hookapi.ExitWasmError {
		t.Fatalf("verdict = %v", res.ExitType)
	}
	if res.ExitCode != hookapi.GuardViolation {
		t.Errorf("exit code = %d, want GuardViolation", res.ExitCode)
	}
}

func TestApplyEmission(t *testing.T) {
	// template priced at the exact minimum: fee base 10 -> 11 drops/byte
	tmplObj := sto.NewObject()
	tmplObj.SetUint(sto.FieldTransactionType, uint64(ledger.TxPayment))
	tmplObj.SetBytes(sto.FieldAccount, testAccount[:])
	tmplObj.SetBytes(sto.FieldDestination, bytes.Repeat([]byte{0x66}, 20))
	tmplObj.SetUint(sto.FieldAmount, 1)
	tmplObj.SetUint(sto.FieldFee, 0)
	size := len(tmplObj.Encode())
	tmplObj.SetUint(sto.FieldFee, uint64(11*size))
	tmpl := tmplObj.Encode()

	b := wasmgen.New()
	reserve := b.Import("etxn_reserve", sig1, ri64)
	emit := b.Import("emit", sig2, ri64)
	accept := b.Import("accept", sig3, ri64)
	b.Data(0, tmpl)
	b.Body(
		wasmgen.I32Const(1), wasmgen.Call(reserve), wasmgen.Drop(),
		wasmgen.I32Const(0), wasmgen.I32Const(int32(len(tmpl))), wasmgen.Call(emit), wasmgen.Drop(),
		wasmgen.I32Const(0), wasmgen.I32Const(0), wasmgen.I32Const(0),
		wasmgen.Call(accept),
	)

	l := ledger.NewMemLedger(testTriggerTx())
	res := applyModule(t, b, l)

	if !res.Committed() {
		t.Fatalf("verdict = %v, TER %v, reason %q", res.ExitType, res.TER, res.ExitReason)
	}
	if len(res.Emitted) != 1 {
		t.Fatalf("emitted = %d", len(res.Emitted))
	}
	attached := l.Emitted()
	if len(attached) != 1 {
		t.Fatalf("attached = %d", len(attached))
	}
	etxn := attached[0]
	if etxn.Generation() != 1 {
		t.Errorf("generation = %d", etxn.Generation())
	}
	ed, _ := etxn.Obj().Object(sto.FieldEmitDetails)
	parent, _ := ed.Bytes(sto.FieldEmitParentTxnID)
	trigID := l.Tx().ID()
	if !bytes.Equal(parent, trigID[:]) {
		t.Error("parent txn id mismatch")
	}
}

func TestApplyCommitFailureFlipsVerdict(t *testing.T) {
	key := bytes.Repeat([]byte{0x03}, 32)
	tmplObj := sto.NewObject()
	tmplObj.SetUint(sto.FieldTransactionType, uint64(ledger.TxPayment))
	tmplObj.SetBytes(sto.FieldAccount, testAccount[:])
	tmplObj.SetUint(sto.FieldAmount, 1)
	tmplObj.SetUint(sto.FieldFee, 0)
	size := len(tmplObj.Encode())
	tmplObj.SetUint(sto.FieldFee, uint64(11*size))
	tmpl := tmplObj.Encode()

	b := wasmgen.New()
	reserve := b.Import("etxn_reserve", sig1, ri64)
	stateSet := b.Import("state_set", sig4, ri64)
	emit := b.Import("emit", sig2, ri64)
	accept := b.Import("accept", sig3, ri64)
	b.Data(0, key)
	b.Data(32, []byte("v"))
	b.Data(64, tmpl)
	b.Body(
		wasmgen.I32Const(1), wasmgen.Call(reserve), wasmgen.Drop(),
		wasmgen.I32Const(32), wasmgen.I32Const(1),
		wasmgen.I32Const(0), wasmgen.I32Const(32),
		wasmgen.Call(stateSet), wasmgen.Drop(),
		wasmgen.I32Const(64), wasmgen.I32Const(int32(len(tmpl))), wasmgen.Call(emit), wasmgen.Drop(),
		wasmgen.I32Const(0), wasmgen.I32Const(0), wasmgen.I32Const(0),
		wasmgen.Call(accept),
	)

	l := ledger.NewMemLedger(testTriggerTx())
	l.FailAttach = true
	res := applyModule(t, b, l)

	if res.ExitType != hookapi.ExitRollback {
		t.Fatalf("verdict = %v, want rollback after failed commit", res.ExitType)
	}
	if res.TER.Success() {
		t.Error("TER must record the commit failure")
	}
	var k ledger.Hash256
	copy(k[:], key)
	if _, ok := l.GetState(testAccount, k); ok {
		t.Error("state write survived a failed commit")
	}
	if len(l.Emitted()) != 0 {
		t.Error("emission survived a failed commit")
	}
}

func TestApplyTrapIsWasmError(t *testing.T) {
	b := wasmgen.New()
	b.Body(wasmgen.Unreachable())
	l := ledger.NewMemLedger(testTriggerTx())
	res := applyModule(t, b, l)
	if res.ExitType != hookapi.ExitWasmError {
		t.Errorf("verdict = %v, want wasm_error", res.ExitType)
	}
}

func TestApplyNoVerdictIsRollback(t *testing.T) {
	b := wasmgen.New()
	b.Body(wasmgen.I64Const(0))
	l := ledger.NewMemLedger(testTriggerTx())
	res := applyModule(t, b, l)
	if res.ExitType != hookapi.ExitRollback {
		t.Errorf("verdict = %v, want rollback", res.ExitType)
	}
}

func TestApplyRejectsBadImportWithoutInvoking(t *testing.T) {
	b := wasmgen.New()
	fd := b.Import("proc_exit", sig1, nil)
	b.Body(wasmgen.I32Const(0), wasmgen.Call(fd), wasmgen.I64Const(0))
	l := ledger.NewMemLedger(testTriggerTx())
	res := applyModule(t, b, l)
	if res.ExitType != hookapi.ExitWasmError {
		t.Errorf("verdict = %v, want wasm_error at bind time", res.ExitType)
	}
}

func TestApplySkippedByGate(t *testing.T) {
	hookObj := sto.NewObject()
	hookObj.SetUint(sto.FieldHookOn, 1<<uint(ledger.TxPayment))
	l := ledger.NewMemLedger(testTriggerTx())
	l.PutObject(ledger.HookKeylet(testAccount), hookObj)

	res := applyModule(t, acceptModule(), l)
	if !res.Skipped {
		t.Fatal("payment-suppressing mask must skip the invocation")
	}
	if res.ExitType != hookapi.ExitUnset {
		t.Errorf("skipped run verdict = %v, want unset", res.ExitType)
	}
}

func TestApplyCallbackEntry(t *testing.T) {
	b := acceptModule().Entry("cbak")
	l := ledger.NewMemLedger(testTriggerTx())

	r := NewRunner()
	res := r.Apply(context.Background(), testHookHash, b.Build(), l, testAccount, true)
	if res.ExitType != hookapi.ExitAccept {
		t.Fatalf("cbak verdict = %v", res.ExitType)
	}

	// the same module cannot serve a non-callback invocation
	res = r.Apply(context.Background(), testHookHash, b.Build(), l, testAccount, false)
	if res.ExitType != hookapi.ExitWasmError {
		t.Errorf("missing hook entry verdict = %v, want wasm_error", res.ExitType)
	}
}

func TestApplyDeterminism(t *testing.T) {
	key := bytes.Repeat([]byte{0x04}, 32)
	b := wasmgen.New()
	stateSet := b.Import("state_set", sig4, ri64)
	nonce := b.Import("nonce", sig2, ri64)
	accept := b.Import("accept", sig3, ri64)
	b.Data(0, key)
	b.Data(32, []byte("det"))
	b.Body(
		wasmgen.I32Const(100), wasmgen.I32Const(32), wasmgen.Call(nonce), wasmgen.Drop(),
		wasmgen.I32Const(100), wasmgen.I32Const(32), // nonce becomes the value
		wasmgen.I32Const(0), wasmgen.I32Const(32),
		wasmgen.Call(stateSet), wasmgen.Drop(),
		wasmgen.I32Const(0), wasmgen.I32Const(0), wasmgen.I32Const(7),
		wasmgen.Call(accept),
	)
	code := b.Build()

	run := func() HookResult {
		l := ledger.NewMemLedger(testTriggerTx())
		return NewRunner().Apply(context.Background(), testHookHash, code, l, testAccount, false)
	}
	a, bres := run(), run()

	if a.ExitType != bres.ExitType || a.ExitCode != bres.ExitCode {
		t.Fatal("verdicts differ between identical runs")
	}
	if len(a.ChangedState) != len(bres.ChangedState) {
		t.Fatal("state diffs differ")
	}
	var k ledger.Hash256
	copy(k[:], key)
	if !bytes.Equal(a.ChangedState[k], bres.ChangedState[k]) {
		t.Error("nonce-derived state value differs between identical runs")
	}
}
