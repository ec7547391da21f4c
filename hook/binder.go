package hook

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/ledger"
)

// Guest memory is exactly one 64KiB page, non-growable, and function
// tables stay within [10, 20] entries.
const (
	guestMemoryPages = 1
	tableMinEntries  = 10
	tableMaxEntries  = 20
)

func sig(params, results []byte) funcSig {
	return funcSig{params: params, results: results}
}

func i32s(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = valI32
	}
	return b
}

// apiSignatures is the exact wasm signature of every importable call.
var apiSignatures = map[string]funcSig{
	hookapi.NameSpecial:       sig(i32s(7), []byte{valI64}),
	hookapi.NameGuard:         sig(i32s(2), []byte{valI32}),
	hookapi.NameAccept:        sig(i32s(3), []byte{valI64}),
	hookapi.NameRollback:      sig(i32s(3), []byte{valI64}),
	hookapi.NameUtilRaddr:     sig(i32s(4), []byte{valI64}),
	hookapi.NameUtilAccid:     sig(i32s(4), []byte{valI64}),
	hookapi.NameUtilVerify:    sig(i32s(6), []byte{valI64}),
	hookapi.NameUtilVerifySTO: sig(i32s(2), []byte{valI64}),
	hookapi.NameUtilSha512h:   sig(i32s(4), []byte{valI64}),
	hookapi.NameUtilSubfield:  sig(i32s(3), []byte{valI64}),
	hookapi.NameUtilSubarray:  sig(i32s(3), []byte{valI64}),
	hookapi.NameEtxnDetails:   sig(i32s(2), []byte{valI64}),
	hookapi.NameEtxnFeeBase:   sig(i32s(1), []byte{valI64}),
	hookapi.NameEtxnReserve:   sig(i32s(1), []byte{valI64}),
	hookapi.NameEmit:          sig(i32s(2), []byte{valI64}),
	hookapi.NameHookAccount:   sig(i32s(2), []byte{valI64}),
	hookapi.NameHookHash:      sig(i32s(2), []byte{valI64}),
	hookapi.NameNonce:         sig(i32s(2), []byte{valI64}),
	hookapi.NameSlotClear:     sig(i32s(1), []byte{valI64}),
	hookapi.NameSlotSet:       sig(i32s(4), []byte{valI64}),
	hookapi.NameSlotFieldTxt:  sig(i32s(4), []byte{valI64}),
	hookapi.NameSlotField:     sig(i32s(4), []byte{valI64}),
	hookapi.NameSlotID:        sig(i32s(1), []byte{valI64}),
	hookapi.NameSlotType:      sig(i32s(1), []byte{valI64}),
	hookapi.NameStateSet:      sig(i32s(4), []byte{valI64}),
	hookapi.NameState:         sig(i32s(4), []byte{valI64}),
	hookapi.NameStateForeign:  sig(i32s(6), []byte{valI64}),
	hookapi.NameTraceSlot:     sig(i32s(1), []byte{valI64}),
	hookapi.NameTrace:         sig(i32s(3), []byte{valI64}),
	hookapi.NameTraceNum:      sig([]byte{valI32, valI32, valI64}, []byte{valI64}),
	hookapi.NameOtxnField:     sig(i32s(3), []byte{valI64}),
	hookapi.NameOtxnFieldTxt:  sig(i32s(3), []byte{valI64}),
	hookapi.NameOtxnID:        sig(i32s(2), []byte{valI64}),
}

// binder validates guest modules against the import whitelist and
// resource shape, caching verdicts by bytecode hash, and instantiates
// the "env" host module closed over one invocation's Context.
type binder struct {
	verdicts *lru.Cache[ledger.Hash256, error]
}

func newBinder(cacheSize int) *binder {
	cache, err := lru.New[ledger.Hash256, error](cacheSize)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &binder{verdicts: cache}
}

// validate enforces the bind-time contract: every import is a
// whitelisted "env" function with the exact ABI signature, exactly one
// linear memory of one fixed page, and any function table bounded to
// [10, 20] entries.
func (b *binder) validate(bytecode []byte) error {
	key := ledger.SHA512Half(bytecode)
	if verdict, ok := b.verdicts.Get(key); ok {
		return verdict
	}
	err := checkModule(bytecode)
	b.verdicts.Add(key, err)
	return err
}

func checkModule(bytecode []byte) error {
	info, err := scanModule(bytecode)
	if err != nil {
		return err
	}
	for _, imp := range info.imports {
		if imp.kind != 0x00 {
			return fmt.Errorf("hook: module imports non-function %q from %q", imp.name, imp.module)
		}
		if imp.module != "env" {
			return fmt.Errorf("hook: import module %q not permitted", imp.module)
		}
		if !hookapi.Importable(imp.name) {
			return fmt.Errorf("hook: import %q not on whitelist", imp.name)
		}
		if !imp.sig.equal(apiSignatures[imp.name]) {
			return fmt.Errorf("hook: import %q has wrong signature", imp.name)
		}
	}
	if len(info.memories) != 1 {
		return fmt.Errorf("hook: module must declare exactly one memory, has %d", len(info.memories))
	}
	mem := info.memories[0]
	if mem.min != guestMemoryPages || !mem.hasMax || mem.max != guestMemoryPages {
		return fmt.Errorf("hook: memory limits must be exactly (%d,%d)", guestMemoryPages, guestMemoryPages)
	}
	if len(info.tables) > 1 {
		return fmt.Errorf("hook: module declares %d tables", len(info.tables))
	}
	for _, t := range info.tables {
		if t.min < tableMinEntries || !t.hasMax || t.max > tableMaxEntries || t.max < t.min {
			return fmt.Errorf("hook: table limits (%d,%d) outside [%d,%d]",
				t.min, t.max, tableMinEntries, tableMaxEntries)
		}
	}
	return nil
}

// ValidateModule checks bytecode against the bind-time contract
// without instantiating it: import whitelist, signatures, memory and
// table limits. Tooling entry point; the runner uses the cached path.
func ValidateModule(bytecode []byte) error {
	return checkModule(bytecode)
}

// ModuleImports lists every import of a module, of any kind and from any
// module namespace, as "module.name", for tooling.
func ModuleImports(bytecode []byte) ([]string, error) {
	info, err := scanModule(bytecode)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(info.imports))
	for _, imp := range info.imports {
		names = append(names, imp.module+"."+imp.name)
	}
	return names, nil
}

// bindEnv instantiates the "env" host module in rt with every
// whitelisted call bound to hctx. Each invocation gets its own runtime
// and its own env instance, so the closures never outlive the run.
func bindEnv(ctx context.Context, rt wazero.Runtime, hctx *Context) error {
	b := rt.NewHostModuleBuilder("env")
	export := func(name string, fn interface{}) {
		b.NewFunctionBuilder().WithFunc(fn).Export(name)
	}

	export(hookapi.NameSpecial, func(_ context.Context, mod api.Module, apiNo, a1, a2, a3, a4, a5, a6 uint32) int64 {
		return hctx.Special(mod.Memory(), apiNo, a1, a2, a3, a4, a5, a6)
	})
	export(hookapi.NameGuard, func(_ context.Context, guardID, maxIter uint32) int32 {
		return hctx.Guard(guardID, maxIter)
	})
	export(hookapi.NameAccept, func(_ context.Context, mod api.Module, readPtr, readLen uint32, errorCode int32) int64 {
		return hctx.Accept(mod.Memory(), readPtr, readLen, errorCode)
	})
	export(hookapi.NameRollback, func(_ context.Context, mod api.Module, readPtr, readLen uint32, errorCode int32) int64 {
		return hctx.Rollback(mod.Memory(), readPtr, readLen, errorCode)
	})
	export(hookapi.NameUtilRaddr, func(_ context.Context, mod api.Module, wPtr, wLen, rPtr, rLen uint32) int64 {
		return hctx.UtilRaddr(mod.Memory(), wPtr, wLen, rPtr, rLen)
	})
	export(hookapi.NameUtilAccid, func(_ context.Context, mod api.Module, wPtr, wLen, rPtr, rLen uint32) int64 {
		return hctx.UtilAccid(mod.Memory(), wPtr, wLen, rPtr, rLen)
	})
	export(hookapi.NameUtilVerify, func(_ context.Context, mod api.Module, dPtr, dLen, sPtr, sLen, kPtr, kLen uint32) int64 {
		return hctx.UtilVerify(mod.Memory(), dPtr, dLen, sPtr, sLen, kPtr, kLen)
	})
	export(hookapi.NameUtilVerifySTO, func(_ context.Context, mod api.Module, tPtr, tLen uint32) int64 {
		return hctx.UtilVerifySTO(mod.Memory(), tPtr, tLen)
	})
	export(hookapi.NameUtilSha512h, func(_ context.Context, mod api.Module, wPtr, wLen, rPtr, rLen uint32) int64 {
		return hctx.UtilSha512h(mod.Memory(), wPtr, wLen, rPtr, rLen)
	})
	export(hookapi.NameUtilSubfield, func(_ context.Context, mod api.Module, rPtr, rLen, fieldID uint32) int64 {
		return hctx.UtilSubfield(mod.Memory(), rPtr, rLen, fieldID)
	})
	export(hookapi.NameUtilSubarray, func(_ context.Context, mod api.Module, rPtr, rLen, arrayID uint32) int64 {
		return hctx.UtilSubarray(mod.Memory(), rPtr, rLen, arrayID)
	})
	export(hookapi.NameEtxnDetails, func(_ context.Context, mod api.Module, wPtr, wLen uint32) int64 {
		return hctx.EtxnDetails(mod.Memory(), wPtr, wLen)
	})
	export(hookapi.NameEtxnFeeBase, func(_ context.Context, txByteCount uint32) int64 {
		return hctx.EtxnFeeBase(txByteCount)
	})
	export(hookapi.NameEtxnReserve, func(_ context.Context, count uint32) int64 {
		return hctx.EtxnReserve(count)
	})
	export(hookapi.NameEmit, func(_ context.Context, mod api.Module, rPtr, rLen uint32) int64 {
		return hctx.Emit(mod.Memory(), rPtr, rLen)
	})
	export(hookapi.NameHookAccount, func(_ context.Context, mod api.Module, wPtr, wLen uint32) int64 {
		return hctx.HookAccount(mod.Memory(), wPtr, wLen)
	})
	export(hookapi.NameHookHash, func(_ context.Context, mod api.Module, wPtr, wLen uint32) int64 {
		return hctx.HookHash(mod.Memory(), wPtr, wLen)
	})
	export(hookapi.NameNonce, func(_ context.Context, mod api.Module, wPtr, wLen uint32) int64 {
		return hctx.Nonce(mod.Memory(), wPtr, wLen)
	})
	export(hookapi.NameSlotClear, func(_ context.Context, slot uint32) int64 {
		return hctx.SlotClear(slot)
	})
	export(hookapi.NameSlotSet, func(_ context.Context, mod api.Module, rPtr, rLen, slotType uint32, slot int32) int64 {
		return hctx.SlotSet(mod.Memory(), rPtr, rLen, slotType, slot)
	})
	export(hookapi.NameSlotFieldTxt, func(_ context.Context, mod api.Module, wPtr, wLen, fieldID, slot uint32) int64 {
		return hctx.SlotFieldTxt(mod.Memory(), wPtr, wLen, fieldID, slot)
	})
	export(hookapi.NameSlotField, func(_ context.Context, mod api.Module, wPtr, wLen, fieldID, slot uint32) int64 {
		return hctx.SlotField(mod.Memory(), wPtr, wLen, fieldID, slot)
	})
	export(hookapi.NameSlotID, func(_ context.Context, slot uint32) int64 {
		return hctx.SlotID(slot)
	})
	export(hookapi.NameSlotType, func(_ context.Context, slot uint32) int64 {
		return hctx.SlotType(slot)
	})
	export(hookapi.NameStateSet, func(_ context.Context, mod api.Module, rPtr, rLen, kPtr, kLen uint32) int64 {
		return hctx.StateSet(mod.Memory(), rPtr, rLen, kPtr, kLen)
	})
	export(hookapi.NameState, func(_ context.Context, mod api.Module, wPtr, wLen, kPtr, kLen uint32) int64 {
		return hctx.State(mod.Memory(), wPtr, wLen, kPtr, kLen)
	})
	export(hookapi.NameStateForeign, func(_ context.Context, mod api.Module, wPtr, wLen, kPtr, kLen, aPtr, aLen uint32) int64 {
		return hctx.StateForeign(mod.Memory(), wPtr, wLen, kPtr, kLen, aPtr, aLen)
	})
	export(hookapi.NameTraceSlot, func(_ context.Context, slot uint32) int64 {
		return hctx.TraceSlot(slot)
	})
	export(hookapi.NameTrace, func(_ context.Context, mod api.Module, rPtr, rLen, asHex uint32) int64 {
		return hctx.Trace(mod.Memory(), rPtr, rLen, asHex)
	})
	export(hookapi.NameTraceNum, func(_ context.Context, mod api.Module, rPtr, rLen uint32, number int64) int64 {
		return hctx.TraceNum(mod.Memory(), rPtr, rLen, number)
	})
	export(hookapi.NameOtxnField, func(_ context.Context, mod api.Module, wPtr, wLen, fieldID uint32) int64 {
		return hctx.OtxnField(mod.Memory(), wPtr, wLen, fieldID)
	})
	export(hookapi.NameOtxnFieldTxt, func(_ context.Context, mod api.Module, wPtr, wLen, fieldID uint32) int64 {
		return hctx.OtxnFieldTxt(mod.Memory(), wPtr, wLen, fieldID)
	})
	export(hookapi.NameOtxnID, func(_ context.Context, mod api.Module, wPtr, wLen uint32) int64 {
		return hctx.OtxnID(mod.Memory(), wPtr, wLen)
	})

	_, err := b.Instantiate(ctx)
	return err
}
