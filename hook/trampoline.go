package hook

import "github.com/ledgerhooks/hookexec/hookapi"

// trampolineFn adapts one host call to the trampoline's generic
// six-argument shape.
type trampolineFn func(c *Context, m Memory, a1, a2, a3, a4, a5, a6 uint32) int64

// trampoline maps API numbers (CRC32 of the call name) to adapters.
// The trampoline reaches every declared call, including the ones not
// directly importable.
var trampoline = map[uint32]trampolineFn{}

func register(name string, fn trampolineFn) {
	trampoline[hookapi.Number(name)] = fn
}

func init() {
	register(hookapi.NameGuard, func(c *Context, _ Memory, a1, a2, _, _, _, _ uint32) int64 {
		return int64(c.Guard(a1, a2))
	})
	register(hookapi.NameAccept, func(c *Context, m Memory, a1, a2, a3, _, _, _ uint32) int64 {
		return c.Accept(m, a1, a2, int32(a3))
	})
	register(hookapi.NameRollback, func(c *Context, m Memory, a1, a2, a3, _, _, _ uint32) int64 {
		return c.Rollback(m, a1, a2, int32(a3))
	})
	register(hookapi.NameUtilRaddr, func(c *Context, m Memory, a1, a2, a3, a4, _, _ uint32) int64 {
		return c.UtilRaddr(m, a1, a2, a3, a4)
	})
	register(hookapi.NameUtilAccid, func(c *Context, m Memory, a1, a2, a3, a4, _, _ uint32) int64 {
		return c.UtilAccid(m, a1, a2, a3, a4)
	})
	register(hookapi.NameUtilVerify, func(c *Context, m Memory, a1, a2, a3, a4, a5, a6 uint32) int64 {
		return c.UtilVerify(m, a1, a2, a3, a4, a5, a6)
	})
	register(hookapi.NameUtilVerifySTO, func(c *Context, m Memory, a1, a2, _, _, _, _ uint32) int64 {
		return c.UtilVerifySTO(m, a1, a2)
	})
	register(hookapi.NameUtilSha512h, func(c *Context, m Memory, a1, a2, a3, a4, _, _ uint32) int64 {
		return c.UtilSha512h(m, a1, a2, a3, a4)
	})
	register(hookapi.NameUtilSubfield, func(c *Context, m Memory, a1, a2, a3, _, _, _ uint32) int64 {
		return c.UtilSubfield(m, a1, a2, a3)
	})
	register(hookapi.NameUtilSubarray, func(c *Context, m Memory, a1, a2, a3, _, _, _ uint32) int64 {
		return c.UtilSubarray(m, a1, a2, a3)
	})
	register(hookapi.NameEtxnDetails, func(c *Context, m Memory, a1, a2, _, _, _, _ uint32) int64 {
		return c.EtxnDetails(m, a1, a2)
	})
	register(hookapi.NameEtxnFeeBase, func(c *Context, _ Memory, a1, _, _, _, _, _ uint32) int64 {
		return c.EtxnFeeBase(a1)
	})
	register(hookapi.NameEtxnReserve, func(c *Context, _ Memory, a1, _, _, _, _, _ uint32) int64 {
		return c.EtxnReserve(a1)
	})
	register(hookapi.NameEtxnBurden, func(c *Context, _ Memory, _, _, _, _, _, _ uint32) int64 {
		return c.EtxnBurden()
	})
	register(hookapi.NameEtxnGeneration, func(c *Context, _ Memory, _, _, _, _, _, _ uint32) int64 {
		return c.EtxnGeneration()
	})
	register(hookapi.NameEmit, func(c *Context, m Memory, a1, a2, _, _, _, _ uint32) int64 {
		return c.Emit(m, a1, a2)
	})
	register(hookapi.NameHookAccount, func(c *Context, m Memory, a1, a2, _, _, _, _ uint32) int64 {
		return c.HookAccount(m, a1, a2)
	})
	register(hookapi.NameHookHash, func(c *Context, m Memory, a1, a2, _, _, _, _ uint32) int64 {
		return c.HookHash(m, a1, a2)
	})
	register(hookapi.NameFeeBase, func(c *Context, _ Memory, _, _, _, _, _, _ uint32) int64 {
		return c.FeeBase()
	})
	register(hookapi.NameLedgerSeq, func(c *Context, _ Memory, _, _, _, _, _, _ uint32) int64 {
		return c.LedgerSeq()
	})
	register(hookapi.NameNonce, func(c *Context, m Memory, a1, a2, _, _, _, _ uint32) int64 {
		return c.Nonce(m, a1, a2)
	})
	register(hookapi.NameSlotClear, func(c *Context, _ Memory, a1, _, _, _, _, _ uint32) int64 {
		return c.SlotClear(a1)
	})
	register(hookapi.NameSlotSet, func(c *Context, m Memory, a1, a2, a3, a4, _, _ uint32) int64 {
		return c.SlotSet(m, a1, a2, a3, int32(a4))
	})
	register(hookapi.NameSlotFieldTxt, func(c *Context, m Memory, a1, a2, a3, a4, _, _ uint32) int64 {
		return c.SlotFieldTxt(m, a1, a2, a3, a4)
	})
	register(hookapi.NameSlotField, func(c *Context, m Memory, a1, a2, a3, a4, _, _ uint32) int64 {
		return c.SlotField(m, a1, a2, a3, a4)
	})
	register(hookapi.NameSlotID, func(c *Context, _ Memory, a1, _, _, _, _, _ uint32) int64 {
		return c.SlotID(a1)
	})
	register(hookapi.NameSlotType, func(c *Context, _ Memory, a1, _, _, _, _, _ uint32) int64 {
		return c.SlotType(a1)
	})
	register(hookapi.NameStateSet, func(c *Context, m Memory, a1, a2, a3, a4, _, _ uint32) int64 {
		return c.StateSet(m, a1, a2, a3, a4)
	})
	register(hookapi.NameState, func(c *Context, m Memory, a1, a2, a3, a4, _, _ uint32) int64 {
		return c.State(m, a1, a2, a3, a4)
	})
	register(hookapi.NameStateForeign, func(c *Context, m Memory, a1, a2, a3, a4, a5, a6 uint32) int64 {
		return c.StateForeign(m, a1, a2, a3, a4, a5, a6)
	})
	register(hookapi.NameTraceSlot, func(c *Context, _ Memory, a1, _, _, _, _, _ uint32) int64 {
		return c.TraceSlot(a1)
	})
	register(hookapi.NameTrace, func(c *Context, m Memory, a1, a2, a3, _, _, _ uint32) int64 {
		return c.Trace(m, a1, a2, a3)
	})
	register(hookapi.NameTraceNum, func(c *Context, m Memory, a1, a2, a3, a4, _, _ uint32) int64 {
		// the i64 argument travels as two generic words, low first
		return c.TraceNum(m, a1, a2, int64(uint64(a3)|uint64(a4)<<32))
	})
	register(hookapi.NameOtxnField, func(c *Context, m Memory, a1, a2, a3, _, _, _ uint32) int64 {
		return c.OtxnField(m, a1, a2, a3)
	})
	register(hookapi.NameOtxnFieldTxt, func(c *Context, m Memory, a1, a2, a3, _, _, _ uint32) int64 {
		return c.OtxnFieldTxt(m, a1, a2, a3)
	})
	register(hookapi.NameOtxnID, func(c *Context, m Memory, a1, a2, _, _, _, _ uint32) int64 {
		return c.OtxnID(m, a1, a2)
	})
	register(hookapi.NameOtxnType, func(c *Context, _ Memory, _, _, _, _, _, _ uint32) int64 {
		return c.OtxnType()
	})
	register(hookapi.NameOtxnBurden, func(c *Context, _ Memory, _, _, _, _, _, _ uint32) int64 {
		return c.OtxnBurden()
	})
	register(hookapi.NameOtxnGeneration, func(c *Context, _ Memory, _, _, _, _, _, _ uint32) int64 {
		return c.OtxnGeneration()
	})
}

// Special is the trampoline "_": it dispatches to the implementation
// the named call would reach, selected by API number.
func (c *Context) Special(m Memory, apiNo, a1, a2, a3, a4, a5, a6 uint32) int64 {
	fn, ok := trampoline[apiNo]
	if !ok {
		return hookapi.NotImplemented
	}
	return fn(c, m, a1, a2, a3, a4, a5, a6)
}
