package hookapi

import "hash/crc32"

// Host-call names. Everything a guest may import lives in the "env"
// module namespace; anything else is rejected at bind time.
const (
	NameSpecial       = "_"  // trampoline: dispatch any api by number
	NameGuard         = "_g" // iteration guard
	NameAccept        = "accept"
	NameRollback      = "rollback"
	NameUtilRaddr     = "util_raddr"
	NameUtilAccid     = "util_accid"
	NameUtilVerify    = "util_verify"
	NameUtilVerifySTO = "util_verify_sto"
	NameUtilSha512h   = "util_sha512h"
	NameUtilSubfield  = "util_subfield"
	NameUtilSubarray  = "util_subarray"
	NameEtxnDetails   = "etxn_details"
	NameEtxnFeeBase   = "etxn_fee_base"
	NameEtxnReserve   = "etxn_reserve"
	NameEmit          = "emit"
	NameHookAccount   = "hook_account"
	NameHookHash      = "hook_hash"
	NameNonce         = "nonce"
	NameSlotClear     = "slot_clear"
	NameSlotSet       = "slot_set"
	NameSlotFieldTxt  = "slot_field_txt"
	NameSlotField     = "slot_field"
	NameSlotID        = "slot_id"
	NameSlotType      = "slot_type"
	NameStateSet      = "state_set"
	NameState         = "state"
	NameStateForeign  = "state_foreign"
	NameTraceSlot     = "trace_slot"
	NameTrace         = "trace"
	NameTraceNum      = "trace_num"
	NameOtxnField     = "otxn_field"
	NameOtxnFieldTxt  = "otxn_field_txt"
	NameOtxnID        = "otxn_id"

	// Reachable only through the trampoline, never importable by
	// name.
	NameEtxnBurden     = "etxn_burden"
	NameEtxnGeneration = "etxn_generation"
	NameOtxnBurden     = "otxn_burden"
	NameOtxnGeneration = "otxn_generation"
	NameOtxnType       = "otxn_type"
	NameFeeBase        = "fee_base"
	NameLedgerSeq      = "ledger_seq"
)

// importWhitelist is the closed set of names a module may import from
// "env".
var importWhitelist = map[string]struct{}{
	NameSpecial:       {},
	NameGuard:         {},
	NameAccept:        {},
	NameRollback:      {},
	NameUtilRaddr:     {},
	NameUtilAccid:     {},
	NameUtilVerify:    {},
	NameUtilVerifySTO: {},
	NameUtilSha512h:   {},
	NameUtilSubfield:  {},
	NameUtilSubarray:  {},
	NameEtxnDetails:   {},
	NameEtxnFeeBase:   {},
	NameEtxnReserve:   {},
	NameEmit:          {},
	NameHookAccount:   {},
	NameHookHash:      {},
	NameNonce:         {},
	NameSlotClear:     {},
	NameSlotSet:       {},
	NameSlotFieldTxt:  {},
	NameSlotField:     {},
	NameSlotID:        {},
	NameSlotType:      {},
	NameStateSet:      {},
	NameState:         {},
	NameStateForeign:  {},
	NameTraceSlot:     {},
	NameTrace:         {},
	NameTraceNum:      {},
	NameOtxnField:     {},
	NameOtxnFieldTxt:  {},
	NameOtxnID:        {},
}

// Importable reports whether a guest module may import name from "env".
func Importable(name string) bool {
	_, ok := importWhitelist[name]
	return ok
}

// ImportNames returns the whitelist for enumeration (binder, tooling).
func ImportNames() []string {
	names := make([]string, 0, len(importWhitelist))
	for n := range importWhitelist {
		names = append(names, n)
	}
	return names
}

// Number is the API number of a host call: the CRC32 (IEEE) of its
// name. The trampoline "_" dispatches by this number.
func Number(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(name))
}
