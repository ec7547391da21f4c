package hook

import (
	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/ledger"
)

// HookResult reports the outcome of one hook invocation: the terminal
// verdict, the guest's diagnostic payload, and, on accept, a summary
// of the committed effects.
type HookResult struct {
	Account  ledger.AccountID
	HookHash ledger.Hash256

	AccountKeylet  ledger.Keylet
	OwnerDirKeylet ledger.Keylet
	HookKeylet     ledger.Keylet

	// Skipped is set when the hookOn gate suppressed the invocation;
	// nothing was instantiated and ExitType stays unset.
	Skipped bool

	ExitType   hookapi.ExitType
	ExitReason []byte
	ExitCode   int64

	// TER is the ledger result of the commit step. tesSUCCESS unless
	// the commit itself failed after an accept verdict.
	TER ledger.TER

	// ChangedState holds the committed dirty entries; a nil value
	// records a deletion. Empty except on accept.
	ChangedState map[ledger.Hash256][]byte

	// Emitted holds the transactions attached to the apply context,
	// in queue order. Empty except on accept.
	Emitted []*ledger.Tx
}

// Committed reports whether the invocation's effects reached the
// ledger.
func (r *HookResult) Committed() bool {
	return r.ExitType == hookapi.ExitAccept && r.TER.Success()
}

// TxResult folds the commit TER into the ledger-result channel,
// marking its hook origin.
func (r *HookResult) TxResult() int64 {
	return ledger.HookReturnCode(r.TER)
}
