package ledger

// TER is a ledger transaction engine result. Only the codes the hook
// core produces or propagates are enumerated here.
type TER int32

const (
	TesSUCCESS TER = 0

	// tec range: the transaction failed but claims a fee
	TecCLAIM         TER = 100
	TecDIR_FULL      TER = 121
	TecINTERNAL      TER = 144
	TecOVERSIZE      TER = 145
	TecHOOK_REJECTED TER = 153
	TecEMIT_FAILURE  TER = 154
)

var terNames = map[TER]string{
	TesSUCCESS:       "tesSUCCESS",
	TecCLAIM:         "tecCLAIM",
	TecDIR_FULL:      "tecDIR_FULL",
	TecINTERNAL:      "tecINTERNAL",
	TecOVERSIZE:      "tecOVERSIZE",
	TecHOOK_REJECTED: "tecHOOK_REJECTED",
	TecEMIT_FAILURE:  "tecEMIT_FAILURE",
}

func (t TER) String() string {
	if n, ok := terNames[t]; ok {
		return n
	}
	return "terUNKNOWN"
}

// Success reports whether the result is tesSUCCESS.
func (t TER) Success() bool { return t == TesSUCCESS }

// HookReturnCode folds a TER into the int64 result channel so the
// ledger-result carries both the value and its hook origin:
// -(ter << 16).
func HookReturnCode(t TER) int64 {
	return -(int64(t) << 16)
}
