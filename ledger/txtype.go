package ledger

// TxType enumerates transaction types. Values are wire constants and
// double as bit positions in a hook's HookOn mask.
type TxType uint16

const (
	TxPayment              TxType = 0
	TxEscrowCreate         TxType = 1
	TxEscrowFinish         TxType = 2
	TxAccountSet           TxType = 3
	TxEscrowCancel         TxType = 4
	TxSetRegularKey        TxType = 5
	TxOfferCreate          TxType = 7
	TxOfferCancel          TxType = 8
	TxTicketCreate         TxType = 10
	TxSignerListSet        TxType = 12
	TxPaymentChannelCreate TxType = 13
	TxPaymentChannelFund   TxType = 14
	TxPaymentChannelClaim  TxType = 15
	TxCheckCreate          TxType = 16
	TxCheckCash            TxType = 17
	TxCheckCancel          TxType = 18
	TxDepositPreauth       TxType = 19
	TxTrustSet             TxType = 20
	TxAccountDelete        TxType = 21
	TxHookSet              TxType = 22
)

var txTypeNames = map[TxType]string{
	TxPayment:              "Payment",
	TxEscrowCreate:         "EscrowCreate",
	TxEscrowFinish:         "EscrowFinish",
	TxAccountSet:           "AccountSet",
	TxEscrowCancel:         "EscrowCancel",
	TxSetRegularKey:        "SetRegularKey",
	TxOfferCreate:          "OfferCreate",
	TxOfferCancel:          "OfferCancel",
	TxTicketCreate:         "TicketCreate",
	TxSignerListSet:        "SignerListSet",
	TxPaymentChannelCreate: "PaymentChannelCreate",
	TxPaymentChannelFund:   "PaymentChannelFund",
	TxPaymentChannelClaim:  "PaymentChannelClaim",
	TxCheckCreate:          "CheckCreate",
	TxCheckCash:            "CheckCash",
	TxCheckCancel:          "CheckCancel",
	TxDepositPreauth:       "DepositPreauth",
	TxTrustSet:             "TrustSet",
	TxAccountDelete:        "AccountDelete",
	TxHookSet:              "HookSet",
}

func (t TxType) String() string {
	if n, ok := txTypeNames[t]; ok {
		return n
	}
	return "Unknown"
}

// Known reports whether t is a defined transaction type.
func (t TxType) Known() bool {
	_, ok := txTypeNames[t]
	return ok
}

// CanHook gates hook execution by transaction type. A set bit in the
// hookOn mask suppresses the corresponding type; HookSet transactions
// never trigger hooks regardless of the mask, and types beyond the
// mask width never fire.
func CanHook(t TxType, hookOn uint64) bool {
	if t == TxHookSet || !t.Known() {
		return false
	}
	if uint(t) >= 64 {
		return false
	}
	return hookOn&(1<<uint(t)) == 0
}
