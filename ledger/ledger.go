// Package ledger holds the data model the hook runtime executes
// against (account ids, hashes, keylets, transaction types) and the
// collaborator contracts it consumes: the ApplyContext giving access to
// the triggering transaction and staged ledger writes, and the
// transaction factory.
package ledger

import (
	"crypto/sha512"
	"encoding/hex"
)

// AccountID is a raw 20-byte account identifier.
type AccountID [20]byte

// Hash256 is a 256-bit identifier: object keys, transaction ids,
// namespaces, state keys.
type Hash256 [32]byte

func (a AccountID) String() string { return hex.EncodeToString(a[:]) }
func (h Hash256) String() string   { return hex.EncodeToString(h[:]) }

// IsZero reports whether the hash is all zeroes.
func (h Hash256) IsZero() bool { return h == Hash256{} }

// SHA512Half returns the first 256 bits of SHA-512 over the
// concatenation of the given slices. All ledger identifiers derive
// through it.
func SHA512Half(data ...[]byte) Hash256 {
	d := sha512.New()
	for _, b := range data {
		d.Write(b)
	}
	var out Hash256
	copy(out[:], d.Sum(nil))
	return out
}

// KeyletType tags the kind of ledger object a keylet resolves to.
type KeyletType uint16

const (
	KeyletAccount    KeyletType = 0x0061 // account root
	KeyletOwnerDir   KeyletType = 0x0064 // owner directory
	KeyletHook       KeyletType = 0x0048 // hook definition attached to an account
	KeyletHookState  KeyletType = 0x0076 // one hook state entry
	KeyletEmittedTxn KeyletType = 0x0045 // emitted transaction in the post-apply queue
)

// Keylet is an opaque typed key identifying a ledger object.
type Keylet struct {
	Type KeyletType
	Key  Hash256
}

func keyletSpace(t KeyletType) []byte {
	return []byte{byte(t >> 8), byte(t)}
}

// AccountKeylet locates an account root.
func AccountKeylet(acc AccountID) Keylet {
	return Keylet{KeyletAccount, SHA512Half(keyletSpace(KeyletAccount), acc[:])}
}

// OwnerDirKeylet locates an account's owner directory.
func OwnerDirKeylet(acc AccountID) Keylet {
	return Keylet{KeyletOwnerDir, SHA512Half(keyletSpace(KeyletOwnerDir), acc[:])}
}

// HookKeylet locates the hook object attached to an account.
func HookKeylet(acc AccountID) Keylet {
	return Keylet{KeyletHook, SHA512Half(keyletSpace(KeyletHook), acc[:])}
}

// HookStateKeylet locates one state entry under an account.
func HookStateKeylet(acc AccountID, key Hash256) Keylet {
	return Keylet{KeyletHookState, SHA512Half(keyletSpace(KeyletHookState), acc[:], key[:])}
}

// EmittedTxnKeylet locates an emitted transaction by id.
func EmittedTxnKeylet(txID Hash256) Keylet {
	return Keylet{KeyletEmittedTxn, SHA512Half(keyletSpace(KeyletEmittedTxn), txID[:])}
}

// KeyletForSlotType maps a guest-supplied slot type tag to a keylet of
// the identified object. Unknown tags return false.
func KeyletForSlotType(slotType uint32, key Hash256) (Keylet, bool) {
	switch slotType {
	case SlotTypeAccount:
		return Keylet{KeyletAccount, key}, true
	case SlotTypeOwnerDir:
		return Keylet{KeyletOwnerDir, key}, true
	case SlotTypeHook:
		return Keylet{KeyletHook, key}, true
	case SlotTypeHookState:
		return Keylet{KeyletHookState, key}, true
	case SlotTypeEmittedTxn:
		return Keylet{KeyletEmittedTxn, key}, true
	}
	return Keylet{}, false
}

// Slot type tags accepted by slot_set.
const (
	SlotTypeAccount    uint32 = 1
	SlotTypeOwnerDir   uint32 = 2
	SlotTypeHook       uint32 = 3
	SlotTypeHookState  uint32 = 4
	SlotTypeEmittedTxn uint32 = 5
)
