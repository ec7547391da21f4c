package sto

// Field definitions. Codes are stable protocol constants; a code below
// 16 keeps the one-byte header.
var (
	// 16-bit integers
	FieldTransactionType  = MakeField(TypeUInt16, 2)
	FieldSignerWeight     = MakeField(TypeUInt16, 3)
	FieldHookApiVersion   = MakeField(TypeUInt16, 4)
	FieldHookSetOperation = MakeField(TypeUInt16, 16)

	// 32-bit integers
	FieldFlags          = MakeField(TypeUInt32, 2)
	FieldSequence       = MakeField(TypeUInt32, 4)
	FieldEmitGeneration = MakeField(TypeUInt32, 11)
	FieldHookSequence   = MakeField(TypeUInt32, 16)
	FieldHookReorder    = MakeField(TypeUInt32, 17)

	// 64-bit integers
	FieldEmitBurden = MakeField(TypeUInt64, 13)
	FieldHookOn     = MakeField(TypeUInt64, 16)

	// 256-bit hashes
	FieldAccountTxnID    = MakeField(TypeHash256, 9)
	FieldEmitParentTxnID = MakeField(TypeHash256, 11)
	FieldEmitNonce       = MakeField(TypeHash256, 17)
	FieldHookHash        = MakeField(TypeHash256, 19)
	FieldHookNamespace   = MakeField(TypeHash256, 20)
	FieldHookStateKey    = MakeField(TypeHash256, 21)

	// amounts (drops, 8 bytes big-endian)
	FieldAmount = MakeField(TypeAmount, 1)
	FieldFee    = MakeField(TypeAmount, 8)

	// variable-length blobs
	FieldSigningPubKey      = MakeField(TypeBlob, 3)
	FieldTxnSignature       = MakeField(TypeBlob, 4)
	FieldCreateCode         = MakeField(TypeBlob, 11)
	FieldHookStateData      = MakeField(TypeBlob, 22)
	FieldHookParameterName  = MakeField(TypeBlob, 24)
	FieldHookParameterValue = MakeField(TypeBlob, 25)

	// account ids (20 bytes, vl-prefixed)
	FieldAccount      = MakeField(TypeAccount, 1)
	FieldDestination  = MakeField(TypeAccount, 3)
	FieldEmitCallback = MakeField(TypeAccount, 10)

	// inner objects
	FieldObjectEnd      = MakeField(TypeObject, 1)
	FieldEmitDetails    = MakeField(TypeObject, 9)
	FieldSignerEntry    = MakeField(TypeObject, 11)
	FieldSigner         = MakeField(TypeObject, 16)
	FieldHookDefinition = MakeField(TypeObject, 22)
	FieldHookSet        = MakeField(TypeObject, 23)
	FieldHookParameter  = MakeField(TypeObject, 24)

	// arrays
	FieldArrayEnd       = MakeField(TypeArray, 1)
	FieldSigners        = MakeField(TypeArray, 3)
	FieldSignerEntries  = MakeField(TypeArray, 4)
	FieldHookParameters = MakeField(TypeArray, 19)
)

var fieldNames = map[FieldID]string{
	FieldTransactionType:  "TransactionType",
	FieldSignerWeight:     "SignerWeight",
	FieldHookApiVersion:   "HookApiVersion",
	FieldHookSetOperation: "HookSetOperation",

	FieldFlags:          "Flags",
	FieldSequence:       "Sequence",
	FieldEmitGeneration: "EmitGeneration",
	FieldHookSequence:   "HookSequence",
	FieldHookReorder:    "HookReorder",

	FieldEmitBurden: "EmitBurden",
	FieldHookOn:     "HookOn",

	FieldAccountTxnID:    "AccountTxnID",
	FieldEmitParentTxnID: "EmitParentTxnID",
	FieldEmitNonce:       "EmitNonce",
	FieldHookHash:        "HookHash",
	FieldHookNamespace:   "HookNamespace",
	FieldHookStateKey:    "HookStateKey",

	FieldAmount: "Amount",
	FieldFee:    "Fee",

	FieldSigningPubKey:      "SigningPubKey",
	FieldTxnSignature:       "TxnSignature",
	FieldCreateCode:         "CreateCode",
	FieldHookStateData:      "HookStateData",
	FieldHookParameterName:  "HookParameterName",
	FieldHookParameterValue: "HookParameterValue",

	FieldAccount:      "Account",
	FieldDestination:  "Destination",
	FieldEmitCallback: "EmitCallback",

	FieldEmitDetails:    "EmitDetails",
	FieldSignerEntry:    "SignerEntry",
	FieldSigner:         "Signer",
	FieldHookDefinition: "HookDefinition",
	FieldHookSet:        "HookSet",
	FieldHookParameter:  "HookParameter",

	FieldSigners:        "Signers",
	FieldSignerEntries:  "SignerEntries",
	FieldHookParameters: "HookParameters",
}

// FieldByName resolves a field name, for tooling.
func FieldByName(name string) (FieldID, bool) {
	for id, n := range fieldNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}
