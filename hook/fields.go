package hook

import (
	"encoding/hex"
	"fmt"

	"github.com/ledgerhooks/hookexec/addr"
	"github.com/ledgerhooks/hookexec/sto"
)

// encodeField serialises one field of obj, header included.
func encodeField(obj *sto.Object, id sto.FieldID) ([]byte, bool) {
	return obj.EncodeField(id)
}

// fieldText renders a field for the *_txt calls: decimal for integers,
// hex for hashes and blobs, the checked address form for accounts.
// Objects and arrays render as their field name.
func fieldText(obj *sto.Object, id sto.FieldID) (string, bool) {
	switch id.Type() {
	case sto.TypeUInt16, sto.TypeUInt32, sto.TypeUInt64, sto.TypeAmount:
		v, ok := obj.Uint(id)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%d", v), true
	case sto.TypeHash256, sto.TypeBlob:
		b, ok := obj.Bytes(id)
		if !ok {
			return "", false
		}
		return hex.EncodeToString(b), true
	case sto.TypeAccount:
		b, ok := obj.Bytes(id)
		if !ok {
			return "", false
		}
		s, err := addr.Encode(b)
		if err != nil {
			return "", false
		}
		return s, true
	case sto.TypeObject:
		if _, ok := obj.Object(id); !ok {
			return "", false
		}
		return id.String(), true
	case sto.TypeArray:
		if _, ok := obj.Array(id); !ok {
			return "", false
		}
		return id.String(), true
	}
	return "", false
}
