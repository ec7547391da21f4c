package sto

import (
	"bytes"
	"testing"
)

func sampleTx() *Object {
	obj := NewObject()
	obj.SetUint(FieldTransactionType, 0)
	obj.SetUint(FieldSequence, 7)
	obj.SetUint(FieldFee, 12)
	obj.SetBytes(FieldAccount, bytes.Repeat([]byte{0xaa}, 20))
	obj.SetBytes(FieldDestination, bytes.Repeat([]byte{0xbb}, 20))
	obj.SetBytes(FieldSigningPubKey, []byte{1, 2, 3})
	return obj
}

func TestEncodeCanonicalOrder(t *testing.T) {
	obj := NewObject()
	// inserted out of order on purpose
	obj.SetBytes(FieldAccount, bytes.Repeat([]byte{1}, 20))
	obj.SetUint(FieldFee, 10)
	obj.SetUint(FieldTransactionType, 3)

	enc := obj.Encode()
	// TransactionType (1,2) sorts before Fee (6,8) before Account (8,1)
	if enc[0] != 0x12 {
		t.Fatalf("first header = %#x, want TransactionType (0x12)", enc[0])
	}
	if enc[3] != 0x68 {
		t.Fatalf("second header = %#x, want Fee (0x68)", enc[3])
	}
	if enc[12] != 0x81 {
		t.Fatalf("third header = %#x, want Account (0x81)", enc[12])
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	obj := sampleTx()
	inner := NewObject()
	inner.SetUint(FieldEmitGeneration, 1)
	inner.SetUint(FieldEmitBurden, 2)
	obj.SetObject(FieldEmitDetails, inner)
	obj.SetArray(FieldSignerEntries, []ArrayEntry{
		{ID: FieldSignerEntry, Obj: signerEntry(0xcc, 1)},
		{ID: FieldSignerEntry, Obj: signerEntry(0xdd, 2)},
	})

	enc := obj.Encode()
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(dec.Encode(), enc) {
		t.Fatal("re-encode differs from canonical encoding")
	}
	if v, ok := dec.Uint(FieldSequence); !ok || v != 7 {
		t.Errorf("Sequence = %d,%v", v, ok)
	}
	ed, ok := dec.Object(FieldEmitDetails)
	if !ok {
		t.Fatal("EmitDetails missing after round trip")
	}
	if g, _ := ed.Uint(FieldEmitGeneration); g != 1 {
		t.Errorf("EmitGeneration = %d, want 1", g)
	}
	if arr, _ := dec.Array(FieldSignerEntries); len(arr) != 2 {
		t.Errorf("SignerEntries length = %d, want 2", len(arr))
	}
}

func signerEntry(fill byte, weight uint64) *Object {
	o := NewObject()
	o.SetBytes(FieldAccount, bytes.Repeat([]byte{fill}, 20))
	o.SetUint(FieldSignerWeight, weight)
	return o
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated fixed", []byte{0x12, 0x00}},
		{"truncated vl", []byte{0x73, 0x05, 0x01}},
		{"bad account length", append([]byte{0x81, 0x02}, 0xaa, 0xbb)},
		{"stray object end", []byte{0xe1}},
		{"missing object end", NewObject().Encode()[:0:0]},
		{"type zero", []byte{0x0f}},
	}
	// build "missing object end" case: object header without terminator
	tests[4].data = []byte{0xe9, 0x2b, 0, 0, 0, 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); err == nil {
				t.Errorf("Decode(%x) succeeded, want error", tt.data)
			}
		})
	}
}

func TestDecodeRejectsDuplicateField(t *testing.T) {
	var data []byte
	data = append(data, 0x12, 0, 1)
	data = append(data, 0x12, 0, 2)
	if _, err := Decode(data); err == nil {
		t.Fatal("duplicate field must not decode")
	}
}

func TestVLBoundaries(t *testing.T) {
	for _, n := range []int{0, 1, 192, 193, 12480, 12481, 20000} {
		enc := appendVL(nil, n)
		got, next, err := readVL(append(enc, make([]byte, n)...), 0)
		if err != nil {
			t.Fatalf("readVL(%d): %v", n, err)
		}
		if got != n || next != len(enc) {
			t.Errorf("vl %d: got %d, prefix %d want %d", n, got, next, len(enc))
		}
	}
}

func TestSubField(t *testing.T) {
	obj := sampleTx()
	enc := obj.Encode()

	off, n, err := SubField(enc, FieldDestination)
	if err != nil {
		t.Fatalf("SubField: %v", err)
	}
	if n != 20 || !bytes.Equal(enc[off:off+n], bytes.Repeat([]byte{0xbb}, 20)) {
		t.Errorf("Destination payload = %x", enc[off:off+n])
	}

	if _, _, err := SubField(enc, FieldHookHash); err != ErrFieldNotFound {
		t.Errorf("missing field: err = %v, want ErrFieldNotFound", err)
	}
	if _, _, err := SubField([]byte{0x12}, FieldFee); err == nil {
		t.Error("malformed input must error")
	}
}

func TestSubFieldNestedObjectBounds(t *testing.T) {
	obj := NewObject()
	inner := NewObject()
	inner.SetUint(FieldEmitGeneration, 9)
	obj.SetObject(FieldEmitDetails, inner)
	enc := obj.Encode()

	off, n, err := SubField(enc, FieldEmitDetails)
	if err != nil {
		t.Fatalf("SubField: %v", err)
	}
	// payload covers the inner fields, not the end marker
	wantInner := inner.Encode()
	if !bytes.Equal(enc[off:off+n], wantInner) {
		t.Errorf("inner payload = %x, want %x", enc[off:off+n], wantInner)
	}
	// the returned region is itself traversable
	if _, _, err := SubField(enc[off:off+n], FieldEmitGeneration); err != nil {
		t.Errorf("nested SubField: %v", err)
	}
}

func TestSubArray(t *testing.T) {
	obj := NewObject()
	obj.SetArray(FieldSignerEntries, []ArrayEntry{
		{ID: FieldSignerEntry, Obj: signerEntry(0x11, 1)},
		{ID: FieldSignerEntry, Obj: signerEntry(0x22, 2)},
		{ID: FieldSignerEntry, Obj: signerEntry(0x33, 3)},
	})
	enc := obj.Encode()
	arrOff, arrLen, err := SubField(enc, FieldSignerEntries)
	if err != nil {
		t.Fatalf("SubField(array): %v", err)
	}
	payload := enc[arrOff : arrOff+arrLen]

	for i, fill := range []byte{0x11, 0x22, 0x33} {
		off, n, err := SubArray(payload, i)
		if err != nil {
			t.Fatalf("SubArray(%d): %v", i, err)
		}
		acct, an, err := SubField(payload[off:off+n], FieldAccount)
		if err != nil {
			t.Fatalf("entry %d account: %v", i, err)
		}
		if payload[off+acct] != fill || an != 20 {
			t.Errorf("entry %d account fill = %#x, want %#x", i, payload[off+acct], fill)
		}
	}
	if _, _, err := SubArray(payload, 3); err != ErrFieldNotFound {
		t.Errorf("out-of-range index: err = %v, want ErrFieldNotFound", err)
	}
}

func TestTemplateValidate(t *testing.T) {
	tmpl, ok := InnerTemplate(FieldHookParameter)
	if !ok {
		t.Fatal("HookParameter template missing")
	}

	good := NewObject()
	good.SetBytes(FieldHookParameterName, []byte("rate"))
	good.SetBytes(FieldHookParameterValue, []byte{1})
	if err := tmpl.Validate(good); err != nil {
		t.Errorf("valid parameter rejected: %v", err)
	}

	missing := NewObject()
	missing.SetBytes(FieldHookParameterName, []byte("rate"))
	if err := tmpl.Validate(missing); err == nil {
		t.Error("missing required field accepted")
	}

	extra := NewObject()
	extra.SetBytes(FieldHookParameterName, []byte("rate"))
	extra.SetBytes(FieldHookParameterValue, []byte{1})
	extra.SetUint(FieldSequence, 1)
	if err := tmpl.Validate(extra); err == nil {
		t.Error("field outside template accepted")
	}
}

func TestVerifyBlob(t *testing.T) {
	obj := sampleTx()
	param := NewObject()
	param.SetBytes(FieldHookParameterName, []byte("n"))
	param.SetBytes(FieldHookParameterValue, []byte{2})
	def := NewObject()
	def.SetUint(FieldHookOn, 0)
	def.SetBytes(FieldHookNamespace, make([]byte, 32))
	def.SetArray(FieldHookParameters, []ArrayEntry{{ID: FieldHookParameter, Obj: param}})
	def.SetUint(FieldHookApiVersion, 0)
	def.SetBytes(FieldCreateCode, []byte{0x00, 0x61, 0x73, 0x6d})
	obj.SetObject(FieldHookDefinition, def)

	if !VerifyBlob(obj.Encode()) {
		t.Error("well-formed blob rejected")
	}

	def.Delete(FieldCreateCode)
	if VerifyBlob(obj.Encode()) {
		t.Error("HookDefinition missing CreateCode accepted")
	}
	if VerifyBlob([]byte{0xff, 0xff}) {
		t.Error("garbage accepted")
	}
}
