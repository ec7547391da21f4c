package sto

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Object is a decoded serialised object: an unordered set of typed
// fields. Encoding is canonical (fields sorted by type, then code), so
// decode/encode round-trips byte-identically for canonical input.
type Object struct {
	fields []Field
}

// Field is one field of an Object. Exactly one of the value members is
// meaningful, selected by ID.Type().
type Field struct {
	ID    FieldID
	Uint  uint64       // UInt16, UInt32, UInt64, Amount
	Bytes []byte       // Hash256, Blob, Account
	Obj   *Object      // Object
	Arr   []ArrayEntry // Array
}

// ArrayEntry is one element of an array field: a wrapped inner object.
type ArrayEntry struct {
	ID  FieldID
	Obj *Object
}

// NewObject returns an empty object.
func NewObject() *Object { return &Object{} }

func (o *Object) find(id FieldID) *Field {
	for i := range o.fields {
		if o.fields[i].ID == id {
			return &o.fields[i]
		}
	}
	return nil
}

// Has reports whether the field is present.
func (o *Object) Has(id FieldID) bool { return o.find(id) != nil }

// Fields returns the fields in canonical order.
func (o *Object) Fields() []Field {
	o.sort()
	return o.fields
}

// Uint returns an integer-typed field.
func (o *Object) Uint(id FieldID) (uint64, bool) {
	if f := o.find(id); f != nil {
		return f.Uint, true
	}
	return 0, false
}

// Bytes returns a bytes-typed field (hash, blob or account payload).
func (o *Object) Bytes(id FieldID) ([]byte, bool) {
	if f := o.find(id); f != nil {
		return f.Bytes, true
	}
	return nil, false
}

// Object returns a nested object field.
func (o *Object) Object(id FieldID) (*Object, bool) {
	if f := o.find(id); f != nil {
		return f.Obj, true
	}
	return nil, false
}

// Array returns an array field's entries.
func (o *Object) Array(id FieldID) ([]ArrayEntry, bool) {
	if f := o.find(id); f != nil {
		return f.Arr, true
	}
	return nil, false
}

func (o *Object) set(f Field) {
	if prev := o.find(f.ID); prev != nil {
		*prev = f
		return
	}
	o.fields = append(o.fields, f)
}

// SetUint sets an integer-typed field, replacing any prior value.
func (o *Object) SetUint(id FieldID, v uint64) { o.set(Field{ID: id, Uint: v}) }

// SetBytes sets a bytes-typed field. The caller supplies the exact
// payload: 32 bytes for hashes, 20 for accounts. The slice is copied.
func (o *Object) SetBytes(id FieldID, b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)
	o.set(Field{ID: id, Bytes: cp})
}

// SetObject sets a nested object field.
func (o *Object) SetObject(id FieldID, obj *Object) { o.set(Field{ID: id, Obj: obj}) }

// SetArray sets an array field.
func (o *Object) SetArray(id FieldID, entries []ArrayEntry) { o.set(Field{ID: id, Arr: entries}) }

// Delete removes a field if present.
func (o *Object) Delete(id FieldID) {
	for i := range o.fields {
		if o.fields[i].ID == id {
			o.fields = append(o.fields[:i], o.fields[i+1:]...)
			return
		}
	}
}

func (o *Object) sort() {
	sort.SliceStable(o.fields, func(i, j int) bool {
		a, b := o.fields[i].ID, o.fields[j].ID
		if a.Type() != b.Type() {
			return a.Type() < b.Type()
		}
		return a.Code() < b.Code()
	})
}

// Encode serialises the object in canonical field order. Fields must
// hold well-shaped payloads (decode enforces this; setters copy what
// they are given).
func (o *Object) Encode() []byte {
	return o.appendTo(nil)
}

func (o *Object) appendTo(dst []byte) []byte {
	o.sort()
	for i := range o.fields {
		dst = appendField(dst, &o.fields[i])
	}
	return dst
}

func appendField(dst []byte, f *Field) []byte {
	dst = appendHeader(dst, f.ID)
	switch f.ID.Type() {
	case TypeUInt16:
		dst = binary.BigEndian.AppendUint16(dst, uint16(f.Uint))
	case TypeUInt32:
		dst = binary.BigEndian.AppendUint32(dst, uint32(f.Uint))
	case TypeUInt64, TypeAmount:
		dst = binary.BigEndian.AppendUint64(dst, f.Uint)
	case TypeHash256:
		dst = append(dst, f.Bytes...)
	case TypeBlob, TypeAccount:
		dst = appendVL(dst, len(f.Bytes))
		dst = append(dst, f.Bytes...)
	case TypeObject:
		if f.Obj != nil {
			dst = f.Obj.appendTo(dst)
		}
		dst = appendHeader(dst, FieldObjectEnd)
	case TypeArray:
		for _, e := range f.Arr {
			dst = appendHeader(dst, e.ID)
			if e.Obj != nil {
				dst = e.Obj.appendTo(dst)
			}
			dst = appendHeader(dst, FieldObjectEnd)
		}
		dst = appendHeader(dst, FieldArrayEnd)
	}
	return dst
}

// EncodeField serialises a single field, header included, in canonical
// form. Returns false when the field is absent.
func (o *Object) EncodeField(id FieldID) ([]byte, bool) {
	f := o.find(id)
	if f == nil {
		return nil, false
	}
	return appendField(nil, f), true
}

// Decode parses a serialised object. The whole input must be consumed.
func Decode(data []byte) (*Object, error) {
	obj, off, err := parseObject(data, 0, false)
	if err != nil {
		return nil, err
	}
	if off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(data)-off)
	}
	return obj, nil
}

// parseObject reads fields from data[off:]. When nested is true the
// object is terminated by an end marker; otherwise it runs to EOF.
func parseObject(data []byte, off int, nested bool) (*Object, int, error) {
	obj := NewObject()
	for off < len(data) {
		id, next, err := readHeader(data, off)
		if err != nil {
			return nil, 0, err
		}
		if id == FieldObjectEnd {
			if !nested {
				return nil, 0, fmt.Errorf("%w: unexpected object end marker", ErrMalformed)
			}
			return obj, next, nil
		}
		if id == FieldArrayEnd {
			return nil, 0, fmt.Errorf("%w: unexpected array end marker", ErrMalformed)
		}
		off = next
		var f Field
		f.ID = id
		switch id.Type() {
		case TypeUInt16, TypeUInt32, TypeUInt64, TypeAmount, TypeHash256:
			n := fixedSize(id.Type())
			if off+n > len(data) {
				return nil, 0, ErrMalformed
			}
			if id.Type() == TypeHash256 {
				f.Bytes = append([]byte(nil), data[off:off+n]...)
			} else {
				var v uint64
				for _, b := range data[off : off+n] {
					v = v<<8 | uint64(b)
				}
				f.Uint = v
			}
			off += n
		case TypeBlob, TypeAccount:
			n, next, err := readVL(data, off)
			if err != nil {
				return nil, 0, err
			}
			off = next
			if off+n > len(data) {
				return nil, 0, ErrMalformed
			}
			if id.Type() == TypeAccount && n != 20 {
				return nil, 0, fmt.Errorf("%w: account payload must be 20 bytes", ErrMalformed)
			}
			f.Bytes = append([]byte(nil), data[off:off+n]...)
			off += n
		case TypeObject:
			inner, next, err := parseObject(data, off, true)
			if err != nil {
				return nil, 0, err
			}
			f.Obj = inner
			off = next
		case TypeArray:
			entries, next, err := parseArray(data, off)
			if err != nil {
				return nil, 0, err
			}
			f.Arr = entries
			off = next
		default:
			return nil, 0, fmt.Errorf("%w: unknown field type %d", ErrMalformed, id.Type())
		}
		if obj.Has(id) {
			return nil, 0, fmt.Errorf("%w: duplicate field %s", ErrMalformed, id)
		}
		obj.set(f)
	}
	if nested {
		return nil, 0, fmt.Errorf("%w: missing object end marker", ErrMalformed)
	}
	return obj, off, nil
}

func parseArray(data []byte, off int) ([]ArrayEntry, int, error) {
	var entries []ArrayEntry
	for {
		id, next, err := readHeader(data, off)
		if err != nil {
			return nil, 0, err
		}
		if id == FieldArrayEnd {
			return entries, next, nil
		}
		if id.Type() != TypeObject || id == FieldObjectEnd {
			return nil, 0, fmt.Errorf("%w: array entry must be an object field", ErrMalformed)
		}
		inner, next2, err := parseObject(data, next, true)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, ArrayEntry{ID: id, Obj: inner})
		off = next2
	}
}
