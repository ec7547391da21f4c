package sto

// Raw-byte traversal. These operate on serialised data without building
// an Object, so the bounds they return refer to the caller's buffer,
// which is what the util_subfield and util_subarray host calls hand
// back to the guest.

// fieldBounds parses the field starting at data[off]. It returns the
// field id, the bounds of the field's payload, and the offset just past
// the whole field. End markers are returned with an empty payload.
func fieldBounds(data []byte, off int) (id FieldID, payStart, payEnd, next int, err error) {
	id, p, err := readHeader(data, off)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if id == FieldObjectEnd || id == FieldArrayEnd {
		return id, p, p, p, nil
	}
	switch id.Type() {
	case TypeUInt16, TypeUInt32, TypeUInt64, TypeAmount, TypeHash256:
		n := fixedSize(id.Type())
		if p+n > len(data) {
			return 0, 0, 0, 0, ErrMalformed
		}
		return id, p, p + n, p + n, nil
	case TypeBlob, TypeAccount:
		n, q, err := readVL(data, p)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		if q+n > len(data) {
			return 0, 0, 0, 0, ErrMalformed
		}
		return id, q, q + n, q + n, nil
	case TypeObject:
		cur := p
		for {
			cid, _, _, cnext, err := fieldBounds(data, cur)
			if err != nil {
				return 0, 0, 0, 0, err
			}
			if cid == FieldArrayEnd {
				return 0, 0, 0, 0, ErrMalformed
			}
			if cid == FieldObjectEnd {
				return id, p, cur, cnext, nil
			}
			cur = cnext
		}
	case TypeArray:
		cur := p
		for {
			cid, _, _, cnext, err := fieldBounds(data, cur)
			if err != nil {
				return 0, 0, 0, 0, err
			}
			if cid == FieldArrayEnd {
				return id, p, cur, cnext, nil
			}
			if cid.Type() != TypeObject {
				return 0, 0, 0, 0, ErrMalformed
			}
			cur = cnext
		}
	default:
		return 0, 0, 0, 0, ErrMalformed
	}
}

// SubField locates field id at the top level of data and returns the
// bounds of its payload. For blobs and accounts the bounds exclude the
// length prefix; for objects and arrays they cover the contained fields
// without the end marker.
func SubField(data []byte, id FieldID) (offset, length int, err error) {
	cur := 0
	for cur < len(data) {
		fid, ps, pe, next, err := fieldBounds(data, cur)
		if err != nil {
			return 0, 0, err
		}
		if fid == FieldObjectEnd || fid == FieldArrayEnd {
			return 0, 0, ErrMalformed
		}
		if fid == id {
			return ps, pe - ps, nil
		}
		cur = next
	}
	return 0, 0, ErrFieldNotFound
}

// SubArray treats data as the payload of an array field (a sequence of
// wrapped objects, with or without a trailing end marker) and returns
// the bounds of element index's inner fields.
func SubArray(data []byte, index int) (offset, length int, err error) {
	cur, i := 0, 0
	for cur < len(data) {
		fid, ps, pe, next, err := fieldBounds(data, cur)
		if err != nil {
			return 0, 0, err
		}
		if fid == FieldArrayEnd {
			break
		}
		if fid.Type() != TypeObject {
			return 0, 0, ErrMalformed
		}
		if i == index {
			return ps, pe - ps, nil
		}
		i++
		cur = next
	}
	return 0, 0, ErrFieldNotFound
}
