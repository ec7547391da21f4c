package hook

import "github.com/ledgerhooks/hookexec/hookapi"

// Memory is the host's view of guest linear memory. wazero's
// api.Memory satisfies it; tests substitute a plain buffer.
type Memory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
	Size() uint32
}

// memRead returns the guest region [ptr, ptr+n), or OutOfBounds. The
// returned slice aliases guest memory; callers that retain it copy.
func memRead(m Memory, ptr, n uint32) ([]byte, int64) {
	if uint64(ptr)+uint64(n) > uint64(m.Size()) {
		return nil, hookapi.OutOfBounds
	}
	b, ok := m.Read(ptr, n)
	if !ok {
		return nil, hookapi.OutOfBounds
	}
	return b, 0
}

// memWrite copies data into guest memory at ptr. The write is
// all-or-nothing: OutOfBounds leaves memory untouched.
func memWrite(m Memory, ptr uint32, data []byte) int64 {
	if uint64(ptr)+uint64(len(data)) > uint64(m.Size()) {
		return hookapi.OutOfBounds
	}
	if !m.Write(ptr, data) {
		return hookapi.OutOfBounds
	}
	return int64(len(data))
}

// writeCheck applies the output discipline shared by every host call
// that produces need bytes into a guest region declared (ptr, len):
// the declared region must be in bounds, and the whole output must
// fit; no partial writes.
func writeCheck(m Memory, ptr, declared uint32, need int) int64 {
	if uint64(ptr)+uint64(declared) > uint64(m.Size()) {
		return hookapi.OutOfBounds
	}
	if int(declared) < need {
		return hookapi.TooSmall
	}
	return 0
}
