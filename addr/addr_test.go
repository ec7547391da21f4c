package addr

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	ids := [][]byte{
		make([]byte, IDSize),
		bytes.Repeat([]byte{0xff}, IDSize),
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
	}
	for _, id := range ids {
		s, err := Encode(id)
		if err != nil {
			t.Fatalf("Encode(%x): %v", id, err)
		}
		got, err := Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q): %v", s, err)
		}
		if !bytes.Equal(got[:], id) {
			t.Errorf("round trip %x -> %q -> %x", id, s, got)
		}
		// and the string direction
		s2, err := Encode(got[:])
		if err != nil || s2 != s {
			t.Errorf("string round trip %q -> %q", s, s2)
		}
	}
}

func TestEncodeRejectsBadLength(t *testing.T) {
	if _, err := Encode(make([]byte, 19)); err != ErrBadLength {
		t.Errorf("19 bytes: err = %v, want ErrBadLength", err)
	}
	if _, err := Encode(make([]byte, 21)); err != ErrBadLength {
		t.Errorf("21 bytes: err = %v, want ErrBadLength", err)
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	s, _ := Encode(bytes.Repeat([]byte{0x42}, IDSize))
	// flip one character; base58 checksum must catch it
	corrupted := []byte(s)
	if corrupted[3] == '2' {
		corrupted[3] = '3'
	} else {
		corrupted[3] = '2'
	}
	if _, err := Decode(string(corrupted)); err == nil {
		t.Error("corrupted address accepted")
	}
	if _, err := Decode("not-an-address"); err == nil {
		t.Error("garbage address accepted")
	}
}

func TestFromPubKeyDeterministic(t *testing.T) {
	pub := bytes.Repeat([]byte{0x02}, 33)
	a := FromPubKey(pub)
	b := FromPubKey(pub)
	if a != b {
		t.Error("derivation not deterministic")
	}
	if a == FromPubKey(bytes.Repeat([]byte{0x03}, 33)) {
		t.Error("distinct keys must not collide")
	}
}
