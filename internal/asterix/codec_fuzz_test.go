//go:build fuzz

package asterix

import (
	"testing"
)

// FuzzDecode checks that arbitrary input never panics and that anything
// accepted re-encodes to the same octets
func FuzzDecode(f *testing.F) {
	f.Add([]byte{testCategory, 0x00, 0x06, 0x80, 0x01, 0x02})
	f.Add([]byte{testCategory, 0x00, 0x07, 0x20, 0x41, 0x21, 0x10})
	f.Add([]byte{testCategory, 0x00, 0x0C, 0x81, 0xC0, 0xAA, 0xBB, 0xA0, 0x11, 0x22, 0x33, 0x44})
	f.Add([]byte{testCategory, 0x00, 0x0A, 0x81})

	codec := NewCodec(testUAP, nil)
	f.Fuzz(func(t *testing.T, data []byte) {
		rec, n, err := codec.Decode(data)
		if err != nil {
			return
		}
		if n > len(data) {
			t.Fatalf("consumed %d of %d octets", n, len(data))
		}
		// spare bits are dropped on encode, so only compare clean FSPECs
		for _, o := range testUAP.Ordinals(rec.Fspec) {
			if e, _ := testUAP.Entry(o); e.Spare() {
				return
			}
		}
		// the last FSPEC octet may carry FX at the cap; encode relinks it
		if rec.Fspec.HasExtension(len(rec.Fspec)) {
			return
		}
		out, err := codec.Encode(rec)
		if err != nil {
			t.Fatalf("re-encode: %v", err)
		}
		if string(out) != string(data[:n]) {
			t.Fatalf("re-encode mismatch: %x != %x", out, data[:n])
		}
	})
}
