package asterix

import (
	"fmt"
	"strings"

	"goasterix/internal/bitfield"
)

// presenceBits is the number of item flags carried by one FSPEC octet
const presenceBits = 7

// Ordinal identifies a UAP position, counted from 0. FRN = Ordinal + 1.
type Ordinal int

// FRN returns the 1-based field reference number
func (o Ordinal) FRN() int {
	return int(o) + 1
}

// Position returns the FSPEC octet (1-based) and bit (8..2) that flag this ordinal
func (o Ordinal) Position() (octet int, bit uint) {
	return int(o)/presenceBits + 1, uint(8 - int(o)%presenceBits)
}

// Fspec is the field specification of a record: a chain of octets whose
// bits 8..2 flag item presence and whose bit 1 is FX
type Fspec []byte

// Octet returns FSPEC octet n (1-based), or 0 when the octet is absent
func (f Fspec) Octet(n int) byte {
	if n < 1 || n > len(f) {
		return 0
	}
	return f[n-1]
}

// SetOctet stores octet n (1-based) verbatim, growing the FSPEC as needed
func (f *Fspec) SetOctet(n int, b byte) {
	if n < 1 {
		return
	}
	for len(*f) < n {
		*f = append(*f, 0)
	}
	(*f)[n-1] = b
}

// HasExtension reports whether octet n (1-based) announces a following octet
func (f Fspec) HasExtension(n int) bool {
	return bitfield.Bit(f.Octet(n), 1)
}

// Present reports whether ordinal o is flagged
func (f Fspec) Present(o Ordinal) bool {
	if o < 0 {
		return false
	}
	octet, bit := o.Position()
	return bitfield.Bit(f.Octet(octet), bit)
}

// set flags ordinal o and chains every preceding octet to it
func (f *Fspec) set(o Ordinal) {
	octet, bit := o.Position()
	f.SetOctet(octet, bitfield.SetBit(f.Octet(octet), bit, true))
	f.relink()
}

// clear unflags ordinal o and drops trailing empty octets
func (f *Fspec) clear(o Ordinal) {
	octet, bit := o.Position()
	if octet > len(*f) {
		return
	}
	(*f)[octet-1] = bitfield.SetBit((*f)[octet-1], bit, false)
	for len(*f) > 1 && (*f)[len(*f)-1]&^FX == 0 {
		*f = (*f)[:len(*f)-1]
	}
	if len(*f) == 1 && (*f)[0]&^FX == 0 {
		*f = nil
	}
	f.relink()
}

// relink rewrites the FX bits so that every octet but the last continues
func (f *Fspec) relink() {
	_, _ = WriteChain(*f, 0, *f)
}

// Transmitted returns the prefix of the FSPEC that goes on the wire:
// octet 1, then every further octet announced by its predecessor's FX bit,
// bounded by max octets
func (f Fspec) Transmitted(max int) (Fspec, error) {
	if len(f) == 0 {
		return nil, fmt.Errorf("%w: empty FSPEC", ErrMissingItem)
	}
	n := 1
	for n < max && f.HasExtension(n) {
		if n >= len(f) {
			return nil, fmt.Errorf("%w: FSPEC octet %d sets FX but no octet %d follows", ErrTruncatedChain, n, n+1)
		}
		n++
	}
	return f[:n], nil
}

// String renders the FSPEC as hex octets
func (f Fspec) String() string {
	parts := make([]string, len(f))
	for i, b := range f {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
