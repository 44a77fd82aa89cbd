package asterix

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Item holds the wire octets of one data item, including any REP octet,
// explicit length octet or compound primary subfield
type Item []byte

// String renders the item as upper-case hex
func (i Item) String() string {
	return strings.ToUpper(hex.EncodeToString(i))
}

// Format describes the wire layout of a data item. The set of formats is
// closed: Fixed, Extended, Repetitive, Explicit and Compound.
type Format interface {
	// Span returns the number of octets occupied by the item starting at cursor
	Span(buf []byte, cursor int) (int, error)
	String() string
	format()
}

// DecodeItem copies the item starting at cursor out of buf and returns the
// advanced cursor
func DecodeItem(f Format, buf []byte, cursor int) (Item, int, error) {
	n, err := f.Span(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	item := make(Item, n)
	copy(item, buf[cursor:cursor+n])
	return item, cursor + n, nil
}

// EncodeItem checks that item is laid out according to f, writes it at
// cursor and returns the advanced cursor
func EncodeItem(f Format, item Item, out []byte, cursor int) (int, error) {
	if err := Validate(f, item); err != nil {
		return cursor, err
	}
	if cursor < 0 || cursor+len(item) > len(out) {
		return cursor, fmt.Errorf("%w: item of %d octets at offset %d, buffer has %d", ErrBufferOverrun, len(item), cursor, len(out))
	}
	copy(out[cursor:], item)
	return cursor + len(item), nil
}

// Validate reports whether item is exactly one well-formed instance of f
func Validate(f Format, item Item) error {
	if len(item) == 0 {
		return fmt.Errorf("%w: empty %s item", ErrMalformedItem, f)
	}
	n, err := f.Span(item, 0)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedItem, err)
	}
	if n != len(item) {
		return fmt.Errorf("%w: %s layout spans %d octets, item has %d", ErrMalformedItem, f, n, len(item))
	}
	return nil
}

func need(buf []byte, cursor, n int) error {
	if cursor < 0 || cursor+n > len(buf) {
		return fmt.Errorf("%w: need %d octets at offset %d, have %d", ErrBufferUnderrun, n, cursor, len(buf))
	}
	return nil
}

// Fixed is an item of exactly Size octets
type Fixed struct {
	Size int
}

func (f Fixed) Span(buf []byte, cursor int) (int, error) {
	if err := need(buf, cursor, f.Size); err != nil {
		return 0, err
	}
	return f.Size, nil
}

func (f Fixed) String() string { return fmt.Sprintf("fixed(%d)", f.Size) }
func (Fixed) format()          {}

// Extended is a primary part of Primary octets followed by extension parts
// of Ext octets. The last octet of each part carries FX; at most Max parts
// are read (Max <= 0 means unbounded).
type Extended struct {
	Primary int
	Ext     int
	Max     int
}

func (f Extended) Span(buf []byte, cursor int) (int, error) {
	if f.Primary < 1 || f.Ext < 1 {
		return 0, fmt.Errorf("%w: %s has empty parts", ErrMalformedItem, f)
	}
	if err := need(buf, cursor, f.Primary); err != nil {
		return 0, err
	}
	off := cursor + f.Primary
	parts := 1
	for buf[off-1]&FX != 0 && (f.Max <= 0 || parts < f.Max) {
		if off+f.Ext > len(buf) {
			return 0, fmt.Errorf("%w: extension %d needs %d octets at offset %d, have %d", ErrTruncatedChain, parts, f.Ext, off, len(buf))
		}
		off += f.Ext
		parts++
	}
	return off - cursor, nil
}

func (f Extended) String() string {
	if f.Max <= 0 {
		return fmt.Sprintf("extended(%d+%dxN)", f.Primary, f.Ext)
	}
	return fmt.Sprintf("extended(%d+%dx%d)", f.Primary, f.Ext, f.Max-1)
}
func (Extended) format() {}

// Repetitive is a REP octet followed by REP sub-records of Size octets
type Repetitive struct {
	Size int
}

func (f Repetitive) Span(buf []byte, cursor int) (int, error) {
	if err := need(buf, cursor, 1); err != nil {
		return 0, err
	}
	n := 1 + int(buf[cursor])*f.Size
	if err := need(buf, cursor, n); err != nil {
		return 0, err
	}
	return n, nil
}

func (f Repetitive) String() string { return fmt.Sprintf("repetitive(%d)", f.Size) }
func (Repetitive) format()          {}

// Explicit is an item whose first octet holds its total length, itself included
type Explicit struct{}

func (Explicit) Span(buf []byte, cursor int) (int, error) {
	if err := need(buf, cursor, 1); err != nil {
		return 0, err
	}
	n := int(buf[cursor])
	if n == 0 {
		return 0, fmt.Errorf("%w: explicit length 0 at offset %d", ErrMalformedItem, cursor)
	}
	if err := need(buf, cursor, n); err != nil {
		return 0, err
	}
	return n, nil
}

func (Explicit) String() string { return "explicit" }
func (Explicit) format()        {}

// Compound is a primary FX chain whose presence bits select which of the
// Subfields follow. A nil entry marks a spare subfield.
type Compound struct {
	Subfields []Format
}

func (f Compound) Span(buf []byte, cursor int) (int, error) {
	max := (len(f.Subfields) + presenceBits - 1) / presenceBits
	primary, err := ReadChain(buf, cursor, max)
	if err != nil {
		return 0, err
	}

	off := cursor + len(primary)
	for idx := range f.Subfields {
		o := Ordinal(idx)
		if !Fspec(primary).Present(o) {
			continue
		}
		sub := f.Subfields[idx]
		if sub == nil {
			return 0, fmt.Errorf("%w: spare subfield %d flagged", ErrMalformedItem, idx+1)
		}
		n, err := sub.Span(buf, off)
		if err != nil {
			return 0, fmt.Errorf("subfield %d: %w", idx+1, err)
		}
		off += n
	}

	// flags beyond the declared subfields
	for idx := len(f.Subfields); idx < len(primary)*presenceBits; idx++ {
		if Fspec(primary).Present(Ordinal(idx)) {
			return 0, fmt.Errorf("%w: undeclared subfield %d flagged", ErrMalformedItem, idx+1)
		}
	}
	return off - cursor, nil
}

func (f Compound) String() string { return fmt.Sprintf("compound(%d)", len(f.Subfields)) }
func (Compound) format()          {}
