package bitfield

import (
	"errors"
	"fmt"
)

// Encoding selects how the raw bits of a numeric field are interpreted
type Encoding int

const (
	Unsigned       Encoding = iota // plain binary, no sign bit
	TwosComplement                 // native negative encoding
	SignMagnitude                  // MSB is the sign, remaining bits are the absolute value
)

// String returns the encoding name
func (e Encoding) String() string {
	switch e {
	case Unsigned:
		return "unsigned"
	case TwosComplement:
		return "twos-complement"
	case SignMagnitude:
		return "sign-magnitude"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

var (
	ErrBufferUnderrun  = errors.New("buffer underrun")
	ErrBufferOverrun   = errors.New("buffer overrun")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidWidth    = errors.New("invalid field width")
)

// mask returns a mask covering the low width bits
func mask(width int) uint32 {
	return uint32((uint64(1) << uint(width)) - 1)
}

func checkBitWidth(width int) error {
	if width < 1 || width > 32 {
		return fmt.Errorf("%w: %d bits", ErrInvalidWidth, width)
	}
	return nil
}

func checkOctetWidth(width int) error {
	switch width {
	case 8, 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%w: %d bits (want 8, 16, 24 or 32)", ErrInvalidWidth, width)
	}
}

// Range returns the smallest and largest values representable by a field of
// the given width and encoding
func Range(width int, enc Encoding) (int64, int64) {
	switch enc {
	case TwosComplement:
		half := int64(1) << uint(width-1)
		return -half, half - 1
	case SignMagnitude:
		top := int64(1)<<uint(width-1) - 1
		return -top, top
	default:
		return 0, int64(1)<<uint(width) - 1
	}
}

// ToRaw converts a signed value into the raw bit pattern of a width-bit field
func ToRaw(v int64, width int, enc Encoding) (uint32, error) {
	if err := checkBitWidth(width); err != nil {
		return 0, err
	}
	lo, hi := Range(width, enc)
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %d not in [%d, %d] for %d-bit %s field", ErrValueOutOfRange, v, lo, hi, width, enc)
	}

	switch enc {
	case SignMagnitude:
		if v < 0 {
			return uint32(1)<<uint(width-1) | uint32(-v), nil
		}
		return uint32(v), nil
	default:
		return uint32(v) & mask(width), nil
	}
}

// FromRaw interprets the low width bits of raw under the given encoding.
// A sign-magnitude negative zero decodes to 0.
func FromRaw(raw uint32, width int, enc Encoding) int64 {
	if width < 1 || width > 32 {
		return 0
	}
	raw &= mask(width)
	sign := uint32(1) << uint(width-1)

	switch enc {
	case TwosComplement:
		if raw&sign != 0 {
			return int64(raw) - int64(1)<<uint(width)
		}
		return int64(raw)
	case SignMagnitude:
		magnitude := int64(raw &^ sign)
		if raw&sign != 0 {
			return -magnitude
		}
		return magnitude
	default:
		return int64(raw)
	}
}

// Uint reads an unsigned big-endian field of width bits starting at octet off
func Uint(buf []byte, off, width int) (uint32, error) {
	if err := checkOctetWidth(width); err != nil {
		return 0, err
	}
	n := width / 8
	if off < 0 || off+n > len(buf) {
		return 0, fmt.Errorf("%w: need %d octets at offset %d, have %d", ErrBufferUnderrun, n, off, len(buf))
	}

	var v uint32
	for i := 0; i < n; i++ {
		v = v<<8 | uint32(buf[off+i])
	}
	return v, nil
}

// PutUint writes an unsigned big-endian field of width bits starting at octet off
func PutUint(buf []byte, off, width int, v uint32) error {
	if err := checkOctetWidth(width); err != nil {
		return err
	}
	if width < 32 && v > mask(width) {
		return fmt.Errorf("%w: %d does not fit %d bits", ErrValueOutOfRange, v, width)
	}
	n := width / 8
	if off < 0 || off+n > len(buf) {
		return fmt.Errorf("%w: need %d octets at offset %d, have %d", ErrBufferOverrun, n, off, len(buf))
	}

	for i := n - 1; i >= 0; i-- {
		buf[off+i] = byte(v)
		v >>= 8
	}
	return nil
}

// Read reads a width-bit field at octet off and interprets it under enc
func Read(buf []byte, off, width int, enc Encoding) (int64, error) {
	raw, err := Uint(buf, off, width)
	if err != nil {
		return 0, err
	}
	return FromRaw(raw, width, enc), nil
}

// Write encodes v under enc and stores it as a width-bit field at octet off.
// The buffer is left untouched when v is out of range.
func Write(buf []byte, off, width int, enc Encoding, v int64) error {
	if err := checkOctetWidth(width); err != nil {
		return err
	}
	raw, err := ToRaw(v, width, enc)
	if err != nil {
		return err
	}
	return PutUint(buf, off, width, raw)
}

// Int reads a two's-complement field
func Int(buf []byte, off, width int) (int64, error) {
	return Read(buf, off, width, TwosComplement)
}

// PutInt writes a two's-complement field
func PutInt(buf []byte, off, width int, v int64) error {
	return Write(buf, off, width, TwosComplement, v)
}

// SignMag reads a sign-magnitude field
func SignMag(buf []byte, off, width int) (int64, error) {
	return Read(buf, off, width, SignMagnitude)
}

// PutSignMag writes a sign-magnitude field
func PutSignMag(buf []byte, off, width int, v int64) error {
	return Write(buf, off, width, SignMagnitude, v)
}

// Get extracts a sub-field from container using 1-based bit positions:
// pos 1 is the least significant bit of the container.
func Get(container uint32, pos uint, m uint32) uint32 {
	if pos < 1 {
		return 0
	}
	return (container >> (pos - 1)) & m
}

// Set stores value into the sub-field of container at pos, clearing the
// target bits first so neighbouring bits survive repeated writes.
func Set(container uint32, pos uint, m, value uint32) uint32 {
	if pos < 1 {
		return container
	}
	shift := pos - 1
	return container&^(m<<shift) | (value&m)<<shift
}

// Bit reports whether the 1-based bit pos of octet b is set
func Bit(b byte, pos uint) bool {
	return Get(uint32(b), pos, 1) == 1
}

// SetBit returns b with the 1-based bit pos forced to on
func SetBit(b byte, pos uint, on bool) byte {
	var v uint32
	if on {
		v = 1
	}
	return byte(Set(uint32(b), pos, 1, v))
}
