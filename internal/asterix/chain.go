package asterix

import "fmt"

// FX is the continuation flag carried in bit 1 of every chained octet
const FX = 0x01

// ReadChain reads an FX-terminated octet chain starting at cursor. Walking
// stops at the first octet with FX=0 or once max octets have been read
// (max <= 0 means unbounded). The returned slice is a copy.
func ReadChain(buf []byte, cursor, max int) ([]byte, error) {
	if cursor < 0 || cursor >= len(buf) {
		return nil, fmt.Errorf("%w: chain start at offset %d, buffer has %d octets", ErrBufferUnderrun, cursor, len(buf))
	}

	var octets []byte
	for i := cursor; ; i++ {
		if i >= len(buf) {
			return nil, fmt.Errorf("%w: FX set on octet %d but buffer ends at %d", ErrTruncatedChain, len(octets), len(buf))
		}
		octets = append(octets, buf[i])
		if buf[i]&FX == 0 || (max > 0 && len(octets) >= max) {
			return octets, nil
		}
	}
}

// WriteChain writes octets at cursor with FX=1 on every octet except the
// last, which gets FX=0. It returns the advanced cursor.
func WriteChain(out []byte, cursor int, octets []byte) (int, error) {
	if len(octets) == 0 {
		return cursor, nil
	}
	if cursor < 0 || cursor+len(octets) > len(out) {
		return cursor, fmt.Errorf("%w: chain of %d octets at offset %d, buffer has %d", ErrBufferOverrun, len(octets), cursor, len(out))
	}

	for i, b := range octets {
		if i == len(octets)-1 {
			out[cursor+i] = b &^ FX
		} else {
			out[cursor+i] = b | FX
		}
	}
	return cursor + len(octets), nil
}

// Chain returns octets as a chained sequence with the FX bits set
// consistently, suitable for building extended items
func Chain(octets ...byte) []byte {
	out := make([]byte, len(octets))
	_, _ = WriteChain(out, 0, octets)
	return out
}
