package asterix

import (
	"errors"
	"fmt"

	"goasterix/internal/bitfield"
)

// Error categories returned by the codec. Every failure is wrapped in an
// *Error and can be matched with errors.Is.
var (
	ErrBufferUnderrun     = bitfield.ErrBufferUnderrun
	ErrBufferOverrun      = bitfield.ErrBufferOverrun
	ErrValueOutOfRange    = bitfield.ErrValueOutOfRange
	ErrTruncatedChain     = errors.New("truncated FX chain")
	ErrUnknownItemOrdinal = errors.New("unknown item ordinal")
	ErrMissingItem        = errors.New("presence bit set without item")
	ErrMalformedItem      = errors.New("malformed item")
	ErrCategoryMismatch   = errors.New("category mismatch")
	ErrLengthMismatch     = errors.New("length mismatch")
)

// Error describes where in a record an encode or decode failed
type Error struct {
	Op       string // "encode" or "decode"
	Category uint8
	Item     string // data item id, empty for header and FSPEC failures
	Offset   int    // octet offset into the record buffer
	Err      error
}

func (e *Error) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("%s CAT%03d %s at offset %d: %v", e.Op, e.Category, e.Item, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s CAT%03d at offset %d: %v", e.Op, e.Category, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, category uint8, item string, offset int, err error) *Error {
	return &Error{Op: op, Category: category, Item: item, Offset: offset, Err: err}
}
