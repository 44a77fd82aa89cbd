package asterix

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"goasterix/internal/bitfield"
)

// maxRecordLength is the largest value the 16-bit LEN field can carry
const maxRecordLength = 0xFFFF

// Codec encodes and decodes records of one category using its UAP
type Codec struct {
	uap         *UAP
	logger      *logrus.Logger
	checkLength bool
}

// Option adjusts a Codec
type Option func(*Codec)

// WithLengthCheck toggles validation of the LEN field on decode. When
// disabled LEN is only a hint: decoding runs over the whole buffer and a
// mismatch between LEN and the consumed octets is not an error.
func WithLengthCheck(enabled bool) Option {
	return func(c *Codec) {
		c.checkLength = enabled
	}
}

// NewCodec creates a codec for the given table. A nil logger discards output.
func NewCodec(uap *UAP, logger *logrus.Logger, opts ...Option) *Codec {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	c := &Codec{
		uap:         uap,
		logger:      logger,
		checkLength: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UAP returns the codec's dispatch table
func (c *Codec) UAP() *UAP {
	return c.uap
}

// Size returns the encoded length of rec without encoding it
func (c *Codec) Size(rec *Record) (int, error) {
	fspec, err := rec.Fspec.Transmitted(c.uap.MaxFspecOctets())
	if err != nil {
		return 0, newError("encode", c.uap.category, "", HeaderSize, err)
	}
	n := HeaderSize + len(fspec)
	for o, item := range rec.Items {
		if int(o) < len(fspec)*presenceBits && fspec.Present(o) {
			n += len(item)
		}
	}
	return n, nil
}

// Encode encodes rec into a new buffer. The LEN field is computed from the
// encoded content and stored back into rec.Header.Length.
func (c *Codec) Encode(rec *Record) ([]byte, error) {
	size, err := c.Size(rec)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	n, err := c.EncodeTo(out, rec)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// EncodeTo encodes rec into out and returns the number of octets written.
// Items whose FSPEC bit is clear, or whose bit lives in an FSPEC octet that
// is not transmitted, contribute nothing.
func (c *Codec) EncodeTo(out []byte, rec *Record) (int, error) {
	cat := c.uap.category
	if rec.Header.Category != cat && rec.Header.Category != 0 {
		return 0, newError("encode", cat, "", 0, fmt.Errorf("%w: record is CAT%03d", ErrCategoryMismatch, rec.Header.Category))
	}

	fspec, err := rec.Fspec.Transmitted(c.uap.MaxFspecOctets())
	if err != nil {
		return 0, newError("encode", cat, "", HeaderSize, err)
	}
	if HeaderSize+len(fspec) > len(out) {
		return 0, newError("encode", cat, "", 0, fmt.Errorf("%w: header and FSPEC need %d octets, buffer has %d", ErrBufferOverrun, HeaderSize+len(fspec), len(out)))
	}

	cursor := HeaderSize
	wire := out[cursor : cursor+len(fspec)]
	copy(wire, fspec)
	cursor += len(fspec)

	for i := 0; i < len(fspec)*presenceBits; i++ {
		o := Ordinal(i)
		if !fspec.Present(o) {
			continue
		}
		entry, err := c.uap.Entry(o)
		if err != nil {
			return 0, newError("encode", cat, "", cursor, err)
		}
		if entry.Spare() {
			octet, bit := o.Position()
			wire[octet-1] = bitfield.SetBit(wire[octet-1], bit, false)
			continue
		}
		item, ok := rec.Items[o]
		if !ok {
			return 0, newError("encode", cat, entry.ID, cursor, ErrMissingItem)
		}
		next, err := EncodeItem(entry.Format, item, out, cursor)
		if err != nil {
			return 0, newError("encode", cat, entry.ID, cursor, err)
		}

		if c.logger.IsLevelEnabled(logrus.TraceLevel) {
			c.logger.WithFields(logrus.Fields{
				"item":   entry.ID,
				"offset": cursor,
				"octets": next - cursor,
			}).Trace("Encoded item")
		}
		cursor = next
	}

	if cursor > maxRecordLength {
		return 0, newError("encode", cat, "", cursor, fmt.Errorf("%w: record of %d octets exceeds LEN field", ErrValueOutOfRange, cursor))
	}
	out[0] = cat
	if err := bitfield.PutUint(out, 1, 16, uint32(cursor)); err != nil {
		return 0, newError("encode", cat, "", 1, err)
	}
	rec.Header = Header{Category: cat, Length: uint16(cursor)}

	c.logger.WithFields(logrus.Fields{
		"category": cat,
		"length":   cursor,
		"fspec":    fspec.String(),
	}).Debug("Encoded record")

	return cursor, nil
}

// Decode decodes one record from the start of buf and returns it together
// with the number of octets consumed. Malformed input yields an *Error; the
// decoder never reads past buf.
func (c *Codec) Decode(buf []byte) (*Record, int, error) {
	cat := c.uap.category
	if len(buf) < HeaderSize {
		return nil, 0, newError("decode", cat, "", 0, fmt.Errorf("%w: header needs %d octets, have %d", ErrBufferUnderrun, HeaderSize, len(buf)))
	}
	if buf[0] != cat {
		return nil, 0, newError("decode", cat, "", 0, fmt.Errorf("%w: block is CAT%03d", ErrCategoryMismatch, buf[0]))
	}
	raw, _ := bitfield.Uint(buf, 1, 16)
	length := int(raw)

	limit := len(buf)
	if c.checkLength {
		if length < HeaderSize+1 {
			return nil, 0, newError("decode", cat, "", 1, fmt.Errorf("%w: LEN %d cannot hold header and FSPEC", ErrLengthMismatch, length))
		}
		if length < limit {
			limit = length
		}
	}
	data := buf[:limit]

	octets, err := ReadChain(data, HeaderSize, c.uap.MaxFspecOctets())
	if err != nil {
		return nil, 0, newError("decode", cat, "", HeaderSize, err)
	}
	fspec := Fspec(octets)
	cursor := HeaderSize + len(fspec)

	rec := &Record{
		Header: Header{Category: cat, Length: uint16(length)},
		Fspec:  fspec,
		Items:  make(map[Ordinal]Item),
	}

	for i := 0; i < len(fspec)*presenceBits; i++ {
		o := Ordinal(i)
		if !fspec.Present(o) {
			continue
		}
		entry, err := c.uap.Entry(o)
		if err != nil {
			return nil, 0, newError("decode", cat, "", cursor, err)
		}
		if entry.Spare() {
			c.logger.WithField("frn", o.FRN()).Debug("Ignoring spare FSPEC bit")
			continue
		}
		item, next, err := DecodeItem(entry.Format, data, cursor)
		if err != nil {
			return nil, 0, newError("decode", cat, entry.ID, cursor, err)
		}

		if c.logger.IsLevelEnabled(logrus.TraceLevel) {
			c.logger.WithFields(logrus.Fields{
				"item":   entry.ID,
				"offset": cursor,
				"octets": next - cursor,
			}).Trace("Decoded item")
		}
		rec.Items[o] = item
		cursor = next
	}

	if c.checkLength {
		if length > len(buf) {
			return nil, 0, newError("decode", cat, "", cursor, fmt.Errorf("%w: LEN %d, buffer has %d", ErrBufferUnderrun, length, len(buf)))
		}
		if cursor != length {
			return nil, 0, newError("decode", cat, "", cursor, fmt.Errorf("%w: LEN %d, items end at %d", ErrLengthMismatch, length, cursor))
		}
	}

	c.logger.WithFields(logrus.Fields{
		"category": cat,
		"length":   length,
		"fspec":    fspec.String(),
		"items":    len(rec.Items),
	}).Debug("Decoded record")

	return rec, cursor, nil
}
