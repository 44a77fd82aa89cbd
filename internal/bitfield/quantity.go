package bitfield

import (
	"fmt"
	"math"
)

// Quantize converts a raw integer into a physical value using the LSB step
func Quantize(raw int64, lsb float64) float64 {
	return float64(raw) * lsb
}

// Dequantize converts a physical value into the nearest raw integer.
// Halves round away from zero so negative inputs mirror positive ones.
func Dequantize(physical, lsb float64) int64 {
	if lsb == 0 {
		return 0
	}
	return int64(math.Round(physical / lsb))
}

// Quantity describes a scaled numeric field: Width bits interpreted under
// Encoding, multiplied by LSB to obtain the physical unit.
type Quantity struct {
	Width    int
	Encoding Encoding
	LSB      float64
}

// Physical converts the raw bits of the field into its physical value
func (q Quantity) Physical(raw uint32) float64 {
	return Quantize(FromRaw(raw, q.Width, q.Encoding), q.LSB)
}

// Raw converts a physical value into the raw bits of the field, rejecting
// values that do not fit instead of truncating them
func (q Quantity) Raw(physical float64) (uint32, error) {
	if math.IsNaN(physical) || math.IsInf(physical, 0) {
		return 0, fmt.Errorf("%w: %v", ErrValueOutOfRange, physical)
	}
	lo, hi := Range(q.Width, q.Encoding)
	scaled := math.Round(physical / q.LSB)
	if scaled < float64(lo) || scaled > float64(hi) {
		return 0, fmt.Errorf("%w: %v exceeds [%v, %v]", ErrValueOutOfRange, physical, Quantize(lo, q.LSB), Quantize(hi, q.LSB))
	}
	return ToRaw(int64(scaled), q.Width, q.Encoding)
}

// Min returns the smallest representable physical value
func (q Quantity) Min() float64 {
	lo, _ := Range(q.Width, q.Encoding)
	return Quantize(lo, q.LSB)
}

// Max returns the largest representable physical value
func (q Quantity) Max() float64 {
	_, hi := Range(q.Width, q.Encoding)
	return Quantize(hi, q.LSB)
}

// Read reads an octet-aligned field at off and returns its physical value
func (q Quantity) Read(buf []byte, off int) (float64, error) {
	raw, err := Uint(buf, off, q.Width)
	if err != nil {
		return 0, err
	}
	return q.Physical(raw), nil
}

// Write stores the physical value as an octet-aligned field at off
func (q Quantity) Write(buf []byte, off int, physical float64) error {
	if err := checkOctetWidth(q.Width); err != nil {
		return err
	}
	raw, err := q.Raw(physical)
	if err != nil {
		return err
	}
	return PutUint(buf, off, q.Width, raw)
}
