package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"goasterix/internal/asterix"
	"goasterix/internal/bitfield"
)

// minBlock is the shortest plausible block: header plus one FSPEC octet
const minBlock = asterix.HeaderSize + 1

// Decoder cuts a byte stream into ASTERIX data blocks and decodes each with
// the codec registered for its category. Input may arrive in arbitrary
// chunks; incomplete blocks are held until the rest arrives. A LEN of at
// most 0xFFFF bounds what is held.
type Decoder struct {
	registry *Registry
	logger   *logrus.Logger
	buffer   []byte
	stats    Stats
	mutex    sync.Mutex
}

// NewDecoder creates a stream decoder. A nil logger discards output.
func NewDecoder(registry *Registry, logger *logrus.Logger) *Decoder {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Decoder{
		registry: registry,
		logger:   logger,
		buffer:   make([]byte, 0, 4096),
	}
}

// Decode appends data to the pending input and returns every block that is
// now complete
func (d *Decoder) Decode(data []byte) ([]*Block, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.buffer = append(d.buffer, data...)
	d.stats.Received += uint64(len(data))

	var blocks []*Block

	for len(d.buffer) >= asterix.HeaderSize {
		cat := d.buffer[0]
		raw, _ := bitfield.Uint(d.buffer, 1, 16)
		length := int(raw)

		if length < minBlock {
			// not a block header, slide one octet
			d.logger.WithFields(logrus.Fields{
				"category": cat,
				"length":   length,
			}).Debug("Implausible block length, resynchronising")
			d.buffer = d.buffer[1:]
			d.stats.Skipped++
			continue
		}

		if len(d.buffer) < length {
			break
		}

		codec, ok := d.registry.Codec(cat)
		if !ok {
			d.logger.WithFields(logrus.Fields{
				"category": cat,
				"length":   length,
			}).Debug("Unknown category, skipping block")
			d.buffer = d.buffer[length:]
			d.stats.Unknown++
			continue
		}

		block := &Block{
			Category: cat,
			Raw:      make([]byte, length),
		}
		copy(block.Raw, d.buffer[:length])
		d.stats.Blocks++

		rec, _, err := codec.Decode(block.Raw)
		if err != nil {
			d.logger.WithError(err).WithField("category", cat).Debug("Failed to decode block")
			block.Err = err
			d.stats.Failed++
		} else {
			block.Record = rec
			d.stats.Decoded++
		}

		blocks = append(blocks, block)
		d.buffer = d.buffer[length:]
	}

	if len(blocks) > 0 {
		d.logger.WithFields(logrus.Fields{
			"blocks":  len(blocks),
			"pending": len(d.buffer),
		}).Debug("Stream chunk processed")
	}

	return blocks, nil
}

// Pending returns the number of octets waiting for the rest of a block
func (d *Decoder) Pending() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.buffer)
}

// Reset drops pending input and returns how many octets were discarded
func (d *Decoder) Reset() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	n := len(d.buffer)
	d.stats.Skipped += uint64(n)
	d.buffer = d.buffer[:0]
	return n
}

// Stats returns a snapshot of the decoder counters
func (d *Decoder) Stats() Stats {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.stats
}

// Run reads r until EOF or ctx is done, handing each block to fn. An error
// from fn stops the loop and is returned. Octets of a trailing incomplete
// block are dropped and counted as skipped.
func (d *Decoder) Run(ctx context.Context, r io.Reader, fn func(*Block) error) error {
	chunk := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, readErr := r.Read(chunk)
		if n > 0 {
			blocks, err := d.Decode(chunk[:n])
			if err != nil {
				return err
			}
			for _, b := range blocks {
				if err := fn(b); err != nil {
					return err
				}
			}
		}

		if errors.Is(readErr, io.EOF) {
			if left := d.Reset(); left > 0 {
				d.logger.WithField("octets", left).Warn("Input ended inside a block")
			}
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read input: %w", readErr)
		}
	}
}
