package stream

import "goasterix/internal/asterix"

// Block is one CAT/LEN delimited data block cut from a stream
type Block struct {
	Category uint8
	Raw      []byte
	Record   *asterix.Record // nil when Err is set
	Err      error
}

// Stats counts what the decoder has seen
type Stats struct {
	Blocks   uint64 // complete blocks for registered categories
	Decoded  uint64
	Failed   uint64
	Unknown  uint64 // blocks skipped for unregistered categories
	Skipped  uint64 // octets dropped while resynchronising
	Received uint64 // octets fed in
}
