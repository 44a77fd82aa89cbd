package stream

import (
	"fmt"
	"sort"

	"goasterix/internal/asterix"
)

// Registry maps category ids to their codecs. It is filled once at startup
// and only read afterwards.
type Registry struct {
	codecs map[uint8]*asterix.Codec
}

// NewRegistry builds a registry from codecs; two codecs for the same
// category are an error
func NewRegistry(codecs ...*asterix.Codec) (*Registry, error) {
	r := &Registry{codecs: make(map[uint8]*asterix.Codec, len(codecs))}
	for _, c := range codecs {
		cat := c.UAP().Category()
		if _, dup := r.codecs[cat]; dup {
			return nil, fmt.Errorf("CAT%03d registered twice", cat)
		}
		r.codecs[cat] = c
	}
	return r, nil
}

// Codec returns the codec for category cat
func (r *Registry) Codec(cat uint8) (*asterix.Codec, bool) {
	c, ok := r.codecs[cat]
	return c, ok
}

// Categories lists the registered category ids in ascending order
func (r *Registry) Categories() []uint8 {
	cats := make([]uint8, 0, len(r.codecs))
	for cat := range r.codecs {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
