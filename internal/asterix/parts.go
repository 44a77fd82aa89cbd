package asterix

import "fmt"

// Split returns the parts of an extended item: the primary part followed by
// each extension part, FX bits untouched
func (f Extended) Split(item Item) ([]Item, error) {
	if err := Validate(f, item); err != nil {
		return nil, err
	}
	parts := []Item{item[:f.Primary]}
	for off := f.Primary; off < len(item); off += f.Ext {
		parts = append(parts, item[off:off+f.Ext])
	}
	return parts, nil
}

// Join builds an extended item from its parts, setting FX on the last octet
// of every part but the final one
func (f Extended) Join(parts ...Item) (Item, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s needs a primary part", ErrMalformedItem, f)
	}
	if f.Max > 0 && len(parts) > f.Max {
		return nil, fmt.Errorf("%w: %d parts exceed %s", ErrMalformedItem, len(parts), f)
	}

	var item Item
	for i, p := range parts {
		want := f.Ext
		if i == 0 {
			want = f.Primary
		}
		if len(p) != want {
			return nil, fmt.Errorf("%w: part %d has %d octets, %s wants %d", ErrMalformedItem, i, len(p), f, want)
		}
		start := len(item)
		item = append(item, p...)
		last := start + want - 1
		if i < len(parts)-1 {
			item[last] |= FX
		} else {
			item[last] &^= FX
		}
	}
	return item, nil
}

// Split returns the REP sub-records of a repetitive item
func (f Repetitive) Split(item Item) ([]Item, error) {
	if err := Validate(f, item); err != nil {
		return nil, err
	}
	elems := make([]Item, 0, int(item[0]))
	for off := 1; off < len(item); off += f.Size {
		elems = append(elems, item[off:off+f.Size])
	}
	return elems, nil
}

// Join builds a repetitive item from its sub-records
func (f Repetitive) Join(elems ...Item) (Item, error) {
	if len(elems) > 0xFF {
		return nil, fmt.Errorf("%w: %d repetitions exceed REP", ErrValueOutOfRange, len(elems))
	}
	item := make(Item, 1, 1+len(elems)*f.Size)
	item[0] = byte(len(elems))
	for i, e := range elems {
		if len(e) != f.Size {
			return nil, fmt.Errorf("%w: repetition %d has %d octets, want %d", ErrMalformedItem, i, len(e), f.Size)
		}
		item = append(item, e...)
	}
	return item, nil
}

// Split returns the subfields of a compound item indexed like Subfields;
// absent subfields are nil
func (f Compound) Split(item Item) ([]Item, error) {
	if err := Validate(f, item); err != nil {
		return nil, err
	}
	max := (len(f.Subfields) + presenceBits - 1) / presenceBits
	primary, _ := ReadChain(item, 0, max)

	parts := make([]Item, len(f.Subfields))
	off := len(primary)
	for idx, sub := range f.Subfields {
		if !Fspec(primary).Present(Ordinal(idx)) {
			continue
		}
		n, _ := sub.Span(item, off)
		parts[idx] = item[off : off+n]
		off += n
	}
	return parts, nil
}

// Join builds a compound item from parts indexed like Subfields; nil parts
// are left out
func (f Compound) Join(parts []Item) (Item, error) {
	if len(parts) > len(f.Subfields) {
		return nil, fmt.Errorf("%w: %d parts for %s", ErrMalformedItem, len(parts), f)
	}

	var primary Fspec
	var body Item
	for idx, p := range parts {
		if p == nil {
			continue
		}
		sub := f.Subfields[idx]
		if sub == nil {
			return nil, fmt.Errorf("%w: subfield %d is spare", ErrMalformedItem, idx+1)
		}
		if err := Validate(sub, p); err != nil {
			return nil, fmt.Errorf("subfield %d: %w", idx+1, err)
		}
		primary.set(Ordinal(idx))
		body = append(body, p...)
	}
	if len(primary) == 0 {
		return nil, fmt.Errorf("%w: %s without subfields", ErrMalformedItem, f)
	}
	return append(Item(primary), body...), nil
}
