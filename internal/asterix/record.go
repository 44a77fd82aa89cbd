package asterix

// HeaderSize is the length of the CAT + LEN prefix
const HeaderSize = 3

// Header is the data block prefix: category id and total length in octets
type Header struct {
	Category uint8
	Length   uint16
}

// Record is one ASTERIX record: header, field specification and the items
// flagged in it. Items are keyed by ordinal; an absent key is an absent item.
type Record struct {
	Header Header
	Fspec  Fspec
	Items  map[Ordinal]Item
}

// Set stores item at ordinal o and flags it in the FSPEC
func (r *Record) Set(o Ordinal, item Item) {
	if o < 0 {
		return
	}
	if r.Items == nil {
		r.Items = make(map[Ordinal]Item)
	}
	r.Items[o] = item
	r.Fspec.set(o)
}

// Get returns the item at ordinal o
func (r *Record) Get(o Ordinal) (Item, bool) {
	item, ok := r.Items[o]
	return item, ok
}

// Clear removes the item at ordinal o and unflags it
func (r *Record) Clear(o Ordinal) {
	if o < 0 {
		return
	}
	delete(r.Items, o)
	r.Fspec.clear(o)
}

// Len returns the number of items held
func (r *Record) Len() int {
	return len(r.Items)
}
