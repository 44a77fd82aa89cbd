package asterix

import (
	"fmt"
	"strings"
)

// Entry is one row of a category's dispatch table
type Entry struct {
	FRN    int    // field reference number, 1-based FSPEC position
	ID     string // data item id, e.g. "I021/040"
	Name   string
	Format Format // nil marks a spare position
}

// Spare reports whether the entry reserves its FSPEC bit without an item
func (e Entry) Spare() bool {
	return e.Format == nil
}

// Ordinal returns the entry's UAP position counted from 0
func (e Entry) Ordinal() Ordinal {
	return Ordinal(e.FRN - 1)
}

// UAP (User Application Profile) is the static dispatch table of a category:
// it maps every FSPEC position to the item that owns it. A UAP is immutable
// once built and safe for concurrent use.
type UAP struct {
	category  uint8
	edition   string
	maxOctets int
	entries   []Entry
	assigned  []bool
	byID      map[string]Ordinal
}

// NewUAP builds a dispatch table. Every FRN and every non-spare id must be
// unique; positions not covered by an entry are unassigned.
func NewUAP(category uint8, edition string, entries ...Entry) (*UAP, error) {
	maxFRN := 0
	for _, e := range entries {
		if e.FRN < 1 {
			return nil, fmt.Errorf("CAT%03d: invalid FRN %d for %q", category, e.FRN, e.ID)
		}
		if e.FRN > maxFRN {
			maxFRN = e.FRN
		}
	}
	if maxFRN == 0 {
		return nil, fmt.Errorf("CAT%03d: empty UAP", category)
	}

	u := &UAP{
		category:  category,
		edition:   edition,
		maxOctets: (maxFRN + presenceBits - 1) / presenceBits,
		entries:   make([]Entry, maxFRN),
		assigned:  make([]bool, maxFRN),
		byID:      make(map[string]Ordinal),
	}

	for _, e := range entries {
		o := e.Ordinal()
		if u.assigned[o] {
			return nil, fmt.Errorf("CAT%03d: FRN %d assigned twice", category, e.FRN)
		}
		u.assigned[o] = true
		u.entries[o] = e
		if e.Spare() {
			continue
		}
		if e.ID == "" {
			return nil, fmt.Errorf("CAT%03d: FRN %d has no item id", category, e.FRN)
		}
		if _, dup := u.byID[e.ID]; dup {
			return nil, fmt.Errorf("CAT%03d: item %s assigned twice", category, e.ID)
		}
		u.byID[e.ID] = o
	}

	return u, nil
}

// MustNewUAP is NewUAP for package-level tables; it panics on a bad table
func MustNewUAP(category uint8, edition string, entries ...Entry) *UAP {
	u, err := NewUAP(category, edition, entries...)
	if err != nil {
		panic(err)
	}
	return u
}

// Category returns the category id served by this table
func (u *UAP) Category() uint8 {
	return u.category
}

// Edition returns the standard edition the table follows
func (u *UAP) Edition() string {
	return u.edition
}

// MaxFspecOctets returns the longest FSPEC the category allows
func (u *UAP) MaxFspecOctets() int {
	return u.maxOctets
}

// Size returns the number of FSPEC positions covered by the table
func (u *UAP) Size() int {
	return len(u.entries)
}

// Entry returns the row for ordinal o
func (u *UAP) Entry(o Ordinal) (Entry, error) {
	if o < 0 || int(o) >= len(u.entries) || !u.assigned[o] {
		return Entry{}, fmt.Errorf("%w: CAT%03d FRN %d", ErrUnknownItemOrdinal, u.category, o.FRN())
	}
	return u.entries[o], nil
}

// Entries returns every assigned row in FRN order
func (u *UAP) Entries() []Entry {
	out := make([]Entry, 0, len(u.entries))
	for i, e := range u.entries {
		if u.assigned[i] {
			out = append(out, e)
		}
	}
	return out
}

// Lookup resolves a data item id such as "I034/010" to its ordinal
func (u *UAP) Lookup(id string) (Ordinal, error) {
	o, ok := u.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return 0, fmt.Errorf("%w: CAT%03d has no item %q", ErrUnknownItemOrdinal, u.category, id)
	}
	return o, nil
}

// Has reports whether the item at ordinal o is flagged in fspec
func (u *UAP) Has(fspec Fspec, o Ordinal) bool {
	if o < 0 || int(o) >= len(u.entries) {
		return false
	}
	return fspec.Present(o)
}

// Ordinals lists the flagged ordinals of fspec in ascending order
func (u *UAP) Ordinals(fspec Fspec) []Ordinal {
	var out []Ordinal
	for i := range u.entries {
		if fspec.Present(Ordinal(i)) {
			out = append(out, Ordinal(i))
		}
	}
	return out
}

// EncodeItem writes item for ordinal o at cursor and returns the advanced cursor
func (u *UAP) EncodeItem(o Ordinal, item Item, out []byte, cursor int) (int, error) {
	e, err := u.Entry(o)
	if err != nil {
		return cursor, err
	}
	if e.Spare() {
		return cursor, nil
	}
	return EncodeItem(e.Format, item, out, cursor)
}

// DecodeItem reads the item for ordinal o at cursor and returns the advanced cursor
func (u *UAP) DecodeItem(o Ordinal, buf []byte, cursor int) (Item, int, error) {
	e, err := u.Entry(o)
	if err != nil {
		return nil, cursor, err
	}
	if e.Spare() {
		return nil, cursor, nil
	}
	return DecodeItem(e.Format, buf, cursor)
}

// NewRecord returns an empty record for this category
func (u *UAP) NewRecord() *Record {
	return &Record{Header: Header{Category: u.category}}
}
