package asterix

import "fmt"

// DataSource is the SAC/SIC pair identifying the station that produced a
// record. Most categories carry it as their first item.
type DataSource struct {
	SAC uint8
	SIC uint8
}

// ParseDataSource reads a 2-octet data source identifier item
func ParseDataSource(item Item) (DataSource, error) {
	if len(item) != 2 {
		return DataSource{}, fmt.Errorf("%w: data source identifier has %d octets", ErrMalformedItem, len(item))
	}
	return DataSource{SAC: item[0], SIC: item[1]}, nil
}

// Item returns the wire form of the identifier
func (d DataSource) Item() Item {
	return Item{d.SAC, d.SIC}
}

func (d DataSource) String() string {
	return fmt.Sprintf("%d/%d", d.SAC, d.SIC)
}

// SourceOf returns the data source of rec when the table defines an
// Ixxx/010 item and the record carries it
func SourceOf(u *UAP, rec *Record) (DataSource, bool) {
	o, err := u.Lookup(fmt.Sprintf("I%03d/010", u.Category()))
	if err != nil {
		return DataSource{}, false
	}
	item, ok := rec.Get(o)
	if !ok {
		return DataSource{}, false
	}
	src, err := ParseDataSource(item)
	if err != nil {
		return DataSource{}, false
	}
	return src, true
}
