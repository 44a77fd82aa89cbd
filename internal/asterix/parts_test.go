package asterix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtended_SplitJoin tests part access on FX chained items
func TestExtended_SplitJoin(t *testing.T) {
	f := Extended{Primary: 1, Ext: 1, Max: 3}

	item, err := f.Join(Item{0x40}, Item{0x21}, Item{0x11})
	require.NoError(t, err)
	assert.Equal(t, Item{0x41, 0x21, 0x10}, item)

	parts, err := f.Split(item)
	require.NoError(t, err)
	assert.Equal(t, []Item{{0x41}, {0x21}, {0x10}}, parts)

	_, err = f.Join(Item{0x00}, Item{0x00}, Item{0x00}, Item{0x00})
	assert.ErrorIs(t, err, ErrMalformedItem)

	_, err = f.Join()
	assert.ErrorIs(t, err, ErrMalformedItem)

	_, err = Extended{Primary: 2, Ext: 1}.Join(Item{0x01})
	assert.ErrorIs(t, err, ErrMalformedItem)

	_, err = f.Split(Item{0x41})
	assert.ErrorIs(t, err, ErrMalformedItem)
}

// TestRepetitive_SplitJoin tests REP list access
func TestRepetitive_SplitJoin(t *testing.T) {
	f := Repetitive{Size: 2}

	item, err := f.Join(Item{0x01, 0x02}, Item{0x03, 0x04})
	require.NoError(t, err)
	assert.Equal(t, Item{0x02, 0x01, 0x02, 0x03, 0x04}, item)

	elems, err := f.Split(item)
	require.NoError(t, err)
	assert.Equal(t, []Item{{0x01, 0x02}, {0x03, 0x04}}, elems)

	empty, err := f.Join()
	require.NoError(t, err)
	assert.Equal(t, Item{0x00}, empty)

	_, err = f.Join(Item{0x01})
	assert.ErrorIs(t, err, ErrMalformedItem)

	_, err = f.Join(make([]Item, 256)...)
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

// TestCompound_SplitJoin tests subfield access on compound items
func TestCompound_SplitJoin(t *testing.T) {
	f := Compound{Subfields: []Format{Fixed{Size: 1}, nil, Fixed{Size: 2}, Repetitive{Size: 1}}}

	item, err := f.Join([]Item{{0xAA}, nil, nil, {0x01, 0x07}})
	require.NoError(t, err)
	assert.Equal(t, Item{0x90, 0xAA, 0x01, 0x07}, item)

	parts, err := f.Split(item)
	require.NoError(t, err)
	assert.Equal(t, []Item{{0xAA}, nil, nil, {0x01, 0x07}}, parts)

	_, err = f.Join([]Item{nil, {0x00}})
	assert.ErrorIs(t, err, ErrMalformedItem)

	_, err = f.Join([]Item{nil, nil, {0x01}})
	assert.ErrorIs(t, err, ErrMalformedItem)

	_, err = f.Join(nil)
	assert.ErrorIs(t, err, ErrMalformedItem)

	_, err = f.Join(make([]Item, 5))
	assert.ErrorIs(t, err, ErrMalformedItem)
}

// TestCompound_WidePrimary tests a compound whose primary spans two octets
func TestCompound_WidePrimary(t *testing.T) {
	subs := make([]Format, 9)
	subs[0] = Fixed{Size: 1}
	subs[8] = Fixed{Size: 1}
	f := Compound{Subfields: subs}

	item, err := f.Join([]Item{{0x11}, nil, nil, nil, nil, nil, nil, nil, {0x22}})
	require.NoError(t, err)
	assert.Equal(t, Item{0x81, 0x40, 0x11, 0x22}, item)

	parts, err := f.Split(item)
	require.NoError(t, err)
	assert.Equal(t, Item{0x22}, parts[8])
}

// TestDataSource tests the SAC/SIC helper
func TestDataSource(t *testing.T) {
	src, err := ParseDataSource(Item{0x19, 0x0C})
	require.NoError(t, err)
	assert.Equal(t, DataSource{SAC: 25, SIC: 12}, src)
	assert.Equal(t, "25/12", src.String())
	assert.Equal(t, Item{0x19, 0x0C}, src.Item())

	_, err = ParseDataSource(Item{0x01})
	assert.ErrorIs(t, err, ErrMalformedItem)

	u := MustNewUAP(21, "src", Entry{FRN: 1, ID: "I021/010", Format: Fixed{Size: 2}})
	rec := u.NewRecord()
	_, ok := SourceOf(u, rec)
	assert.False(t, ok)

	rec.Set(0, src.Item())
	got, ok := SourceOf(u, rec)
	assert.True(t, ok)
	assert.Equal(t, src, got)

	other := MustNewUAP(2, "nosrc", Entry{FRN: 1, ID: "I002/000", Format: Fixed{Size: 2}})
	_, ok = SourceOf(other, rec)
	assert.False(t, ok)
}
