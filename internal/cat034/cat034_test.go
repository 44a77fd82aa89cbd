package cat034

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goasterix/internal/asterix"
)

// TestUAP tests the CAT034 table shape
func TestUAP(t *testing.T) {
	assert.Equal(t, uint8(Category), UAP.Category())
	assert.Equal(t, 2, UAP.MaxFspecOctets())
	assert.Equal(t, 14, UAP.Size())

	o, err := UAP.Lookup("I034/120")
	require.NoError(t, err)
	assert.Equal(t, SourcePosition, o)

	o, err = UAP.Lookup("sp")
	require.NoError(t, err)
	assert.Equal(t, SpecialPurpose, o)

	e, err := UAP.Entry(CollimationError)
	require.NoError(t, err)
	assert.Equal(t, "I034/090", e.ID)
	assert.Equal(t, 12, e.FRN)
}

// TestNorthMarker tests the wire layout of a minimal north marker message
func TestNorthMarker(t *testing.T) {
	codec := NewCodec(nil)

	tod, err := TimeOfDayItem(3600.5)
	require.NoError(t, err)

	rec := UAP.NewRecord()
	rec.Set(DataSourceIdentifier, asterix.DataSource{SAC: 0x19, SIC: 0x0C}.Item())
	rec.Set(MessageType, MessageTypeItem(NorthMarker))
	rec.Set(TimeOfDay, tod)

	buf, err := codec.Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x22, 0x00, 0x0A, // CAT034, LEN 10
		0xE0,       // FSPEC
		0x19, 0x0C, // I034/010
		0x01,             // I034/000
		0x07, 0x08, 0x40, // I034/030 = 460864/128
	}, buf)

	decoded, n, err := codec.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)

	kind, err := ParseMessageType(decoded.Items[MessageType])
	require.NoError(t, err)
	assert.Equal(t, NorthMarker, kind)
	assert.Equal(t, "north marker", kind.String())

	seconds, err := ParseTimeOfDay(decoded.Items[TimeOfDay])
	require.NoError(t, err)
	assert.Equal(t, 3600.5, seconds)

	src, ok := asterix.SourceOf(UAP, decoded)
	require.True(t, ok)
	assert.Equal(t, "25/12", src.String())
}

// TestFullRecord tests a record touching both FSPEC octets
func TestFullRecord(t *testing.T) {
	codec := NewCodec(nil)

	sector, err := SectorNumberItem(90)
	require.NoError(t, err)
	period, err := AntennaRotationPeriodItem(4)
	require.NoError(t, err)
	config, err := SystemConfigurationItem(ComStatus{NoGo: true, TimeSourceInvalid: true})
	require.NoError(t, err)
	counts, err := MessageCountsItem([]MessageCount{{Type: 1, Count: 1200}, {Type: 3, Count: 7}})
	require.NoError(t, err)
	window, err := PolarWindow{RhoStart: 0, RhoEnd: 128, ThetaStart: 45, ThetaEnd: 90}.Item()
	require.NoError(t, err)
	pos, err := Position3D{Height: 120, Latitude: 51.5, Longitude: -0.25}.Item()
	require.NoError(t, err)
	coll, err := Collimation{Range: -0.5, Azimuth: 2 * 360.0 / (1 << 14)}.Item()
	require.NoError(t, err)

	rec := UAP.NewRecord()
	rec.Set(DataSourceIdentifier, asterix.Item{0x01, 0x02})
	rec.Set(MessageType, MessageTypeItem(SectorCrossing))
	rec.Set(SectorNumber, sector)
	rec.Set(AntennaRotationPeriod, period)
	rec.Set(SystemConfiguration, config)
	rec.Set(MessageCountValues, counts)
	rec.Set(GenericPolarWindow, window)
	rec.Set(SourcePosition, pos)
	rec.Set(CollimationError, coll)
	rec.Set(SpecialPurpose, asterix.Item{0x03, 0xCA, 0xFE})

	buf, err := codec.Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDD, 0xDA}, buf[3:5])

	decoded, _, err := codec.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, rec.Items, decoded.Items)

	deg, err := ParseSectorNumber(decoded.Items[SectorNumber])
	require.NoError(t, err)
	assert.Equal(t, 90.0, deg)

	secs, err := ParseAntennaRotationPeriod(decoded.Items[AntennaRotationPeriod])
	require.NoError(t, err)
	assert.Equal(t, 4.0, secs)

	com, ok, err := ParseSystemConfiguration(decoded.Items[SystemConfiguration])
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ComStatus{NoGo: true, TimeSourceInvalid: true}, com)
	assert.Equal(t, asterix.Item{0x80, 0x82}, decoded.Items[SystemConfiguration])

	gotCounts, err := ParseMessageCounts(decoded.Items[MessageCountValues])
	require.NoError(t, err)
	assert.Equal(t, []MessageCount{{Type: 1, Count: 1200}, {Type: 3, Count: 7}}, gotCounts)

	w, err := ParsePolarWindow(decoded.Items[GenericPolarWindow])
	require.NoError(t, err)
	assert.Equal(t, PolarWindow{RhoStart: 0, RhoEnd: 128, ThetaStart: 45, ThetaEnd: 90}, w)

	p, err := ParsePosition3D(decoded.Items[SourcePosition])
	require.NoError(t, err)
	assert.Equal(t, 120.0, p.Height)
	assert.InDelta(t, 51.5, p.Latitude, 180.0/(1<<24))
	assert.InDelta(t, -0.25, p.Longitude, 180.0/(1<<24))

	c, err := ParseCollimationError(decoded.Items[CollimationError])
	require.NoError(t, err)
	assert.Equal(t, -0.5, c.Range)
	assert.Equal(t, asterix.Item{0xC0, 0x02}, decoded.Items[CollimationError])
}

// TestItems_Errors tests range and layout checks of the typed accessors
func TestItems_Errors(t *testing.T) {
	_, err := SectorNumberItem(360)
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = TimeOfDayItem(-1)
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = Position3D{Latitude: 91}.Item()
	assert.NoError(t, err, "latitude range is +-180 on the wire")

	_, err = Position3D{Height: 40000}.Item()
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = Collimation{Range: 1}.Item()
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = MessageCountsItem([]MessageCount{{Type: 32}})
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = ParseTimeOfDay(asterix.Item{0x01})
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	_, err = ParseMessageType(nil)
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	_, err = ParsePolarWindow(asterix.Item{0x00})
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	_, _, err = ParseSystemConfiguration(asterix.Item{0x40, 0x00})
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	_, ok, err := ParseSystemConfiguration(asterix.Item{0x10, 0x00})
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "unknown(9)", MessageKind(9).String())
}
