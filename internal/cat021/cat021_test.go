package cat021

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goasterix/internal/asterix"
)

// TestUAP tests the CAT021 table shape
func TestUAP(t *testing.T) {
	assert.Equal(t, uint8(Category), UAP.Category())
	assert.Equal(t, 7, UAP.MaxFspecOctets())
	assert.Equal(t, 49, UAP.Size())
	assert.Len(t, UAP.Entries(), 49)

	e, err := UAP.Entry(TargetReportDescriptor)
	require.NoError(t, err)
	assert.Equal(t, "I021/040", e.ID)

	for o := asterix.Ordinal(42); o < ReservedExpansion; o++ {
		e, err := UAP.Entry(o)
		require.NoError(t, err)
		assert.True(t, e.Spare(), "FRN %d", o.FRN())
	}

	o, err := UAP.Lookup("I021/295")
	require.NoError(t, err)
	assert.Equal(t, DataAges, o)

	o, err = UAP.Lookup("RE")
	require.NoError(t, err)
	assert.Equal(t, ReservedExpansion, o)
}

// TestReportPeriod tests the 0.5 s report period of I021/016
func TestReportPeriod(t *testing.T) {
	seconds, err := ParseReportPeriod(asterix.Item{0xFF})
	require.NoError(t, err)
	assert.Equal(t, 127.5, seconds)

	item, err := ReportPeriodItem(127.5)
	require.NoError(t, err)
	assert.Equal(t, asterix.Item{0xFF}, item)

	_, err = ReportPeriodItem(128)
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)
}

// TestRollAngle tests the signed roll angle of I021/230
func TestRollAngle(t *testing.T) {
	degrees, err := ParseRollAngle(asterix.Item{0xFF, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, -0.01, degrees)

	item, err := RollAngleItem(-0.01)
	require.NoError(t, err)
	assert.Equal(t, asterix.Item{0xFF, 0xFF}, item)

	item, err = RollAngleItem(-327.68)
	require.NoError(t, err)
	assert.Equal(t, asterix.Item{0x80, 0x00}, item)

	_, err = RollAngleItem(327.68)
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)
}

// TestDescriptor tests the FX chained I021/040
func TestDescriptor(t *testing.T) {
	d := Descriptor{AddressType: 1, RangeCheck: true, Extensions: []asterix.Item{{0x00}}}
	item, err := d.Item()
	require.NoError(t, err)
	assert.Equal(t, asterix.Item{0x25, 0x00}, item)

	got, err := ParseDescriptor(item)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), got.AddressType)
	assert.True(t, got.RangeCheck)
	assert.False(t, got.FromFixed)
	assert.Len(t, got.Extensions, 1)

	_, err = ParseDescriptor(asterix.Item{0x01})
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	_, err = Descriptor{AltitudeCap: 4}.Item()
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)
}

// TestIdentification tests the 6-bit callsign of I021/170
func TestIdentification(t *testing.T) {
	item, err := IdentificationItem("KLM1023")
	require.NoError(t, err)
	assert.Len(t, item, 6)

	callsign, err := ParseIdentification(item)
	require.NoError(t, err)
	assert.Equal(t, "KLM1023", callsign)

	item, err = IdentificationItem("")
	require.NoError(t, err)
	assert.Equal(t, asterix.Item{0x82, 0x08, 0x20, 0x82, 0x08, 0x20}, item)

	_, err = IdentificationItem("klm")
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = IdentificationItem("TOOLONG12")
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)
}

// TestMode3A tests octal squawk packing
func TestMode3A(t *testing.T) {
	item, err := Mode3AItem(7700)
	require.NoError(t, err)
	assert.Equal(t, asterix.Item{0x0F, 0xC0}, item)

	squawk, err := ParseMode3A(item)
	require.NoError(t, err)
	assert.Equal(t, uint16(7700), squawk)

	_, err = Mode3AItem(7780)
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = Mode3AItem(10000)
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)
}

// TestCompoundItems tests met information and data ages
func TestCompoundItems(t *testing.T) {
	speed := uint16(25)
	temp := -12.5
	item, err := Met{WindSpeed: &speed, Temperature: &temp}.Item()
	require.NoError(t, err)
	assert.Equal(t, asterix.Item{0xA0, 0x00, 0x19, 0xFF, 0xCE}, item)

	met, err := ParseMet(item)
	require.NoError(t, err)
	require.NotNil(t, met.WindSpeed)
	require.NotNil(t, met.Temperature)
	assert.Equal(t, uint16(25), *met.WindSpeed)
	assert.Equal(t, -12.5, *met.Temperature)
	assert.Nil(t, met.WindDirection)
	assert.Nil(t, met.Turbulence)

	_, err = Met{}.Item()
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	item, err = DataAgesItem(map[int]float64{0: 1.5, 10: 0.3})
	require.NoError(t, err)
	assert.Equal(t, asterix.Item{0x81, 0x10, 0x0F, 0x03}, item)

	ages, err := ParseDataAges(item)
	require.NoError(t, err)
	assert.Len(t, ages, 2)
	assert.InDelta(t, 1.5, ages[0], 1e-9)
	assert.InDelta(t, 0.3, ages[10], 1e-9)

	_, err = DataAgesItem(map[int]float64{23: 1})
	assert.ErrorIs(t, err, asterix.ErrUnknownItemOrdinal)
}

// TestTargetReport tests a record spanning all seven FSPEC octets
func TestTargetReport(t *testing.T) {
	codec := NewCodec(nil)

	descriptor, err := Descriptor{AddressType: 0}.Item()
	require.NoError(t, err)
	track, err := TrackNumberItem(0x0ABC)
	require.NoError(t, err)
	tod, err := TimeItem(43200.25)
	require.NoError(t, err)
	pos, err := Position{Latitude: 52.3086, Longitude: 4.7639}.Item()
	require.NoError(t, err)
	hires, err := Position{Latitude: 52.3086, Longitude: 4.7639}.HighResItem()
	require.NoError(t, err)
	addr, err := TargetAddressItem(0x484C56)
	require.NoError(t, err)
	height, err := GeometricHeightItem(35012.5)
	require.NoError(t, err)
	squawk, err := Mode3AItem(1200)
	require.NoError(t, err)
	fl, err := FlightLevelItem(350)
	require.NoError(t, err)
	hdg, err := MagneticHeadingItem(90)
	require.NoError(t, err)
	vr, err := VerticalRate{Rate: -1000}.Item()
	require.NoError(t, err)
	gv, err := GroundVector{Speed: 0.125, TrackAngle: 270}.Item()
	require.NoError(t, err)
	ident, err := IdentificationItem("KLM1023")
	require.NoError(t, err)
	amp, err := MessageAmplitudeItem(-70)
	require.NoError(t, err)
	mb, err := ModeSMBItem(asterix.Item{1, 2, 3, 4, 5, 6, 7, 0x40})
	require.NoError(t, err)

	rec := UAP.NewRecord()
	rec.Set(DataSourceIdentification, asterix.DataSource{SAC: 0, SIC: 1}.Item())
	rec.Set(TargetReportDescriptor, descriptor)
	rec.Set(TrackNumber, track)
	rec.Set(TimeOfApplicabilityPos, tod)
	rec.Set(PositionWGS84, pos)
	rec.Set(PositionWGS84HighRes, hires)
	rec.Set(TargetAddress, addr)
	rec.Set(GeometricHeight, height)
	rec.Set(Mode3ACode, squawk)
	rec.Set(FlightLevel, fl)
	rec.Set(MagneticHeading, hdg)
	rec.Set(BarometricVerticalRate, vr)
	rec.Set(AirborneGroundVector, gv)
	rec.Set(TargetIdentification, ident)
	rec.Set(MessageAmplitude, amp)
	rec.Set(ModeSMBData, mb)
	rec.Set(SpecialPurpose, asterix.Item{0x02, 0xAA})

	buf, err := codec.Encode(rec)
	require.NoError(t, err)
	assert.Len(t, rec.Fspec, 7)

	decoded, n, err := codec.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, rec.Items, decoded.Items)
	assert.Equal(t, rec.Fspec, decoded.Fspec)

	gotTrack, err := ParseTrackNumber(decoded.Items[TrackNumber])
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0ABC), gotTrack)

	gotTime, err := ParseTime(decoded.Items[TimeOfApplicabilityPos])
	require.NoError(t, err)
	assert.Equal(t, 43200.25, gotTime)

	gotPos, err := ParsePosition(decoded.Items[PositionWGS84])
	require.NoError(t, err)
	assert.InDelta(t, 52.3086, gotPos.Latitude, 180.0/(1<<24))
	assert.InDelta(t, 4.7639, gotPos.Longitude, 180.0/(1<<24))

	gotHires, err := ParseHighResPosition(decoded.Items[PositionWGS84HighRes])
	require.NoError(t, err)
	assert.InDelta(t, 52.3086, gotHires.Latitude, 180.0/(1<<31))

	gotAddr, err := ParseTargetAddress(decoded.Items[TargetAddress])
	require.NoError(t, err)
	assert.Equal(t, uint32(0x484C56), gotAddr)

	gotHeight, err := ParseGeometricHeight(decoded.Items[GeometricHeight])
	require.NoError(t, err)
	assert.Equal(t, 35012.5, gotHeight)

	gotFL, err := ParseFlightLevel(decoded.Items[FlightLevel])
	require.NoError(t, err)
	assert.Equal(t, 350.0, gotFL)

	gotHdg, err := ParseMagneticHeading(decoded.Items[MagneticHeading])
	require.NoError(t, err)
	assert.Equal(t, 90.0, gotHdg)

	gotVR, err := ParseVerticalRate(decoded.Items[BarometricVerticalRate])
	require.NoError(t, err)
	assert.Equal(t, VerticalRate{Rate: -1000}, gotVR)

	gotGV, err := ParseGroundVector(decoded.Items[AirborneGroundVector])
	require.NoError(t, err)
	assert.Equal(t, GroundVector{Speed: 0.125, TrackAngle: 270}, gotGV)

	gotAmp, err := ParseMessageAmplitude(decoded.Items[MessageAmplitude])
	require.NoError(t, err)
	assert.Equal(t, -70.0, gotAmp)
	assert.Equal(t, asterix.Item{0xBA}, decoded.Items[MessageAmplitude])

	msgs, err := ParseModeSMB(decoded.Items[ModeSMBData])
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	src, ok := asterix.SourceOf(UAP, decoded)
	require.True(t, ok)
	assert.Equal(t, asterix.DataSource{SAC: 0, SIC: 1}, src)
}

// TestItems_Errors tests layout checks of the typed accessors
func TestItems_Errors(t *testing.T) {
	_, err := ParseTrackNumber(asterix.Item{0x01})
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	_, err = TrackNumberItem(0x1000)
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = TargetAddressItem(0x1000000)
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = ParsePosition(asterix.Item{0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	_, err = Position{Latitude: 180}.Item()
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = VerticalRate{Rate: 110000}.Item()
	assert.ErrorIs(t, err, asterix.ErrValueOutOfRange)

	_, err = ParseGroundVector(asterix.Item{0x00})
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	_, err = ParseIdentification(asterix.Item{0x00})
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)

	_, err = ParseMet(asterix.Item{0x08})
	assert.ErrorIs(t, err, asterix.ErrMalformedItem)
}
