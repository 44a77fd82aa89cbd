package cat021

import (
	"fmt"
	"strings"

	"goasterix/internal/asterix"
	"goasterix/internal/bitfield"
)

// Scaled fields
var (
	timeOfDay       = bitfield.Quantity{Width: 24, Encoding: bitfield.Unsigned, LSB: 1.0 / 128}
	wgs84           = bitfield.Quantity{Width: 24, Encoding: bitfield.TwosComplement, LSB: 180.0 / (1 << 23)}
	wgs84HighRes    = bitfield.Quantity{Width: 32, Encoding: bitfield.TwosComplement, LSB: 180.0 / (1 << 30)}
	geometricHeight = bitfield.Quantity{Width: 16, Encoding: bitfield.TwosComplement, LSB: 6.25}
	rollAngle       = bitfield.Quantity{Width: 16, Encoding: bitfield.TwosComplement, LSB: 0.01}
	flightLevel     = bitfield.Quantity{Width: 16, Encoding: bitfield.TwosComplement, LSB: 0.25}
	heading         = bitfield.Quantity{Width: 16, Encoding: bitfield.Unsigned, LSB: 360.0 / 65536}
	verticalRate    = bitfield.Quantity{Width: 15, Encoding: bitfield.TwosComplement, LSB: 6.25}
	groundSpeed     = bitfield.Quantity{Width: 15, Encoding: bitfield.TwosComplement, LSB: 1.0 / (1 << 14)}
	temperature     = bitfield.Quantity{Width: 16, Encoding: bitfield.TwosComplement, LSB: 0.25}
	reportPeriod    = bitfield.Quantity{Width: 8, Encoding: bitfield.Unsigned, LSB: 0.5}
	amplitude       = bitfield.Quantity{Width: 8, Encoding: bitfield.TwosComplement, LSB: 1}
	dataAge         = bitfield.Quantity{Width: 8, Encoding: bitfield.Unsigned, LSB: 0.1}
)

// identCharset is the 6-bit ICAO character set of I021/170
const identCharset = "@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_ !\"#$%&'()*+,-./0123456789:;<=>?"

func fixedLen(item asterix.Item, size int, id string) error {
	if len(item) != size {
		return fmt.Errorf("%w: %s has %d octets, want %d", asterix.ErrMalformedItem, id, len(item), size)
	}
	return nil
}

func readScaled(item asterix.Item, q bitfield.Quantity, id string) (float64, error) {
	if err := fixedLen(item, q.Width/8, id); err != nil {
		return 0, err
	}
	return q.Read(item, 0)
}

func writeScaled(q bitfield.Quantity, v float64) (asterix.Item, error) {
	item := make(asterix.Item, q.Width/8)
	if err := q.Write(item, 0, v); err != nil {
		return nil, err
	}
	return item, nil
}

// Descriptor is the primary part of I021/040 plus the number of extensions
type Descriptor struct {
	AddressType uint8 // ATP
	AltitudeCap uint8 // ARC
	RangeCheck  bool  // RC
	FromFixed   bool  // RAB
	Extensions  []asterix.Item
}

// ParseDescriptor reads I021/040
func ParseDescriptor(item asterix.Item) (Descriptor, error) {
	parts, err := descriptorFormat.Split(item)
	if err != nil {
		return Descriptor{}, err
	}
	b := uint32(parts[0][0])
	return Descriptor{
		AddressType: uint8(bitfield.Get(b, 6, 0x07)),
		AltitudeCap: uint8(bitfield.Get(b, 4, 0x03)),
		RangeCheck:  bitfield.Get(b, 3, 0x01) == 1,
		FromFixed:   bitfield.Get(b, 2, 0x01) == 1,
		Extensions:  parts[1:],
	}, nil
}

// Item builds I021/040, chaining the extensions as given
func (d Descriptor) Item() (asterix.Item, error) {
	if d.AddressType > 0x07 || d.AltitudeCap > 0x03 {
		return nil, fmt.Errorf("%w: I021/040 ATP %d ARC %d", asterix.ErrValueOutOfRange, d.AddressType, d.AltitudeCap)
	}
	var b uint32
	b = bitfield.Set(b, 6, 0x07, uint32(d.AddressType))
	b = bitfield.Set(b, 4, 0x03, uint32(d.AltitudeCap))
	if d.RangeCheck {
		b = bitfield.Set(b, 3, 0x01, 1)
	}
	if d.FromFixed {
		b = bitfield.Set(b, 2, 0x01, 1)
	}
	parts := append([]asterix.Item{{byte(b)}}, d.Extensions...)
	return descriptorFormat.Join(parts...)
}

// ParseTrackNumber reads I021/161
func ParseTrackNumber(item asterix.Item) (uint16, error) {
	if err := fixedLen(item, 2, "I021/161"); err != nil {
		return 0, err
	}
	v, _ := bitfield.Uint(item, 0, 16)
	return uint16(bitfield.Get(v, 1, 0x0FFF)), nil
}

// TrackNumberItem builds I021/161
func TrackNumberItem(n uint16) (asterix.Item, error) {
	if n > 0x0FFF {
		return nil, fmt.Errorf("%w: track number %d", asterix.ErrValueOutOfRange, n)
	}
	return asterix.Item{byte(n >> 8), byte(n)}, nil
}

// ParseTime reads any of the 3-octet time items (I021/071, 072, 073, 075,
// 077) as seconds since midnight UTC
func ParseTime(item asterix.Item) (float64, error) {
	return readScaled(item, timeOfDay, "time of day")
}

// TimeItem builds a 3-octet time item from seconds since midnight UTC
func TimeItem(seconds float64) (asterix.Item, error) {
	return writeScaled(timeOfDay, seconds)
}

// Position is a WGS-84 latitude and longitude in degrees
type Position struct {
	Latitude  float64
	Longitude float64
}

// ParsePosition reads I021/130
func ParsePosition(item asterix.Item) (Position, error) {
	return parsePosition(item, wgs84, "I021/130")
}

// ParseHighResPosition reads I021/131
func ParseHighResPosition(item asterix.Item) (Position, error) {
	return parsePosition(item, wgs84HighRes, "I021/131")
}

func parsePosition(item asterix.Item, q bitfield.Quantity, id string) (Position, error) {
	size := q.Width / 8
	if err := fixedLen(item, 2*size, id); err != nil {
		return Position{}, err
	}
	lat, _ := q.Read(item, 0)
	lon, _ := q.Read(item, size)
	return Position{Latitude: lat, Longitude: lon}, nil
}

// Item builds I021/130
func (p Position) Item() (asterix.Item, error) {
	return p.item(wgs84)
}

// HighResItem builds I021/131
func (p Position) HighResItem() (asterix.Item, error) {
	return p.item(wgs84HighRes)
}

func (p Position) item(q bitfield.Quantity) (asterix.Item, error) {
	size := q.Width / 8
	item := make(asterix.Item, 2*size)
	if err := q.Write(item, 0, p.Latitude); err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	if err := q.Write(item, size, p.Longitude); err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	return item, nil
}

// ParseTargetAddress reads the 24-bit ICAO address of I021/080
func ParseTargetAddress(item asterix.Item) (uint32, error) {
	if err := fixedLen(item, 3, "I021/080"); err != nil {
		return 0, err
	}
	return bitfield.Uint(item, 0, 24)
}

// TargetAddressItem builds I021/080
func TargetAddressItem(icao uint32) (asterix.Item, error) {
	item := make(asterix.Item, 3)
	if icao > 0xFFFFFF {
		return nil, fmt.Errorf("%w: ICAO address %06X", asterix.ErrValueOutOfRange, icao)
	}
	_ = bitfield.PutUint(item, 0, 24, icao)
	return item, nil
}

// ParseGeometricHeight reads I021/140 in feet
func ParseGeometricHeight(item asterix.Item) (float64, error) {
	return readScaled(item, geometricHeight, "I021/140")
}

// GeometricHeightItem builds I021/140 from feet
func GeometricHeightItem(feet float64) (asterix.Item, error) {
	return writeScaled(geometricHeight, feet)
}

// ParseMode3A reads the squawk of I021/070 as its four octal digits
func ParseMode3A(item asterix.Item) (uint16, error) {
	if err := fixedLen(item, 2, "I021/070"); err != nil {
		return 0, err
	}
	v, _ := bitfield.Uint(item, 0, 16)
	a := bitfield.Get(v, 10, 0x07)
	b := bitfield.Get(v, 7, 0x07)
	c := bitfield.Get(v, 4, 0x07)
	d := bitfield.Get(v, 1, 0x07)
	return uint16(a*1000 + b*100 + c*10 + d), nil
}

// Mode3AItem builds I021/070 from a squawk written as decimal digits, e.g. 7700
func Mode3AItem(squawk uint16) (asterix.Item, error) {
	if squawk > 7777 {
		return nil, fmt.Errorf("%w: squawk %d", asterix.ErrValueOutOfRange, squawk)
	}
	var v uint32
	for i, pos := range []uint{1, 4, 7, 10} {
		digit := uint32(squawk) / pow10(i) % 10
		if digit > 7 {
			return nil, fmt.Errorf("%w: squawk %04d is not octal", asterix.ErrValueOutOfRange, squawk)
		}
		v = bitfield.Set(v, pos, 0x07, digit)
	}
	return asterix.Item{byte(v >> 8), byte(v)}, nil
}

func pow10(n int) uint32 {
	p := uint32(1)
	for ; n > 0; n-- {
		p *= 10
	}
	return p
}

// ParseRollAngle reads I021/230 in degrees
func ParseRollAngle(item asterix.Item) (float64, error) {
	return readScaled(item, rollAngle, "I021/230")
}

// RollAngleItem builds I021/230 from degrees
func RollAngleItem(degrees float64) (asterix.Item, error) {
	return writeScaled(rollAngle, degrees)
}

// ParseFlightLevel reads I021/145
func ParseFlightLevel(item asterix.Item) (float64, error) {
	return readScaled(item, flightLevel, "I021/145")
}

// FlightLevelItem builds I021/145
func FlightLevelItem(fl float64) (asterix.Item, error) {
	return writeScaled(flightLevel, fl)
}

// ParseMagneticHeading reads I021/152 in degrees
func ParseMagneticHeading(item asterix.Item) (float64, error) {
	return readScaled(item, heading, "I021/152")
}

// MagneticHeadingItem builds I021/152 from degrees
func MagneticHeadingItem(degrees float64) (asterix.Item, error) {
	return writeScaled(heading, degrees)
}

// VerticalRate is I021/155 or I021/157 in feet per minute. RangeExceeded
// mirrors the RE bit.
type VerticalRate struct {
	RangeExceeded bool
	Rate          float64
}

// ParseVerticalRate reads I021/155 or I021/157
func ParseVerticalRate(item asterix.Item) (VerticalRate, error) {
	if err := fixedLen(item, 2, "vertical rate"); err != nil {
		return VerticalRate{}, err
	}
	v, _ := bitfield.Uint(item, 0, 16)
	return VerticalRate{
		RangeExceeded: bitfield.Get(v, 16, 0x01) == 1,
		Rate:          verticalRate.Physical(bitfield.Get(v, 1, 0x7FFF)),
	}, nil
}

// Item builds I021/155 or I021/157
func (r VerticalRate) Item() (asterix.Item, error) {
	raw, err := verticalRate.Raw(r.Rate)
	if err != nil {
		return nil, err
	}
	v := bitfield.Set(0, 1, 0x7FFF, raw)
	if r.RangeExceeded {
		v = bitfield.Set(v, 16, 0x01, 1)
	}
	return asterix.Item{byte(v >> 8), byte(v)}, nil
}

// GroundVector is I021/160: ground speed in NM/s and track angle in degrees
type GroundVector struct {
	RangeExceeded bool
	Speed         float64
	TrackAngle    float64
}

// ParseGroundVector reads I021/160
func ParseGroundVector(item asterix.Item) (GroundVector, error) {
	if err := fixedLen(item, 4, "I021/160"); err != nil {
		return GroundVector{}, err
	}
	v, _ := bitfield.Uint(item, 0, 16)
	track, _ := heading.Read(item, 2)
	return GroundVector{
		RangeExceeded: bitfield.Get(v, 16, 0x01) == 1,
		Speed:         groundSpeed.Physical(bitfield.Get(v, 1, 0x7FFF)),
		TrackAngle:    track,
	}, nil
}

// Item builds I021/160
func (g GroundVector) Item() (asterix.Item, error) {
	raw, err := groundSpeed.Raw(g.Speed)
	if err != nil {
		return nil, fmt.Errorf("ground speed: %w", err)
	}
	v := bitfield.Set(0, 1, 0x7FFF, raw)
	if g.RangeExceeded {
		v = bitfield.Set(v, 16, 0x01, 1)
	}
	item := make(asterix.Item, 4)
	_ = bitfield.PutUint(item, 0, 16, v)
	if err := heading.Write(item, 2, g.TrackAngle); err != nil {
		return nil, fmt.Errorf("track angle: %w", err)
	}
	return item, nil
}

// ParseIdentification reads the 8-character callsign of I021/170 with
// trailing spaces removed
func ParseIdentification(item asterix.Item) (string, error) {
	if err := fixedLen(item, 6, "I021/170"); err != nil {
		return "", err
	}
	var v uint64
	for _, b := range item {
		v = v<<8 | uint64(b)
	}
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		idx := (v >> (42 - 6*uint(i))) & 0x3F
		sb.WriteByte(identCharset[idx])
	}
	return strings.TrimRight(sb.String(), " "), nil
}

// IdentificationItem builds I021/170 from up to 8 characters of A-Z, 0-9
// and space
func IdentificationItem(callsign string) (asterix.Item, error) {
	if len(callsign) > 8 {
		return nil, fmt.Errorf("%w: callsign %q longer than 8", asterix.ErrValueOutOfRange, callsign)
	}
	padded := callsign + strings.Repeat(" ", 8-len(callsign))

	var v uint64
	for i := 0; i < 8; i++ {
		c := padded[i]
		if !(c == ' ' || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return nil, fmt.Errorf("%w: callsign character %q", asterix.ErrValueOutOfRange, c)
		}
		v = v<<6 | uint64(strings.IndexByte(identCharset, c))
	}

	item := make(asterix.Item, 6)
	for i := 5; i >= 0; i-- {
		item[i] = byte(v)
		v >>= 8
	}
	return item, nil
}

// Met is the content of I021/220. Nil fields are absent subfields.
type Met struct {
	WindSpeed     *uint16  // knots
	WindDirection *uint16  // degrees
	Temperature   *float64 // degrees Celsius
	Turbulence    *uint8
}

// ParseMet reads I021/220
func ParseMet(item asterix.Item) (Met, error) {
	parts, err := metFormat.Split(item)
	if err != nil {
		return Met{}, err
	}
	var m Met
	if p := parts[0]; p != nil {
		v := uint16(p[0])<<8 | uint16(p[1])
		m.WindSpeed = &v
	}
	if p := parts[1]; p != nil {
		v := uint16(p[0])<<8 | uint16(p[1])
		m.WindDirection = &v
	}
	if p := parts[2]; p != nil {
		v, _ := temperature.Read(p, 0)
		m.Temperature = &v
	}
	if p := parts[3]; p != nil {
		v := p[0]
		m.Turbulence = &v
	}
	return m, nil
}

// Item builds I021/220 from the present fields
func (m Met) Item() (asterix.Item, error) {
	parts := make([]asterix.Item, 4)
	if m.WindSpeed != nil {
		parts[0] = asterix.Item{byte(*m.WindSpeed >> 8), byte(*m.WindSpeed)}
	}
	if m.WindDirection != nil {
		parts[1] = asterix.Item{byte(*m.WindDirection >> 8), byte(*m.WindDirection)}
	}
	if m.Temperature != nil {
		p, err := writeScaled(temperature, *m.Temperature)
		if err != nil {
			return nil, fmt.Errorf("temperature: %w", err)
		}
		parts[2] = p
	}
	if m.Turbulence != nil {
		parts[3] = asterix.Item{*m.Turbulence}
	}
	return metFormat.Join(parts)
}

// ParseReportPeriod reads the report period of I021/016 in seconds
func ParseReportPeriod(item asterix.Item) (float64, error) {
	return readScaled(item, reportPeriod, "I021/016")
}

// ReportPeriodItem builds I021/016 from seconds
func ReportPeriodItem(seconds float64) (asterix.Item, error) {
	return writeScaled(reportPeriod, seconds)
}

// ParseMessageAmplitude reads I021/132 in dBm
func ParseMessageAmplitude(item asterix.Item) (float64, error) {
	return readScaled(item, amplitude, "I021/132")
}

// MessageAmplitudeItem builds I021/132 from dBm
func MessageAmplitudeItem(dbm float64) (asterix.Item, error) {
	return writeScaled(amplitude, dbm)
}

// ParseModeSMB reads the 7-octet MB data and BDS register pairs of I021/250
func ParseModeSMB(item asterix.Item) ([]asterix.Item, error) {
	return mbDataFormat.Split(item)
}

// ModeSMBItem builds I021/250
func ModeSMBItem(messages ...asterix.Item) (asterix.Item, error) {
	return mbDataFormat.Join(messages...)
}

// ParseDataAges reads I021/295 as seconds per subfield index; absent
// subfields are left out
func ParseDataAges(item asterix.Item) (map[int]float64, error) {
	parts, err := dataAgesFormat.Split(item)
	if err != nil {
		return nil, err
	}
	ages := make(map[int]float64)
	for i, p := range parts {
		if p == nil {
			continue
		}
		ages[i], _ = dataAge.Read(p, 0)
	}
	return ages, nil
}

// DataAgesItem builds I021/295 from seconds per subfield index
func DataAgesItem(ages map[int]float64) (asterix.Item, error) {
	parts := make([]asterix.Item, len(dataAgesFormat.Subfields))
	for i, age := range ages {
		if i < 0 || i >= len(parts) {
			return nil, fmt.Errorf("%w: data age subfield %d", asterix.ErrUnknownItemOrdinal, i+1)
		}
		p, err := writeScaled(dataAge, age)
		if err != nil {
			return nil, fmt.Errorf("data age %d: %w", i+1, err)
		}
		parts[i] = p
	}
	return dataAgesFormat.Join(parts)
}
