package cat034

import (
	"fmt"

	"goasterix/internal/asterix"
	"goasterix/internal/bitfield"
)

// Scaled fields
var (
	timeOfDay      = bitfield.Quantity{Width: 24, Encoding: bitfield.Unsigned, LSB: 1.0 / 128}
	sectorAzimuth  = bitfield.Quantity{Width: 8, Encoding: bitfield.Unsigned, LSB: 360.0 / 256}
	rotationPeriod = bitfield.Quantity{Width: 16, Encoding: bitfield.Unsigned, LSB: 1.0 / 128}
	polarRho       = bitfield.Quantity{Width: 16, Encoding: bitfield.Unsigned, LSB: 1.0 / 256}
	polarTheta     = bitfield.Quantity{Width: 16, Encoding: bitfield.Unsigned, LSB: 360.0 / 65536}
	height         = bitfield.Quantity{Width: 16, Encoding: bitfield.TwosComplement, LSB: 1}
	wgs84          = bitfield.Quantity{Width: 24, Encoding: bitfield.TwosComplement, LSB: 180.0 / (1 << 23)}
	rangeError     = bitfield.Quantity{Width: 8, Encoding: bitfield.TwosComplement, LSB: 1.0 / 128}
	azimuthError   = bitfield.Quantity{Width: 8, Encoding: bitfield.TwosComplement, LSB: 360.0 / (1 << 14)}
)

// MessageKind is the value of I034/000
type MessageKind uint8

const (
	NorthMarker        MessageKind = 1
	SectorCrossing     MessageKind = 2
	GeographicalFilter MessageKind = 3
	JammingStrobe      MessageKind = 4
	SolarStorm         MessageKind = 5
	SSRJammingStrobe   MessageKind = 6
	ModeSJammingStrobe MessageKind = 7
)

func (k MessageKind) String() string {
	switch k {
	case NorthMarker:
		return "north marker"
	case SectorCrossing:
		return "sector crossing"
	case GeographicalFilter:
		return "geographical filtering"
	case JammingStrobe:
		return "jamming strobe"
	case SolarStorm:
		return "solar storm"
	case SSRJammingStrobe:
		return "SSR jamming strobe"
	case ModeSJammingStrobe:
		return "Mode S jamming strobe"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func fixed(item asterix.Item, size int, id string) error {
	if len(item) != size {
		return fmt.Errorf("%w: %s has %d octets, want %d", asterix.ErrMalformedItem, id, len(item), size)
	}
	return nil
}

// readScaled reads a single scaled field that fills a fixed item
func readScaled(item asterix.Item, q bitfield.Quantity, id string) (float64, error) {
	if err := fixed(item, q.Width/8, id); err != nil {
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

// ParseMessageType reads I034/000
func ParseMessageType(item asterix.Item) (MessageKind, error) {
	if err := fixed(item, 1, "I034/000"); err != nil {
		return 0, err
	}
	return MessageKind(item[0]), nil
}

// MessageTypeItem builds I034/000
func MessageTypeItem(k MessageKind) asterix.Item {
	return asterix.Item{byte(k)}
}

// ParseTimeOfDay reads I034/030 as seconds since midnight UTC
func ParseTimeOfDay(item asterix.Item) (float64, error) {
	return readScaled(item, timeOfDay, "I034/030")
}

// TimeOfDayItem builds I034/030 from seconds since midnight UTC
func TimeOfDayItem(seconds float64) (asterix.Item, error) {
	return writeScaled(timeOfDay, seconds)
}

// ParseSectorNumber reads I034/020 as an azimuth in degrees
func ParseSectorNumber(item asterix.Item) (float64, error) {
	return readScaled(item, sectorAzimuth, "I034/020")
}

// SectorNumberItem builds I034/020 from an azimuth in degrees
func SectorNumberItem(degrees float64) (asterix.Item, error) {
	return writeScaled(sectorAzimuth, degrees)
}

// ParseAntennaRotationPeriod reads I034/041 in seconds
func ParseAntennaRotationPeriod(item asterix.Item) (float64, error) {
	return readScaled(item, rotationPeriod, "I034/041")
}

// AntennaRotationPeriodItem builds I034/041 from seconds
func AntennaRotationPeriodItem(seconds float64) (asterix.Item, error) {
	return writeScaled(rotationPeriod, seconds)
}

// MessageCount is one entry of I034/070
type MessageCount struct {
	Type  uint8  // 5 bits
	Count uint16 // 11 bits
}

// ParseMessageCounts reads the I034/070 counter list
func ParseMessageCounts(item asterix.Item) ([]MessageCount, error) {
	elems, err := countFormat.Split(item)
	if err != nil {
		return nil, err
	}
	counts := make([]MessageCount, len(elems))
	for i, e := range elems {
		v, _ := bitfield.Uint(e, 0, 16)
		counts[i] = MessageCount{
			Type:  uint8(bitfield.Get(v, 12, 0x1F)),
			Count: uint16(bitfield.Get(v, 1, 0x7FF)),
		}
	}
	return counts, nil
}

// MessageCountsItem builds I034/070
func MessageCountsItem(counts []MessageCount) (asterix.Item, error) {
	elems := make([]asterix.Item, len(counts))
	for i, c := range counts {
		if c.Type > 0x1F || c.Count > 0x7FF {
			return nil, fmt.Errorf("%w: counter %d type %d count %d", asterix.ErrValueOutOfRange, i, c.Type, c.Count)
		}
		var v uint32
		v = bitfield.Set(v, 12, 0x1F, uint32(c.Type))
		v = bitfield.Set(v, 1, 0x7FF, uint32(c.Count))
		e := make(asterix.Item, 2)
		_ = bitfield.PutUint(e, 0, 16, v)
		elems[i] = e
	}
	return countFormat.Join(elems...)
}

// PolarWindow is I034/100: a range window in NM and an azimuth window in degrees
type PolarWindow struct {
	RhoStart   float64
	RhoEnd     float64
	ThetaStart float64
	ThetaEnd   float64
}

// ParsePolarWindow reads I034/100
func ParsePolarWindow(item asterix.Item) (PolarWindow, error) {
	var w PolarWindow
	if err := fixed(item, 8, "I034/100"); err != nil {
		return w, err
	}
	w.RhoStart, _ = polarRho.Read(item, 0)
	w.RhoEnd, _ = polarRho.Read(item, 2)
	w.ThetaStart, _ = polarTheta.Read(item, 4)
	w.ThetaEnd, _ = polarTheta.Read(item, 6)
	return w, nil
}

// Item builds I034/100
func (w PolarWindow) Item() (asterix.Item, error) {
	item := make(asterix.Item, 8)
	fields := []struct {
		q   bitfield.Quantity
		off int
		v   float64
	}{
		{polarRho, 0, w.RhoStart},
		{polarRho, 2, w.RhoEnd},
		{polarTheta, 4, w.ThetaStart},
		{polarTheta, 6, w.ThetaEnd},
	}
	for _, f := range fields {
		if err := f.q.Write(item, f.off, f.v); err != nil {
			return nil, fmt.Errorf("I034/100 offset %d: %w", f.off, err)
		}
	}
	return item, nil
}

// Position3D is I034/120: height in metres and WGS-84 coordinates in degrees
type Position3D struct {
	Height    float64
	Latitude  float64
	Longitude float64
}

// ParsePosition3D reads I034/120
func ParsePosition3D(item asterix.Item) (Position3D, error) {
	var p Position3D
	if err := fixed(item, 8, "I034/120"); err != nil {
		return p, err
	}
	p.Height, _ = height.Read(item, 0)
	p.Latitude, _ = wgs84.Read(item, 2)
	p.Longitude, _ = wgs84.Read(item, 5)
	return p, nil
}

// Item builds I034/120
func (p Position3D) Item() (asterix.Item, error) {
	item := make(asterix.Item, 8)
	if err := height.Write(item, 0, p.Height); err != nil {
		return nil, fmt.Errorf("I034/120 height: %w", err)
	}
	if err := wgs84.Write(item, 2, p.Latitude); err != nil {
		return nil, fmt.Errorf("I034/120 latitude: %w", err)
	}
	if err := wgs84.Write(item, 5, p.Longitude); err != nil {
		return nil, fmt.Errorf("I034/120 longitude: %w", err)
	}
	return item, nil
}

// Collimation is I034/090: range error in NM and azimuth error in degrees
type Collimation struct {
	Range   float64
	Azimuth float64
}

// ParseCollimationError reads I034/090
func ParseCollimationError(item asterix.Item) (Collimation, error) {
	var c Collimation
	if err := fixed(item, 2, "I034/090"); err != nil {
		return c, err
	}
	c.Range, _ = rangeError.Read(item, 0)
	c.Azimuth, _ = azimuthError.Read(item, 1)
	return c, nil
}

// Item builds I034/090
func (c Collimation) Item() (asterix.Item, error) {
	item := make(asterix.Item, 2)
	if err := rangeError.Write(item, 0, c.Range); err != nil {
		return nil, fmt.Errorf("I034/090 range: %w", err)
	}
	if err := azimuthError.Write(item, 1, c.Azimuth); err != nil {
		return nil, fmt.Errorf("I034/090 azimuth: %w", err)
	}
	return item, nil
}

// ComStatus is the common part of I034/050
type ComStatus struct {
	NoGo                bool
	RDPCChain2          bool
	RDPReset            bool
	OverloadRDP         bool
	OverloadTransmit    bool
	MonitorDisconnected bool
	TimeSourceInvalid   bool
}

func (s ComStatus) octet() byte {
	var b byte
	for i, on := range []bool{s.NoGo, s.RDPCChain2, s.RDPReset, s.OverloadRDP, s.OverloadTransmit, s.MonitorDisconnected, s.TimeSourceInvalid} {
		b = bitfield.SetBit(b, uint(8-i), on)
	}
	return b
}

// ParseSystemConfiguration reads the COM subfield of I034/050. The second
// return is false when the item carries no COM subfield.
func ParseSystemConfiguration(item asterix.Item) (ComStatus, bool, error) {
	parts, err := configurationFormat.Split(item)
	if err != nil {
		return ComStatus{}, false, err
	}
	com := parts[0]
	if com == nil {
		return ComStatus{}, false, nil
	}
	b := com[0]
	return ComStatus{
		NoGo:                bitfield.Bit(b, 8),
		RDPCChain2:          bitfield.Bit(b, 7),
		RDPReset:            bitfield.Bit(b, 6),
		OverloadRDP:         bitfield.Bit(b, 5),
		OverloadTransmit:    bitfield.Bit(b, 4),
		MonitorDisconnected: bitfield.Bit(b, 3),
		TimeSourceInvalid:   bitfield.Bit(b, 2),
	}, true, nil
}

// SystemConfigurationItem builds I034/050 carrying only the COM subfield
func SystemConfigurationItem(s ComStatus) (asterix.Item, error) {
	return configurationFormat.Join([]asterix.Item{{s.octet()}})
}
