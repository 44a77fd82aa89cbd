// Package cat021 holds the CAT021 (ADS-B target reports) dispatch table and
// typed access to a subset of its items.
package cat021

import (
	"github.com/sirupsen/logrus"

	"goasterix/internal/asterix"
)

// Category is the ASTERIX category id served by this package
const Category = 21

// Edition of the CAT021 standard the table follows
const Edition = "2.4"

// Item ordinals in FSPEC order
const (
	DataSourceIdentification   asterix.Ordinal = iota // I021/010
	TargetReportDescriptor                            // I021/040
	TrackNumber                                       // I021/161
	ServiceIdentification                             // I021/015
	TimeOfApplicabilityPos                            // I021/071
	PositionWGS84                                     // I021/130
	PositionWGS84HighRes                              // I021/131
	TimeOfApplicabilityVel                            // I021/072
	AirSpeed                                          // I021/150
	TrueAirSpeed                                      // I021/151
	TargetAddress                                     // I021/080
	TimeOfReceptionPos                                // I021/073
	TimeOfReceptionPosHighRes                         // I021/074
	TimeOfReceptionVel                                // I021/075
	TimeOfReceptionVelHighRes                         // I021/076
	GeometricHeight                                   // I021/140
	QualityIndicators                                 // I021/090
	MOPSVersion                                       // I021/210
	Mode3ACode                                        // I021/070
	RollAngle                                         // I021/230
	FlightLevel                                       // I021/145
	MagneticHeading                                   // I021/152
	TargetStatus                                      // I021/200
	BarometricVerticalRate                            // I021/155
	GeometricVerticalRate                             // I021/157
	AirborneGroundVector                              // I021/160
	TrackAngleRate                                    // I021/165
	TimeOfReportTransmission                          // I021/077
	TargetIdentification                              // I021/170
	EmitterCategory                                   // I021/020
	MetInformation                                    // I021/220
	SelectedAltitude                                  // I021/146
	FinalStateSelectedAltitude                        // I021/148
	TrajectoryIntent                                  // I021/110
	ServiceManagement                                 // I021/016
	AircraftOperationalStatus                         // I021/008
	SurfaceCapabilities                               // I021/271
	MessageAmplitude                                  // I021/132
	ModeSMBData                                       // I021/250
	ACASResolutionAdvisory                            // I021/260
	ReceiverID                                        // I021/400
	DataAges                                          // I021/295
)

// Ordinals of the trailing expansion fields; FRN 43 to 47 are spare
const (
	ReservedExpansion asterix.Ordinal = 47 // RE
	SpecialPurpose    asterix.Ordinal = 48 // SP
)

var descriptorFormat = asterix.Extended{Primary: 1, Ext: 1, Max: 5}

var metFormat = asterix.Compound{Subfields: []asterix.Format{
	asterix.Fixed{Size: 2}, // wind speed
	asterix.Fixed{Size: 2}, // wind direction
	asterix.Fixed{Size: 2}, // temperature
	asterix.Fixed{Size: 1}, // turbulence
}}

var intentFormat = asterix.Compound{Subfields: []asterix.Format{
	asterix.Extended{Primary: 1, Ext: 1}, // TIS
	asterix.Repetitive{Size: 15},         // TID
}}

// dataAgesFormat has 23 one-octet age subfields
var dataAgesFormat = func() asterix.Compound {
	subs := make([]asterix.Format, 23)
	for i := range subs {
		subs[i] = asterix.Fixed{Size: 1}
	}
	return asterix.Compound{Subfields: subs}
}()

var mbDataFormat = asterix.Repetitive{Size: 8}

func fixed(n int) asterix.Format {
	return asterix.Fixed{Size: n}
}

// UAP is the CAT021 dispatch table
var UAP = asterix.MustNewUAP(Category, Edition,
	asterix.Entry{FRN: 1, ID: "I021/010", Name: "Data Source Identification", Format: fixed(2)},
	asterix.Entry{FRN: 2, ID: "I021/040", Name: "Target Report Descriptor", Format: descriptorFormat},
	asterix.Entry{FRN: 3, ID: "I021/161", Name: "Track Number", Format: fixed(2)},
	asterix.Entry{FRN: 4, ID: "I021/015", Name: "Service Identification", Format: fixed(1)},
	asterix.Entry{FRN: 5, ID: "I021/071", Name: "Time of Applicability for Position", Format: fixed(3)},
	asterix.Entry{FRN: 6, ID: "I021/130", Name: "Position in WGS-84 Co-ordinates", Format: fixed(6)},
	asterix.Entry{FRN: 7, ID: "I021/131", Name: "High-Resolution Position in WGS-84 Co-ordinates", Format: fixed(8)},
	asterix.Entry{FRN: 8, ID: "I021/072", Name: "Time of Applicability for Velocity", Format: fixed(3)},
	asterix.Entry{FRN: 9, ID: "I021/150", Name: "Air Speed", Format: fixed(2)},
	asterix.Entry{FRN: 10, ID: "I021/151", Name: "True Air Speed", Format: fixed(2)},
	asterix.Entry{FRN: 11, ID: "I021/080", Name: "Target Address", Format: fixed(3)},
	asterix.Entry{FRN: 12, ID: "I021/073", Name: "Time of Message Reception of Position", Format: fixed(3)},
	asterix.Entry{FRN: 13, ID: "I021/074", Name: "Time of Message Reception of Position-High Precision", Format: fixed(4)},
	asterix.Entry{FRN: 14, ID: "I021/075", Name: "Time of Message Reception of Velocity", Format: fixed(3)},
	asterix.Entry{FRN: 15, ID: "I021/076", Name: "Time of Message Reception of Velocity-High Precision", Format: fixed(4)},
	asterix.Entry{FRN: 16, ID: "I021/140", Name: "Geometric Height", Format: fixed(2)},
	asterix.Entry{FRN: 17, ID: "I021/090", Name: "Quality Indicators", Format: asterix.Extended{Primary: 1, Ext: 1, Max: 4}},
	asterix.Entry{FRN: 18, ID: "I021/210", Name: "MOPS Version", Format: fixed(1)},
	asterix.Entry{FRN: 19, ID: "I021/070", Name: "Mode 3/A Code", Format: fixed(2)},
	asterix.Entry{FRN: 20, ID: "I021/230", Name: "Roll Angle", Format: fixed(2)},
	asterix.Entry{FRN: 21, ID: "I021/145", Name: "Flight Level", Format: fixed(2)},
	asterix.Entry{FRN: 22, ID: "I021/152", Name: "Magnetic Heading", Format: fixed(2)},
	asterix.Entry{FRN: 23, ID: "I021/200", Name: "Target Status", Format: fixed(1)},
	asterix.Entry{FRN: 24, ID: "I021/155", Name: "Barometric Vertical Rate", Format: fixed(2)},
	asterix.Entry{FRN: 25, ID: "I021/157", Name: "Geometric Vertical Rate", Format: fixed(2)},
	asterix.Entry{FRN: 26, ID: "I021/160", Name: "Airborne Ground Vector", Format: fixed(4)},
	asterix.Entry{FRN: 27, ID: "I021/165", Name: "Track Angle Rate", Format: fixed(2)},
	asterix.Entry{FRN: 28, ID: "I021/077", Name: "Time of Report Transmission", Format: fixed(3)},
	asterix.Entry{FRN: 29, ID: "I021/170", Name: "Target Identification", Format: fixed(6)},
	asterix.Entry{FRN: 30, ID: "I021/020", Name: "Emitter Category", Format: fixed(1)},
	asterix.Entry{FRN: 31, ID: "I021/220", Name: "Met Information", Format: metFormat},
	asterix.Entry{FRN: 32, ID: "I021/146", Name: "Selected Altitude", Format: fixed(2)},
	asterix.Entry{FRN: 33, ID: "I021/148", Name: "Final State Selected Altitude", Format: fixed(2)},
	asterix.Entry{FRN: 34, ID: "I021/110", Name: "Trajectory Intent", Format: intentFormat},
	asterix.Entry{FRN: 35, ID: "I021/016", Name: "Service Management", Format: fixed(1)},
	asterix.Entry{FRN: 36, ID: "I021/008", Name: "Aircraft Operational Status", Format: fixed(1)},
	asterix.Entry{FRN: 37, ID: "I021/271", Name: "Surface Capabilities and Characteristics", Format: asterix.Extended{Primary: 1, Ext: 1, Max: 2}},
	asterix.Entry{FRN: 38, ID: "I021/132", Name: "Message Amplitude", Format: fixed(1)},
	asterix.Entry{FRN: 39, ID: "I021/250", Name: "Mode S MB Data", Format: mbDataFormat},
	asterix.Entry{FRN: 40, ID: "I021/260", Name: "ACAS Resolution Advisory Report", Format: fixed(7)},
	asterix.Entry{FRN: 41, ID: "I021/400", Name: "Receiver ID", Format: fixed(1)},
	asterix.Entry{FRN: 42, ID: "I021/295", Name: "Data Ages", Format: dataAgesFormat},
	asterix.Entry{FRN: 43, Name: "spare"},
	asterix.Entry{FRN: 44, Name: "spare"},
	asterix.Entry{FRN: 45, Name: "spare"},
	asterix.Entry{FRN: 46, Name: "spare"},
	asterix.Entry{FRN: 47, Name: "spare"},
	asterix.Entry{FRN: 48, ID: "RE", Name: "Reserved Expansion Field", Format: asterix.Explicit{}},
	asterix.Entry{FRN: 49, ID: "SP", Name: "Special Purpose Field", Format: asterix.Explicit{}},
)

// NewCodec returns a record codec for CAT021
func NewCodec(logger *logrus.Logger, opts ...asterix.Option) *asterix.Codec {
	return asterix.NewCodec(UAP, logger, opts...)
}
