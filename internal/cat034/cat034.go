// Package cat034 holds the CAT034 (monoradar service messages) dispatch
// table and typed access to its items.
package cat034

import (
	"github.com/sirupsen/logrus"

	"goasterix/internal/asterix"
)

// Category is the ASTERIX category id served by this package
const Category = 34

// Edition of the CAT034 standard the table follows
const Edition = "1.29"

// Item ordinals in FSPEC order
const (
	DataSourceIdentifier   asterix.Ordinal = iota // I034/010
	MessageType                                   // I034/000
	TimeOfDay                                     // I034/030
	SectorNumber                                  // I034/020
	AntennaRotationPeriod                         // I034/041
	SystemConfiguration                           // I034/050
	SystemProcessingMode                          // I034/060
	MessageCountValues                            // I034/070
	GenericPolarWindow                            // I034/100
	DataFilter                                    // I034/110
	SourcePosition                                // I034/120
	CollimationError                              // I034/090
	ReservedExpansion                             // RE
	SpecialPurpose                                // SP
)

// Subfields of I034/050. Positions 2 and 3 are spare.
var configurationFormat = asterix.Compound{Subfields: []asterix.Format{
	asterix.Fixed{Size: 1}, // COM
	nil,
	nil,
	asterix.Fixed{Size: 1}, // PSR
	asterix.Fixed{Size: 1}, // SSR
	asterix.Fixed{Size: 2}, // MDS
}}

// Subfields of I034/060
var processingFormat = asterix.Compound{Subfields: []asterix.Format{
	asterix.Fixed{Size: 1}, // COM
	nil,
	nil,
	asterix.Fixed{Size: 1}, // PSR
	asterix.Fixed{Size: 1}, // SSR
	asterix.Fixed{Size: 1}, // MDS
}}

var countFormat = asterix.Repetitive{Size: 2}

// UAP is the CAT034 dispatch table
var UAP = asterix.MustNewUAP(Category, Edition,
	asterix.Entry{FRN: 1, ID: "I034/010", Name: "Data Source Identifier", Format: asterix.Fixed{Size: 2}},
	asterix.Entry{FRN: 2, ID: "I034/000", Name: "Message Type", Format: asterix.Fixed{Size: 1}},
	asterix.Entry{FRN: 3, ID: "I034/030", Name: "Time of Day", Format: asterix.Fixed{Size: 3}},
	asterix.Entry{FRN: 4, ID: "I034/020", Name: "Sector Number", Format: asterix.Fixed{Size: 1}},
	asterix.Entry{FRN: 5, ID: "I034/041", Name: "Antenna Rotation Period", Format: asterix.Fixed{Size: 2}},
	asterix.Entry{FRN: 6, ID: "I034/050", Name: "System Configuration and Status", Format: configurationFormat},
	asterix.Entry{FRN: 7, ID: "I034/060", Name: "System Processing Mode", Format: processingFormat},
	asterix.Entry{FRN: 8, ID: "I034/070", Name: "Message Count Values", Format: countFormat},
	asterix.Entry{FRN: 9, ID: "I034/100", Name: "Generic Polar Window", Format: asterix.Fixed{Size: 8}},
	asterix.Entry{FRN: 10, ID: "I034/110", Name: "Data Filter", Format: asterix.Fixed{Size: 1}},
	asterix.Entry{FRN: 11, ID: "I034/120", Name: "3D-Position of Data Source", Format: asterix.Fixed{Size: 8}},
	asterix.Entry{FRN: 12, ID: "I034/090", Name: "Collimation Error", Format: asterix.Fixed{Size: 2}},
	asterix.Entry{FRN: 13, ID: "RE", Name: "Reserved Expansion Field", Format: asterix.Explicit{}},
	asterix.Entry{FRN: 14, ID: "SP", Name: "Special Purpose Field", Format: asterix.Explicit{}},
)

// NewCodec returns a record codec for CAT034
func NewCodec(logger *logrus.Logger, opts ...asterix.Option) *asterix.Codec {
	return asterix.NewCodec(UAP, logger, opts...)
}
