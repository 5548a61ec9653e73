// Device profiles for the LibLaserCut Go migration
//
// A profile couples config defaults with the line-building strategy of
// one controller family. Profiles produce fresh serializers; there is
// no shared mutable default state.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package driver

import (
	"liblasercut-go-migration/pkg/errors"
)

// RapidLineFunc renders one beam-off motion line. blank is true when
// the S0 blanking token belongs on the line.
type RapidLineFunc func(cfg *Config, target Position, dx, dy float64, blank bool) string

// CutLineFunc renders one beam-on motion line. powerTok and speedTok
// are empty when the corresponding cache suppressed them.
type CutLineFunc func(cfg *Config, target Position, dx, dy float64, powerTok, speedTok string) string

// Profile bundles config defaults with the line-building strategies of
// one device family.
type Profile struct {
	Name        string
	Incremental bool
	Config      Config
	RapidLine   RapidLineFunc
	CutLine     CutLineFunc
}

// DefaultProfile is the profile selected when none is named.
const DefaultProfile = "grbl-compact"

// ProfileNames returns the known profile names in stable order.
func ProfileNames() []string {
	return []string{"grbl-compact", "grbl"}
}

// Lookup returns a fresh profile for name. The empty name selects the
// default profile.
func Lookup(name string) (*Profile, error) {
	switch name {
	case "", "grbl-compact":
		return GrblCompact(), nil
	case "grbl":
		return Grbl(), nil
	}
	return nil, errors.UnknownProfileError(name, ProfileNames())
}

// GrblCompact returns the incremental profile: relative moves with
// dead-zone suppression, minimal tokens, no feed on rapids.
func GrblCompact() *Profile {
	return &Profile{
		Name:        "grbl-compact",
		Incremental: true,
		Config: Config{
			BedWidth:             250,
			BedHeight:            280,
			CoordinateDigits:     2,
			PowerDigits:          0,
			MaxSpeed:             1000,
			BlankDuringRapids:    true,
			LineEnding:           "\n",
			PreJob:               []string{"G21", "G90", "G92X0Y0", "G91", "M4"},
			PostJob:              []string{"M5", "G90", "G0X0Y0"},
			SupportedResolutions: []float64{127, 254},
		},
		RapidLine: compactRapidLine,
		CutLine:   compactCutLine,
	}
}

// Grbl returns the absolute profile: every motion line carries both
// coordinates and rapids state the travel feed when one is configured.
func Grbl() *Profile {
	return &Profile{
		Name:        "grbl",
		Incremental: false,
		Config: Config{
			BedWidth:             250,
			BedHeight:            280,
			CoordinateDigits:     2,
			PowerDigits:          0,
			MaxSpeed:             1000,
			TravelSpeed:          3000,
			LineEnding:           "\n",
			PreJob:               []string{"G21", "G90", "G92X0Y0", "M4"},
			PostJob:              []string{"M5", "G90", "G0X0Y0"},
			SupportedResolutions: []float64{127, 254, 508, 1016},
		},
		RapidLine: absoluteRapidLine,
		CutLine:   absoluteCutLine,
	}
}
