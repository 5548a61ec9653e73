package driver

import (
	"fmt"

	"liblasercut-go-migration/pkg/config"
	"liblasercut-go-migration/pkg/errors"
	"liblasercut-go-migration/pkg/units"
)

// Config holds the device parameters of one serializer instance.
// Profiles provide the defaults; an INI [driver] section can overlay
// individual options.
type Config struct {
	// FlipX and FlipY mirror the corresponding axis across the bed.
	FlipX bool
	FlipY bool

	// BedWidth and BedHeight are the usable bed dimensions in mm.
	BedWidth  float64
	BedHeight float64

	// CoordinateDigits and PowerDigits fix the rendered precision of
	// the X/Y and S tokens.
	CoordinateDigits int
	PowerDigits      int

	// MaxSpeed is the device feed at 100% speed, in mm/min.
	MaxSpeed float64

	// TravelSpeed is the rapid feed in mm/min. Profiles that state a
	// feed on rapids use it when positive.
	TravelSpeed float64

	// BlankDuringRapids forces S0 onto every rapid so the beam stays
	// dark between cuts.
	BlankDuringRapids bool

	// LineEnding terminates every emitted line.
	LineEnding string

	// PreJob and PostJob are fixed prologue and epilogue lines.
	PreJob  []string
	PostJob []string

	// SupportedResolutions is the DPI whitelist. Empty accepts any
	// positive resolution.
	SupportedResolutions []float64
}

// ApplySection overlays [driver] options onto the config. Options not
// present in the section keep their current values.
func (c *Config) ApplySection(s *config.Section) error {
	minDigits := 0
	maxDigits := 8
	zero := 0.0

	var err error
	if c.FlipX, err = s.GetBool("flip_x", c.FlipX); err != nil {
		return err
	}
	if c.FlipY, err = s.GetBool("flip_y", c.FlipY); err != nil {
		return err
	}
	if c.BedWidth, err = s.GetFloatWithBounds("bed_width", config.FloatBounds{MinVal: &zero}, c.BedWidth); err != nil {
		return err
	}
	if c.BedHeight, err = s.GetFloatWithBounds("bed_height", config.FloatBounds{MinVal: &zero}, c.BedHeight); err != nil {
		return err
	}
	if c.CoordinateDigits, err = s.GetIntWithBounds("coordinate_digits", &minDigits, &maxDigits, c.CoordinateDigits); err != nil {
		return err
	}
	if c.PowerDigits, err = s.GetIntWithBounds("power_digits", &minDigits, &maxDigits, c.PowerDigits); err != nil {
		return err
	}
	if c.MaxSpeed, err = s.GetFloatWithBounds("max_speed", config.FloatBounds{Above: &zero}, c.MaxSpeed); err != nil {
		return err
	}
	if c.TravelSpeed, err = s.GetFloatWithBounds("travel_speed", config.FloatBounds{MinVal: &zero}, c.TravelSpeed); err != nil {
		return err
	}
	if c.BlankDuringRapids, err = s.GetBool("blank_during_rapids", c.BlankDuringRapids); err != nil {
		return err
	}
	ending, err := s.GetChoice("line_ending", []string{"lf", "crlf"}, endingName(c.LineEnding))
	if err != nil {
		return err
	}
	c.LineEnding = endingValue(ending)
	if c.PreJob, err = s.GetList("prejob", ",", c.PreJob); err != nil {
		return err
	}
	if c.PostJob, err = s.GetList("postjob", ",", c.PostJob); err != nil {
		return err
	}
	if c.SupportedResolutions, err = s.GetFloatList("supported_resolutions", ",", c.SupportedResolutions); err != nil {
		return err
	}
	return nil
}

// Validate checks config consistency after profile defaults and INI
// overlays are applied.
func (c *Config) Validate() error {
	if c.MaxSpeed <= 0 {
		return errors.ConfigValidationError("driver", "max_speed", "must be positive")
	}
	if c.TravelSpeed < 0 {
		return errors.ConfigValidationError("driver", "travel_speed", "must not be negative")
	}
	if c.CoordinateDigits < 0 || c.CoordinateDigits > 8 {
		return errors.ConfigValidationError("driver", "coordinate_digits", "must be between 0 and 8")
	}
	if c.PowerDigits < 0 || c.PowerDigits > 8 {
		return errors.ConfigValidationError("driver", "power_digits", "must be between 0 and 8")
	}
	if c.FlipX && c.BedWidth <= 0 {
		return errors.ConfigValidationError("driver", "bed_width", "must be positive when flip_x is on")
	}
	if c.FlipY && c.BedHeight <= 0 {
		return errors.ConfigValidationError("driver", "bed_height", "must be positive when flip_y is on")
	}
	if c.LineEnding != "\n" && c.LineEnding != "\r\n" {
		return errors.ConfigValidationError("driver", "line_ending", "must be lf or crlf")
	}
	for _, dpi := range c.SupportedResolutions {
		if err := units.CheckResolution(dpi); err != nil {
			return errors.ConfigValidationError("driver", "supported_resolutions",
				fmt.Sprintf("resolution %v must be positive", dpi))
		}
	}
	return nil
}

// endingName maps a line terminator to its config spelling.
func endingName(ending string) string {
	if ending == "\r\n" {
		return "crlf"
	}
	return "lf"
}

// endingValue maps a config spelling to the line terminator.
func endingValue(name string) string {
	if name == "crlf" {
		return "\r\n"
	}
	return "\n"
}
