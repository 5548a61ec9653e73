package job

import (
	"fmt"

	"liblasercut-go-migration/pkg/errors"
	"liblasercut-go-migration/pkg/units"
)

// Command is a single entry in a vector part command list.
type Command interface {
	// Validate checks the command's numeric fields before serialization.
	Validate() error
}

// RapidMove repositions the head with the beam off.
type RapidMove struct {
	X float64
	Y float64
}

// Validate reports non-finite coordinates.
func (m RapidMove) Validate() error {
	if !units.IsFinite(m.X) {
		return errors.InvalidCoordinateError("x", m.X)
	}
	if !units.IsFinite(m.Y) {
		return errors.InvalidCoordinateError("y", m.Y)
	}
	return nil
}

// CutMove moves the head with the beam on at the given power and
// speed, both in percent of the device maximum.
type CutMove struct {
	X     float64
	Y     float64
	Power float64
	Speed float64
}

// Validate reports non-finite fields and out-of-range percentages.
func (m CutMove) Validate() error {
	if !units.IsFinite(m.X) {
		return errors.InvalidCoordinateError("x", m.X)
	}
	if !units.IsFinite(m.Y) {
		return errors.InvalidCoordinateError("y", m.Y)
	}
	if !units.IsFinite(m.Power) {
		return errors.InvalidCoordinateError("power", m.Power)
	}
	if !units.IsFinite(m.Speed) {
		return errors.InvalidCoordinateError("speed", m.Speed)
	}
	if m.Power < 0 || m.Power > 100 {
		return errors.JobValidationError(fmt.Sprintf("power %v out of range 0-100", m.Power))
	}
	if m.Speed < 0 || m.Speed > 100 {
		return errors.JobValidationError(fmt.Sprintf("speed %v out of range 0-100", m.Speed))
	}
	return nil
}
