package driver

import (
	"liblasercut-go-migration/pkg/errors"
	"liblasercut-go-migration/pkg/units"
)

// Position is an absolute point on the bed in millimeters.
type Position struct {
	X float64
	Y float64
}

// Transform converts an absolute pixel position at the given DPI into
// bed millimeters, applying the config's axis flips.
func Transform(cfg *Config, x, y, dpi float64) (Position, error) {
	if err := units.CheckResolution(dpi); err != nil {
		return Position{}, err
	}
	if !units.IsFinite(x) {
		return Position{}, errors.InvalidCoordinateError("x", x)
	}
	if !units.IsFinite(y) {
		return Position{}, errors.InvalidCoordinateError("y", y)
	}

	p := Position{
		X: units.PxToMM(x, dpi),
		Y: units.PxToMM(y, dpi),
	}
	if cfg.FlipX {
		p.X = cfg.BedWidth - p.X
	}
	if cfg.FlipY {
		p.Y = cfg.BedHeight - p.Y
	}
	return p, nil
}

// motionState tracks the last commanded position so deltas can be
// derived from absolute targets.
type motionState struct {
	last Position
}

// advance returns the deltas from the last position to target and
// records target as the new last position. The record happens even
// when the caller ends up suppressing the resulting tokens.
func (m *motionState) advance(target Position) (dx, dy float64) {
	dx = target.X - m.last.X
	dy = target.Y - m.last.Y
	m.last = target
	return dx, dy
}

// reset returns the tracked position to the machine origin.
func (m *motionState) reset() {
	m.last = Position{}
}

// position returns the last recorded position.
func (m *motionState) position() Position {
	return m.last
}
