// Unit conversion and numeric rendering for the LibLaserCut Go migration
//
// Job coordinates arrive in pixels at a part resolution (DPI); the
// controller wants millimeters rendered with a fixed decimal precision.
// Rendering goes through strconv so the output is locale-invariant.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package units

import (
	"math"
	"strconv"

	"liblasercut-go-migration/pkg/errors"
)

// MMPerInch is the conversion factor between inches and millimeters.
const MMPerInch = 25.4

// PxToMM converts a pixel coordinate at the given resolution (dots per
// inch) into millimeters. The resolution must already be validated with
// CheckResolution.
func PxToMM(px, dpi float64) float64 {
	return px * MMPerInch / dpi
}

// CheckResolution validates a part resolution. Resolutions must be
// finite and strictly positive; anything else cannot produce meaningful
// coordinates and aborts the job.
func CheckResolution(dpi float64) error {
	if !IsFinite(dpi) || dpi <= 0 {
		return errors.InvalidResolutionError(dpi)
	}
	return nil
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatFixed renders v with exactly digits decimal places using a
// decimal point regardless of locale. digits below zero is treated
// as zero.
func FormatFixed(v float64, digits int) string {
	if digits < 0 {
		digits = 0
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}

// Distance returns the Euclidean length of the (dx, dy) delta.
func Distance(dx, dy float64) float64 {
	return math.Hypot(dx, dy)
}
