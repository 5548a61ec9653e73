package driver

import (
	"math"
	"strconv"

	"liblasercut-go-migration/pkg/pool"
	"liblasercut-go-migration/pkg/units"
)

// DeadZone is the per-axis suppression threshold in millimeters.
// Incremental deltas at or below it render no axis token.
const DeadZone = 0.001

// suppressed reports whether a delta falls inside the dead zone.
func suppressed(delta float64) bool {
	return math.Abs(delta) <= DeadZone
}

// appendAxis writes one axis word at the given precision.
func appendAxis(buf *pool.ByteBuffer, letter byte, value float64, digits int) {
	buf.WriteByte(letter)
	buf.WriteString(units.FormatFixed(value, digits))
}

// powerToken renders the S word at the configured power precision.
func powerToken(cfg *Config, power float64) string {
	return "S" + units.FormatFixed(power, cfg.PowerDigits)
}

// speedToken renders the F word as the truncated device feed for the
// given speed percentage.
func speedToken(cfg *Config, speed float64) string {
	return "F" + strconv.Itoa(int(cfg.MaxSpeed*speed/100))
}

// compactRapidLine renders an incremental beam-off move. Token order
// is X, Y, then S0 when blanking is on.
func compactRapidLine(cfg *Config, target Position, dx, dy float64, blank bool) string {
	buf := pool.GetByteBuffer()
	defer pool.PutByteBuffer(buf)

	buf.WriteString("G0")
	if !suppressed(dx) {
		appendAxis(buf, 'X', dx, cfg.CoordinateDigits)
	}
	if !suppressed(dy) {
		appendAxis(buf, 'Y', dy, cfg.CoordinateDigits)
	}
	if blank {
		buf.WriteString("S0")
	}
	return buf.String()
}

// compactCutLine renders an incremental beam-on move. Token order is
// X, Y, S, F; empty power and speed tokens were suppressed by the
// caller's caches.
func compactCutLine(cfg *Config, target Position, dx, dy float64, powerTok, speedTok string) string {
	buf := pool.GetByteBuffer()
	defer pool.PutByteBuffer(buf)

	buf.WriteString("G1")
	if !suppressed(dx) {
		appendAxis(buf, 'X', dx, cfg.CoordinateDigits)
	}
	if !suppressed(dy) {
		appendAxis(buf, 'Y', dy, cfg.CoordinateDigits)
	}
	buf.WriteString(powerTok)
	buf.WriteString(speedTok)
	return buf.String()
}

// absoluteRapidLine renders an absolute beam-off move. Both
// coordinates are always present; the travel feed is stated when one
// is configured.
func absoluteRapidLine(cfg *Config, target Position, dx, dy float64, blank bool) string {
	buf := pool.GetByteBuffer()
	defer pool.PutByteBuffer(buf)

	buf.WriteString("G0")
	appendAxis(buf, 'X', target.X, cfg.CoordinateDigits)
	appendAxis(buf, 'Y', target.Y, cfg.CoordinateDigits)
	if blank {
		buf.WriteString("S0")
	}
	if cfg.TravelSpeed > 0 {
		buf.WriteByte('F')
		buf.WriteString(strconv.Itoa(int(cfg.TravelSpeed)))
	}
	return buf.String()
}

// absoluteCutLine renders an absolute beam-on move. Both coordinates
// are always present.
func absoluteCutLine(cfg *Config, target Position, dx, dy float64, powerTok, speedTok string) string {
	buf := pool.GetByteBuffer()
	defer pool.PutByteBuffer(buf)

	buf.WriteString("G1")
	appendAxis(buf, 'X', target.X, cfg.CoordinateDigits)
	appendAxis(buf, 'Y', target.Y, cfg.CoordinateDigits)
	buf.WriteString(powerTok)
	buf.WriteString(speedTok)
	return buf.String()
}
