package driver

// powerSpeedState caches the last emitted power and speed percentages.
// nil is the unset sentinel; an unset cache differs from every request.
type powerSpeedState struct {
	lastPower *float64
	lastSpeed *float64
}

// updatePower reports whether power differs from the cache and records
// it as the emitted value.
func (ps *powerSpeedState) updatePower(power float64) bool {
	if ps.lastPower != nil && *ps.lastPower == power {
		return false
	}
	v := power
	ps.lastPower = &v
	return true
}

// updateSpeed reports whether speed differs from the cache and records
// it as the emitted value.
func (ps *powerSpeedState) updateSpeed(speed float64) bool {
	if ps.lastSpeed != nil && *ps.lastSpeed == speed {
		return false
	}
	v := speed
	ps.lastSpeed = &v
	return true
}

// invalidatePower clears the power cache so the next cut re-emits S.
func (ps *powerSpeedState) invalidatePower() {
	ps.lastPower = nil
}

// invalidateSpeed clears the speed cache so the next cut re-emits F.
func (ps *powerSpeedState) invalidateSpeed() {
	ps.lastSpeed = nil
}

// reset clears both caches.
func (ps *powerSpeedState) reset() {
	ps.lastPower = nil
	ps.lastSpeed = nil
}
