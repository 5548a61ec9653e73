// G-code serialization for the LibLaserCut Go migration
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package driver turns absolute-pixel laser jobs into the G-code
// dialect of one device profile. A Serializer owns the mutable motion
// and power/speed caches of a single pass; create one per device
// config and do not share it between jobs that must stay independent.
package driver

import (
	"fmt"
	"time"

	"liblasercut-go-migration/pkg/errors"
	"liblasercut-go-migration/pkg/estimate"
	"liblasercut-go-migration/pkg/job"
	"liblasercut-go-migration/pkg/log"
	"liblasercut-go-migration/pkg/metrics"
	"liblasercut-go-migration/pkg/transport"
	"liblasercut-go-migration/pkg/units"
)

// Serializer converts job commands into device G-code lines.
type Serializer struct {
	cfg         Config
	profileName string
	incremental bool
	rapidLine   RapidLineFunc
	cutLine     CutLineFunc

	motion motionState
	power  powerSpeedState

	logger    *log.Logger
	estimator *estimate.Estimator
	metrics   *metrics.DriverMetrics
}

// New creates a serializer from a profile. The profile's config is
// copied; later profile mutations do not reach the serializer.
func New(p *Profile) *Serializer {
	return &Serializer{
		cfg:         p.Config,
		profileName: p.Name,
		incremental: p.Incremental,
		rapidLine:   p.RapidLine,
		cutLine:     p.CutLine,
	}
}

// Config returns a copy of the serializer's config.
func (s *Serializer) Config() Config {
	return s.cfg
}

// ProfileName returns the name of the originating profile.
func (s *Serializer) ProfileName() string {
	return s.profileName
}

// SetLogger attaches a logger for DEBUG-level line tracing.
func (s *Serializer) SetLogger(l *log.Logger) {
	s.logger = l
}

// SetEstimator attaches a duration estimator fed during job passes.
func (s *Serializer) SetEstimator(e *estimate.Estimator) {
	s.estimator = e
}

// SetMetrics attaches a metrics bundle.
func (s *Serializer) SetMetrics(m *metrics.DriverMetrics) {
	s.metrics = m
}

// Position returns the last commanded position in bed millimeters.
func (s *Serializer) Position() Position {
	return s.motion.position()
}

// BeginJob returns the serializer to its job-start state: motion at
// the machine origin, power and speed caches unset, estimator totals
// cleared. Every serialization pass starts here.
func (s *Serializer) BeginJob() {
	s.motion.reset()
	s.power.reset()
	if s.estimator != nil {
		s.estimator.Reset()
	}
}

// RapidTo emits one beam-off move to the absolute pixel position
// (x, y) at the given resolution.
func (s *Serializer) RapidTo(w transport.LineWriter, x, y, dpi float64) error {
	target, err := Transform(&s.cfg, x, y, dpi)
	if err != nil {
		return err
	}
	dx, dy := s.motion.advance(target)

	line := s.rapidLine(&s.cfg, target, dx, dy, s.cfg.BlankDuringRapids)
	if s.cfg.BlankDuringRapids {
		s.power.invalidatePower()
	}
	// The device travels at its own rapid feed, so the next cut must
	// re-state F.
	s.power.invalidateSpeed()

	if err := s.emit(w, line, "rapid"); err != nil {
		return err
	}
	s.recordAxisSuppression(dx, dy)
	if s.estimator != nil {
		s.estimator.AddTravel(units.Distance(dx, dy))
	}
	if s.metrics != nil {
		s.metrics.RecordCommand("rapid")
	}
	return nil
}

// CutTo emits one beam-on move to the absolute pixel position (x, y)
// at the given power and speed percentages.
func (s *Serializer) CutTo(w transport.LineWriter, x, y, power, speed, dpi float64) error {
	if !units.IsFinite(power) {
		return errors.InvalidCoordinateError("power", power)
	}
	if !units.IsFinite(speed) {
		return errors.InvalidCoordinateError("speed", speed)
	}
	target, err := Transform(&s.cfg, x, y, dpi)
	if err != nil {
		return err
	}
	dx, dy := s.motion.advance(target)

	powerTok := ""
	if s.power.updatePower(power) {
		powerTok = powerToken(&s.cfg, power)
	} else if s.metrics != nil {
		s.metrics.RecordSuppressedToken("s")
	}
	speedTok := ""
	if s.power.updateSpeed(speed) {
		speedTok = speedToken(&s.cfg, speed)
	} else if s.metrics != nil {
		s.metrics.RecordSuppressedToken("f")
	}

	line := s.cutLine(&s.cfg, target, dx, dy, powerTok, speedTok)
	if err := s.emit(w, line, "cut"); err != nil {
		return err
	}
	s.recordAxisSuppression(dx, dy)
	if s.estimator != nil {
		s.estimator.AddCut(units.Distance(dx, dy), speed)
	}
	if s.metrics != nil {
		s.metrics.RecordCommand("cut")
	}
	return nil
}

// WriteJob serializes an entire job: prologue, every part in
// submission order, epilogue. The pass always starts from the
// job-start state.
func (s *Serializer) WriteJob(w transport.LineWriter, j *job.LaserJob) error {
	started := time.Now()
	err := s.writeJob(w, j)
	if s.metrics != nil {
		status := "completed"
		if err != nil {
			status = "error"
			if derr, ok := err.(*errors.DriverError); ok {
				s.metrics.RecordError(string(derr.Code))
			}
		}
		s.metrics.RecordJob(status, time.Since(started))
		if err == nil && s.estimator != nil {
			st := s.estimator.GetStatus()
			s.metrics.SetJobStats(st.CutMM, st.TravelMM, st.TotalSeconds)
		}
	}
	return err
}

func (s *Serializer) writeJob(w transport.LineWriter, j *job.LaserJob) error {
	s.BeginJob()

	for _, line := range s.cfg.PreJob {
		if err := s.emit(w, line, "prologue"); err != nil {
			return err
		}
	}
	for _, part := range j.Parts {
		if err := units.CheckResolution(part.Resolution); err != nil {
			return err
		}
		for _, cmd := range part.Commands {
			var err error
			switch c := cmd.(type) {
			case job.RapidMove:
				err = s.RapidTo(w, c.X, c.Y, part.Resolution)
			case job.CutMove:
				err = s.CutTo(w, c.X, c.Y, c.Power, c.Speed, part.Resolution)
			default:
				err = errors.RuntimeError(fmt.Sprintf("unsupported command type %T", cmd))
			}
			if err != nil {
				return err
			}
		}
	}
	for _, line := range s.cfg.PostJob {
		if err := s.emit(w, line, "epilogue"); err != nil {
			return err
		}
	}
	return nil
}

// emit writes one line and runs the per-line bookkeeping. Transport
// errors pass through unchanged.
func (s *Serializer) emit(w transport.LineWriter, line, kind string) error {
	if err := w.WriteLine(line); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Debug("emitted %s", line)
	}
	if s.metrics != nil {
		s.metrics.RecordLine(kind)
	}
	return nil
}

// recordAxisSuppression counts dead-zone token suppressions. Only
// incremental profiles suppress axis tokens.
func (s *Serializer) recordAxisSuppression(dx, dy float64) {
	if s.metrics == nil || !s.incremental {
		return
	}
	if suppressed(dx) {
		s.metrics.RecordSuppressedToken("x")
	}
	if suppressed(dy) {
		s.metrics.RecordSuppressedToken("y")
	}
}
