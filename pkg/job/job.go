// Package job models laser jobs as ordered vector parts. A job is a
// named list of parts; each part carries its own raster resolution and
// an ordered command list. Coordinates are absolute pixels at the part
// resolution, power and speed are percentages of the device maximum.
package job

import (
	"liblasercut-go-migration/pkg/errors"
	"liblasercut-go-migration/pkg/units"
)

// LaserJob is a named, ordered collection of vector parts.
type LaserJob struct {
	Name  string
	Parts []*VectorPart
}

// NewLaserJob creates an empty job.
func NewLaserJob(name string) *LaserJob {
	return &LaserJob{Name: name}
}

// AddPart appends a part to the job.
func (j *LaserJob) AddPart(p *VectorPart) {
	j.Parts = append(j.Parts, p)
}

// CommandCount returns the total number of commands across all parts.
func (j *LaserJob) CommandCount() int {
	n := 0
	for _, p := range j.Parts {
		n += len(p.Commands)
	}
	return n
}

// Validate checks every part resolution and every command. When
// supported is non-empty, each part resolution must appear in it.
func (j *LaserJob) Validate(supported []float64) error {
	for pi, part := range j.Parts {
		if err := units.CheckResolution(part.Resolution); err != nil {
			return withPartContext(err, pi)
		}
		if len(supported) > 0 && !resolutionSupported(part.Resolution, supported) {
			return withPartContext(errors.UnsupportedResolutionError(part.Resolution, supported), pi)
		}
		for ci, cmd := range part.Commands {
			if err := cmd.Validate(); err != nil {
				if derr, ok := err.(*errors.DriverError); ok {
					derr.SetContext("command", ci)
				}
				return withPartContext(err, pi)
			}
		}
	}
	return nil
}

func resolutionSupported(dpi float64, supported []float64) bool {
	for _, s := range supported {
		if s == dpi {
			return true
		}
	}
	return false
}

func withPartContext(err error, part int) error {
	if derr, ok := err.(*errors.DriverError); ok {
		derr.SetContext("part", part)
	}
	return err
}
