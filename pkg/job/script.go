// Job script parsing for the LibLaserCut Go migration
//
// A job script is a plain-text description of a laser job, one
// directive per line:
//
//	job <name>
//	part <dpi>
//	rapid <x> <y>
//	cut <x> <y> <power> <speed>
//
// '#' starts a comment and blank lines are ignored. Coordinates are
// absolute pixels at the enclosing part's resolution; power and speed
// are percentages of the device maximum. Parse errors carry the
// one-based line number of the offending directive.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package job

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"liblasercut-go-migration/pkg/errors"
	"liblasercut-go-migration/pkg/pool"
	"liblasercut-go-migration/pkg/units"
)

// ParseScript reads a job script and builds the job it describes.
func ParseScript(r io.Reader) (*LaserJob, error) {
	result := NewLaserJob("")
	var part *VectorPart
	named := false

	// One pooled token buffer serves every line of the script.
	tokenBuf := pool.GetStringSlice()
	defer pool.PutStringSlice(tokenBuf)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		if idx := strings.IndexByte(raw, '#'); idx >= 0 {
			raw = raw[:idx]
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		*tokenBuf = splitFields((*tokenBuf)[:0], line)
		tokens := *tokenBuf
		switch tokens[0] {
		case "job":
			if named {
				return nil, errors.JobParseError(line, "duplicate 'job' directive").SetLine(lineNum)
			}
			if len(tokens) < 2 {
				return nil, errors.JobMissingParameterError("job", "name").SetLine(lineNum)
			}
			result.Name = strings.Join(tokens[1:], " ")
			named = true

		case "part":
			if len(tokens) < 2 {
				return nil, errors.JobMissingParameterError("part", "dpi").SetLine(lineNum)
			}
			dpi, err := parseScriptFloat("part", "dpi", tokens[1], lineNum)
			if err != nil {
				return nil, err
			}
			if dpi <= 0 {
				return nil, errors.JobInvalidParameterError("part", "dpi", tokens[1], "must be positive").SetLine(lineNum)
			}
			part = NewVectorPart(dpi)
			result.AddPart(part)

		case "rapid":
			if part == nil {
				return nil, errors.JobParseError(line, "'rapid' before any 'part' directive").SetLine(lineNum)
			}
			if len(tokens) < 3 {
				return nil, errors.JobMissingParameterError("rapid", "x y").SetLine(lineNum)
			}
			x, err := parseScriptFloat("rapid", "x", tokens[1], lineNum)
			if err != nil {
				return nil, err
			}
			y, err := parseScriptFloat("rapid", "y", tokens[2], lineNum)
			if err != nil {
				return nil, err
			}
			part.Rapid(x, y)

		case "cut":
			if part == nil {
				return nil, errors.JobParseError(line, "'cut' before any 'part' directive").SetLine(lineNum)
			}
			if len(tokens) < 5 {
				return nil, errors.JobMissingParameterError("cut", "x y power speed").SetLine(lineNum)
			}
			x, err := parseScriptFloat("cut", "x", tokens[1], lineNum)
			if err != nil {
				return nil, err
			}
			y, err := parseScriptFloat("cut", "y", tokens[2], lineNum)
			if err != nil {
				return nil, err
			}
			power, err := parseScriptFloat("cut", "power", tokens[3], lineNum)
			if err != nil {
				return nil, err
			}
			if power < 0 || power > 100 {
				return nil, errors.JobInvalidParameterError("cut", "power", tokens[3], "out of range 0-100").SetLine(lineNum)
			}
			speed, err := parseScriptFloat("cut", "speed", tokens[4], lineNum)
			if err != nil {
				return nil, err
			}
			if speed < 0 || speed > 100 {
				return nil, errors.JobInvalidParameterError("cut", "speed", tokens[4], "out of range 0-100").SetLine(lineNum)
			}
			part.Cut(x, y, power, speed)

		default:
			return nil, errors.JobUnknownCommandError(tokens[0]).SetLine(lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrJobParse, "failed to read job script")
	}
	return result, nil
}

// splitFields appends the space- or tab-separated fields of line to dst.
func splitFields(dst []string, line string) []string {
	start := -1
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' {
			if start >= 0 {
				dst = append(dst, line[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		dst = append(dst, line[start:])
	}
	return dst
}

// parseScriptFloat parses one numeric directive parameter.
func parseScriptFloat(directive, param, value string, line int) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.JobInvalidParameterError(directive, param, value, "not a number").SetLine(line)
	}
	if !units.IsFinite(v) {
		return 0, errors.JobInvalidParameterError(directive, param, value, "not finite").SetLine(line)
	}
	return v, nil
}

// LoadScript reads a job script from a file. A script with no 'job'
// directive yields a job named after the file.
func LoadScript(path string) (*LaserJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrJobParse, fmt.Sprintf("failed to open job script %s", path))
	}
	defer f.Close()

	result, err := ParseScript(f)
	if err != nil {
		if derr, ok := err.(*errors.DriverError); ok {
			errors.WithScriptPath(derr, path)
		}
		return nil, err
	}
	if result.Name == "" {
		base := filepath.Base(path)
		result.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return result, nil
}
