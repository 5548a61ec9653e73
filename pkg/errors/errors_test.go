// Tests for unified error handling
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *DriverError
		want string
	}{
		{
			name: "code only",
			err:  New(ErrRuntime, "something broke"),
			want: "[RUNTIME] something broke",
		},
		{
			name: "with section",
			err:  New(ErrConfigSection, "section 'driver' not found").SetSection("driver"),
			want: "[CONFIG_SECTION:driver] section 'driver' not found",
		},
		{
			name: "option wins over section",
			err: New(ErrConfigOption, "missing").
				SetSection("driver").
				SetOption("bed_width"),
			want: "[CONFIG_OPTION:bed_width] missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ErrTransportWrite, "line write failed")

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestCodeHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     ErrorCode
		isConfig bool
		isJob    bool
		isDriver bool
	}{
		{"resolution", InvalidResolutionError(-1), ErrDriverResolution, false, false, true},
		{"coordinate", InvalidCoordinateError("x", 0), ErrDriverCoordinate, false, false, true},
		{"profile", UnknownProfileError("bogus", []string{"grbl"}), ErrDriverProfile, false, false, true},
		{"config option", ConfigOptionError("driver", "bed_width"), ErrConfigOption, true, false, false},
		{"job parse", JobParseError("cut a b", "bad float"), ErrJobParse, false, true, false},
		{"job validation", JobValidationError("empty job"), ErrJobValidation, false, true, false},
		{"plain error", fmt.Errorf("nope"), ErrRuntime, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != ErrRuntime && !Is(tt.err, tt.code) {
				t.Errorf("Is(err, %s) = false, want true", tt.code)
			}
			if got := IsConfig(tt.err); got != tt.isConfig {
				t.Errorf("IsConfig() = %v, want %v", got, tt.isConfig)
			}
			if got := IsJob(tt.err); got != tt.isJob {
				t.Errorf("IsJob() = %v, want %v", got, tt.isJob)
			}
			if got := IsDriver(tt.err); got != tt.isDriver {
				t.Errorf("IsDriver() = %v, want %v", got, tt.isDriver)
			}
		})
	}
}

func TestBuilderContext(t *testing.T) {
	err := New(ErrJobParse, "bad directive").
		SetFile("cut.job").
		SetLine(12).
		SetContext("directive", "cut")

	if err.File != "cut.job" || err.Line != 12 {
		t.Errorf("file/line not recorded: %q/%d", err.File, err.Line)
	}
	if err.Context["directive"] != "cut" {
		t.Errorf("context not recorded: %v", err.Context)
	}

	if got := WithLineNumber(nil, 5); got != nil {
		t.Errorf("WithLineNumber(nil) = %v, want nil", got)
	}
}

func TestUnsupportedResolutionMessage(t *testing.T) {
	err := UnsupportedResolutionError(300, []float64{127, 254})
	if !strings.Contains(err.Error(), "300") || !strings.Contains(err.Error(), "127") {
		t.Errorf("message should name the offending and supported values: %q", err.Error())
	}
}

func TestRecoverPanic(t *testing.T) {
	f := func() (err *DriverError) {
		defer func() {
			err = RecoverPanic()
		}()
		panic("state machine confused")
	}
	err := f()
	if err == nil {
		t.Fatal("expected recovered error")
	}
	if err.Code != ErrRuntime {
		t.Errorf("Code = %s, want %s", err.Code, ErrRuntime)
	}
	if !strings.Contains(err.Message, "state machine confused") {
		t.Errorf("message should carry the panic value: %q", err.Message)
	}
}
