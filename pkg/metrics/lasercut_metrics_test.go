// Unit tests for driver metrics definitions
//
// Copyright (C) 2026 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestNewDriverMetrics(t *testing.T) {
	dm := NewDriverMetrics()
	if dm == nil {
		t.Fatal("NewDriverMetrics returned nil")
	}

	// All metric fields should be initialized
	if dm.LinesEmitted == nil {
		t.Error("LinesEmitted not initialized")
	}
	if dm.TokensSuppressed == nil {
		t.Error("TokensSuppressed not initialized")
	}
	if dm.CommandsTotal == nil {
		t.Error("CommandsTotal not initialized")
	}
	if dm.JobsSerialized == nil {
		t.Error("JobsSerialized not initialized")
	}
	if dm.SerializeSeconds == nil {
		t.Error("SerializeSeconds not initialized")
	}
	if dm.Registry() == nil {
		t.Error("registry not initialized")
	}
}

func TestRecordLine(t *testing.T) {
	dm := NewDriverMetrics()

	dm.RecordLine("rapid")
	dm.RecordLine("cut")
	dm.RecordLine("cut")

	if v := dm.LinesEmitted.Get(Labels{"kind": "rapid"}); v != 1 {
		t.Errorf("expected 1 rapid line, got %d", v)
	}
	if v := dm.LinesEmitted.Get(Labels{"kind": "cut"}); v != 2 {
		t.Errorf("expected 2 cut lines, got %d", v)
	}
}

func TestRecordSuppressedToken(t *testing.T) {
	dm := NewDriverMetrics()

	dm.RecordSuppressedToken("x")
	dm.RecordSuppressedToken("s")
	dm.RecordSuppressedToken("s")

	if v := dm.TokensSuppressed.Get(Labels{"token": "x"}); v != 1 {
		t.Errorf("expected 1 suppressed x token, got %d", v)
	}
	if v := dm.TokensSuppressed.Get(Labels{"token": "s"}); v != 2 {
		t.Errorf("expected 2 suppressed s tokens, got %d", v)
	}
}

func TestRecordJob(t *testing.T) {
	dm := NewDriverMetrics()

	dm.RecordJob("completed", 25*time.Millisecond)
	dm.RecordJob("completed", 30*time.Millisecond)
	dm.RecordJob("error", 1*time.Millisecond)

	if v := dm.JobsSerialized.Get(Labels{"status": "completed"}); v != 2 {
		t.Errorf("expected 2 completed jobs, got %d", v)
	}
	if v := dm.JobsSerialized.Get(Labels{"status": "error"}); v != 1 {
		t.Errorf("expected 1 errored job, got %d", v)
	}

	snap := dm.SerializeSeconds.GetSnapshot(nil)
	if snap.Count != 3 {
		t.Errorf("expected 3 timing observations, got %d", snap.Count)
	}
}

func TestSetJobStats(t *testing.T) {
	dm := NewDriverMetrics()

	dm.SetJobStats(125.5, 40.25, 90)

	if v := dm.CutDistance.Get(nil); v != 125.5 {
		t.Errorf("expected cut distance 125.5, got %f", v)
	}
	if v := dm.TravelDistance.Get(nil); v != 40.25 {
		t.Errorf("expected travel distance 40.25, got %f", v)
	}
	if v := dm.EstimatedSeconds.Get(nil); v != 90 {
		t.Errorf("expected estimate 90, got %f", v)
	}
}

func TestAddBytes(t *testing.T) {
	dm := NewDriverMetrics()

	dm.AddBytes(100)
	dm.AddBytes(0) // no-op
	dm.AddBytes(28)

	if v := dm.BytesWritten.Get(nil); v != 128 {
		t.Errorf("expected 128 bytes, got %d", v)
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	dm := NewDriverMetrics()
	dm.UpdateSystemMetrics()

	if v := dm.GoGoroutines.Get(nil); v <= 0 {
		t.Errorf("expected positive goroutine count, got %f", v)
	}
	if v := dm.GoMemoryHeap.Get(nil); v <= 0 {
		t.Errorf("expected positive heap usage, got %f", v)
	}
}

func TestDriverMetricsGather(t *testing.T) {
	dm := NewDriverMetrics()
	dm.RecordLine("cut")
	dm.RecordCommand("cut")
	dm.RecordError("TRANSPORT_WRITE")

	output := dm.Gather()

	if !strings.Contains(output, "lasercut_lines_emitted_total") {
		t.Error("missing lines emitted metric")
	}
	if !strings.Contains(output, `lasercut_commands_total{type="cut"} 1`) {
		t.Error("missing commands metric")
	}
	if !strings.Contains(output, `lasercut_errors_total{code="TRANSPORT_WRITE"} 1`) {
		t.Error("missing errors metric")
	}
	if !strings.Contains(output, "lasercut_go_goroutines") {
		t.Error("missing runtime gauge")
	}
}

func TestGlobalMetrics(t *testing.T) {
	m1 := GlobalMetrics()
	m2 := GlobalMetrics()

	if m1 != m2 {
		t.Error("GlobalMetrics should return the same instance")
	}
}
