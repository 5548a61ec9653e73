package estimate

import (
	"math"
	"sync"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNew(t *testing.T) {
	e := New(1000, 3000)
	if e == nil {
		t.Fatal("New returned nil")
	}
	if e.Total() != 0 {
		t.Errorf("Initial total should be 0, got %f", e.Total())
	}
}

func TestTravelFeedFallback(t *testing.T) {
	// Without a travel feed, rapids run at the device maximum.
	e := New(1000, 0)
	e.AddTravel(100)
	// 100 mm at 1000 mm/min = 6 seconds
	if !almostEqual(e.Total(), 6.0) {
		t.Errorf("Expected 6.0 seconds, got %f", e.Total())
	}
}

func TestAddTravel(t *testing.T) {
	e := New(1000, 3000)
	e.AddTravel(50)
	e.AddTravel(100)

	status := e.GetStatus()
	if status.TravelMM != 150 {
		t.Errorf("Expected 150 mm travel, got %f", status.TravelMM)
	}
	if status.TravelMoves != 2 {
		t.Errorf("Expected 2 travel moves, got %d", status.TravelMoves)
	}
	// 150 mm at 3000 mm/min = 3 seconds
	if !almostEqual(status.TravelSeconds, 3.0) {
		t.Errorf("Expected 3.0 travel seconds, got %f", status.TravelSeconds)
	}
}

func TestAddCut(t *testing.T) {
	e := New(1000, 3000)
	// 5 mm at 20% of 1000 mm/min = 5/200*60 = 1.5 seconds
	e.AddCut(5, 20)

	status := e.GetStatus()
	if status.CutMM != 5 {
		t.Errorf("Expected 5 mm cut, got %f", status.CutMM)
	}
	if status.CutMoves != 1 {
		t.Errorf("Expected 1 cut move, got %d", status.CutMoves)
	}
	if !almostEqual(status.CutSeconds, 1.5) {
		t.Errorf("Expected 1.5 cut seconds, got %f", status.CutSeconds)
	}
}

func TestAddCutZeroSpeed(t *testing.T) {
	e := New(1000, 3000)
	e.AddCut(10, 0)

	status := e.GetStatus()
	if status.CutMM != 10 {
		t.Errorf("Expected distance to accumulate, got %f", status.CutMM)
	}
	if status.CutSeconds != 0 {
		t.Errorf("Expected no time for zero feed, got %f", status.CutSeconds)
	}
}

func TestDwell(t *testing.T) {
	e := New(1000, 3000)
	e.Dwell(0.5)
	e.Dwell(1.0)
	if !almostEqual(e.Total(), 1.5) {
		t.Errorf("Expected 1.5 seconds, got %f", e.Total())
	}

	// Negative dwell is ignored.
	e.Dwell(-2.0)
	if !almostEqual(e.Total(), 1.5) {
		t.Errorf("Expected 1.5 seconds after negative dwell, got %f", e.Total())
	}
}

func TestTotal(t *testing.T) {
	// 10 mm rapid at 1000 mm/min plus a 5 mm cut at 20% of 1000 mm/min.
	e := New(1000, 0)
	e.AddTravel(10)
	e.AddCut(5, 20)

	// 0.6 + 1.5 seconds
	if !almostEqual(e.Total(), 2.1) {
		t.Errorf("Expected 2.1 seconds, got %f", e.Total())
	}

	status := e.GetStatus()
	if !almostEqual(status.TotalSeconds, e.Total()) {
		t.Errorf("Status total %f does not match Total() %f", status.TotalSeconds, e.Total())
	}
}

func TestReset(t *testing.T) {
	e := New(1000, 3000)
	e.AddTravel(100)
	e.AddCut(50, 50)
	e.Dwell(1)

	e.Reset()

	status := e.GetStatus()
	if status.TotalSeconds != 0 {
		t.Errorf("Expected 0 total after reset, got %f", status.TotalSeconds)
	}
	if status.CutMM != 0 || status.TravelMM != 0 {
		t.Errorf("Expected 0 distances after reset, got cut %f travel %f", status.CutMM, status.TravelMM)
	}
	if status.CutMoves != 0 || status.TravelMoves != 0 {
		t.Errorf("Expected 0 moves after reset, got cut %d travel %d", status.CutMoves, status.TravelMoves)
	}
}

func TestConcurrentAccumulation(t *testing.T) {
	e := New(1000, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				e.AddTravel(1)
				e.AddCut(1, 50)
			}
		}()
	}
	wg.Wait()

	status := e.GetStatus()
	if status.TravelMM != 1000 {
		t.Errorf("Expected 1000 mm travel, got %f", status.TravelMM)
	}
	if status.CutMM != 1000 {
		t.Errorf("Expected 1000 mm cut, got %f", status.CutMM)
	}
	if status.TravelMoves != 1000 || status.CutMoves != 1000 {
		t.Errorf("Expected 1000 moves each, got travel %d cut %d", status.TravelMoves, status.CutMoves)
	}
}
