package policy

import (
	"math"
	"testing"
)

func TestRelativeRangeStableSeries(t *testing.T) {
	got := RelativeRange([]float64{0.051, 0.049, 0.05, 0.052})
	want := (0.052 - 0.049) / 0.0505
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRelativeRangeConstantSeries(t *testing.T) {
	if got := RelativeRange([]float64{45, 45, 45}); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestRelativeRangeEmptyFailsClosed(t *testing.T) {
	if got := RelativeRange(nil); got != 1.0 {
		t.Fatalf("expected 1.0 for empty series, got %v", got)
	}
}

func TestRelativeRangeNonPositiveMeanFailsClosed(t *testing.T) {
	if got := RelativeRange([]float64{-1, 1}); got != 1.0 {
		t.Fatalf("expected 1.0 for zero mean, got %v", got)
	}
	if got := RelativeRange([]float64{-3, -2}); got != 1.0 {
		t.Fatalf("expected 1.0 for negative mean, got %v", got)
	}
}

func TestTailWindow(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5}
	got := tailWindow(series, 3)
	if len(got) != 3 || got[0] != 3 {
		t.Fatalf("expected trailing [3 4 5], got %v", got)
	}
	if got := tailWindow(series, 10); len(got) != 5 {
		t.Fatalf("expected whole series when window exceeds it, got %v", got)
	}
}
