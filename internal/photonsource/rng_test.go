package photonsource

import (
	"math"
	"testing"
)

func TestLogLogInterpolateEndpoints(t *testing.T) {
	xs := []float64{1, 2, 4, 8}
	cdf := []float64{0, 0.25, 0.75, 1.0}

	if got := LogLogInterpolate(xs, cdf, 0); got != xs[0] {
		t.Errorf("u=0 -> %v, want %v", got, xs[0])
	}
	if got := LogLogInterpolate(xs, cdf, 1); got != xs[len(xs)-1] {
		t.Errorf("u=1 -> %v, want %v", got, xs[len(xs)-1])
	}
}

func TestLogLogInterpolateMidpoint(t *testing.T) {
	xs := []float64{0, 10}
	cdf := []float64{0, 1}
	got := LogLogInterpolate(xs, cdf, 0.5)
	if math.Abs(got-5) > 1e-9 {
		t.Errorf("midpoint interpolation = %v, want 5", got)
	}
}

func TestLogLogInterpolateEmptyTable(t *testing.T) {
	if got := LogLogInterpolate(nil, nil, 0.5); got != 0 {
		t.Errorf("empty table should return 0, got %v", got)
	}
}

func TestLogLogInterpolateSingleEntry(t *testing.T) {
	xs := []float64{42}
	cdf := []float64{1}
	if got := LogLogInterpolate(xs, cdf, 0.9); got != 42 {
		t.Errorf("single-entry table should always return that entry, got %v", got)
	}
}

func TestPacketResetZeroesState(t *testing.T) {
	p := &Packet{Wavelength: 500, Luminosity: 1, NumScatt: 3, Q: 0.1, U: 0.2, V: 0.3, HasPrimaryOrigin: true, HistoryIndex: 7}
	p.Reset()
	if p.NumScatt != 0 || p.Q != 0 || p.U != 0 || p.V != 0 {
		t.Errorf("Reset did not zero scattering/polarization state: %+v", p)
	}
}
