package simulation

import (
	"math"
	"testing"

	"github.com/AislingA/SKIRT9/internal/fluxrecorder"
)

func TestLogWavelengthGridBinIndexOutOfRange(t *testing.T) {
	g := NewLogWavelengthGrid(1, 100, 10)
	if g.BinIndex(0.5) != -1 {
		t.Errorf("below-range wavelength should return -1")
	}
	if g.BinIndex(200) != -1 {
		t.Errorf("above-range wavelength should return -1")
	}
}

func TestLogWavelengthGridBinIndexMonotone(t *testing.T) {
	g := NewLogWavelengthGrid(1, 1000, 20)
	prev := -1
	for _, lambda := range []float64{1, 5, 20, 100, 500, 999} {
		ell := g.BinIndex(lambda)
		if ell < prev {
			t.Errorf("bin index not monotone non-decreasing: lambda=%v ell=%d prev=%d", lambda, ell, prev)
		}
		prev = ell
	}
}

func TestLogWavelengthGridLambdaWithinBinBounds(t *testing.T) {
	g := NewLogWavelengthGrid(1, 100, 5)
	for ell := 0; ell < g.Len(); ell++ {
		lo, hi := g.edges[ell], g.edges[ell+1]
		lambda := g.Lambda(ell)
		if lambda < lo || lambda > hi {
			t.Errorf("bin %d center %v outside [%v, %v]", ell, lambda, lo, hi)
		}
	}
}

func TestLogWavelengthGridLambdaOutOfRangeIsZero(t *testing.T) {
	g := NewLogWavelengthGrid(1, 100, 5)
	if g.Lambda(-1) != 0 || g.Lambda(5) != 0 {
		t.Error("out-of-range bin index should return 0")
	}
}

func TestProjectNilIFUReturnsMiss(t *testing.T) {
	if got := project(nil, 0, 0); got != -1 {
		t.Errorf("project with nil IFU should return -1, got %d", got)
	}
}

func TestProjectOutOfFieldOfViewReturnsMiss(t *testing.T) {
	ifu := &fluxrecorder.IFUConfig{Nx: 4, Ny: 4}
	if got := project(ifu, 1.5, 0); got != -1 {
		t.Errorf("direction outside [-1,1) should miss, got %d", got)
	}
}

func TestProjectCenterMapsToCenterPixel(t *testing.T) {
	ifu := &fluxrecorder.IFUConfig{Nx: 4, Ny: 4}
	px := project(ifu, 0, 0)
	if px < 0 || px >= 16 {
		t.Fatalf("center projection out of range: %d", px)
	}
	wantRow, wantCol := 2, 2
	want := wantCol + wantRow*4
	if px != want {
		t.Errorf("project(0,0) = %d, want %d", px, want)
	}
}

func TestUniformDirectionIsUnitLength(t *testing.T) {
	rng := newRNG(123).(*mathRandRNG)
	for i := 0; i < 1000; i++ {
		v := rng.UniformDirection()
		n := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
		if math.Abs(n-1) > 1e-9 {
			t.Fatalf("direction not unit length: %v (n=%v)", v, n)
		}
	}
}
