package materialmix

import (
	"math"
	"sort"

	"github.com/AislingA/SKIRT9/internal/photonsource"
)

// DustState carries the local dust density at a cell.
type DustState struct {
	Density float64
}

// Dust is a generic tabulated dust mix: absorption and scattering cross
// sections are given as parallel (wavelength, value) tables, linearly
// interpolated in wavelength and clamped to the end values outside the
// table, and scattering uses a Henyey-Greenstein phase
// function with a configurable asymmetry parameter. It is a stand-in for
// the many concrete grain-composition mixes original_source/SKIRT ships
// (silicate, graphite, PAH, THEMIS, ...), none of which this core's scope
// (spec §1) requires by name.
type Dust struct {
	Lambda  []float64 // increasing wavelength grid
	KappaAbs []float64 // mass absorption coefficient per wavelength bin
	KappaSca []float64 // mass scattering coefficient per wavelength bin
	G       float64    // Henyey-Greenstein asymmetry parameter, [-1,1]
}

var _ Mix = (*Dust)(nil)

func (d *Dust) MaterialType() Type { return TypeDust }

func (d *Dust) ScatteringMode() ScatteringMode { return ScatteringHenyeyGreenstein }

func (d *Dust) IsPolarizedScattering() bool { return false }

func (d *Dust) interp(table []float64, lambda float64) float64 {
	n := len(d.Lambda)
	if n == 0 {
		return 0
	}
	if n != len(table) {
		return 0
	}
	if lambda <= d.Lambda[0] {
		return table[0]
	}
	if lambda >= d.Lambda[n-1] {
		return table[n-1]
	}
	i := sort.SearchFloat64s(d.Lambda, lambda)
	if i == 0 {
		return table[0]
	}
	x0, x1 := d.Lambda[i-1], d.Lambda[i]
	y0, y1 := table[i-1], table[i]
	if x1 == x0 {
		return y0
	}
	frac := (lambda - x0) / (x1 - x0)
	return y0 + frac*(y1-y0)
}

func (d *Dust) SectionAbs(lambda float64) float64 { return d.interp(d.KappaAbs, lambda) }

func (d *Dust) SectionSca(lambda float64) float64 { return d.interp(d.KappaSca, lambda) }

func (d *Dust) SectionExt(lambda float64) float64 {
	return d.SectionAbs(lambda) + d.SectionSca(lambda)
}

func (d *Dust) OpacityAbs(lambda float64, state State) float64 {
	ds, ok := state.(DustState)
	if !ok {
		return 0
	}
	return ds.Density * d.SectionAbs(lambda)
}

func (d *Dust) OpacitySca(lambda float64, state State) float64 {
	ds, ok := state.(DustState)
	if !ok {
		return 0
	}
	return ds.Density * d.SectionSca(lambda)
}

// henyeyGreenstein evaluates the normalized HG phase function at cosTheta.
func henyeyGreenstein(g, cosTheta float64) float64 {
	g2 := g * g
	denom := 1 + g2 - 2*g*cosTheta
	return (1 - g2) / (4 * math.Pi * math.Pow(denom, 1.5))
}

func (d *Dust) PhaseFunctionValue(lambda float64, cosTheta float64, state State) float64 {
	return henyeyGreenstein(d.G, cosTheta)
}

// sampleHGCosine inverts the HG CDF analytically.
func sampleHGCosine(g, u float64) float64 {
	if math.Abs(g) < 1e-6 {
		return 2*u - 1
	}
	g2 := g * g
	term := (1 - g2) / (1 + g - 2*g*u)
	return (1 + g2 - term*term) / (2 * g)
}

func (d *Dust) SampleDirection(lambda float64, state State, rng photonsource.RNG, incoming [3]float64) [3]float64 {
	cosTheta := sampleHGCosine(d.G, rng.Uniform())
	phi := 2 * math.Pi * rng.Uniform()
	return rotateAboutAxis(incoming, cosTheta, phi)
}

func (d *Dust) PerformScattering(lambda float64, state State, rng photonsource.RNG, packet *photonsource.Packet) {
	incoming := [3]float64{packet.Direction.X, packet.Direction.Y, packet.Direction.Z}
	outgoing := d.SampleDirection(lambda, state, rng, incoming)
	packet.Direction.X, packet.Direction.Y, packet.Direction.Z = outgoing[0], outgoing[1], outgoing[2]
	packet.NumScatt++
}
