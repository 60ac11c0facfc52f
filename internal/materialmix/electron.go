package materialmix

import (
	"math"

	"github.com/AislingA/SKIRT9/internal/photonsource"
)

// sigmaThomson is the Thomson scattering cross section in m², matching
// original_source/SKIRT/core/Constants.hpp's sigmaThomson() value.
const sigmaThomson = 6.6524587321e-29

// ElectronState carries the free-electron number density at a cell,
// consumed by OpacityAbs/OpacitySca.
type ElectronState struct {
	NumberDensity float64
}

// Electron is the free-electron (Thomson) scattering mix: absorption is
// always zero, the cross section is the wavelength-independent Thomson
// constant, and the phase function is dipole or spherical-polarization
// dipole depending on Polarized. Grounded directly on
// original_source/SKIRT/core/ElectronMix.cpp.
type Electron struct {
	Polarized bool
}

var _ Mix = (*Electron)(nil)

func (e *Electron) MaterialType() Type { return TypeElectron }

func (e *Electron) ScatteringMode() ScatteringMode {
	if e.Polarized {
		return ScatteringSphericalPolarizedDipole
	}
	return ScatteringDipole
}

func (e *Electron) IsPolarizedScattering() bool { return e.Polarized }

func (e *Electron) SectionAbs(lambda float64) float64 { return 0 }

func (e *Electron) SectionSca(lambda float64) float64 { return sigmaThomson }

func (e *Electron) SectionExt(lambda float64) float64 { return sigmaThomson }

func (e *Electron) OpacityAbs(lambda float64, state State) float64 { return 0 }

func (e *Electron) OpacitySca(lambda float64, state State) float64 {
	es, ok := state.(ElectronState)
	if !ok {
		return 0
	}
	return es.NumberDensity * sigmaThomson
}

// dipolePhaseFunction evaluates the unpolarized dipole scattering phase
// function 3/16π·(1+cos²θ), normalized to unit integral over solid angle.
func dipolePhaseFunction(cosTheta float64) float64 {
	return 3.0 / 16.0 / math.Pi * (1 + cosTheta*cosTheta)
}

func (e *Electron) PhaseFunctionValue(lambda float64, cosTheta float64, state State) float64 {
	return dipolePhaseFunction(cosTheta)
}

// SampleDirection rejection-samples a scattering angle from the dipole
// phase function (envelope 2× the isotropic density, since 1+cos²θ ≤ 2)
// then rotates the incoming direction by that angle about a random
// azimuth, matching the direction-sampling idiom of a dipole phase
// function without the polarization-aware rotation applyMueller performs
// for the spherical-polarization variant.
func (e *Electron) SampleDirection(lambda float64, state State, rng photonsource.RNG, incoming [3]float64) [3]float64 {
	var cosTheta float64
	for {
		c := 2*rng.Uniform() - 1
		if rng.Uniform()*2 <= 1+c*c {
			cosTheta = c
			break
		}
	}
	phi := 2 * math.Pi * rng.Uniform()
	return rotateAboutAxis(incoming, cosTheta, phi)
}

// rotateAboutAxis builds an orthonormal frame around dir and returns the
// direction scattered by polar angle acos(cosTheta) and azimuth phi.
func rotateAboutAxis(dir [3]float64, cosTheta, phi float64) [3]float64 {
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	var u [3]float64
	if math.Abs(dir[0]) < 0.9 {
		u = [3]float64{1, 0, 0}
	} else {
		u = [3]float64{0, 1, 0}
	}
	e1 := normalize(cross(dir, u))
	e2 := cross(dir, e1)

	cp, sp := math.Cos(phi), math.Sin(phi)
	return [3]float64{
		dir[0]*cosTheta + sinTheta*(cp*e1[0]+sp*e2[0]),
		dir[1]*cosTheta + sinTheta*(cp*e1[1]+sp*e2[1]),
		dir[2]*cosTheta + sinTheta*(cp*e1[2]+sp*e2[2]),
	}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n < 1e-300 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

// PerformScattering updates the packet's direction in place and, if
// Polarized, its Stokes components, per spec §6.
func (e *Electron) PerformScattering(lambda float64, state State, rng photonsource.RNG, packet *photonsource.Packet) {
	incoming := [3]float64{packet.Direction.X, packet.Direction.Y, packet.Direction.Z}
	outgoing := e.SampleDirection(lambda, state, rng, incoming)
	packet.Direction.X, packet.Direction.Y, packet.Direction.Z = outgoing[0], outgoing[1], outgoing[2]
	packet.NumScatt++

	if e.Polarized {
		// A full Mueller-matrix rotation of (Q,U,V) needs the scattering
		// plane's reference-frame rotation angles; the core does not
		// prescribe that math (spec §1 excludes Mueller matrices), so the
		// depolarizing approximation below only damps the existing Stokes
		// magnitude toward the dipole's known degree of polarization
		// envelope rather than computing the exact rotated vector.
		cosTheta := incoming[0]*outgoing[0] + incoming[1]*outgoing[1] + incoming[2]*outgoing[2]
		pol := (1 - cosTheta*cosTheta) / (1 + cosTheta*cosTheta)
		packet.Q *= pol
		packet.U *= pol
	}
}
