// Package materialmix implements the consumed material-mix interface of
// spec §6 and §9: a single capability-set interface rather than a class
// tower, exactly as spec §9's design note directs. It is grounded in
// photons4d's material.go, which expresses per-channel material behavior
// as one flat interface (material) instead of an inheritance hierarchy,
// generalized here from RGB reflectance channels to wavelength-indexed
// radiative-transfer cross sections.
package materialmix

import "github.com/AislingA/SKIRT9/internal/photonsource"

// Type identifies the physical carrier a Mix models.
type Type int

const (
	TypeDust Type = iota
	TypeElectron
)

func (t Type) String() string {
	switch t {
	case TypeDust:
		return "dust"
	case TypeElectron:
		return "electron"
	default:
		return "unknown"
	}
}

// ScatteringMode selects which phase-function family performScattering
// samples from.
type ScatteringMode int

const (
	ScatteringDipole ScatteringMode = iota
	ScatteringSphericalPolarizedDipole
	ScatteringHenyeyGreenstein
)

// State is an opaque, mix-specific medium state (e.g. grain composition
// mixture fractions, temperature) threaded back into opacity and
// scattering calls. Concrete mixes define their own concrete state types
// and type-assert it back out; the core never inspects it.
type State interface{}

// Mix is the capability set spec §9 requires: cross sections, state-aware
// opacities, and in-place scattering. It replaces the deep inheritance
// tower a naive port would otherwise reach for.
type Mix interface {
	MaterialType() Type

	ScatteringMode() ScatteringMode

	// IsPolarizedScattering reports whether performScattering updates the
	// packet's Stokes components, not just its direction.
	IsPolarizedScattering() bool

	// SectionAbs, SectionSca, SectionExt return the per-wavelength
	// absorption, scattering, and extinction cross sections.
	SectionAbs(lambda float64) float64
	SectionSca(lambda float64) float64
	SectionExt(lambda float64) float64

	// OpacityAbs, OpacitySca are state-aware, used once a local medium
	// state (density, composition) is resolved for a given cell.
	OpacityAbs(lambda float64, state State) float64
	OpacitySca(lambda float64, state State) float64

	// PhaseFunctionValue returns the normalized scattering phase function
	// at the given cosine of the scattering angle.
	PhaseFunctionValue(lambda float64, cosTheta float64, state State) float64

	// SampleDirection draws a new direction for the packet given its
	// incoming direction; it does not touch the Stokes state, which
	// PerformScattering updates.
	SampleDirection(lambda float64, state State, rng photonsource.RNG, incoming [3]float64) (outgoing [3]float64)

	// PerformScattering updates packet's direction and Stokes vector in
	// place, per spec §6.
	PerformScattering(lambda float64, state State, rng photonsource.RNG, packet *photonsource.Packet)
}
