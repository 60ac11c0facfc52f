// Package fluxrecorder implements the FluxRecorder of spec §4.3: a
// per-thread, deferred-aggregation detector that demultiplexes photon
// contributions into typed binned arrays and calibrates/exports them at
// simulation end. It is grounded on photons4d's scene.go flat-buffer/index
// pattern (a handful of parallel arrays addressed by a computed linear
// index, rather than a nested-map layout) and shard_locks.go's
// per-shard-state-instead-of-global-lock idiom, generalized from RGB
// accumulation buffers to the many-channel SED/IFU detector arrays here.
package fluxrecorder

import "github.com/AislingA/SKIRT9/pkg/geom"

// WavelengthGrid is the consumed external wavelength-grid interface spec
// §1 excludes from this core's scope: it maps a wavelength to its bin
// index and back.
type WavelengthGrid interface {
	Len() int
	BinIndex(lambda float64) int
	Lambda(ell int) float64
}

// UnitConverter is the consumed external unit-conversion interface spec
// §1 excludes: per-wavelength multiplicative factors applied at
// calibration time to flux and surface-brightness values.
type UnitConverter interface {
	FluxFactor(lambda float64) float64
	SBFactor(lambda float64) float64
}

// IdentityUnits is a no-op UnitConverter (factor 1 everywhere), the
// default when no unit conversion is configured.
type IdentityUnits struct{}

func (IdentityUnits) FluxFactor(lambda float64) float64 { return 1 }
func (IdentityUnits) SBFactor(lambda float64) float64   { return 1 }

// SEDConfig configures the 1-D spectral-energy-distribution output.
type SEDConfig struct {
	Distance float64 // d, instrument distance
}

// IFUConfig configures the 3-D integral-field-unit cube output.
type IFUConfig struct {
	Distance             float64
	Nx, Ny               int
	PixelSizeX, PixelSizeY float64
	CenterX, CenterY     float64
}

func (c *IFUConfig) npix() int { return c.Nx * c.Ny }

// Config is the pre-use configuration spec §4.3.1 requires.
type Config struct {
	Instrument string

	Wavelengths WavelengthGrid

	MediumPresent  bool // whether any medium is present at all
	MediumEmission bool // whether that medium emits

	RecordComponents    bool
	NumScatteringLevels int // S
	RecordPolarization  bool
	RecordStatistics    bool

	SED *SEDConfig // nil disables SED output
	IFU *IFUConfig // nil disables IFU output

	Units UnitConverter // nil defaults to IdentityUnits

	FrameCenter geom.Point3 // instrument frame center; not read by the recorder (IFU metadata uses IFUConfig.CenterX/CenterY)
}

func (c *Config) units() UnitConverter {
	if c.Units == nil {
		return IdentityUnits{}
	}
	return c.Units
}
