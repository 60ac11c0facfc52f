// Package config implements the run configuration loader, re-based on
// TOML (BurntSushi/toml, the way janelia-flyem-dvid's dvid/server config
// loads its settings) from photons4d's json_config.go pattern: a flat
// top-level struct of nested *Cfg types, each with a Build() method that
// validates and defaults before constructing the runtime object.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/AislingA/SKIRT9/internal/fluxrecorder"
	"github.com/AislingA/SKIRT9/internal/output"
	"github.com/AislingA/SKIRT9/internal/skirterr"
	"github.com/AislingA/SKIRT9/internal/skirtlog"
	"github.com/AislingA/SKIRT9/pkg/geom"
)

// Defaults mirror photons4d's package-level tunables (SceneResX, Spp, ...)
// that loadConfig falls back to when a field is unset.
const (
	DefaultThreadCount     = 0 // 0 means "use runtime.NumCPU()"
	DefaultPhotonsPerBatch = 100_000
	DefaultBatches         = 10
	DefaultIgnoreOutliers  = true
)

// SiteCfg is one input site position (x,y,z) in the TOML site list.
type SiteCfg struct {
	X, Y, Z float64
}

// BoxCfg is the domain box, [Min, Max] per axis.
type BoxCfg struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Build validates and constructs the runtime domain box.
func (b BoxCfg) Build() (geom.Box3, error) {
	if b.MaxX <= b.MinX || b.MaxY <= b.MinY || b.MaxZ <= b.MinZ {
		return geom.Box3{}, skirterr.New(skirterr.FatalUsage, "config", "box max must exceed min on every axis")
	}
	return geom.Box3{
		Min: geom.Point3{X: b.MinX, Y: b.MinY, Z: b.MinZ},
		Max: geom.Point3{X: b.MaxX, Y: b.MaxY, Z: b.MaxZ},
	}, nil
}

// InstrumentCfg configures one FluxRecorder instrument, mirroring spec
// §4.3.1's pre-use configuration.
type InstrumentCfg struct {
	Name string

	RecordComponents    bool
	NumScatteringLevels int
	RecordPolarization  bool
	RecordStatistics    bool

	SEDEnabled   bool
	SEDDistance  float64

	IFUEnabled     bool
	IFUDistance    float64
	IFUNx, IFUNy   int
	IFUPixelSizeX  float64
	IFUPixelSizeY  float64
	IFUCenterX     float64
	IFUCenterY     float64
}

// Build constructs a fluxrecorder.Config from the TOML fields, defaulting
// NumScatteringLevels to 0 and requiring at least one output family.
func (ic InstrumentCfg) Build(wl fluxrecorder.WavelengthGrid, mediumPresent, mediumEmission bool) (fluxrecorder.Config, error) {
	if ic.Name == "" {
		return fluxrecorder.Config{}, skirterr.New(skirterr.FatalUsage, "config", "instrument name is required")
	}
	if !ic.SEDEnabled && !ic.IFUEnabled {
		return fluxrecorder.Config{}, skirterr.New(skirterr.FatalUsage, "config", fmt.Sprintf("instrument %q needs SED or IFU output enabled", ic.Name))
	}

	cfg := fluxrecorder.Config{
		Instrument:          ic.Name,
		Wavelengths:         wl,
		MediumPresent:       mediumPresent,
		MediumEmission:      mediumEmission,
		RecordComponents:    ic.RecordComponents,
		NumScatteringLevels: ic.NumScatteringLevels,
		RecordPolarization:  ic.RecordPolarization,
		RecordStatistics:    ic.RecordStatistics,
	}
	if ic.SEDEnabled {
		cfg.SED = &fluxrecorder.SEDConfig{Distance: ic.SEDDistance}
	}
	if ic.IFUEnabled {
		cfg.IFU = &fluxrecorder.IFUConfig{
			Distance: ic.IFUDistance, Nx: ic.IFUNx, Ny: ic.IFUNy,
			PixelSizeX: ic.IFUPixelSizeX, PixelSizeY: ic.IFUPixelSizeY,
			CenterX: ic.IFUCenterX, CenterY: ic.IFUCenterY,
		}
	}
	return cfg, nil
}

// Config is the top-level TOML run configuration.
type Config struct {
	ThreadCount     int
	PhotonsPerBatch int
	Batches         int
	IgnoreOutliers  bool

	OutputDir   string
	Compression string // "", "gzip", or "zstd"

	Log skirtlog.FileConfig

	Box         BoxCfg
	Sites       []SiteCfg
	Instruments []InstrumentCfg
}

// Load reads and validates a TOML configuration file, applying the same
// kind of zero-value defaulting photons4d's loadConfig performs.
func Load(path string) (*Config, error) {
	cfg := Config{IgnoreOutliers: DefaultIgnoreOutliers}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, skirterr.Wrap(skirterr.FatalUsage, "config", err, fmt.Sprintf("parsing %s", path))
	}

	if cfg.PhotonsPerBatch <= 0 {
		cfg.PhotonsPerBatch = DefaultPhotonsPerBatch
	}
	if cfg.Batches <= 0 {
		cfg.Batches = DefaultBatches
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if len(cfg.Sites) == 0 {
		return nil, skirterr.New(skirterr.FatalUsage, "config", "no sites specified")
	}
	if len(cfg.Instruments) == 0 {
		return nil, skirterr.New(skirterr.FatalUsage, "config", "no instruments specified")
	}

	skirtlog.Infof("loaded config from %s: sites=%d, instruments=%d, batches=%d x %d photons",
		path, len(cfg.Sites), len(cfg.Instruments), cfg.Batches, cfg.PhotonsPerBatch)
	return &cfg, nil
}

// OutputCompression maps the TOML string knob to an output.Compression value.
func (c *Config) OutputCompression() output.Compression {
	switch c.Compression {
	case "gzip":
		return output.CompressGzip
	case "zstd":
		return output.CompressZstd
	default:
		return output.CompressNone
	}
}

// SitePoints converts the TOML site list into meshgrid input points.
func (c *Config) SitePoints() []geom.Point3 {
	pts := make([]geom.Point3, len(c.Sites))
	for i, s := range c.Sites {
		pts[i] = geom.Point3{X: s.X, Y: s.Y, Z: s.Z}
	}
	return pts
}
