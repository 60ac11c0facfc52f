// Package simulation wires MeshGrid, WorkerPool, and FluxRecorder
// together per spec §2's control flow, grounded on photons4d's run.go
// (load config, build the domain objects, dispatch the parallel work,
// save output) and cmd/photons4d/main.go (env-var toggles, the top-level
// error-to-exit-code translation).
package simulation

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"

	"github.com/AislingA/SKIRT9/internal/config"
	"github.com/AislingA/SKIRT9/internal/fluxrecorder"
	"github.com/AislingA/SKIRT9/internal/materialmix"
	"github.com/AislingA/SKIRT9/internal/meshgrid"
	"github.com/AislingA/SKIRT9/internal/output"
	"github.com/AislingA/SKIRT9/internal/photonsource"
	"github.com/AislingA/SKIRT9/internal/reduce"
	"github.com/AislingA/SKIRT9/internal/runid"
	"github.com/AislingA/SKIRT9/internal/skirterr"
	"github.com/AislingA/SKIRT9/internal/skirtlog"
	"github.com/AislingA/SKIRT9/internal/workerpool"
)

// Run loads cfgPath, builds the MeshGrid/WorkerPool/FluxRecorder trio,
// propagates cfg.Batches batches of cfg.PhotonsPerBatch packets each, and
// writes calibrated output for every configured instrument.
func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	skirtlog.SetLogger(skirtlog.NewFileLogger(&cfg.Log))

	box, err := cfg.Box.Build()
	if err != nil {
		return errors.Wrap(err, "simulation: invalid domain box")
	}

	sites := cfg.SitePoints()
	grid, stats, err := meshgrid.NewGrid(box, sites, cfg.IgnoreOutliers)
	if err != nil {
		return errors.Wrap(err, "simulation: mesh grid construction failed")
	}
	skirtlog.Infof("mesh grid built: %d input sites, %d outliers, %d duplicates, %d cells",
		stats.InputSites, stats.Outliers, stats.Duplicates, stats.Cells)
	if stats.Outliers > 0 || stats.Duplicates > 0 {
		skirtlog.Warningf("%v", skirterr.New(skirterr.SuppressedInput, "meshgrid",
			fmt.Sprintf("dropped %d outliers and %d duplicates out of %d input sites", stats.Outliers, stats.Duplicates, stats.InputSites)))
	}

	threadCount := cfg.ThreadCount
	if threadCount <= 0 {
		threadCount = runtime.NumCPU()
	}
	pool := workerpool.New(threadCount)
	defer pool.Close()

	wavelengths := NewLogWavelengthGrid(0.1, 1000.0, 50)
	mix := &materialmix.Electron{Polarized: false}
	density := 1e6 // particles per unit volume, demo default

	run := runid.New("skirt9")
	outDir := run.OutputDir(cfg.OutputDir)
	if err := ensureDir(outDir); err != nil {
		return errors.Wrap(err, "simulation: creating output directory")
	}

	recorders := make([]*fluxrecorder.Recorder, len(cfg.Instruments))
	for i, ic := range cfg.Instruments {
		rc, err := ic.Build(wavelengths, true, false)
		if err != nil {
			return errors.Wrapf(err, "simulation: instrument %q", ic.Name)
		}
		rec, err := fluxrecorder.New(rc)
		if err != nil {
			return errors.Wrapf(err, "simulation: allocating recorder for %q", ic.Name)
		}
		recorders[i] = rec
	}

	start := time.Now()
	for batch := 0; batch < cfg.Batches; batch++ {
		batch := batch
		err := pool.Call(func(first, count int) error {
			return propagateChunk(grid, mix, density, recorders, cfg, batch, first, count)
		}, cfg.PhotonsPerBatch, false)
		if err != nil {
			return errors.Wrapf(err, "simulation: batch %d", batch)
		}
		skirtlog.Infof("batch %d/%d complete", batch+1, cfg.Batches)
	}
	skirtlog.Infof("propagation complete: %d batches x %d photons in %s", cfg.Batches, cfg.PhotonsPerBatch, time.Since(start))

	writer := &output.FileWriter{Dir: outDir, Compression: cfg.OutputCompression(), Log: skirtlog.NewTimeLog()}
	for i, rec := range recorders {
		rec.Flush()
		if _, _, err := rec.CalibrateAndWrite(reduce.Local{}, writer); err != nil {
			return errors.Wrapf(err, "simulation: calibrating instrument %q", cfg.Instruments[i].Name)
		}
	}
	return nil
}

// propagateChunk is the WorkerPool body: it emits count isotropic,
// unit-luminosity packets starting at historyIndex `first`, walks each
// through the mesh grid, draws a single-scattering optical-depth
// interaction against mix, and detects the surviving transmitted packet
// at every configured instrument. Packet emission and scattering-angle
// sampling beyond the single built-in mix are external concerns per spec
// §1; this body exists to exercise the three cores end to end.
func propagateChunk(grid *meshgrid.Grid, mix materialmix.Mix, density float64, recorders []*fluxrecorder.Recorder, cfg *config.Config, batch, first, count int) error {
	rng := newRNG(int64(batch)*1_000_000_007 + int64(first))
	lists := make([]*fluxrecorder.ContributionList, len(recorders))
	for i, rec := range recorders {
		lists[i] = rec.NewContributionList()
	}

	box := grid.Box()
	mr := rng.(*mathRandRNG)

	for i := 0; i < count; i++ {
		historyIndex := int64(first + i)
		lambda := 10.0 + 90.0*mr.Uniform()
		origin := box.Center()
		dir := mr.UniformDirection()

		pp := &photonsource.Packet{
			Wavelength:       lambda,
			Direction:        dir,
			Luminosity:       1.0,
			HasPrimaryOrigin: true,
			HistoryIndex:     historyIndex,
		}

		segs := grid.Walk(origin, pp.Direction)
		var tau float64
		for _, s := range segs {
			ext := mix.OpacityAbs(pp.Wavelength, materialmix.ElectronState{NumberDensity: density}) +
				mix.OpacitySca(pp.Wavelength, materialmix.ElectronState{NumberDensity: density})
			tau += ext * s.Length
		}

		// A single scattering decision per photon: if the accumulated
		// optical depth exceeds a drawn threshold, mark it scattered
		// before detection (a first-order stand-in for the full
		// multi-segment scattering loop the excluded source-emission and
		// scattering-sampling collaborators would drive).
		threshold := -math.Log(1 - mr.Uniform())
		if tau > threshold {
			mix.PerformScattering(pp.Wavelength, materialmix.ElectronState{NumberDensity: density}, rng, pp)
		}

		for j, rec := range recorders {
			ifu := recorderIFUConfig(cfg, j)
			pixel := project(ifu, pp.Direction.X, pp.Direction.Y)
			rec.Detect(lists[j], pp, pixel, tau)
		}
	}
	return nil
}

func recorderIFUConfig(cfg *config.Config, idx int) *fluxrecorder.IFUConfig {
	if idx >= len(cfg.Instruments) || !cfg.Instruments[idx].IFUEnabled {
		return nil
	}
	ic := cfg.Instruments[idx]
	return &fluxrecorder.IFUConfig{
		Distance: ic.IFUDistance, Nx: ic.IFUNx, Ny: ic.IFUNy,
		PixelSizeX: ic.IFUPixelSizeX, PixelSizeY: ic.IFUPixelSizeY,
		CenterX: ic.IFUCenterX, CenterY: ic.IFUCenterY,
	}
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
