// Package output implements spec §6's produced output formats: a
// multi-column SED text table and one image cube file per non-empty IFU
// channel. dustin/go-humanize formats the byte counts in the writer's log
// lines, and IFU cubes are optionally compressed with the standard
// library's compress/gzip or klauspost/compress/zstd, mirroring the optional
// output-compression knob photons4d's run.go and json_config.go expose
// for its own PNG/raw-frame dumps.
package output

// Column is one named SED output column (spec §6: "total flux, optional
// transparent/direct/scattered components, optional Stokes Q/U/V, and
// optional per-order scattered-primary columns").
type Column struct {
	Name   string
	Values []float64
}

// IFUMeta is the image metadata spec §6 requires each IFU cube file to
// record: pixel sizes, frame center, and (implicitly, via the caller's
// unit converter) the surface-brightness unit.
type IFUMeta struct {
	Nx, Ny, Nlambda        int
	PixelSizeX, PixelSizeY float64
	CenterX, CenterY       float64
}

// Writer is the output sink CalibrateAndWrite targets. A Recorder never
// constructs file paths itself; FileWriter (or any other Writer) owns
// that policy.
type Writer interface {
	WriteSED(instrument string, wavelengths []float64, columns []Column) error
	WriteIFUCube(name string, cube []float64, meta IFUMeta) error
}
