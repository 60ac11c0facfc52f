package output

import (
	"compress/gzip"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/AislingA/SKIRT9/internal/skirtlog"
)

// Compression selects how WriteIFUCube compresses a cube's binary
// payload.
type Compression int

const (
	CompressNone Compression = iota
	CompressGzip
	CompressZstd
)

// FileWriter writes SED tables and IFU cubes to a directory on local
// disk. It is the only output.Writer this module ships, since the file
// formats themselves (tabular text, a custom binary cube) are the
// "produced" half of spec §6, not a consumed external collaborator.
type FileWriter struct {
	Dir         string
	Compression Compression
	Log         skirtlog.Logger
}

var _ Writer = (*FileWriter)(nil)

// WriteSED writes a plain-text, whitespace-column table: one header line
// naming each column, wavelength first, rows in increasing wavelength
// order (spec §6).
func (w *FileWriter) WriteSED(instrument string, wavelengths []float64, columns []Column) error {
	path := filepath.Join(w.Dir, instrument+"_sed.dat")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "output: creating SED file %s", path)
	}
	defer f.Close()

	header := make([]string, 0, len(columns)+1)
	header = append(header, "wavelength")
	for _, c := range columns {
		header = append(header, c.Name)
	}
	if _, err := fmt.Fprintln(f, "# "+strings.Join(header, " ")); err != nil {
		return errors.Wrap(err, "output: writing SED header")
	}

	for i, lambda := range wavelengths {
		row := make([]string, 0, len(columns)+1)
		row = append(row, fmt.Sprintf("%.8g", lambda))
		for _, c := range columns {
			var v float64
			if i < len(c.Values) {
				v = c.Values[i]
			}
			row = append(row, fmt.Sprintf("%.8g", v))
		}
		if _, err := fmt.Fprintln(f, strings.Join(row, " ")); err != nil {
			return errors.Wrap(err, "output: writing SED row")
		}
	}

	if w.Log != nil {
		info, _ := f.Stat()
		var size int64
		if info != nil {
			size = info.Size()
		}
		w.Log.Infof("wrote SED table %s (%s)", path, humanize.Bytes(uint64(size)))
	}
	return nil
}

// cubeHeader is the JSON sidecar metadata written alongside each IFU
// cube's binary payload.
type cubeHeader struct {
	IFUMeta
	Compression Compression
}

// WriteIFUCube writes one cube's metadata as a JSON sidecar (<name>.json)
// and its flat float64 payload as a raw little-endian binary file
// (<name>.cube), optionally compressed.
func (w *FileWriter) WriteIFUCube(name string, cube []float64, meta IFUMeta) error {
	metaPath := filepath.Join(w.Dir, name+".json")
	hdr := cubeHeader{IFUMeta: meta, Compression: w.Compression}
	data, err := json.MarshalIndent(hdr, "", "  ")
	if err != nil {
		return errors.Wrap(err, "output: marshaling IFU metadata")
	}
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "output: writing IFU metadata %s", metaPath)
	}

	buf := make([]byte, 8*len(cube))
	for i, v := range cube {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}

	cubePath := filepath.Join(w.Dir, name+".cube")
	payload, err := w.compress(buf)
	if err != nil {
		return errors.Wrapf(err, "output: compressing IFU cube %s", cubePath)
	}
	if err := os.WriteFile(cubePath, payload, 0o644); err != nil {
		return errors.Wrapf(err, "output: writing IFU cube %s", cubePath)
	}

	if w.Log != nil {
		w.Log.Infof("wrote IFU cube %s (%s raw, %s on disk)", cubePath,
			humanize.Bytes(uint64(len(buf))), humanize.Bytes(uint64(len(payload))))
	}
	return nil
}

func (w *FileWriter) compress(raw []byte) ([]byte, error) {
	switch w.Compression {
	case CompressGzip:
		var b strings.Builder
		gz := gzip.NewWriter(&b)
		if _, err := gz.Write(raw); err != nil {
			return nil, err
		}
		if err := gz.Close(); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	case CompressZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil
	default:
		return raw, nil
	}
}
