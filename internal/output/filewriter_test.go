package output

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestWriteSEDRoundTripsWithinEightSigFigs(t *testing.T) {
	dir := t.TempDir()
	w := &FileWriter{Dir: dir}

	wavelengths := []float64{100.123456789, 200.987654321}
	columns := []Column{
		{Name: "total", Values: []float64{1.23456789e-10, 9.87654321e-5}},
		{Name: "primarydirect", Values: []float64{0.5, 1.5}},
	}
	if err := w.WriteSED("testinst", wavelengths, columns); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "testinst_sed.dat"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) != 1+len(wavelengths) {
		t.Fatalf("got %d lines, want %d", len(lines), 1+len(wavelengths))
	}
	if !strings.HasPrefix(lines[0], "# wavelength total primarydirect") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	for i, lambda := range wavelengths {
		fields := strings.Fields(lines[i+1])
		if len(fields) != 3 {
			t.Fatalf("row %d has %d fields, want 3: %q", i, len(fields), lines[i+1])
		}
		got, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-lambda)/lambda > 1e-7 {
			t.Errorf("row %d wavelength round-trip: got %v, want %v", i, got, lambda)
		}
		for j, col := range columns {
			v, err := strconv.ParseFloat(fields[1+j], 64)
			if err != nil {
				t.Fatal(err)
			}
			if want := col.Values[i]; math.Abs(v-want)/math.Abs(want) > 1e-7 {
				t.Errorf("row %d column %s round-trip: got %v, want %v", i, col.Name, v, want)
			}
		}
	}
}

func TestWriteIFUCubeUncompressedRoundTrips(t *testing.T) {
	dir := t.TempDir()
	w := &FileWriter{Dir: dir, Compression: CompressNone}
	cube := []float64{1.5, -2.25, 3.75, 0}
	meta := IFUMeta{Nx: 2, Ny: 2, Nlambda: 1, PixelSizeX: 0.1, PixelSizeY: 0.2}

	if err := w.WriteIFUCube("mycube", cube, meta); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "mycube.cube"))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 8*len(cube) {
		t.Fatalf("raw payload len = %d, want %d", len(raw), 8*len(cube))
	}
	for i, want := range cube {
		bits := binary.LittleEndian.Uint64(raw[i*8:])
		got := math.Float64frombits(bits)
		if got != want {
			t.Errorf("cube[%d] = %v, want %v", i, got, want)
		}
	}

	metaRaw, err := os.ReadFile(filepath.Join(dir, "mycube.json"))
	if err != nil {
		t.Fatal(err)
	}
	var hdr cubeHeader
	if err := json.Unmarshal(metaRaw, &hdr); err != nil {
		t.Fatal(err)
	}
	if hdr.Nx != 2 || hdr.Ny != 2 {
		t.Errorf("metadata Nx/Ny = %d/%d, want 2/2", hdr.Nx, hdr.Ny)
	}
}

func TestWriteIFUCubeGzipDecompresses(t *testing.T) {
	dir := t.TempDir()
	w := &FileWriter{Dir: dir, Compression: CompressGzip}
	cube := []float64{1, 2, 3}
	if err := w.WriteIFUCube("gz", cube, IFUMeta{Nx: 3, Ny: 1, Nlambda: 1}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "gz.cube"))
	if err != nil {
		t.Fatal(err)
	}
	gz, err := gzip.NewReader(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()
	decoded := make([]byte, 8*len(cube))
	if _, err := io.ReadFull(gz, decoded); err != nil {
		t.Fatal(err)
	}
	for i, want := range cube {
		got := math.Float64frombits(binary.LittleEndian.Uint64(decoded[i*8:]))
		if got != want {
			t.Errorf("decoded cube[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestWriteIFUCubeZstdDecompresses(t *testing.T) {
	dir := t.TempDir()
	w := &FileWriter{Dir: dir, Compression: CompressZstd}
	cube := []float64{4, 5, 6, 7}
	if err := w.WriteIFUCube("zs", cube, IFUMeta{Nx: 2, Ny: 2, Nlambda: 1}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "zs.cube"))
	if err != nil {
		t.Fatal(err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()
	decoded, err := dec.DecodeAll(raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range cube {
		got := math.Float64frombits(binary.LittleEndian.Uint64(decoded[i*8:]))
		if got != want {
			t.Errorf("decoded cube[%d] = %v, want %v", i, got, want)
		}
	}
}
