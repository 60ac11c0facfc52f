package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AislingA/SKIRT9/internal/output"
)

const sampleTOML = `
OutputDir = "out"
Compression = "gzip"

[Box]
MinX = 0
MinY = 0
MinZ = 0
MaxX = 10
MaxY = 10
MaxZ = 10

[[Sites]]
X = 1
Y = 2
Z = 3

[[Sites]]
X = 4
Y = 5
Z = 6

[[Instruments]]
Name = "sed0"
SEDEnabled = true
SEDDistance = 100
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaultsWhenUnset(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PhotonsPerBatch != DefaultPhotonsPerBatch {
		t.Errorf("PhotonsPerBatch = %d, want default %d", cfg.PhotonsPerBatch, DefaultPhotonsPerBatch)
	}
	if cfg.Batches != DefaultBatches {
		t.Errorf("Batches = %d, want default %d", cfg.Batches, DefaultBatches)
	}
	if len(cfg.Sites) != 2 {
		t.Fatalf("len(Sites) = %d, want 2", len(cfg.Sites))
	}
	if len(cfg.Instruments) != 1 || cfg.Instruments[0].Name != "sed0" {
		t.Fatalf("unexpected instruments: %+v", cfg.Instruments)
	}
}

func TestLoadRejectsNoSites(t *testing.T) {
	path := writeTemp(t, `
[Box]
MinX = 0
MinY = 0
MinZ = 0
MaxX = 1
MaxY = 1
MaxZ = 1

[[Instruments]]
Name = "x"
SEDEnabled = true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing sites")
	}
}

func TestLoadRejectsNoInstruments(t *testing.T) {
	path := writeTemp(t, `
[Box]
MinX = 0
MinY = 0
MinZ = 0
MaxX = 1
MaxY = 1
MaxZ = 1

[[Sites]]
X = 0
Y = 0
Z = 0
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing instruments")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.toml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBoxCfgBuildRejectsInvertedBounds(t *testing.T) {
	b := BoxCfg{MinX: 5, MaxX: 1, MinY: 0, MaxY: 1, MinZ: 0, MaxZ: 1}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for MaxX <= MinX")
	}
}

func TestBoxCfgBuildConstructsBox(t *testing.T) {
	b := BoxCfg{MinX: 0, MinY: 0, MinZ: 0, MaxX: 2, MaxY: 3, MaxZ: 4}
	box, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if box.Max.X != 2 || box.Max.Y != 3 || box.Max.Z != 4 {
		t.Errorf("unexpected box: %+v", box)
	}
}

func TestInstrumentCfgBuildRequiresName(t *testing.T) {
	ic := InstrumentCfg{SEDEnabled: true}
	if _, err := ic.Build(nil, true, false); err == nil {
		t.Fatal("expected error for empty instrument name")
	}
}

func TestInstrumentCfgBuildRequiresSEDOrIFU(t *testing.T) {
	ic := InstrumentCfg{Name: "x"}
	if _, err := ic.Build(nil, true, false); err == nil {
		t.Fatal("expected error when neither SED nor IFU is enabled")
	}
}

func TestOutputCompressionMapsKnownStrings(t *testing.T) {
	cases := map[string]output.Compression{
		"gzip":  output.CompressGzip,
		"zstd":  output.CompressZstd,
		"":      output.CompressNone,
		"bogus": output.CompressNone,
	}
	for s, want := range cases {
		cfg := &Config{Compression: s}
		if got := cfg.OutputCompression(); got != want {
			t.Errorf("OutputCompression(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestSitePointsConvertsCoordinates(t *testing.T) {
	cfg := &Config{Sites: []SiteCfg{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}}
	pts := cfg.SitePoints()
	if len(pts) != 2 || pts[0].X != 1 || pts[1].Z != 6 {
		t.Errorf("unexpected points: %+v", pts)
	}
}
