package simulation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AislingA/SKIRT9/internal/config"
)

func TestRecorderIFUConfigDisabledReturnsNil(t *testing.T) {
	cfg := &config.Config{Instruments: []config.InstrumentCfg{{Name: "a", IFUEnabled: false}}}
	if got := recorderIFUConfig(cfg, 0); got != nil {
		t.Errorf("expected nil IFU config when disabled, got %+v", got)
	}
}

func TestRecorderIFUConfigEnabledCopiesFields(t *testing.T) {
	cfg := &config.Config{Instruments: []config.InstrumentCfg{{
		Name: "a", IFUEnabled: true, IFUDistance: 10, IFUNx: 4, IFUNy: 5,
		IFUPixelSizeX: 0.1, IFUPixelSizeY: 0.2,
	}}}
	got := recorderIFUConfig(cfg, 0)
	if got == nil {
		t.Fatal("expected non-nil IFU config")
	}
	if got.Nx != 4 || got.Ny != 5 || got.Distance != 10 {
		t.Errorf("unexpected IFU config: %+v", got)
	}
}

func TestRecorderIFUConfigOutOfRangeIndexReturnsNil(t *testing.T) {
	cfg := &config.Config{Instruments: []config.InstrumentCfg{{Name: "a"}}}
	if got := recorderIFUConfig(cfg, 5); got != nil {
		t.Errorf("expected nil for out-of-range instrument index, got %+v", got)
	}
}

func TestEnsureDirCreatesNestedDirectories(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "a", "b", "c")
	if err := ensureDir(target); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", target)
	}
}
