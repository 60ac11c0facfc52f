package runid

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewMintsUniqueIDs(t *testing.T) {
	a := New("run")
	b := New("run")
	if a.UUID == b.UUID {
		t.Fatal("two calls to New must mint distinct UUIDs")
	}
}

func TestStringFormat(t *testing.T) {
	id := New("skirt9")
	s := id.String()
	if !strings.HasPrefix(s, "skirt9-") {
		t.Errorf("String() = %q, want prefix %q", s, "skirt9-")
	}
	if !strings.Contains(s, id.UUID.String()) {
		t.Errorf("String() = %q, want to contain UUID %q", s, id.UUID.String())
	}
}

func TestStringWithoutNameIsBareUUID(t *testing.T) {
	id := ID{UUID: New("x").UUID}
	if id.String() != id.UUID.String() {
		t.Errorf("String() = %q, want bare UUID %q", id.String(), id.UUID.String())
	}
}

func TestOutputDirAndLogFileJoinBase(t *testing.T) {
	id := New("skirt9")
	dir := id.OutputDir("/tmp/out")
	if !strings.HasPrefix(dir, filepath.Join("/tmp/out", id.String())) {
		t.Errorf("OutputDir = %q, want prefix under /tmp/out/%s", dir, id.String())
	}
	log := id.LogFile(dir)
	if filepath.Base(log) != id.String()+".log" {
		t.Errorf("LogFile base = %q, want %q", filepath.Base(log), id.String()+".log")
	}
}
