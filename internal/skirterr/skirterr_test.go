package skirterr

import (
	"errors"
	"testing"
)

func TestNewErrorMessageNamesSubsystem(t *testing.T) {
	err := New(FatalPhysical, "meshgrid", "cell compute failed")
	if err.Error() != "meshgrid: cell compute failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "meshgrid: cell compute failed")
	}
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	base := errors.New("root cause")
	wrapped := Wrap(Propagated, "workerpool", base, "chunk failed")
	if wrapped.Unwrap() == nil {
		t.Fatal("Unwrap() returned nil")
	}
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is should find the wrapped root cause")
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(FatalPhysical, "x", nil, "msg") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestIsFatalOnlyForFatalKinds(t *testing.T) {
	cases := []struct {
		kind  Kind
		fatal bool
	}{
		{FatalPhysical, true},
		{FatalUsage, true},
		{Propagated, false},
		{RecoverableNumeric, false},
		{SuppressedInput, false},
	}
	for _, c := range cases {
		err := New(c.kind, "subsystem", "boom")
		if got := IsFatal(err); got != c.fatal {
			t.Errorf("IsFatal(%v) = %v, want %v", c.kind, got, c.fatal)
		}
	}
}

func TestIsFatalFalseForPlainError(t *testing.T) {
	if IsFatal(errors.New("plain")) {
		t.Error("IsFatal should be false for an error not wrapped by skirterr")
	}
}

func TestKindStringNames(t *testing.T) {
	if FatalPhysical.String() != "fatal-physical" {
		t.Errorf("FatalPhysical.String() = %q", FatalPhysical.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("unknown kind should stringify to %q", "unknown")
	}
}
