package terminal

import (
	"testing"
)

func TestHasNewOutput_DefaultFalse(t *testing.T) {
	s := &Session{}
	if s.HasNewOutput.Load() {
		t.Error("HasNewOutput should be false by default")
	}
}

func TestHasNewOutput_SwapReturnsAndClears(t *testing.T) {
	s := &Session{}
	s.HasNewOutput.Store(true)

	// First swap should return true
	if !s.HasNewOutput.Swap(false) {
		t.Error("first Swap should return true after Store(true)")
	}
	// Second swap should return false (already cleared)
	if s.HasNewOutput.Swap(false) {
		t.Error("second Swap should return false (already cleared)")
	}
}

func TestHasNewOutput_MultipleStores(t *testing.T) {
	s := &Session{}
	// Multiple stores coalesce into a single true
	s.HasNewOutput.Store(true)
	s.HasNewOutput.Store(true)
	s.HasNewOutput.Store(true)

	if !s.HasNewOutput.Swap(false) {
		t.Error("Swap should return true after multiple stores")
	}
	if s.HasNewOutput.Swap(false) {
		t.Error("second Swap should return false")
	}
}

func TestDetectShellReturnsSomething(t *testing.T) {
	if detectShell() == "" {
		t.Error("detectShell should never return empty")
	}
}
