package scheduler

import (
	"testing"

	"schedd/pkg/types"
)

func TestUnloadReleasesReservation(t *testing.T) {
	h := newHarness(t, 100,
		types.BackendDescriptor{ID: "a", MemoryCostMB: 50, Priority: 10},
	)
	ctx := testCtx(t)
	if err := h.sch.Load(ctx, "a"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := h.sch.Unload("a"); err != nil {
		t.Fatalf("unload: %v", err)
	}
	if got := h.used(); got != 0 {
		t.Fatalf("used = %d, want 0", got)
	}
	if len(h.residentIDs()) != 0 {
		t.Fatalf("residents = %v, want none", h.residentIDs())
	}
	if h.fakes["a"].unloads != 1 {
		t.Fatalf("backend unload calls = %d, want 1", h.fakes["a"].unloads)
	}
}

func TestUnloadPinnedProtected(t *testing.T) {
	h := newHarness(t, 100,
		types.BackendDescriptor{ID: "pin", MemoryCostMB: 50, Priority: types.PriorityPinned},
	)
	ctx := testCtx(t)
	if err := h.sch.Load(ctx, "pin"); err != nil {
		t.Fatalf("load: %v", err)
	}
	err := h.sch.Unload("pin")
	if !IsProtected(err) {
		t.Fatalf("err = %v, want protected", err)
	}
	if !equalStrings(h.residentIDs(), []string{"pin"}) {
		t.Fatalf("residents = %v, want [pin]", h.residentIDs())
	}
}

func TestUnloadNotFound(t *testing.T) {
	h := newHarness(t, 100,
		types.BackendDescriptor{ID: "a", MemoryCostMB: 50, Priority: 10},
	)
	if err := h.sch.Unload("ghost"); !IsNotFound(err) {
		t.Fatalf("unknown id err = %v, want not found", err)
	}
	// Registered but not resident is also not found.
	if err := h.sch.Unload("a"); !IsNotFound(err) {
		t.Fatalf("non-resident err = %v, want not found", err)
	}
}
