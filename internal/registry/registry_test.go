package registry

import (
	"testing"

	"schedd/pkg/types"
)

func desc(id string, fallback string) types.BackendDescriptor {
	return types.BackendDescriptor{ID: id, MemoryCostMB: 10, Priority: 1, FallbackID: fallback}
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	if err := r.Register(desc("a", "")); err != nil {
		t.Fatalf("register: %v", err)
	}
	d, ok := r.Lookup("a")
	if !ok || d.ID != "a" {
		t.Fatalf("lookup a = %+v, %v", d, ok)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Fatal("lookup of unregistered id must fail")
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := New()
	if err := r.Register(desc("a", "")); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := r.Register(desc("a", ""))
	if !IsDuplicateID(err) {
		t.Fatalf("err = %v, want duplicate id", err)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1 after rejected duplicate", r.Len())
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := New()
	if err := r.Register(types.BackendDescriptor{MemoryCostMB: 10}); !IsInvalidDescriptor(err) {
		t.Fatalf("empty id err = %v, want invalid descriptor", err)
	}
	if err := r.Register(types.BackendDescriptor{ID: "a"}); !IsInvalidDescriptor(err) {
		t.Fatalf("zero cost err = %v, want invalid descriptor", err)
	}
}

func TestRegisterRejectsSelfFallback(t *testing.T) {
	r := New()
	err := r.Register(desc("a", "a"))
	if !IsCycleDetected(err) {
		t.Fatalf("err = %v, want cycle detected", err)
	}
	if r.Len() != 0 {
		t.Fatal("rejected descriptor must leave no state")
	}
}

func TestRegisterRejectsClosingCycle(t *testing.T) {
	r := New()
	// a -> b is fine even while b is still unregistered.
	if err := r.Register(desc("a", "b")); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := r.Register(desc("b", "c")); err != nil {
		t.Fatalf("register b: %v", err)
	}
	// c -> a would close the loop c -> a -> b -> c.
	err := r.Register(desc("c", "a"))
	if !IsCycleDetected(err) {
		t.Fatalf("err = %v, want cycle detected", err)
	}
	// A non-closing c is still accepted.
	if err := r.Register(desc("c", "")); err != nil {
		t.Fatalf("register c: %v", err)
	}
}

func TestEnumeratePreservesRegistrationOrder(t *testing.T) {
	r := New()
	for _, id := range []string{"z", "m", "a"} {
		if err := r.Register(desc(id, "")); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	all := r.Enumerate()
	if len(all) != 3 || all[0].ID != "z" || all[1].ID != "m" || all[2].ID != "a" {
		t.Fatalf("enumerate = %+v, want registration order [z m a]", all)
	}
}
