package scheduler

import "testing"

func TestBudgetReserveRelease(t *testing.T) {
	b := newBudgetTracker(100)
	if !b.Reserve(60) {
		t.Fatal("expected first reserve to fit")
	}
	if b.Reserve(50) {
		t.Fatal("expected over-limit reserve to fail")
	}
	if b.Used() != 60 {
		t.Fatalf("used = %d, want 60", b.Used())
	}
	b.Release(60)
	if b.Used() != 0 {
		t.Fatalf("used after release = %d, want 0", b.Used())
	}
	if !b.Reserve(100) {
		t.Fatal("expected exact-fit reserve to succeed")
	}
}

func TestBudgetUnlimited(t *testing.T) {
	b := newBudgetTracker(0)
	if !b.Reserve(1 << 20) {
		t.Fatal("unbudgeted tracker must accept any reservation")
	}
	if !b.CanFit(1 << 20) {
		t.Fatal("unbudgeted tracker must always fit")
	}
}

func TestBudgetReleaseClamps(t *testing.T) {
	b := newBudgetTracker(50)
	b.Release(10)
	if b.Used() != 0 {
		t.Fatalf("used = %d, want 0 after clamped release", b.Used())
	}
}
