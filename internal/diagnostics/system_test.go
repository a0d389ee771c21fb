package diagnostics

import "testing"

func TestCollect(t *testing.T) {
	snap := Collect()
	if snap.Time.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
	if snap.Goroutines <= 0 {
		t.Fatalf("expected at least one goroutine, got %d", snap.Goroutines)
	}
}
