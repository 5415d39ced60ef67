package ay38910

import "testing"

func TestLFSRNeverReachesZero(t *testing.T) {
	l, err := NewLFSR(1)
	if err != nil {
		t.Fatalf("NewLFSR: %v", err)
	}
	for i := 0; i < lfsrPeriod*2; i++ {
		l.Step()
		if l.State() == 0 {
			t.Fatalf("lfsr reached 0 at step %d", i)
		}
	}
}

func TestLFSRFullPeriod(t *testing.T) {
	l, err := NewLFSR(1)
	if err != nil {
		t.Fatalf("NewLFSR: %v", err)
	}
	start := l.State()
	for i := 0; i < lfsrPeriod; i++ {
		l.Step()
	}
	if l.State() != start {
		t.Fatalf("lfsr did not return to start after %d steps, got %d want %d", lfsrPeriod, l.State(), start)
	}
}

func TestLFSRRejectsZeroSeed(t *testing.T) {
	if err := (&LFSR{}).Reset(0); err == nil {
		t.Fatalf("Reset(0) should fail")
	}
}

func TestLFSRZeroSeedDefaultsToOne(t *testing.T) {
	l, err := NewLFSR(0)
	if err != nil {
		t.Fatalf("NewLFSR(0): %v", err)
	}
	if l.State() != 1 {
		t.Fatalf("NewLFSR(0) state = %d, want 1", l.State())
	}
}
