package ay38910

import "testing"

func TestNoiseGeneratorDoublesPeriod(t *testing.T) {
	ng, err := NewNoiseGenerator(5, 1)
	if err != nil {
		t.Fatalf("NewNoiseGenerator: %v", err)
	}
	before := ng.Output()
	for i := 0; i < 5*2-1; i++ {
		ng.Tick()
		if ng.Output() != before {
			t.Fatalf("lfsr stepped early at tick %d (expected at tick %d)", i+1, 5*2)
		}
	}
	ng.Tick()
	if ng.Output() == before {
		t.Fatalf("lfsr did not step at doubled period (2*%d ticks)", 5)
	}
}

func TestNoiseGeneratorPeriodZeroClampsToOne(t *testing.T) {
	ng, err := NewNoiseGenerator(0, 1)
	if err != nil {
		t.Fatalf("NewNoiseGenerator: %v", err)
	}
	if ng.Period() != 1 {
		t.Fatalf("period = %d, want 1", ng.Period())
	}
}

func TestNoiseGeneratorPeriodCapsAtMax(t *testing.T) {
	ng, err := NewNoiseGenerator(200, 1)
	if err != nil {
		t.Fatalf("NewNoiseGenerator: %v", err)
	}
	if ng.Period() != MaxNoisePeriod {
		t.Fatalf("period = %d, want %d", ng.Period(), MaxNoisePeriod)
	}
}

func TestNoiseGeneratorStateRoundTrip(t *testing.T) {
	ng, err := NewNoiseGenerator(7, 1)
	if err != nil {
		t.Fatalf("NewNoiseGenerator: %v", err)
	}
	for i := 0; i < 20; i++ {
		ng.Tick()
	}
	s := ng.State()

	restored, err := NewNoiseGenerator(1, 1)
	if err != nil {
		t.Fatalf("NewNoiseGenerator: %v", err)
	}
	if err := restored.SetState(s); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if restored.State() != s {
		t.Fatalf("restored state = %+v, want %+v", restored.State(), s)
	}
}

func TestNoiseGeneratorSetStateRejectsZeroLFSR(t *testing.T) {
	ng, err := NewNoiseGenerator(1, 1)
	if err != nil {
		t.Fatalf("NewNoiseGenerator: %v", err)
	}
	err = ng.SetState(NoiseState{Period: 1, Counter: 0, Output: false, LFSRValue: 0})
	if err == nil {
		t.Fatalf("SetState with lfsr value 0 should fail")
	}
}
