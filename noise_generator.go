package ay38910

// MaxNoisePeriod is the largest representable 5-bit noise period.
const MaxNoisePeriod = 31

// NoiseGenerator gates the shared LFSR with a period counter that counts up
// from 0 (period is 5 bits). Like
// ToneGenerator it carries no prescaler of its own — Tick() is called once
// per already-prescaled (16:1) cycle by Core.
//
// The LFSR only steps once every 2×period prescaled ticks, not once every
// period ticks — this doubled-period behavior is intrinsic to the hardware
// and must not be simplified away (spec.md §4.4).
type NoiseGenerator struct {
	lfsr    *LFSR
	period  uint8
	counter uint32
	output  bool
}

// NewNoiseGenerator creates a noise generator with the given initial period
// (clamped to [1, MaxNoisePeriod]) and LFSR seed (0 selects the default
// seed of 1).
func NewNoiseGenerator(initialPeriod uint8, lfsrSeed uint32) (*NoiseGenerator, error) {
	l, err := NewLFSR(lfsrSeed)
	if err != nil {
		return nil, err
	}
	p := initialPeriod
	if p == 0 {
		p = 1
	}
	if p > MaxNoisePeriod {
		p = MaxNoisePeriod
	}
	return &NoiseGenerator{lfsr: l, period: p, output: l.Output()}, nil
}

// Tick advances the internal counter; once it reaches 2×period the LFSR
// steps once and the counter resets to 0.
func (n *NoiseGenerator) Tick() {
	n.counter++
	if n.counter >= uint32(n.period)<<1 {
		n.output = n.lfsr.Step()
		n.counter = 0
	}
}

// Output reports the LFSR's current bit 0.
func (n *NoiseGenerator) Output() bool { return n.output }

// SetPeriod sets the 5-bit noise period (0 clamps to 1); the counter is not
// reset so an in-flight period doesn't restart observably.
func (n *NoiseGenerator) SetPeriod(period uint8) {
	if period == 0 {
		period = 1
	}
	if period > MaxNoisePeriod {
		period = MaxNoisePeriod
	}
	n.period = period
}

// Period returns the current effective period.
func (n *NoiseGenerator) Period() uint8 { return n.period }

// Reset restores power-on state: LFSR to its default seed, counter to 0.
func (n *NoiseGenerator) Reset() error {
	if err := n.lfsr.Reset(1); err != nil {
		return err
	}
	n.counter = 0
	n.output = n.lfsr.Output()
	return nil
}

// Frequency computes the LFSR advance rate given the undivided master
// clock (the 16:1 prescaler is applied here). Supplementary (see
// SPEC_FULL.md "Supplemented features").
func (n *NoiseGenerator) Frequency(masterClockHz float64) float64 {
	return masterClockHz / (16.0 * float64(n.period) * 2.0)
}

// SetFrequency sets the period to best approximate frequencyHz.
func (n *NoiseGenerator) SetFrequency(frequencyHz, masterClockHz float64) error {
	if frequencyHz <= 0 {
		return invalidValue("frequency_hz", frequencyHz, "> 0")
	}
	if masterClockHz <= 0 {
		return invalidValue("master_clock_hz", masterClockHz, "> 0")
	}
	period := masterClockHz / (16.0 * 2.0 * frequencyHz)
	p := int(period + 0.5)
	if p < 1 {
		p = 1
	}
	if p > MaxNoisePeriod {
		p = MaxNoisePeriod
	}
	n.SetPeriod(uint8(p))
	return nil
}

// Phase returns the fraction of the current doubled-period interval elapsed.
func (n *NoiseGenerator) Phase() float64 {
	span := uint32(n.period) << 1
	if span == 0 {
		return 0
	}
	phase := float64(n.counter) / float64(span)
	if phase > 1 {
		return 1
	}
	return phase
}

// NoiseState is the serializable snapshot of a NoiseGenerator.
type NoiseState struct {
	Period    uint8
	Counter   uint32
	Output    bool
	LFSRValue uint32
}

// State captures the generator's current snapshot.
func (n *NoiseGenerator) State() NoiseState {
	return NoiseState{
		Period:    n.period,
		Counter:   n.counter,
		Output:    n.output,
		LFSRValue: n.lfsr.State(),
	}
}

// SetState validates and restores a snapshot, leaving the generator
// unchanged on error.
func (n *NoiseGenerator) SetState(s NoiseState) error {
	if s.Period < 1 || s.Period > MaxNoisePeriod {
		return &StateRestoreError{Reason: "noise period out of range"}
	}
	if s.LFSRValue == 0 || s.LFSRValue > lfsrMask17 {
		return &StateRestoreError{Reason: "lfsr value out of range"}
	}
	l, err := NewLFSR(s.LFSRValue)
	if err != nil {
		return &StateRestoreError{Reason: err.Error()}
	}
	n.period = s.Period
	n.counter = s.Counter
	n.output = s.Output
	n.lfsr = l
	return nil
}
