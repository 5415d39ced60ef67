package ay38910

// MaxTonePeriod is the largest representable 12-bit tone period.
const MaxTonePeriod = 4095

// ToneGenerator is a 12-bit down-counter with a 1-bit toggle output, one per
// channel (A, B, C). It has no prescaler of its own: Tick() expects to be
// called once per already-prescaled (16:1) cycle by Core.
type ToneGenerator struct {
	period uint16
	counter uint16
	output  bool
}

// NewToneGenerator creates a generator at the given initial period (clamped
// to [1, MaxTonePeriod]; 0 is treated as 1).
func NewToneGenerator(initialPeriod uint16) *ToneGenerator {
	p := initialPeriod
	if p == 0 {
		p = 1
	}
	if p > MaxTonePeriod {
		p = MaxTonePeriod
	}
	return &ToneGenerator{period: p, counter: p}
}

// Tick decrements the counter; when it reaches zero, the output flips and
// the counter reloads with the current period.
func (t *ToneGenerator) Tick() {
	if t.counter > 0 {
		t.counter--
	}
	if t.counter == 0 {
		t.output = !t.output
		t.counter = t.period
	}
}

// Output reports the current 1-bit state.
func (t *ToneGenerator) Output() bool { return t.output }

// SetPeriod sets the 12-bit tone period from its fine/coarse register pair.
// TP = (coarse & 0x0F)<<8 | fine; TP = 0 clamps to 1. If the new period is
// smaller than the current counter, the counter is pulled down immediately
// rather than waiting out the old, larger period (matches the original
// implementation's set_period).
func (t *ToneGenerator) SetPeriod(fine, coarse uint8) {
	tp := (uint16(coarse&0x0F) << 8) | uint16(fine)
	t.SetPeriodDirect(tp)
}

// SetPeriodDirect sets the period from a single value in [0, MaxTonePeriod].
func (t *ToneGenerator) SetPeriodDirect(period uint16) {
	if period == 0 {
		period = 1
	}
	t.period = period
	if t.counter > t.period {
		t.counter = t.period
	}
}

// Period returns the current effective period.
func (t *ToneGenerator) Period() uint16 { return t.period }

// Counter returns the current down-counter value.
func (t *ToneGenerator) Counter() uint16 { return t.counter }

// Reset restores power-on state: counter = period, output = false.
func (t *ToneGenerator) Reset() {
	t.counter = t.period
	t.output = false
}

// Frequency computes the generator's output frequency, masterClockHz /
// (16 * period), given the undivided master clock (the 16:1 prescaler is
// applied here). Supplementary, non-core API (see
// SPEC_FULL.md "Supplemented features").
func (t *ToneGenerator) Frequency(masterClockHz float64) float64 {
	return masterClockHz / (16.0 * float64(t.period))
}

// SetFrequency sets the period to best approximate frequencyHz given
// masterClockHz, clamped to [1, MaxTonePeriod].
func (t *ToneGenerator) SetFrequency(frequencyHz, masterClockHz float64) error {
	if frequencyHz <= 0 {
		return invalidValue("frequency_hz", frequencyHz, "> 0")
	}
	if masterClockHz <= 0 {
		return invalidValue("master_clock_hz", masterClockHz, "> 0")
	}
	period := masterClockHz / (16.0 * frequencyHz)
	p := int(period + 0.5)
	if p < 1 {
		p = 1
	}
	if p > MaxTonePeriod {
		p = MaxTonePeriod
	}
	t.SetPeriodDirect(uint16(p))
	return nil
}

// Phase returns the generator's position within its current period, in
// [0, 1]. Read-only diagnostic accessor (supplementary).
func (t *ToneGenerator) Phase() float64 {
	if t.period == 0 {
		return 0
	}
	phase := 1.0 - float64(t.counter)/float64(t.period)
	if phase < 0 {
		return 0
	}
	if phase > 1 {
		return 1
	}
	return phase
}

// ToneState is the serializable snapshot of a ToneGenerator.
type ToneState struct {
	Period  uint16
	Counter uint16
	Output  bool
}

// State captures the generator's current snapshot.
func (t *ToneGenerator) State() ToneState {
	return ToneState{Period: t.period, Counter: t.counter, Output: t.output}
}

// SetState validates and restores a snapshot, leaving the generator
// unchanged on error.
func (t *ToneGenerator) SetState(s ToneState) error {
	if s.Period < 1 || s.Period > MaxTonePeriod {
		return &StateRestoreError{Reason: "tone period out of range"}
	}
	if s.Counter > MaxTonePeriod {
		return &StateRestoreError{Reason: "tone counter out of range"}
	}
	t.period = s.Period
	t.counter = s.Counter
	t.output = s.Output
	return nil
}
