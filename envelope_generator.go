package ay38910

// MaxEnvelopePeriod is the largest representable 16-bit envelope period.
const MaxEnvelopePeriod = 65535

type envSegmentKind uint8

const (
	segSlideDown envSegmentKind = iota
	segSlideUp
	segHoldBottom
	segHoldTop
)

// envelopeShapes is the 16-entry table of (segment0, segment1) pairs
// selected by the low 4 bits of R13, reproduced exactly from the documented
// shape table (spec.md §4.5).
var envelopeShapes = [16][2]envSegmentKind{
	0:  {segSlideDown, segHoldBottom},
	1:  {segSlideDown, segHoldBottom},
	2:  {segSlideDown, segHoldBottom},
	3:  {segSlideDown, segHoldBottom},
	4:  {segSlideUp, segHoldBottom},
	5:  {segSlideUp, segHoldBottom},
	6:  {segSlideUp, segHoldBottom},
	7:  {segSlideUp, segHoldBottom},
	8:  {segSlideDown, segSlideDown},
	9:  {segSlideDown, segHoldBottom},
	10: {segSlideDown, segSlideUp},
	11: {segSlideDown, segHoldTop},
	12: {segSlideUp, segSlideUp},
	13: {segSlideUp, segHoldTop},
	14: {segSlideUp, segSlideDown},
	15: {segSlideUp, segHoldBottom},
}

var envelopeShapeNames = [16]string{
	"\\___", "\\___", "\\___", "\\___",
	"/___", "/___", "/___", "/___",
	"\\\\\\\\", "\\___", "\\/\\/", "\\‾‾‾",
	"////", "/‾‾‾", "/\\/\\", "/___",
}

// EnvelopeGenerator is the shared envelope: a 16-bit period counter feeding
// a 5-bit level (0-31) whose trajectory is one of 16 shapes, each a pair of
// segment functions toggled on overflow/underflow.
type EnvelopeGenerator struct {
	period    uint16
	counter   uint16
	level     uint8
	shape     uint8
	segment   int // 0 or 1, index into envelopeShapes[shape]
}

// NewEnvelopeGenerator creates a generator at the given initial period and
// shape, in power-on state (level 31, segment 0).
func NewEnvelopeGenerator(initialPeriod uint16, initialShape uint8) (*EnvelopeGenerator, error) {
	if initialShape > 15 {
		return nil, invalidValue("shape", initialShape, "[0, 15]")
	}
	p := initialPeriod
	if p == 0 {
		p = 1
	}
	e := &EnvelopeGenerator{period: p, shape: initialShape}
	e.resetShapeState()
	return e, nil
}

// resetShapeState is the internal reset invoked by SetShape: sub-counter to
// zero, segment to 0, level to 31. See DESIGN.md Open Question #3 for why
// this differs from the full Reset() path, which leaves the sub-counter at
// the period instead of zero.
func (e *EnvelopeGenerator) resetShapeState() {
	e.segment = 0
	e.counter = 0
	e.level = 31
}

// Tick advances the sub-counter; when it reaches the effective period, the
// current segment function runs once and the sub-counter resets to zero.
func (e *EnvelopeGenerator) Tick() {
	e.counter++
	if e.counter >= e.period {
		e.runSegment()
		e.counter = 0
	}
}

func (e *EnvelopeGenerator) runSegment() {
	switch envelopeShapes[e.shape][e.segment] {
	case segSlideDown:
		// Checking level==0 before decrementing is equivalent to
		// decrementing into negative and testing for underflow, since the
		// level has no representation below 0.
		if e.level == 0 {
			e.toggleSegment()
			return
		}
		e.level--
	case segSlideUp:
		if e.level == 31 {
			e.toggleSegment()
			return
		}
		e.level++
	case segHoldBottom:
		e.level = 0
	case segHoldTop:
		e.level = 31
	}
}

func (e *EnvelopeGenerator) toggleSegment() {
	e.segment ^= 1
	switch envelopeShapes[e.shape][e.segment] {
	case segSlideDown, segHoldTop:
		e.level = 31
	default:
		e.level = 0
	}
}

// Level returns the current 5-bit level in [0, 31].
func (e *EnvelopeGenerator) Level() uint8 { return e.level }

// Shape returns the current 4-bit shape selector.
func (e *EnvelopeGenerator) Shape() uint8 { return e.shape }

// Segment returns which of the shape's two segment functions is active.
func (e *EnvelopeGenerator) Segment() int { return e.segment }

// ShapeDescription returns a short human-readable rendering of the current
// shape's waveform, for debug logging (supplementary, see SPEC_FULL.md).
func (e *EnvelopeGenerator) ShapeDescription() string {
	return envelopeShapeNames[e.shape]
}

// SetPeriod sets the 16-bit envelope period from its fine/coarse register
// pair: EP = coarse<<8 | fine, clamped to a minimum of 1.
func (e *EnvelopeGenerator) SetPeriod(fine, coarse uint8) {
	ep := (uint16(coarse) << 8) | uint16(fine)
	e.SetPeriodDirect(ep)
}

// SetPeriodDirect sets the period directly, clamping 0 to 1, and resets the
// sub-counter to 0 — matching set_envelope_period
// (original_source/pypsgemu/core/envelope_generator.py), which zeroes
// _envelope_counter on every R11/R12 write. The level and shape/segment are
// untouched; only a write to the shape register (R13) retriggers those.
func (e *EnvelopeGenerator) SetPeriodDirect(period uint16) {
	if period == 0 {
		period = 1
	}
	e.period = period
	e.counter = 0
}

// Period returns the current effective period.
func (e *EnvelopeGenerator) Period() uint16 { return e.period }

// SetShape selects one of the 16 shapes and *always* resets the envelope's
// sub-counter, segment, and level, even if shape equals the current shape.
// This unconditional reset is the retrigger mechanism music software relies
// on when rewriting R13 with an unchanged value (spec.md §4.5).
func (e *EnvelopeGenerator) SetShape(shape uint8) error {
	if shape > 15 {
		return invalidValue("shape", shape, "[0, 15]")
	}
	e.shape = shape
	e.resetShapeState()
	return nil
}

// Reset restores full power-on state. Note the sub-counter goes to the
// current period here (matching "all counters to period"), not to zero as
// SetShape's internal reset does — see DESIGN.md Open Question #3. This is
// why Reset sets segment/level directly instead of delegating to
// resetShapeState, which would clobber the counter back to zero.
func (e *EnvelopeGenerator) Reset() {
	e.shape = 0
	e.segment = 0
	e.level = 31
	e.counter = e.period
}

// Frequency computes the envelope's step rate given the undivided master
// clock (the 256:1 prescaler is applied here). Supplementary (see
// SPEC_FULL.md "Supplemented features").
func (e *EnvelopeGenerator) Frequency(masterClockHz float64) float64 {
	return masterClockHz / (256.0 * float64(e.period))
}

// SetFrequency sets the period to best approximate frequencyHz.
func (e *EnvelopeGenerator) SetFrequency(frequencyHz, masterClockHz float64) error {
	if frequencyHz <= 0 {
		return invalidValue("frequency_hz", frequencyHz, "> 0")
	}
	if masterClockHz <= 0 {
		return invalidValue("master_clock_hz", masterClockHz, "> 0")
	}
	period := masterClockHz / (256.0 * frequencyHz)
	p := int(period + 0.5)
	if p < 1 {
		p = 1
	}
	if p > MaxEnvelopePeriod {
		p = MaxEnvelopePeriod
	}
	e.SetPeriodDirect(uint16(p))
	return nil
}

// EnvelopeState is the serializable snapshot of an EnvelopeGenerator.
type EnvelopeState struct {
	Period  uint16
	Counter uint16
	Level   uint8
	Shape   uint8
	Segment int
}

// State captures the generator's current snapshot.
func (e *EnvelopeGenerator) State() EnvelopeState {
	return EnvelopeState{
		Period:  e.period,
		Counter: e.counter,
		Level:   e.level,
		Shape:   e.shape,
		Segment: e.segment,
	}
}

// SetState validates and restores a snapshot, leaving the generator
// unchanged on error.
func (e *EnvelopeGenerator) SetState(s EnvelopeState) error {
	if s.Period < 1 {
		return &StateRestoreError{Reason: "envelope period out of range"}
	}
	if s.Level > 31 {
		return &StateRestoreError{Reason: "envelope level out of range"}
	}
	if s.Shape > 15 {
		return &StateRestoreError{Reason: "envelope shape out of range"}
	}
	if s.Segment != 0 && s.Segment != 1 {
		return &StateRestoreError{Reason: "envelope segment out of range"}
	}
	e.period = s.Period
	e.counter = s.Counter
	e.level = s.Level
	e.shape = s.Shape
	e.segment = s.Segment
	return nil
}
