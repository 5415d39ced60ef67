package ay38910

// stateAPIVersion and stateDeviceType tag every snapshot so a restore can
// reject a file produced by an incompatible version or a different device
// (spec.md §6, "Persisted state format").
const (
	stateAPIVersion = "1.0"
	stateDeviceType = "AY-3-8910"
)

// State is a complete, serializable snapshot of a Core: the 16 raw register
// bytes, the free-running master-cycle counter, and each generator's own
// typed sub-state. Restoring a State reproduces bit-identical future output
// from a Core built with the same Config (spec.md §8, scenario 6).
type State struct {
	APIVersion string `yaml:"api_version"`
	DeviceType string `yaml:"device_type"`

	Registers [NumRegisters]uint8 `yaml:"registers"`
	MasterClk uint64              `yaml:"master_clock"`

	Tones    [numToneChannels]ToneState `yaml:"tones"`
	Noise    NoiseState                 `yaml:"noise"`
	Envelope EnvelopeState              `yaml:"envelope"`
}

// GetState captures a complete snapshot of the core's current state.
func (c *Core) GetState() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		APIVersion: stateAPIVersion,
		DeviceType: stateDeviceType,
		Registers:  c.registers,
		MasterClk:  c.masterClk,
		Noise:      c.noise.State(),
		Envelope:   c.envelope.State(),
	}
	for i, t := range c.tones {
		s.Tones[i] = t.State()
	}
	return s
}

// SetState restores a previously captured snapshot. Validation happens
// before any field is mutated on the live core: every sub-state is checked
// in isolation (each generator's own SetState already refuses a malformed
// snapshot), and a version/device mismatch is rejected up front, so a
// failed restore leaves the core entirely untouched (spec.md §7,
// "transactional" state restore).
func (c *Core) SetState(s State) error {
	if s.DeviceType != stateDeviceType {
		return &StateRestoreError{Reason: "device_type mismatch: got " + s.DeviceType}
	}
	if s.APIVersion != stateAPIVersion {
		return &StateRestoreError{Reason: "api_version mismatch: got " + s.APIVersion}
	}

	tones := [numToneChannels]*ToneGenerator{}
	for i := range tones {
		t := NewToneGenerator(1)
		if err := t.SetState(s.Tones[i]); err != nil {
			return err
		}
		tones[i] = t
	}
	noise, err := NewNoiseGenerator(1, 1)
	if err != nil {
		return err
	}
	if err := noise.SetState(s.Noise); err != nil {
		return err
	}
	envelope, err := NewEnvelopeGenerator(1, 0)
	if err != nil {
		return err
	}
	if err := envelope.SetState(s.Envelope); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.registers = s.Registers
	c.masterClk = s.MasterClk
	c.tones = tones
	c.noise = noise
	c.envelope = envelope
	c.toneOutputs = [numToneChannels]bool{}
	for i, t := range c.tones {
		c.toneOutputs[i] = t.Output()
	}
	c.noiseOutput = c.noise.Output()
	c.envelopeLevel = c.envelope.Level()
	return nil
}
