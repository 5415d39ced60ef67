package ay38910

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Register addresses, named per spec.md §3's register file layout.
const (
	RegToneAFine = iota
	RegToneACoarse
	RegToneBFine
	RegToneBCoarse
	RegToneCFine
	RegToneCCoarse
	RegNoisePeriod
	RegMixerControl
	RegVolumeA
	RegVolumeB
	RegVolumeC
	RegEnvelopeFine
	RegEnvelopeCoarse
	RegEnvelopeShape
	RegIOPortA
	RegIOPortB

	NumRegisters = 16
)

const numToneChannels = 3

// writeCmd is one entry of the optional producer command queue (DESIGN.md,
// Open Question #6): a producer goroutine can post register writes here via
// PostWrite instead of calling Write from a separate goroutine for every
// register poke, so a burst of writes queued
// ahead of a chunk lands in the exact order they were posted, applied all
// at once at the top of the next Tick. Write, the default synchronous API,
// does not use this queue at all.
type writeCmd struct {
	addr  uint8
	value uint8
}

// Core owns the 16-register file and all five generators, and is the sole
// mutator of chip state. It is driven by Tick (from the audio producer) and
// by Write (from any caller); see SPEC_FULL.md §5 for the concurrency model.
type Core struct {
	mu     sync.Mutex
	config *Config
	logger *log.Logger

	registers [NumRegisters]uint8
	masterClk uint64

	tones    [numToneChannels]*ToneGenerator
	noise    *NoiseGenerator
	envelope *EnvelopeGenerator
	mixer    *Mixer
	volTable *VolumeTable

	toneOutputs   [numToneChannels]bool
	noiseOutput   bool
	envelopeLevel uint8

	writeCh chan writeCmd
}

// NewCore constructs a Core in power-on-reset state from a validated
// Config (see core/ay38910.py's AY38910Core.__init__).
func NewCore(config *Config) (*Core, error) {
	vt, err := NewVolumeTable(config.ChipType)
	if err != nil {
		return nil, err
	}
	noise, err := NewNoiseGenerator(1, 1)
	if err != nil {
		return nil, err
	}
	env, err := NewEnvelopeGenerator(1, 0)
	if err != nil {
		return nil, err
	}
	c := &Core{
		config:   config.Copy(),
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "ay38910"}),
		noise:    noise,
		envelope: env,
		mixer:    NewMixer(vt),
		volTable: vt,
		writeCh:  make(chan writeCmd, 256),
	}
	for i := range c.tones {
		c.tones[i] = NewToneGenerator(1)
	}
	if !config.EnableDebug {
		c.logger.SetLevel(log.WarnLevel)
	}
	return c, nil
}

// Reset restores power-on state: all counters to period, outputs to 0,
// LFSR to 1, envelope level to 31 and shape 0, master counter to 0,
// registers to 0 (spec.md §4.7).
func (c *Core) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registers = [NumRegisters]uint8{}
	c.masterClk = 0
	for _, t := range c.tones {
		t.Reset()
	}
	_ = c.noise.Reset()
	c.envelope.Reset()
	c.toneOutputs = [numToneChannels]bool{}
	c.noiseOutput = c.noise.Output()
	c.envelopeLevel = c.envelope.Level()

	if c.config.EnableDebug {
		c.logger.Debug("reset complete")
	}
}

// Tick advances the chip by masterCycles master-clock cycles and returns
// the number actually consumed (always masterCycles; the chip never
// stalls). Before ticking, any register writes queued via PostWrite are
// drained so they're applied, in order, before the chunk they precede
// (spec.md §5).
func (c *Core) Tick(masterCycles uint64) uint64 {
	c.drainWrites()

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := uint64(0); i < masterCycles; i++ {
		c.masterClk++
		if c.masterClk%16 == 0 {
			for ch := 0; ch < numToneChannels; ch++ {
				c.tones[ch].Tick()
				c.toneOutputs[ch] = c.tones[ch].Output()
			}
			c.noise.Tick()
			c.noiseOutput = c.noise.Output()
		}
		if c.masterClk%256 == 0 {
			c.envelope.Tick()
			c.envelopeLevel = c.envelope.Level()
		}
	}
	return masterCycles
}

// drainWrites applies any writes queued via PostWrite, in the order they
// were posted. It takes c.mu itself once per queued write (applyWrite locks
// internally), which is safe to call before Tick acquires its own lock
// since the two never overlap.
func (c *Core) drainWrites() {
	for {
		select {
		case cmd := <-c.writeCh:
			_ = c.applyWrite(cmd.addr, cmd.value)
		default:
			return
		}
	}
}

// Write validates and applies a register write immediately, under the
// core's mutex, so a subsequent Read (with no intervening Tick) observes it
// (spec.md §8: write(addr, v) followed by read(addr) returns v). This is
// the default, synchronous path; PostWrite is the optional queued path for
// a producer that wants writes applied at the start of its next Tick.
func (c *Core) Write(addr, value uint8) error {
	return c.applyWrite(addr, value)
}

// PostWrite queues a register write to be applied at the start of the next
// Tick call, in FIFO order relative to other queued writes. Unlike Write,
// it does not block and does not make the write visible to Read until the
// next Tick drains the queue. Intended for a producer goroutine that wants
// to interleave writes with tick-driven sample generation without taking
// the core's mutex directly.
func (c *Core) PostWrite(addr, value uint8) error {
	if addr > 15 {
		return &RegisterAccessError{Address: int(addr)}
	}
	select {
	case c.writeCh <- writeCmd{addr: addr, value: value}:
		return nil
	default:
		return fmt.Errorf("ay38910: write queue full, addr %d dropped: %w", addr, ErrAudioRuntime)
	}
}

// applyWrite performs the actual mutation under the core's mutex.
func (c *Core) applyWrite(addr, value uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if addr > 15 {
		return &RegisterAccessError{Address: int(addr)}
	}
	old := c.registers[addr]
	c.registers[addr] = value

	switch {
	case addr <= 5:
		ch := addr / 2
		fine := c.registers[ch*2]
		coarse := c.registers[ch*2+1] & 0x0F
		c.tones[ch].SetPeriod(fine, coarse)
	case addr == RegNoisePeriod:
		c.noise.SetPeriod(value & 0x1F)
	case addr == RegEnvelopeFine || addr == RegEnvelopeCoarse:
		fine := c.registers[RegEnvelopeFine]
		coarse := c.registers[RegEnvelopeCoarse]
		c.envelope.SetPeriod(fine, coarse)
	case addr == RegEnvelopeShape:
		if err := c.envelope.SetShape(value & 0x0F); err != nil {
			c.registers[addr] = old
			return err
		}
		c.envelopeLevel = c.envelope.Level()
	}

	if c.config.EnableDebug {
		c.logger.Debug("register write", "addr", addr, "value", value, "was", old)
	}
	return nil
}

// Read returns the raw stored byte, unmodified (spec.md §4.7).
func (c *Core) Read(addr uint8) (uint8, error) {
	if addr > 15 {
		return 0, &RegisterAccessError{Address: int(addr)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registers[addr], nil
}

// MixedOutput computes the current mono mixed sample in [-1, 1].
func (c *Core) MixedOutput() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, err := c.mixer.ChannelOutputs(c.toneOutputs, c.noiseOutput, c.registers[RegMixerControl],
		[3]uint8{c.registers[RegVolumeA], c.registers[RegVolumeB], c.registers[RegVolumeC]}, c.envelopeLevel)
	if err != nil {
		return 0
	}
	return c.mixer.MixedOutput(out, c.config.VolumeScale)
}

// ChannelOutputs computes the three per-channel normalized amplitudes
// before summation, for visualization or stereo panning.
func (c *Core) ChannelOutputs() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, _ := c.mixer.ChannelOutputs(c.toneOutputs, c.noiseOutput, c.registers[RegMixerControl],
		[3]uint8{c.registers[RegVolumeA], c.registers[RegVolumeB], c.registers[RegVolumeC]}, c.envelopeLevel)
	return out
}

// StereoOutput computes a panned (left, right) frame using the mixer's
// current pan coefficients (supplementary, see SPEC_FULL.md).
func (c *Core) StereoOutput() (left, right float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, _ := c.mixer.ChannelOutputs(c.toneOutputs, c.noiseOutput, c.registers[RegMixerControl],
		[3]uint8{c.registers[RegVolumeA], c.registers[RegVolumeB], c.registers[RegVolumeC]}, c.envelopeLevel)
	return c.mixer.StereoOutput(out, c.config.VolumeScale)
}

// Config returns a copy of the core's configuration.
func (c *Core) Config() *Config {
	return c.config.Copy()
}

// Mixer exposes the mixer for pan configuration.
func (c *Core) Mixer() *Mixer { return c.mixer }
