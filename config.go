package ay38910

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ChipType selects which logarithmic DAC curve the volume table uses.
// The two chips differ only here; everything else about the emulation is
// identical (Design Notes, "Dynamic dispatch").
type ChipType string

const (
	ChipAY38910 ChipType = "AY-3-8910"
	ChipYM2149  ChipType = "YM2149"
)

const (
	maxClockHz   = 10_000_000
	maxSampleHz  = 192_000
	maxBufFrames = 4096
)

// Config holds the parameters an emulated device is constructed with.
// Field names mirror the original implementation's device_config module;
// validation happens once, at construction, so a live Core never has to
// re-check them.
type Config struct {
	DeviceID         string   `yaml:"device_id"`
	ClockFrequency   float64  `yaml:"clock_frequency"`
	SampleRate       int      `yaml:"sample_rate"`
	Channels         int      `yaml:"channels"`
	BufferSeconds    float64  `yaml:"buffer_seconds"`
	VolumeScale      float32  `yaml:"volume_scale"`
	EnableDebug      bool     `yaml:"enable_debug"`
	ChipType         ChipType `yaml:"chip_type"`
	EnableEnvelope   bool     `yaml:"enable_envelope"`
	EnableNoise      bool     `yaml:"enable_noise"`
	EnableHQAudio    bool     `yaml:"enable_hq_audio"`
	BreakpointRegs   []uint8  `yaml:"breakpoint_registers"`
}

// DefaultConfig returns the reference 2MHz/44.1kHz mono configuration.
func DefaultConfig() Config {
	return Config{
		DeviceID:       "ay38910",
		ClockFrequency: 2_000_000,
		SampleRate:     44100,
		Channels:       1,
		BufferSeconds:  0.1,
		VolumeScale:    1.0,
		ChipType:       ChipYM2149,
		EnableEnvelope: true,
		EnableNoise:    true,
	}
}

// NewConfig validates cfg and returns a copy, or an *InvalidValueError
// describing the first out-of-range field found.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DeviceID == "" {
		cfg.DeviceID = "ay38910"
	}
	if cfg.ClockFrequency <= 0 {
		return nil, invalidValue("clock_frequency", cfg.ClockFrequency, "> 0")
	}
	if cfg.ClockFrequency > maxClockHz {
		return nil, invalidValue("clock_frequency", cfg.ClockFrequency, fmt.Sprintf("<= %d", maxClockHz))
	}
	if cfg.SampleRate <= 0 {
		return nil, invalidValue("sample_rate", cfg.SampleRate, "> 0")
	}
	if cfg.SampleRate > maxSampleHz {
		return nil, invalidValue("sample_rate", cfg.SampleRate, fmt.Sprintf("<= %d", maxSampleHz))
	}
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, invalidValue("channels", cfg.Channels, "1 or 2")
	}
	if cfg.VolumeScale < 0 || cfg.VolumeScale > 1 {
		return nil, invalidValue("volume_scale", cfg.VolumeScale, "[0, 1]")
	}
	if cfg.BufferSeconds <= 0 {
		return nil, invalidValue("buffer_seconds", cfg.BufferSeconds, "> 0")
	}
	if int(cfg.BufferSeconds*float64(cfg.SampleRate)) > maxBufFrames*64 {
		return nil, invalidValue("buffer_seconds", cfg.BufferSeconds, "a reasonable frame count")
	}
	if cfg.ChipType != ChipAY38910 && cfg.ChipType != ChipYM2149 {
		return nil, invalidValue("chip_type", cfg.ChipType, fmt.Sprintf("%q or %q", ChipAY38910, ChipYM2149))
	}
	for _, reg := range cfg.BreakpointRegs {
		if reg > 15 {
			return nil, invalidValue("breakpoint_registers", reg, "[0, 15]")
		}
	}
	out := cfg
	out.BreakpointRegs = append([]uint8(nil), cfg.BreakpointRegs...)
	return &out, nil
}

// ClockDivisor is the fixed 16:1 prescaler ratio between the master clock
// and the tone/noise generators.
func (c *Config) ClockDivisor() int { return 16 }

// EffectiveClockFrequency is the master clock divided by ClockDivisor.
func (c *Config) EffectiveClockFrequency() float64 {
	return c.ClockFrequency / float64(c.ClockDivisor())
}

// Copy returns a deep copy of the configuration.
func (c *Config) Copy() *Config {
	out := *c
	out.BreakpointRegs = append([]uint8(nil), c.BreakpointRegs...)
	return &out
}

// LoadConfigYAML reads and validates a Config from YAML. This is a
// configuration-management concern, distinct from (and not excluded by) the
// state-snapshot file I/O the core specification places out of scope.
func LoadConfigYAML(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("ay38910: decode config yaml: %w", err)
	}
	return NewConfig(cfg)
}

// WriteYAML serializes the configuration to w.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(c)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config(clock=%.3fMHz, sample_rate=%dHz, channels=%d, chip=%s, debug=%v)",
		c.ClockFrequency/1_000_000, c.SampleRate, c.Channels, c.ChipType, c.EnableDebug)
}
