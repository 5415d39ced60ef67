package audio

import (
	"fmt"
	"math"

	"github.com/zotley-labs/ay38910"
)

// SampleGenerator converts a Core's master-clock ticks into host-sample-rate
// frames using a fractional tick accumulator, so the long-run average tick
// rate matches clockFrequency/sampleRate exactly with zero drift — ported
// from SampleGenerator.generate_samples
// (original_source/pypsgemu/audio/sample_generator.py).
//
// Frames are produced mono or interleaved stereo depending on the Core's
// configured channel count (core.Config().Channels), matching
// create_sample_generator's stereo=(channels==2) wiring in the original.
// When hq is enabled each channel's raw sample is routed through its own
// HQPipeline before being written out, per HighQualityAudioPipeline's
// oversample/filter/decimate/DC-block chain.
type SampleGenerator struct {
	core       *ay38910.Core
	sampleRate int
	channels   int
	gain       float32

	ticksPerSample float64
	accumulator    float64

	hq [2]*HQPipeline

	framesGenerated uint64
}

// NewSampleGenerator creates a generator pulling ticks from core at a rate
// derived from core's configured clock frequency and the requested
// sampleRate. gain scales every generated frame and is clamped to [0, 1].
// The number of channels per frame, and whether the optional
// high-quality pipeline processes each channel, come from core's Config.
func NewSampleGenerator(core *ay38910.Core, sampleRate int, gain float32) (*SampleGenerator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio: sample_rate must be > 0, got %d: %w", sampleRate, ay38910.ErrInvalidValue)
	}
	if gain < 0 {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}
	cfg := core.Config()
	channels := cfg.Channels
	if channels != 1 && channels != 2 {
		channels = 1
	}
	g := &SampleGenerator{
		core:           core,
		sampleRate:     sampleRate,
		channels:       channels,
		gain:           gain,
		ticksPerSample: cfg.ClockFrequency / float64(sampleRate),
	}
	if cfg.EnableHQAudio {
		for c := 0; c < channels; c++ {
			g.hq[c] = NewHQPipeline()
		}
	}
	return g, nil
}

// Channels reports the number of interleaved channels each frame carries.
func (g *SampleGenerator) Channels() int { return g.channels }

// GenerateSamples produces count frames — count raw float32 values for a
// mono generator, or count*Channels() interleaved L/R values for a stereo
// one — advancing the underlying core by the corresponding number of
// master-clock ticks one frame at a time.
func (g *SampleGenerator) GenerateSamples(count int) []float32 {
	out := make([]float32, count*g.channels)
	for i := 0; i < count; i++ {
		g.accumulator += g.ticksPerSample
		ticks := uint64(math.Floor(g.accumulator))
		g.accumulator -= float64(ticks)
		if ticks > 0 {
			g.core.Tick(ticks)
		}
		if g.channels == 2 {
			left, right := g.core.StereoOutput()
			out[2*i] = g.process(0, left)
			out[2*i+1] = g.process(1, right)
		} else {
			out[i] = g.process(0, g.core.MixedOutput())
		}
	}
	g.framesGenerated += uint64(count)
	return out
}

// process applies the optional per-channel HQ pipeline, then the output
// gain, to one raw sample from channel ch (0=mono/left, 1=right).
func (g *SampleGenerator) process(ch int, sample float32) float32 {
	if g.hq[ch] != nil {
		sample = float32(g.hq[ch].Process(float64(sample)))
	}
	return sample * g.gain
}

// FramesGenerated is the running total of frames produced since creation or
// the last ResetStatistics call.
func (g *SampleGenerator) FramesGenerated() uint64 { return g.framesGenerated }

// ResetStatistics zeroes the running frame counter.
func (g *SampleGenerator) ResetStatistics() { g.framesGenerated = 0 }
