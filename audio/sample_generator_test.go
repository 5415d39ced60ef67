package audio

import (
	"testing"

	"github.com/zotley-labs/ay38910"
)

func newTestCore(t *testing.T) *ay38910.Core {
	t.Helper()
	cfg, err := ay38910.NewConfig(ay38910.DefaultConfig())
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	core, err := ay38910.NewCore(cfg)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	return core
}

func TestNewSampleGeneratorRejectsBadSampleRate(t *testing.T) {
	core := newTestCore(t)
	if _, err := NewSampleGenerator(core, 0, 1); err == nil {
		t.Fatalf("sampleRate=0 should be rejected")
	}
}

func TestNewSampleGeneratorClampsGain(t *testing.T) {
	core := newTestCore(t)
	g, err := NewSampleGenerator(core, 44100, 5)
	if err != nil {
		t.Fatalf("NewSampleGenerator: %v", err)
	}
	if g.gain != 1 {
		t.Fatalf("gain should clamp to 1, got %v", g.gain)
	}
}

func TestSampleGeneratorSilentCoreProducesZeroFrames(t *testing.T) {
	core := newTestCore(t)
	g, err := NewSampleGenerator(core, 44100, 1)
	if err != nil {
		t.Fatalf("NewSampleGenerator: %v", err)
	}
	frames := g.GenerateSamples(1000)
	for i, f := range frames {
		if f != 0 {
			t.Fatalf("frame %d = %v, want 0 on a silent core", i, f)
		}
	}
	if g.FramesGenerated() != 1000 {
		t.Fatalf("FramesGenerated() = %d, want 1000", g.FramesGenerated())
	}
}

func TestSampleGeneratorAccumulatorHasNoLongRunDrift(t *testing.T) {
	core := newTestCore(t)
	g, err := NewSampleGenerator(core, 44100, 1)
	if err != nil {
		t.Fatalf("NewSampleGenerator: %v", err)
	}
	_ = core.Write(ay38910.RegToneAFine, 50)
	_ = core.Write(ay38910.RegMixerControl, 0x3E)
	_ = core.Write(ay38910.RegVolumeA, 0x0F)

	g.GenerateSamples(100_000)
	// After 100000 frames at 44100Hz against a 2MHz clock, the accumulator's
	// fractional remainder should stay within one tick of zero drift.
	if g.accumulator < 0 || g.accumulator >= 1 {
		t.Fatalf("accumulator = %v out of the expected [0, 1) range", g.accumulator)
	}
}

func TestSampleGeneratorResetStatistics(t *testing.T) {
	core := newTestCore(t)
	g, err := NewSampleGenerator(core, 44100, 1)
	if err != nil {
		t.Fatalf("NewSampleGenerator: %v", err)
	}
	g.GenerateSamples(10)
	g.ResetStatistics()
	if g.FramesGenerated() != 0 {
		t.Fatalf("FramesGenerated() after ResetStatistics = %d, want 0", g.FramesGenerated())
	}
}

func newStereoTestCore(t *testing.T) *ay38910.Core {
	t.Helper()
	cfg := ay38910.DefaultConfig()
	cfg.Channels = 2
	validated, err := ay38910.NewConfig(cfg)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	core, err := ay38910.NewCore(validated)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	return core
}

func TestSampleGeneratorStereoProducesInterleavedFrames(t *testing.T) {
	core := newStereoTestCore(t)
	g, err := NewSampleGenerator(core, 44100, 1)
	if err != nil {
		t.Fatalf("NewSampleGenerator: %v", err)
	}
	if g.Channels() != 2 {
		t.Fatalf("Channels() = %d, want 2", g.Channels())
	}
	frames := g.GenerateSamples(500)
	if len(frames) != 500*2 {
		t.Fatalf("len(frames) = %d, want %d", len(frames), 500*2)
	}
}

func TestSampleGeneratorMonoProducesOneElementPerFrame(t *testing.T) {
	core := newTestCore(t)
	g, err := NewSampleGenerator(core, 44100, 1)
	if err != nil {
		t.Fatalf("NewSampleGenerator: %v", err)
	}
	if g.Channels() != 1 {
		t.Fatalf("Channels() = %d, want 1", g.Channels())
	}
	frames := g.GenerateSamples(500)
	if len(frames) != 500 {
		t.Fatalf("len(frames) = %d, want 500", len(frames))
	}
}

func TestSampleGeneratorHQPipelineSilentCoreStaysSilent(t *testing.T) {
	cfg := ay38910.DefaultConfig()
	cfg.EnableHQAudio = true
	validated, err := ay38910.NewConfig(cfg)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	core, err := ay38910.NewCore(validated)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	g, err := NewSampleGenerator(core, 44100, 1)
	if err != nil {
		t.Fatalf("NewSampleGenerator: %v", err)
	}
	if g.hq[0] == nil {
		t.Fatalf("EnableHQAudio should construct an HQPipeline for channel 0")
	}
	frames := g.GenerateSamples(1000)
	for i, f := range frames {
		if f != 0 {
			t.Fatalf("frame %d = %v, want 0 on a silent core routed through the HQ pipeline", i, f)
		}
	}
}
