package ay38910

import "testing"

func TestGatedTruthTable(t *testing.T) {
	cases := []struct {
		tone, noise, disableTone, disableNoise bool
		want                                    bool
	}{
		{false, false, false, false, false},
		{true, false, false, false, true},
		{false, true, false, false, true},
		{true, true, false, false, true},
		{true, false, true, false, false}, // tone disabled, tone alone gated off
		{false, true, true, false, true},  // tone disabled, noise passes
		{true, false, false, true, true},  // noise disabled, tone passes
		{false, true, false, true, false}, // noise disabled, noise alone gated off
		{true, true, true, true, false},   // both disabled -> silence
	}
	for _, c := range cases {
		got := gated(c.tone, c.noise, c.disableTone, c.disableNoise)
		if got != c.want {
			t.Fatalf("gated(tone=%v, noise=%v, dT=%v, dN=%v) = %v, want %v",
				c.tone, c.noise, c.disableTone, c.disableNoise, got, c.want)
		}
	}
}

func TestChannelLevelFixedVolumeDoubles(t *testing.T) {
	for k := uint8(0); k < 16; k++ {
		got := ChannelLevel(k, 0)
		want := k << 1
		if got != want {
			t.Fatalf("ChannelLevel(%d, envelope=0) = %d, want %d", k, got, want)
		}
	}
}

func TestChannelLevelEnvelopeModeIgnoresFixedBits(t *testing.T) {
	got := ChannelLevel(0x10|0x05, 17)
	if got != 17 {
		t.Fatalf("ChannelLevel with envelope bit set = %d, want 17 (envelope level)", got)
	}
}

func TestMixerOutputsSilentWhenAllChannelsGatedOff(t *testing.T) {
	vt, err := NewVolumeTable(ChipYM2149)
	if err != nil {
		t.Fatalf("NewVolumeTable: %v", err)
	}
	m := NewMixer(vt)
	out, err := m.ChannelOutputs([3]bool{true, true, true}, true, 0x3F, [3]uint8{15, 15, 15}, 31)
	if err != nil {
		t.Fatalf("ChannelOutputs: %v", err)
	}
	if out != ([3]float32{0, 0, 0}) {
		t.Fatalf("expected silence, got %v", out)
	}
}
