package ay38910

import "math"

// Mixer combines three tone bits, the shared noise bit, per-channel volume
// registers, and the envelope level into a normalized output sample
// (spec.md §4.6).
type Mixer struct {
	table    *VolumeTable
	panLeft  [3]float32
	panRight [3]float32
}

// NewMixer creates a mixer using the given volume table, with all three
// channels centered (equal-power pan of 0.5).
func NewMixer(table *VolumeTable) *Mixer {
	m := &Mixer{table: table}
	for ch := 0; ch < 3; ch++ {
		m.SetPan(ch, 0.5, true)
	}
	return m
}

// gated implements spec.md §4.6's per-channel gating formula from the
// mixer-control register's disable bits.
func gated(tone, noise, disableTone, disableNoise bool) bool {
	switch {
	case disableTone && disableNoise:
		return false
	case disableTone:
		return noise
	case disableNoise:
		return tone
	default:
		return tone || noise
	}
}

// ChannelLevel computes the 5-bit volume-table index for one channel: the
// envelope level if bit 4 of the volume register is set, otherwise the
// low-4-bit fixed value doubled to a 5-bit index (spec.md §4.6).
func ChannelLevel(volumeReg uint8, envelopeLevel uint8) uint8 {
	if volumeReg&0x10 != 0 {
		return envelopeLevel
	}
	return (volumeReg & 0x0F) << 1
}

// ChannelOutputs computes the three per-channel normalized amplitudes
// (before the overall volume scale), honoring gating and each channel's
// volume mode.
func (m *Mixer) ChannelOutputs(toneOutputs [3]bool, noiseOutput bool, mixerControl uint8, volumeRegs [3]uint8, envelopeLevel uint8) ([3]float32, error) {
	var out [3]float32
	for ch := 0; ch < 3; ch++ {
		disableTone := mixerControl&(1<<uint(ch)) != 0
		disableNoise := mixerControl&(1<<uint(ch+3)) != 0
		if !gated(toneOutputs[ch], noiseOutput, disableTone, disableNoise) {
			continue
		}
		level := ChannelLevel(volumeRegs[ch], envelopeLevel)
		amp, err := m.table.Amplitude(level)
		if err != nil {
			return out, err
		}
		out[ch] = amp
	}
	return out, nil
}

// MixedOutput sums the three channel amplitudes, applies the overall
// volume scale, and clamps to [-1, 1].
func (m *Mixer) MixedOutput(channelOutputs [3]float32, volumeScale float32) float32 {
	sum := (channelOutputs[0] + channelOutputs[1] + channelOutputs[2]) * volumeScale
	if sum > 1 {
		return 1
	}
	if sum < -1 {
		return -1
	}
	return sum
}

// SetPan sets channel ch's stereo position, pan ∈ [0, 1] (0 = hard left,
// 1 = hard right, 0.5 = center). equalPower selects a constant-power split
// (sqrt-based) versus a linear split. Supplementary (see SPEC_FULL.md
// "Supplemented features" — ported from the original mixer's
// set_panning/get_panning, which the distillation trimmed to a single
// sentence but never forbade).
func (m *Mixer) SetPan(ch int, pan float64, equalPower bool) error {
	if ch < 0 || ch > 2 {
		return invalidValue("channel", ch, "[0, 2]")
	}
	if pan < 0 || pan > 1 {
		return invalidValue("pan", pan, "[0, 1]")
	}
	if equalPower {
		m.panLeft[ch] = float32(math.Sqrt(1 - pan))
		m.panRight[ch] = float32(math.Sqrt(pan))
	} else {
		m.panLeft[ch] = float32(1 - pan)
		m.panRight[ch] = float32(pan)
	}
	return nil
}

// Pan returns channel ch's current (left, right) pan coefficients.
func (m *Mixer) Pan(ch int) (left, right float32, err error) {
	if ch < 0 || ch > 2 {
		return 0, 0, invalidValue("channel", ch, "[0, 2]")
	}
	return m.panLeft[ch], m.panRight[ch], nil
}

// StereoOutput applies each channel's pan coefficients and returns a
// (left, right) frame, clamped to [-1, 1].
func (m *Mixer) StereoOutput(channelOutputs [3]float32, volumeScale float32) (left, right float32) {
	for ch := 0; ch < 3; ch++ {
		v := channelOutputs[ch] * volumeScale
		left += v * m.panLeft[ch]
		right += v * m.panRight[ch]
	}
	return clamp1(left), clamp1(right)
}

func clamp1(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
