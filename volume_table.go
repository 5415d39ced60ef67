package ay38910

// VolumeTable maps a 5-bit level (0-31) to a normalized amplitude in [0, 1].
// The underlying curve is one of two documented logarithmic DAC tables,
// selected at construction time by ChipType (Design Notes, "Dynamic
// dispatch" — chip type differs only here, never as a subtype).
type VolumeTable struct {
	chipType ChipType
	pcm      [32]uint16
	float    [32]float32
}

// ymDAC32 is the YM2149's native 32-level AYUMI-derived DAC curve.
var ymDAC32 = [32]uint16{
	0, 418, 608, 882, 1281, 1859, 2700, 3920,
	5691, 8262, 11996, 17415, 22500, 27500, 30000, 32768,
	35000, 37500, 40000, 42500, 45000, 47500, 50000, 52500,
	55000, 57500, 60000, 62500, 64000, 65000, 65500, 65535,
}

// ayDAC16 is the AY-3-8910's native 16-level AYUMI-derived DAC curve.
var ayDAC16 = [16]uint16{
	0, 837, 1215, 1764, 2561, 3718, 5400, 7839,
	11381, 16523, 23991, 34830, 45000, 55000, 60000, 65535,
}

// NewVolumeTable builds the PCM and normalized-float lookup tables for the
// given chip type. YM2149 uses its native 32-level curve; AY-3-8910's
// 16-level curve is expanded to 32 entries by doubling each step at indices
// 2k and 2k+1 (see DESIGN.md, "Volume table resolution").
func NewVolumeTable(chipType ChipType) (*VolumeTable, error) {
	vt := &VolumeTable{chipType: chipType}
	switch chipType {
	case ChipYM2149:
		vt.pcm = ymDAC32
	case ChipAY38910:
		for k := 0; k < 16; k++ {
			vt.pcm[2*k] = ayDAC16[k]
			vt.pcm[2*k+1] = ayDAC16[k]
		}
	default:
		return nil, invalidValue("chip_type", chipType, "AY-3-8910 or YM2149")
	}
	for i, v := range vt.pcm {
		vt.float[i] = float32(v) / 65535.0
	}
	if err := vt.validate(); err != nil {
		return nil, err
	}
	return vt, nil
}

func (vt *VolumeTable) validate() error {
	if vt.pcm[0] != 0 {
		return invalidValue("volume_table[0]", vt.pcm[0], "0 (silence)")
	}
	for i := 1; i < len(vt.pcm); i++ {
		if vt.pcm[i] < vt.pcm[i-1] {
			return invalidValue("volume_table", i, "monotonic non-decreasing")
		}
	}
	return nil
}

// Amplitude returns the normalized amplitude ([0, 1]) for a 5-bit level.
func (vt *VolumeTable) Amplitude(level uint8) (float32, error) {
	if level > 31 {
		return 0, invalidValue("volume_level", level, "[0, 31]")
	}
	return vt.float[level], nil
}

// PCM16 returns the 16-bit PCM equivalent for a 5-bit level.
func (vt *VolumeTable) PCM16(level uint8) (uint16, error) {
	if level > 31 {
		return 0, invalidValue("volume_level", level, "[0, 31]")
	}
	return vt.pcm[level], nil
}

// ChipType reports which DAC curve this table was built from.
func (vt *VolumeTable) ChipType() ChipType { return vt.chipType }

// Interpolate linearly interpolates between adjacent table entries for a
// fractional level, useful for smooth parameter sweeps in tooling built on
// top of Core.
func (vt *VolumeTable) Interpolate(level float64) (float32, error) {
	if level < 0 || level > 31 {
		return 0, invalidValue("volume_level", level, "[0.0, 31.0]")
	}
	lo := int(level)
	hi := lo + 1
	if hi > 31 {
		hi = 31
	}
	frac := float32(level - float64(lo))
	return vt.float[lo] + frac*(vt.float[hi]-vt.float[lo]), nil
}
