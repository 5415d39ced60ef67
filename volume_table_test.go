package ay38910

import "testing"

func TestVolumeTableZeroIsSilence(t *testing.T) {
	for _, chip := range []ChipType{ChipAY38910, ChipYM2149} {
		vt, err := NewVolumeTable(chip)
		if err != nil {
			t.Fatalf("NewVolumeTable(%s): %v", chip, err)
		}
		amp, err := vt.Amplitude(0)
		if err != nil {
			t.Fatalf("Amplitude(0): %v", err)
		}
		if amp != 0 {
			t.Fatalf("%s level 0 amplitude = %v, want 0", chip, amp)
		}
	}
}

func TestVolumeTableMonotonicallyIncreasing(t *testing.T) {
	for _, chip := range []ChipType{ChipAY38910, ChipYM2149} {
		vt, err := NewVolumeTable(chip)
		if err != nil {
			t.Fatalf("NewVolumeTable(%s): %v", chip, err)
		}
		prev := float32(-1)
		for level := uint8(0); level < 32; level++ {
			amp, err := vt.Amplitude(level)
			if err != nil {
				t.Fatalf("Amplitude(%d): %v", level, err)
			}
			if amp < prev {
				t.Fatalf("%s table not monotonic at level %d: %v < %v", chip, level, amp, prev)
			}
			prev = amp
		}
	}
}

func TestVolumeTableAYExpandsByDoubling(t *testing.T) {
	vt, err := NewVolumeTable(ChipAY38910)
	if err != nil {
		t.Fatalf("NewVolumeTable: %v", err)
	}
	for level := uint8(0); level < 16; level++ {
		a, err := vt.PCM16(2 * level)
		if err != nil {
			t.Fatalf("PCM16(%d): %v", 2*level, err)
		}
		b, err := vt.PCM16(2*level + 1)
		if err != nil {
			t.Fatalf("PCM16(%d): %v", 2*level+1, err)
		}
		if a != b {
			t.Fatalf("AY table level %d: pcm[%d]=%d != pcm[%d]=%d", level, 2*level, a, 2*level+1, b)
		}
	}
}

func TestVolumeTableRejectsOutOfRangeLevel(t *testing.T) {
	vt, err := NewVolumeTable(ChipYM2149)
	if err != nil {
		t.Fatalf("NewVolumeTable: %v", err)
	}
	if _, err := vt.Amplitude(32); err == nil {
		t.Fatalf("Amplitude(32) should fail, table has levels [0,31]")
	}
}
