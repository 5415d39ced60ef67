package ay38910

import "testing"

func TestCoreStateRoundTrip(t *testing.T) {
	cfg, err := NewConfig(DefaultConfig())
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	core, err := NewCore(cfg)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	writes := []struct{ addr, value uint8 }{
		{RegToneAFine, 0x34},
		{RegToneACoarse, 0x01},
		{RegMixerControl, 0x38},
		{RegVolumeA, 0x0F},
		{RegNoisePeriod, 0x10},
		{RegEnvelopeFine, 0x20},
		{RegEnvelopeCoarse, 0x00},
		{RegEnvelopeShape, 0x0A},
	}
	for _, w := range writes {
		if err := core.Write(w.addr, w.value); err != nil {
			t.Fatalf("Write(%d, %d): %v", w.addr, w.value, err)
		}
	}
	core.Tick(10_000)

	saved := core.GetState()

	other, err := NewCore(cfg)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	if err := other.SetState(saved); err != nil {
		t.Fatalf("SetState: %v", err)
	}

	const steps = 5000
	for i := 0; i < steps; i++ {
		core.Tick(16)
		other.Tick(16)
		a := core.MixedOutput()
		b := other.MixedOutput()
		if a != b {
			t.Fatalf("mixed output diverged at tick %d: %v != %v", i, a, b)
		}
	}
}

func TestCoreSetStateRejectsWrongDeviceType(t *testing.T) {
	cfg, err := NewConfig(DefaultConfig())
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	core, err := NewCore(cfg)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	s := core.GetState()
	s.DeviceType = "Z80"
	if err := core.SetState(s); err == nil {
		t.Fatalf("SetState should reject mismatched device_type")
	}
}

func TestCoreSetStateRejectsWrongAPIVersion(t *testing.T) {
	cfg, err := NewConfig(DefaultConfig())
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	core, err := NewCore(cfg)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	s := core.GetState()
	s.APIVersion = "9.9"
	if err := core.SetState(s); err == nil {
		t.Fatalf("SetState should reject mismatched api_version")
	}
}

func TestCoreSetStateLeavesCoreUntouchedOnError(t *testing.T) {
	cfg, err := NewConfig(DefaultConfig())
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	core, err := NewCore(cfg)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	if err := core.Write(RegToneAFine, 0x42); err != nil {
		t.Fatalf("Write: %v", err)
	}
	before := core.GetState()

	bad := before
	bad.Noise.LFSRValue = 0 // zero LFSR value is invalid, generator's SetState must reject it

	if err := core.SetState(bad); err == nil {
		t.Fatalf("SetState with invalid sub-state should fail")
	}
	after := core.GetState()
	if after.Registers != before.Registers {
		t.Fatalf("SetState failure must leave registers untouched")
	}
}
