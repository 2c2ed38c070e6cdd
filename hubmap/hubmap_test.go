// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hubmap

import "testing"

func TestParse(t *testing.T) {
	if _, err := Parse("AdafruitHatPwm"); err != nil {
		t.Errorf("Parse(AdafruitHatPwm): %v", err)
	}
	if _, err := Parse("NotAMapping"); err == nil {
		t.Error("Parse(NotAMapping) should have failed")
	}
}

func TestAdafruitHatPWMOverridesOutputEnable(t *testing.T) {
	hat := NewAdafruitHat()
	pwm := NewAdafruitHatPWM()
	if pwm.OutputEnable != bits(18) {
		t.Errorf("AdafruitHatPwm.OutputEnable = %#x, want GPIO18", pwm.OutputEnable)
	}
	if pwm.Clock != hat.Clock || pwm.Strobe != hat.Strobe || pwm.A != hat.A {
		t.Error("AdafruitHatPwm should only override output_enable")
	}
}

func TestRegularMaxParallelChains(t *testing.T) {
	if got := NewRegular().MaxParallelChains(); got != 3 {
		t.Errorf("NewRegular().MaxParallelChains() = %d, want 3", got)
	}
	if got := NewAdafruitHat().MaxParallelChains(); got != 1 {
		t.Errorf("NewAdafruitHat().MaxParallelChains() = %d, want 1", got)
	}
}

func TestColorClockMask(t *testing.T) {
	h := NewRegular()
	mask := h.ColorClockMask(1)
	if mask&h.Clock == 0 {
		t.Error("ColorClockMask must always include the clock bit")
	}
	if mask&h.Panels.ColorBits[1].UsedBits() != 0 {
		t.Error("ColorClockMask(1) should not include chain 1's bits")
	}
	mask2 := h.ColorClockMask(2)
	if mask2&h.Panels.ColorBits[1].UsedBits() == 0 {
		t.Error("ColorClockMask(2) should include chain 1's bits")
	}
}

func TestLedSequenceGetGPIO(t *testing.T) {
	const r, g, b = 0b001, 0b010, 0b100
	tests := []struct {
		seq                LedSequence
		first, second, third uint32
	}{
		{RGB, r, g, b},
		{RBG, r, b, g},
		{GRB, g, r, b},
		{GBR, g, b, r},
		{BRG, b, r, g},
		{BGR, b, g, r},
	}
	for _, tt := range tests {
		if got := tt.seq.GetGPIO(FirstChannel, r, g, b); got != tt.first {
			t.Errorf("%v.GetGPIO(First) = %#b, want %#b", tt.seq, got, tt.first)
		}
		if got := tt.seq.GetGPIO(SecondChannel, r, g, b); got != tt.second {
			t.Errorf("%v.GetGPIO(Second) = %#b, want %#b", tt.seq, got, tt.second)
		}
		if got := tt.seq.GetGPIO(ThirdChannel, r, g, b); got != tt.third {
			t.Errorf("%v.GetGPIO(Third) = %#b, want %#b", tt.seq, got, tt.third)
		}
	}
}

func TestParseLedSequenceInvalid(t *testing.T) {
	if _, err := ParseLedSequence("XYZ"); err == nil {
		t.Error("ParseLedSequence(XYZ) should fail")
	}
}
