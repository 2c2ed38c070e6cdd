// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "testing"

// fakeRegion backs a region with plain heap memory instead of /dev/mem, so
// the bit-twiddling logic can be exercised without root or real hardware.
func fakeRegion(sizeBytes int) *region {
	return &region{mem: make([]byte, sizeBytes)}
}

func TestFunctionBits(t *testing.T) {
	tests := []struct {
		fn   Function
		bits uint32
	}{
		{Input, 0b000},
		{Output, 0b001},
		{Alt0, 0b100},
		{Alt1, 0b101},
		{Alt2, 0b110},
		{Alt3, 0b111},
		{Alt4, 0b011},
		{Alt5, 0b010},
	}
	for _, tt := range tests {
		if got := tt.fn.bits(); got != tt.bits {
			t.Errorf("Function(%d).bits() = %b, want %b", tt.fn, got, tt.bits)
		}
	}
}

func TestGPIOSelectFunction(t *testing.T) {
	g := &GPIO{r: fakeRegion(gpSizeBytes)}

	g.SelectFunction(18, Alt5)
	// Pin 18 is in register index 1, shift (18%10)*3 = 24.
	got := g.r.load(gpFSEL0 + 4)
	want := Alt5.bits() << 24
	if got != want {
		t.Errorf("after SelectFunction(18, Alt5): fsel1 = %#x, want %#x", got, want)
	}

	// Selecting a different function on an adjacent field must not disturb it.
	g.SelectFunction(19, Output)
	got = g.r.load(gpFSEL0 + 4)
	want |= Output.bits() << 27
	if got != want {
		t.Errorf("after SelectFunction(19, Output): fsel1 = %#x, want %#x", got, want)
	}
}

func TestGPIOSetClrLevel(t *testing.T) {
	g := &GPIO{r: fakeRegion(gpSizeBytes)}
	g.WriteSetBits(0b101)
	if got := g.r.load(gpSET0); got != 0b101 {
		t.Errorf("WriteSetBits: GPSET0 = %#b, want %#b", got, 0b101)
	}
	g.WriteClrBits(0b011)
	if got := g.r.load(gpCLR0); got != 0b011 {
		t.Errorf("WriteClrBits: GPCLR0 = %#b, want %#b", got, 0b011)
	}
}

func TestClockManagerInitPWMDividerRejectsOutOfRange(t *testing.T) {
	c := &ClockManager{r: fakeRegion(cmSizeBytes)}
	if err := c.InitPWMDivider(1 << 12); err == nil {
		t.Error("InitPWMDivider(4096) should fail: divider must fit in 12 bits")
	}
}

func TestClockManagerInitPWMDividerSequence(t *testing.T) {
	c := &ClockManager{r: fakeRegion(cmSizeBytes)}
	if err := c.InitPWMDivider(5); err != nil {
		t.Fatalf("InitPWMDivider(5): %v", err)
	}
	gotCtl := c.r.load(cmPWMCTL)
	wantCtl := uint32(cmPasswd | cmPWMCTLEnab | cmSrcPLLD)
	if gotCtl != wantCtl {
		t.Errorf("final CM_PWMCTL = %#x, want %#x", gotCtl, wantCtl)
	}
	gotDiv := c.r.load(cmPWMDIV)
	wantDiv := uint32(cmPasswd) | (5 << 12)
	if gotDiv != wantDiv {
		t.Errorf("CM_PWMDIV = %#x, want %#x", gotDiv, wantDiv)
	}
}

func TestPWMFIFOEmpty(t *testing.T) {
	p := &PWM{r: fakeRegion(pwmSizeBytes)}
	if p.FIFOEmpty() {
		t.Error("FIFOEmpty() = true on freshly-zeroed register, want false")
	}
	p.r.store(pwmSTA, pwmSTAEmpt1)
	if !p.FIFOEmpty() {
		t.Error("FIFOEmpty() = false with PWM_STA_EMPT1 set, want true")
	}
	p.r.store(pwmSTA, 0)
	if p.FIFOEmpty() {
		t.Error("FIFOEmpty() = true with PWM_STA_EMPT1 clear, want false")
	}
}

func TestTimerSleepAtMostNoSleepBelowThreshold(t *testing.T) {
	tm := &Timer{r: fakeRegion(stSizeBytes), sleepFactor: 0.4}
	// Below minSysSleepTimeUS, SleepAtMost should return immediately.
	tm.SleepAtMost(10)
}
