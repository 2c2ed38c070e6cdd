// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cielut

import "testing"

func TestLuminanceCIE1931Bounds(t *testing.T) {
	if got := luminanceCIE1931(0, 100); got != 0 {
		t.Errorf("luminanceCIE1931(0, 100) = %d, want 0", got)
	}
	max := uint16((uint32(1) << BitPlanes) - 1)
	if got := luminanceCIE1931(255, 100); got != max {
		t.Errorf("luminanceCIE1931(255, 100) = %d, want %d", got, max)
	}
}

func TestLuminanceCIE1931Monotonic(t *testing.T) {
	var prev uint16
	for c := 0; c < 256; c++ {
		got := luminanceCIE1931(uint8(c), 100)
		if got < prev {
			t.Fatalf("luminanceCIE1931(%d, 100) = %d is less than previous value %d", c, got, prev)
		}
		prev = got
	}
}

func TestLookupRGBMatchesTable(t *testing.T) {
	table := New()
	r, g, b := table.LookupRGB(50, 10, 20, 30)
	wantR := luminanceCIE1931(10, 50)
	wantG := luminanceCIE1931(20, 50)
	wantB := luminanceCIE1931(30, 50)
	if r != wantR || g != wantG || b != wantB {
		t.Errorf("LookupRGB(50, 10, 20, 30) = (%d, %d, %d), want (%d, %d, %d)", r, g, b, wantR, wantG, wantB)
	}
}

func TestLowBrightnessDimsOutput(t *testing.T) {
	table := New()
	bright, _, _ := table.LookupRGB(100, 255, 0, 0)
	dim, _, _ := table.LookupRGB(10, 255, 0, 0)
	if dim >= bright {
		t.Errorf("LookupRGB at brightness 10 (%d) should be dimmer than at 100 (%d)", dim, bright)
	}
}
