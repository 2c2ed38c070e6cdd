// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix

import "testing"

func TestBitplaneTimingsNSNoDithering(t *testing.T) {
	timings := bitplaneTimingsNS(130, 0)
	if len(timings) != bitPlanes {
		t.Fatalf("len = %d, want %d", len(timings), bitPlanes)
	}
	want := uint32(130)
	for b, got := range timings {
		if got != want {
			t.Errorf("timings[%d] = %d, want %d", b, got, want)
		}
		want *= 2
	}
}

func TestBitplaneTimingsNSWithDithering(t *testing.T) {
	timings := bitplaneTimingsNS(130, 2)
	want := []uint32{130, 130, 130, 260, 520, 1040, 2080, 4160, 8320, 16640, 33280}
	if len(timings) != len(want) {
		t.Fatalf("len = %d, want %d", len(timings), len(want))
	}
	for b := range want {
		if timings[b] != want[b] {
			t.Errorf("timings[%d] = %d, want %d", b, timings[b], want[b])
		}
	}
}
