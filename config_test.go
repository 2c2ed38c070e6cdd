// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix

import (
	"errors"
	"testing"

	"github.com/rpi-hub75/rgbmatrix/hubmap"
	"github.com/rpi-hub75/rgbmatrix/rowaddress"
)

func TestResolveConfigDefaults(t *testing.T) {
	r, err := resolveConfig(Config{Rows: 32, Cols: 64})
	if err != nil {
		t.Fatal(err)
	}
	if r.RefreshRateHz != 120 {
		t.Errorf("RefreshRateHz = %d, want 120", r.RefreshRateHz)
	}
	if r.PWMBits != 11 {
		t.Errorf("PWMBits = %d, want 11", r.PWMBits)
	}
	if r.PWMLSBNanoseconds != 130 {
		t.Errorf("PWMLSBNanoseconds = %d, want 130", r.PWMLSBNanoseconds)
	}
	if r.ChainLength != 1 || r.Parallel != 1 {
		t.Errorf("ChainLength/Parallel = %d/%d, want 1/1", r.ChainLength, r.Parallel)
	}
	if r.LEDBrightness != 100 {
		t.Errorf("LEDBrightness = %d, want 100", r.LEDBrightness)
	}
	if r.Logger == nil {
		t.Error("Logger should default to a non-nil logger")
	}
	if r.rowSetterName != rowaddress.Direct {
		t.Errorf("rowSetterName = %v, want Direct", r.rowSetterName)
	}
	if want := hubmap.NewRegular(); r.hardwareMapping != want {
		t.Errorf("hardwareMapping = %+v, want Regular %+v", r.hardwareMapping, want)
	}
}

func TestResolveConfigValidation(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
	}{
		{"pwm bits too high", Config{Rows: 32, Cols: 64, PWMBits: 12}},
		{"brightness too high", Config{Rows: 32, Cols: 64, LEDBrightness: 101}},
		{"dither bits out of range", Config{Rows: 32, Cols: 64, DitherBits: 3}},
		{"unknown hardware mapping", Config{Rows: 32, Cols: 64, HardwareMapping: "not-a-mapping"}},
		{"parallel exceeds mapping", Config{Rows: 32, Cols: 64, Parallel: 99}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolveConfig(tc.cfg)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("err = %v, want wrapping ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestResolveConfigDitherPattern(t *testing.T) {
	testCases := []struct {
		bits int
		want []int
	}{
		{0, []int{0, 0, 0, 0}},
		{1, []int{0, 1, 0, 1}},
		{2, []int{0, 1, 2, 2}},
	}
	for _, tc := range testCases {
		r, err := resolveConfig(Config{Rows: 32, Cols: 64, DitherBits: tc.bits})
		if err != nil {
			t.Fatal(err)
		}
		if len(r.ditherPattern) != len(tc.want) {
			t.Fatalf("dither_bits=%d: pattern length = %d, want %d", tc.bits, len(r.ditherPattern), len(tc.want))
		}
		for i := range tc.want {
			if r.ditherPattern[i] != tc.want[i] {
				t.Errorf("dither_bits=%d: pattern[%d] = %d, want %d", tc.bits, i, r.ditherPattern[i], tc.want[i])
			}
		}
	}
}
