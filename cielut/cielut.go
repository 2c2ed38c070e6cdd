// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cielut precomputes CIE-1931 perceptual luminance correction so
// that a panel's 11-bit PWM output looks linear to the human eye instead of
// to a photometer.
package cielut

// BitPlanes is the number of bit-planes the PWM output is dithered across.
const BitPlanes = 11

// Table holds, for every brightness percentage from 1 to 100, the
// corrected 11-bit output value for each of the 256 possible 8-bit input
// levels.
type Table struct {
	perBrightness [100][256]uint16
}

// New builds a Table via the CIE-1931 lightness formula.
func New() *Table {
	t := &Table{}
	for brightness := 1; brightness <= 100; brightness++ {
		for c := 0; c < 256; c++ {
			t.perBrightness[brightness-1][c] = luminanceCIE1931(uint8(c), uint8(brightness))
		}
	}
	return t
}

// luminanceCIE1931 maps an 8-bit channel value c, scaled by a 1-100
// brightness percentage, to an 11-bit PWM value using the CIE-1931
// lightness formula: linear below a knee, a cubic curve above it.
func luminanceCIE1931(c, brightness uint8) uint16 {
	outFactor := float64((uint32(1) << BitPlanes) - 1)
	v := float64(c) * float64(brightness) / 255.0

	var v2 float64
	if v <= 8.0 {
		v2 = v / 902.3
	} else {
		v2 = ((v + 16.0) / 116.0)
		v2 = v2 * v2 * v2
	}
	return uint16(outFactor * v2)
}

// LookupRGB returns the corrected 11-bit (r, g, b) values for the given
// 8-bit color at the given brightness percentage (1-100).
func (t *Table) LookupRGB(brightness, r, g, b uint8) (uint16, uint16, uint16) {
	row := &t.perBrightness[brightness-1]
	return row[r], row[g], row[b]
}
