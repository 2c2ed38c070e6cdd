// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hubmap describes how a HUB75 ribbon cable's logical signals
// (output-enable, clock, strobe, row-address lines A-E, and the six RGB
// color channels per parallel chain) are wired to specific Raspberry Pi
// GPIO pins, for each of the well-known adapter board layouts.
package hubmap

// bits ORs together the single-bit masks for each given GPIO pin number.
func bits(pins ...uint) uint32 {
	var mask uint32
	for _, p := range pins {
		mask |= 1 << p
	}
	return mask
}
