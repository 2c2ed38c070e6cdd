// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix

import (
	"github.com/rpi-hub75/rgbmatrix/hubgpio"
	"github.com/rpi-hub75/rgbmatrix/hubmap"
)

// PanelInitFunc runs once, before the refresh goroutine starts streaming
// frames, to load a configuration register sequence some driver ICs
// (FM6126, FM6127, and compatible clones) require before they will light
// up at all. A nil PanelInitFunc means no init sequence runs.
type PanelInitFunc func(gpio *hubgpio.GPIO, mapping hubmap.HardwareMapping, cols int)

// streamConfigWord clocks one 16-bit configuration word into the driver
// IC's shift register, strobing the last strobeWidth columns so it
// latches into the correct register. bitsOn/bitsOff are the GPIO level to
// drive for each clocked bit; mask is every bit this sequence touches.
func streamConfigWord(gpio *hubgpio.GPIO, mapping hubmap.HardwareMapping, cols int, word uint16, strobeWidth int, bitsOn, bitsOff, mask uint32) {
	for c := 0; c < cols; c++ {
		value := bitsOff
		if word&(1<<uint(c%16)) != 0 {
			value = bitsOn
		}
		if c >= cols-strobeWidth {
			value |= mapping.Strobe
		}
		gpio.WriteMaskedBits(value, mask)
		gpio.SetBits(mapping.Clock)
		gpio.ClearBits(mapping.Clock)
	}
	gpio.ClearBits(mapping.Strobe)
}

// FM6126PanelInit loads the FM6126's two configuration registers: register
// 12 (full brightness) latched over the last 12 columns, then register 13
// (panel on) latched over the last 13.
func FM6126PanelInit(gpio *hubgpio.GPIO, mapping hubmap.HardwareMapping, cols int) {
	const (
		regFullBright uint16 = 0b0111111111111111
		regPanelOn    uint16 = 0b0000000001000000
	)
	bitsOn := mapping.Panels.UsedBits() | mapping.A
	bitsOff := mapping.A
	mask := bitsOn | mapping.Strobe

	gpio.ClearBits(mapping.Clock | mapping.Strobe)
	streamConfigWord(gpio, mapping, cols, regFullBright, 12, bitsOn, bitsOff, mask)
	streamConfigWord(gpio, mapping, cols, regPanelOn, 13, bitsOn, bitsOff, mask)
}

// FM6127PanelInit loads the FM6127's three configuration registers; it is
// otherwise identical to the FM6126 sequence with an added register 3 that
// enables automatic bad-pixel suppression.
func FM6127PanelInit(gpio *hubgpio.GPIO, mapping hubmap.HardwareMapping, cols int) {
	const (
		reg1 uint16 = 0b1111111111001110
		reg2 uint16 = 0b1110000001100010
		reg3 uint16 = 0b0101111100000000
	)
	bitsOn := mapping.Panels.ColorBits[0].UsedBits() | mapping.A
	var bitsOff uint32
	mask := bitsOn | mapping.Strobe

	gpio.ClearBits(mapping.Clock | mapping.Strobe)
	streamConfigWord(gpio, mapping, cols, reg1, 12, bitsOn, bitsOff, mask)
	streamConfigWord(gpio, mapping, cols, reg2, 13, bitsOn, bitsOff, mask)
	streamConfigWord(gpio, mapping, cols, reg3, 11, bitsOn, bitsOff, mask)
}
