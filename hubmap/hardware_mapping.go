// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hubmap

import "fmt"

// ColorBits holds the GPIO bit masks of the six color channels (two
// sub-panels x RGB) for a single parallel chain.
type ColorBits struct {
	R1, G1, B1 uint32
	R2, G2, B2 uint32
}

// UsedBits returns every bit used by any channel of this chain.
func (c ColorBits) UsedBits() uint32 {
	return c.R1 | c.R2 | c.G1 | c.G2 | c.B1 | c.B2
}

// RedBits, GreenBits, and BlueBits return the GPIO bits carrying each color
// channel, across both sub-panels of this chain.
func (c ColorBits) RedBits() uint32   { return c.R1 | c.R2 }
func (c ColorBits) GreenBits() uint32 { return c.G1 | c.G2 }
func (c ColorBits) BlueBits() uint32  { return c.B1 | c.B2 }

// Panels holds the ColorBits for up to six parallel chains; unused chains
// are the zero value.
type Panels struct {
	ColorBits [6]ColorBits
}

// UsedBits returns every color bit used by any chain.
func (p Panels) UsedBits() uint32 {
	return p.RedBits() | p.GreenBits() | p.BlueBits()
}

// RedBits, GreenBits, and BlueBits return the GPIO bits carrying each color
// channel, across every parallel chain.
func (p Panels) RedBits() uint32 {
	var bits uint32
	for _, c := range p.ColorBits {
		bits |= c.RedBits()
	}
	return bits
}

func (p Panels) GreenBits() uint32 {
	var bits uint32
	for _, c := range p.ColorBits {
		bits |= c.GreenBits()
	}
	return bits
}

func (p Panels) BlueBits() uint32 {
	var bits uint32
	for _, c := range p.ColorBits {
		bits |= c.BlueBits()
	}
	return bits
}

// HardwareMapping pins every logical HUB75 signal to a GPIO bit mask for one
// adapter board layout.
type HardwareMapping struct {
	OutputEnable uint32
	Clock        uint32
	Strobe       uint32

	A, B, C, D, E uint32

	Panels Panels
}

// Name identifies a built-in HardwareMapping.
type Name string

const (
	Regular        Name = "Regular"
	RegularPi1     Name = "RegularPi1"
	AdafruitHat    Name = "AdafruitHat"
	AdafruitHatPWM Name = "AdafruitHatPwm"
	Classic        Name = "Classic"
	ClassicPi1     Name = "ClassicPi1"
)

// Parse resolves a built-in HardwareMapping by name.
func Parse(s string) (HardwareMapping, error) {
	switch Name(s) {
	case Regular:
		return NewRegular(), nil
	case RegularPi1:
		return NewRegularPi1(), nil
	case AdafruitHat:
		return NewAdafruitHat(), nil
	case AdafruitHatPWM:
		return NewAdafruitHatPWM(), nil
	case Classic:
		return NewClassic(), nil
	case ClassicPi1:
		return NewClassicPi1(), nil
	default:
		return HardwareMapping{}, fmt.Errorf("hubmap: %q is not a valid GPIO mapping", s)
	}
}

// UsedBits returns the output-enable, clock, strobe, and every color bit of
// this mapping. The row-address lines A-E are not included; the
// row-address setter reports the ones it drives.
func (h HardwareMapping) UsedBits() uint32 {
	return h.OutputEnable | h.Clock | h.Strobe | h.Panels.UsedBits()
}

// ColorClockMask returns the mask of bits toggled while clocking in pixel
// data: the color bits of the first `parallel` chains, plus the clock bit.
func (h HardwareMapping) ColorClockMask(parallel int) uint32 {
	var mask uint32
	for panel := 0; panel < 6; panel++ {
		if parallel > panel {
			mask |= h.Panels.ColorBits[panel].UsedBits()
		}
	}
	mask |= h.Clock
	return mask
}

// MaxParallelChains returns how many parallel chains this mapping wires up.
func (h HardwareMapping) MaxParallelChains() int {
	n := 0
	for _, c := range h.Panels.ColorBits {
		if c.UsedBits() > 0 {
			n++
		}
	}
	return n
}

// NewRegular is the regular hardware mapping used by the adapter PCBs.
func NewRegular() HardwareMapping {
	return HardwareMapping{
		OutputEnable: bits(18),
		Clock:        bits(17),
		Strobe:       bits(4),

		A: bits(22),
		B: bits(23),
		C: bits(24),
		D: bits(25),
		E: bits(15), // RxD kept free unless 1:64

		Panels: Panels{ColorBits: [6]ColorBits{
			// Parallel chain 0, RGB for both sub-panels.
			{
				R1: bits(11), // masks: SPI0_SCKL
				G1: bits(27), // Not on RPi1, Rev1; use RegularPi1 instead
				B1: bits(7),  // masks: SPI0_CE1
				R2: bits(8),  // masks: SPI0_CE0
				G2: bits(9),  // masks: SPI0_MISO
				B2: bits(10), // masks: SPI0_MOSI
			},
			// All the following are only available with 40 GPIO pins, on A+/B+/Pi2,3.
			{
				R1: bits(12),
				G1: bits(5),
				B1: bits(6),
				R2: bits(19),
				G2: bits(13),
				B2: bits(20),
			},
			{
				R1: bits(14), // masks TxD when parallel=3
				G1: bits(2),  // masks SDA when parallel=3
				B1: bits(3),  // masks SCL when parallel=3
				R2: bits(26),
				G2: bits(16),
				B2: bits(21),
			},
			{}, {}, {},
		}},
	}
}

// NewAdafruitHat is an unmodified Adafruit HAT.
func NewAdafruitHat() HardwareMapping {
	return HardwareMapping{
		OutputEnable: bits(4),
		Clock:        bits(17),
		Strobe:       bits(21),

		A: bits(22),
		B: bits(26),
		C: bits(27),
		D: bits(20),
		E: bits(24), // Needs manual wiring

		Panels: Panels{ColorBits: [6]ColorBits{
			{
				R1: bits(5),
				G1: bits(13),
				B1: bits(6),
				R2: bits(12),
				G2: bits(16),
				B2: bits(23),
			},
			{}, {}, {}, {}, {},
		}},
	}
}

// NewAdafruitHatPWM is an Adafruit HAT with the PWM modification: GPIO18 is
// used for output-enable instead of GPIO4, driven by hardware PWM.
func NewAdafruitHatPWM() HardwareMapping {
	h := NewAdafruitHat()
	h.OutputEnable = bits(18)
	return h
}

// NewRegularPi1 is the regular pin-out, but for Raspberry Pi1. The very
// first Pi1 Rev1 uses the same pin for GPIO-21 as later Pis use GPIO-27;
// this mapping works for both.
func NewRegularPi1() HardwareMapping {
	return HardwareMapping{
		OutputEnable: bits(18),
		Clock:        bits(17),
		Strobe:       bits(4),

		A: bits(22),
		B: bits(23),
		C: bits(24),
		D: bits(25),
		E: bits(15), // RxD kept free unless 1:64

		Panels: Panels{ColorBits: [6]ColorBits{
			{
				// On Pi1 Rev1, the pin other Pis have GPIO27, these have
				// GPIO21. Cover both Rev1 and Rev2.
				R1: bits(11), // masks: SPI0_SCKL
				G1: bits(21, 27),
				B1: bits(7),  // masks: SPI0_CE1
				R2: bits(8),  // masks: SPI0_CE0
				G2: bits(9),  // masks: SPI0_MISO
				B2: bits(10), // masks: SPI0_MOSI
			},
			// No more chains - there are not enough GPIO.
			{}, {}, {}, {}, {},
		}},
	}
}

// NewClassic was the default mapping in early versions of this library,
// mostly derived from the 26 GPIO-header version so it also works on 40 pin
// headers with more parallel chains. Not used anymore.
func NewClassic() HardwareMapping {
	return HardwareMapping{
		OutputEnable: bits(27), // Not available on RPi1, Rev 1
		Clock:        bits(11),
		Strobe:       bits(4),

		A: bits(7),
		B: bits(8),
		C: bits(9),
		D: bits(10),
		E: 0,

		Panels: Panels{ColorBits: [6]ColorBits{
			{
				R1: bits(17),
				G1: bits(18),
				B1: bits(22),
				R2: bits(23),
				G2: bits(24),
				B2: bits(25),
			},
			{
				R1: bits(12),
				G1: bits(5),
				B1: bits(6),
				R2: bits(19),
				G2: bits(13),
				B2: bits(20),
			},
			{
				R1: bits(14), // masks TxD if parallel = 3
				G1: bits(2),  // masks SDA if parallel = 3
				B1: bits(3),  // masks SCL if parallel = 3
				R2: bits(15),
				G2: bits(26),
				B2: bits(21),
			},
			{}, {}, {},
		}},
	}
}

// NewClassicPi1 is the classic pin-out for Rev-A Raspberry Pi.
func NewClassicPi1() HardwareMapping {
	return HardwareMapping{
		// The Revision-1 and Revision-2 boards have different GPIO mapping
		// on the P1-3 and P1-5. Support both interpretations. To keep the
		// I2C pins free, these are avoided in later mappings.
		OutputEnable: bits(0, 2),
		Clock:        bits(1, 3),
		Strobe:       bits(4),

		A: bits(7),
		B: bits(8),
		C: bits(9),
		D: bits(10),
		E: 0,

		Panels: Panels{ColorBits: [6]ColorBits{
			{
				R1: bits(17),
				G1: bits(18),
				B1: bits(22),
				R2: bits(23),
				G2: bits(24),
				B2: bits(25),
			},
			{}, {}, {}, {}, {},
		}},
	}
}
