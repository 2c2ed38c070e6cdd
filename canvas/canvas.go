// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package canvas

import (
	"fmt"

	"periph.io/x/conn/v3"

	"github.com/rpi-hub75/rgbmatrix/cielut"
	"github.com/rpi-hub75/rgbmatrix/hubgpio"
	"github.com/rpi-hub75/rgbmatrix/rowaddress"
)

// BitPlanes is the number of binary-code-modulation bit planes every pixel
// is decomposed into.
const BitPlanes = cielut.BitPlanes

// Options bundles the geometry and rendering parameters a Canvas is built
// from.
type Options struct {
	Geometry Geometry
	// PWMBits is how many of the 11 bit planes are actually driven;
	// fewer planes trade color depth for refresh rate.
	PWMBits int
	// Brightness is clamped to [1, 100].
	Brightness uint8
	// Interlaced selects row-pair interleaving in DumpToMatrix, trading a
	// slight flicker for a doubled apparent refresh rate.
	Interlaced bool
	// SharedMapper is the PixelDesignatorMap this Canvas's pixels are
	// looked up through. Two Canvas instances typically share one
	// instance, since it is read-only once built.
	SharedMapper *PixelDesignatorMap
}

// Canvas is a client-writable framebuffer: callers draw into it with
// SetPixel or Fill, then hand it to a refresh engine that streams its
// bit-plane buffer out over GPIO via DumpToMatrix. Canvas itself never
// touches any peripheral; it only owns memory.
type Canvas struct {
	cols           int
	doubleRows     int
	bitplaneBuffer []uint32
	sharedMapper   *PixelDesignatorMap
	pwmBits        int
	brightness     uint8
	colorLookup    *cielut.Table
	interlaced     bool

	clock        uint32
	strobe       uint32
	colorClkMask uint32
}

// New allocates a Canvas's bit-plane buffer and wires it to opts.
// cols and doubleRows describe the physical buffer shape; they are
// ordinarily opts.SharedMapper's geometry but are passed explicitly since
// the designator map only knows the logical (possibly pixel-mapped) shape.
func New(cols, doubleRows int, opts Options) *Canvas {
	pwmBits := opts.PWMBits
	if pwmBits < 1 {
		pwmBits = 1
	} else if pwmBits > BitPlanes {
		pwmBits = BitPlanes
	}
	brightness := opts.Brightness
	if brightness < 1 {
		brightness = 1
	} else if brightness > 100 {
		brightness = 100
	}

	mapping := opts.Geometry.HardwareMapping
	return &Canvas{
		cols:           cols,
		doubleRows:     doubleRows,
		bitplaneBuffer: make([]uint32, doubleRows*cols*BitPlanes),
		sharedMapper:   opts.SharedMapper,
		pwmBits:        pwmBits,
		brightness:     brightness,
		colorLookup:    cielut.New(),
		interlaced:     opts.Interlaced,
		clock:          mapping.Clock,
		strobe:         mapping.Strobe,
		colorClkMask:   mapping.ColorClockMask(opts.Geometry.Parallel),
	}
}

// Width returns the logical width a client draws to.
func (c *Canvas) Width() int { return c.sharedMapper.Width() }

// Height returns the logical height a client draws to.
func (c *Canvas) Height() int { return c.sharedMapper.Height() }

// positionAt returns the bitplaneBuffer index of the given double-row,
// column, and bit plane.
func (c *Canvas) positionAt(doubleRow, column, plane int) int {
	return doubleRow*(c.cols*BitPlanes) + plane*c.cols + column
}

// SetPixel draws one logical pixel. Out-of-range coordinates, and pixels
// whose designator carries no GPIO word (wired to nothing), are silently
// dropped.
func (c *Canvas) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return
	}
	d, ok := c.sharedMapper.Get(x, y)
	if !ok {
		panic(fmt.Sprintf("canvas: no pixel designator for (%d, %d): designator map was built for a different shape", x, y))
	}
	if d.GPIOWord == noGPIOWord {
		return
	}

	rv, gv, bv := c.colorLookup.LookupRGB(c.brightness, r, g, b)

	// d.GPIOWord already encodes doubleRow*(cols*BitPlanes)+column against
	// bit plane 0; positionAt for any other plane is a flat column-count
	// offset away, so no decomposition back into (doubleRow, column) is
	// needed here.
	minPlane := BitPlanes - c.pwmBits
	for plane := minPlane; plane < BitPlanes; plane++ {
		var bits uint32
		if rv&(1<<uint(plane)) != 0 {
			bits |= d.RBit
		}
		if gv&(1<<uint(plane)) != 0 {
			bits |= d.GBit
		}
		if bv&(1<<uint(plane)) != 0 {
			bits |= d.BBit
		}
		idx := d.GPIOWord + plane*c.cols
		c.bitplaneBuffer[idx] = (c.bitplaneBuffer[idx] & d.Mask) | bits
	}
}

// Fill paints every physical pixel the same color, using the designator
// map's default designator: the OR of every chain's color bits. It is
// only meaningful when that OR covers every pixel identically, which
// holds for every built-in hardware mapping.
func (c *Canvas) Fill(r, g, b uint8) {
	d := c.sharedMapper.defaultDesignator
	rv, gv, bv := c.colorLookup.LookupRGB(c.brightness, r, g, b)

	minPlane := BitPlanes - c.pwmBits
	for plane := minPlane; plane < BitPlanes; plane++ {
		var bits uint32
		if rv&(1<<uint(plane)) != 0 {
			bits |= d.RBit
		}
		if gv&(1<<uint(plane)) != 0 {
			bits |= d.GBit
		}
		if bv&(1<<uint(plane)) != 0 {
			bits |= d.BBit
		}
		for row := 0; row < c.doubleRows; row++ {
			start := c.positionAt(row, 0, plane)
			row := c.bitplaneBuffer[start : start+c.cols]
			for i := range row {
				row[i] = (row[i] & d.Mask) | bits
			}
		}
	}
}

// SetPWMBits changes how many bit planes are driven; clamped to [1, 11].
func (c *Canvas) SetPWMBits(n int) {
	if n < 1 {
		n = 1
	} else if n > BitPlanes {
		n = BitPlanes
	}
	c.pwmBits = n
}

// SetBrightness changes the CIE brightness level; clamped to [1, 100].
func (c *Canvas) SetBrightness(b uint8) {
	if b < 1 {
		b = 1
	} else if b > 100 {
		b = 100
	}
	c.brightness = b
}

// DumpToMatrix streams this Canvas's bit-plane buffer out over GPIO: for
// every physical double-row, clock each active bit plane's column data
// in, set the row address, latch it with strobe, and pulse output-enable
// for that plane's duration. ditherOffset shifts the lowest bit plane
// driven this frame, implementing temporal dithering across frames.
func (c *Canvas) DumpToMatrix(gpio *hubgpio.GPIO, rowSetter rowaddress.Setter, ditherOffset int) {
	startPlane := BitPlanes - c.pwmBits
	if ditherOffset > startPlane {
		startPlane = ditherOffset
	}

	half := c.doubleRows / 2
	for rowLoop := 0; rowLoop < c.doubleRows; rowLoop++ {
		physicalRow := rowLoop
		if c.interlaced {
			if rowLoop < half {
				physicalRow = 2 * rowLoop
			} else {
				physicalRow = 2*(rowLoop-half) + 1
			}
		}

		for plane := startPlane; plane < BitPlanes; plane++ {
			base := c.positionAt(rowLoop, 0, plane)
			for col := 0; col < c.cols; col++ {
				gpio.WriteMaskedBits(c.bitplaneBuffer[base+col], c.colorClkMask)
				gpio.SetBits(c.clock)
			}
			gpio.ClearBits(c.colorClkMask)

			gpio.WaitPulseFinished()
			rowSetter.SetRowAddress(gpio, physicalRow)
			gpio.SetBits(c.strobe)
			gpio.ClearBits(c.strobe)
			gpio.SendPulse(plane)
		}
	}
}

// Halt blanks the canvas. It implements conn.Resource so a Canvas can be
// handed to code that expects any halt-able peripheral-backed resource.
func (c *Canvas) Halt() error {
	c.Fill(0, 0, 0)
	return nil
}

func (c *Canvas) String() string {
	return fmt.Sprintf("canvas.Canvas{%dx%d, pwm_bits=%d, brightness=%d}", c.Width(), c.Height(), c.pwmBits, c.brightness)
}

var _ conn.Resource = &Canvas{}
