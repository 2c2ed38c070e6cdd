// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package canvas is the client-writable framebuffer: a PixelDesignatorMap
// translates logical (x, y) pixels into precomputed GPIO bit offsets, and a
// Canvas stores the bit-plane buffer those offsets are written into, ready
// to be streamed out by the refresh engine.
package canvas

import "github.com/rpi-hub75/rgbmatrix/hubmap"

// noGPIOWord marks a PixelDesignator that does not correspond to any
// physical pixel: SetPixel silently drops writes through it.
const noGPIOWord = -1

// PixelDesignator is a precomputed record of where one logical pixel lives
// in the bit-plane buffer, and which GPIO bits carry its color.
type PixelDesignator struct {
	// GPIOWord is the bit-plane buffer index of this pixel's word in bit
	// plane 0: doubleRow*(cols*BitPlanes)+column. noGPIOWord if this pixel
	// does not map to any physical position.
	GPIOWord int
	RBit     uint32
	GBit     uint32
	BBit     uint32
	// Mask clears every bit this pixel owns, leaving every other pixel's
	// bits in the same word untouched.
	Mask uint32
}

// newPixelDesignator builds the default designator for a (x, y) pixel
// addressed through the given hardware mapping's p'th parallel chain,
// picking sub-panel 1 or 2's color bits and routing them through seq.
func newPixelDesignator(mapping hubmap.HardwareMapping, seq hubmap.LedSequence, panel int, upperSubPanel bool) PixelDesignator {
	colors := mapping.Panels.ColorBits[panel]
	var r, g, b uint32
	if upperSubPanel {
		r, g, b = colors.R1, colors.G1, colors.B1
	} else {
		r, g, b = colors.R2, colors.G2, colors.B2
	}

	d := PixelDesignator{
		GPIOWord: noGPIOWord,
		RBit:     seq.GetGPIO(hubmap.FirstChannel, r, g, b),
		GBit:     seq.GetGPIO(hubmap.SecondChannel, r, g, b),
		BBit:     seq.GetGPIO(hubmap.ThirdChannel, r, g, b),
	}
	d.Mask = ^(d.RBit | d.GBit | d.BBit)
	return d
}

// Geometry is the subset of a matrix's configuration a PixelDesignatorMap
// needs: the physical panel size, how many panels chain and run in
// parallel, and the board's wiring.
type Geometry struct {
	Rows, Cols      int
	Parallel        int
	ChainLength     int
	HardwareMapping hubmap.HardwareMapping
	LEDSequence     hubmap.LedSequence
}

// doubleRows is the number of interleaved row pairs driven in parallel:
// half the total physical row count across every parallel chain.
func (g Geometry) doubleRows() int {
	return (g.Rows * g.Parallel) / 2
}

// PixelDesignatorMap is an immutable, precomputed lookup from logical pixel
// coordinates to PixelDesignator. It is built once and shared read-only
// between the two Canvas instances that ping-pong between client and
// refresh thread.
type PixelDesignatorMap struct {
	width, height int
	// defaultDesignator carries the OR of every chain's color bits, used
	// by Fill to paint every physical pixel at once.
	defaultDesignator PixelDesignator
	buffer             []PixelDesignator
}

// NewPixelDesignatorMap builds the designator map for a matrix of the
// given logical (width, height), as wired by geo.
func NewPixelDesignatorMap(geo Geometry, width, height int) *PixelDesignatorMap {
	m := &PixelDesignatorMap{
		width:  width,
		height: height,
		buffer: make([]PixelDesignator, width*height),
	}

	doubleRows := geo.doubleRows()
	rowsPerPanel := geo.Rows

	for y := 0; y < height; y++ {
		panel := y / rowsPerPanel
		upperSubPanel := (y - panel*rowsPerPanel) < doubleRows
		d := newPixelDesignator(geo.HardwareMapping, geo.LEDSequence, panel, upperSubPanel)
		for x := 0; x < width; x++ {
			offset := (y%doubleRows)*(width*BitPlanes) + x
			entry := d
			entry.GPIOWord = offset
			m.buffer[y*width+x] = entry
		}
	}

	m.defaultDesignator = PixelDesignator{
		GPIOWord: noGPIOWord,
		RBit:     geo.HardwareMapping.Panels.RedBits(),
		GBit:     geo.HardwareMapping.Panels.GreenBits(),
		BBit:     geo.HardwareMapping.Panels.BlueBits(),
	}
	m.defaultDesignator.Mask = ^(m.defaultDesignator.RBit | m.defaultDesignator.GBit | m.defaultDesignator.BBit)

	return m
}

// Get returns the designator for (x, y) and whether it is in range.
func (m *PixelDesignatorMap) Get(x, y int) (PixelDesignator, bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return PixelDesignator{}, false
	}
	return m.buffer[y*m.width+x], true
}

// Width returns the logical width this map was built for.
func (m *PixelDesignatorMap) Width() int { return m.width }

// Height returns the logical height this map was built for.
func (m *PixelDesignatorMap) Height() int { return m.height }

// Remap rebuilds a PixelDesignatorMap of a new (width, height), copying
// each new coordinate's designator from wherever toPrevious says it came
// from in m. Used when a pixel mapper pipeline stage changes the logical
// layout a client draws to.
func Remap(m *PixelDesignatorMap, width, height int, toPrevious func(x, y int) (int, int)) *PixelDesignatorMap {
	out := &PixelDesignatorMap{
		width:              width,
		height:             height,
		defaultDesignator:  m.defaultDesignator,
		buffer:             make([]PixelDesignator, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ox, oy := toPrevious(x, y)
			d, ok := m.Get(ox, oy)
			if !ok {
				d = PixelDesignator{GPIOWord: noGPIOWord, Mask: ^uint32(0)}
			}
			out.buffer[y*width+x] = d
		}
	}
	return out
}
