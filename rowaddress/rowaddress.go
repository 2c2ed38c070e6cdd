// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rowaddress selects which of a panel's double-rows is active, in
// whichever of the several wiring schemes real HUB75 panels use: direct
// address lines, a serial shift register, or an SM5266 shifter.
package rowaddress

import (
	"fmt"

	"github.com/rpi-hub75/rgbmatrix/hubgpio"
	"github.com/rpi-hub75/rgbmatrix/hubmap"
)

// Setter drives a panel's row-address lines to select the active
// double-row. Implementations cache the last row they set and are free to
// skip redundant writes.
type Setter interface {
	// UsedBits returns every GPIO bit this setter drives.
	UsedBits() uint32
	// SetRowAddress selects the given double-row, 0-indexed.
	SetRowAddress(gpio *hubgpio.GPIO, row int)
}

// Name identifies a built-in Setter implementation.
type Name string

const (
	Direct           Name = "DirectRowAddressSetter"
	ShiftRegister    Name = "ShiftRegisterRowAddressSetter"
	DirectABCDLine   Name = "DirectABCDLineRowAddressSetter"
	ABCShiftRegister Name = "ABCShiftRegisterRowAddressSetter"
	SM5266           Name = "SM5266RowAddressSetter"
)

// New builds the named row-address setter for the given hardware mapping
// and the panel's double-row count (rows / 2).
func New(name Name, mapping hubmap.HardwareMapping, doubleRows int) (Setter, error) {
	switch name {
	case Direct:
		return newDirect(mapping, doubleRows), nil
	case ShiftRegister:
		return newShiftRegister(mapping, doubleRows, mapping.B), nil
	case DirectABCDLine:
		return newDirectABCDLine(mapping), nil
	case ABCShiftRegister:
		return newShiftRegister(mapping, doubleRows, mapping.C), nil
	case SM5266:
		return newSM5266(mapping, doubleRows)
	default:
		return nil, fmt.Errorf("rowaddress: unknown row setter %q", name)
	}
}

type direct struct {
	rowMask   uint32
	rowLookup [32]uint32
	lastRow   int
}

func newDirect(h hubmap.HardwareMapping, doubleRows int) *direct {
	d := &direct{lastRow: -1}
	d.rowMask = h.A
	if doubleRows > 2 {
		d.rowMask |= h.B
	}
	if doubleRows > 4 {
		d.rowMask |= h.C
	}
	if doubleRows > 8 {
		d.rowMask |= h.D
	}
	if doubleRows > 16 {
		d.rowMask |= h.E
	}

	for i := 0; i < doubleRows; i++ {
		var addr uint32
		if i&0x00001 != 0 {
			addr |= h.A
		}
		if i&0b00010 != 0 {
			addr |= h.B
		}
		if i&0b00100 != 0 {
			addr |= h.C
		}
		if i&0b01000 != 0 {
			addr |= h.D
		}
		if i&0b10000 != 0 {
			addr |= h.E
		}
		d.rowLookup[i] = addr
	}
	return d
}

func (d *direct) UsedBits() uint32 { return d.rowMask }

func (d *direct) SetRowAddress(gpio *hubgpio.GPIO, row int) {
	if d.lastRow == row {
		return
	}
	gpio.WriteMaskedBits(d.rowLookup[row], d.rowMask)
	d.lastRow = row
}

// sm5266 sets bits A/B/C through an 8-bit shifter and D/E directly. The
// panel has 8 SM5266 shifters: 4 for the top 32 rows, 4 for the bottom 32.
// D/E select the active group of 8 (rows 1-8/33-40, 9-16/41-48, ...). Rows
// are enabled by shifting in 8 bits, high bit first, with a high bit
// enabling that row.
//
// bk, din, and dck are the SM5266P datasheet designations: Enable Input,
// Serial In, and Clock.
type sm5266 struct {
	rowMask   uint32
	rowLookup [32]uint32
	lastRow   int
	bk, din, dck uint32
}

func newSM5266(h hubmap.HardwareMapping, doubleRows int) (*sm5266, error) {
	if doubleRows > 32 {
		return nil, fmt.Errorf("rowaddress: SM5266 supports at most 32 double-rows, got %d", doubleRows)
	}
	s := &sm5266{lastRow: -1, bk: h.C, din: h.B, dck: h.A}
	s.rowMask = h.A | h.B | h.C
	if doubleRows > 8 {
		s.rowMask |= h.D
	}
	if doubleRows > 16 {
		s.rowMask |= h.E
	}
	for i := 0; i < doubleRows; i++ {
		var addr uint32
		if i&0x08 != 0 {
			addr |= h.D
		}
		if i&0x10 != 0 {
			addr |= h.E
		}
		s.rowLookup[i] = addr
	}
	return s, nil
}

func (s *sm5266) UsedBits() uint32 { return s.rowMask }

func (s *sm5266) SetRowAddress(gpio *hubgpio.GPIO, row int) {
	if s.lastRow == row {
		return
	}
	gpio.SetBits(s.bk) // Enable serial input for the shifter.
	for r := 7; r >= 0; r-- {
		if row%8 == r {
			gpio.SetBits(s.din)
		} else {
			gpio.ClearBits(s.din)
		}
		gpio.SetBits(s.dck)
		gpio.SetBits(s.dck) // Longer clock time; tested with Pi3.
		gpio.ClearBits(s.dck)
	}
	gpio.ClearBits(s.bk) // Disable serial input to keep unwanted bits out of the shifters.
	s.lastRow = row
	// Set bits D and E to enable the proper shifter to display the selected row.
	gpio.WriteMaskedBits(s.rowLookup[row], s.rowMask)
}

// shiftRegister clocks a 1-bit-active row select into a daisy-chained
// shift register, one bit per double-row, on the rising edge of clock.
// Used both for the A/B-wired and A/C-wired ("ABC") variants, which differ
// only in the data line; both clock on A.
type shiftRegister struct {
	rowMask         uint32
	lastRow         int
	clock, data     uint32
	doubleRows      int
}

func newShiftRegister(h hubmap.HardwareMapping, doubleRows int, data uint32) *shiftRegister {
	return &shiftRegister{
		rowMask:    h.A | data,
		lastRow:    -1,
		clock:      h.A,
		data:       data,
		doubleRows: doubleRows,
	}
}

func (s *shiftRegister) UsedBits() uint32 { return s.rowMask }

func (s *shiftRegister) SetRowAddress(gpio *hubgpio.GPIO, row int) {
	if s.lastRow == row {
		return
	}
	for activate := 0; activate < s.doubleRows; activate++ {
		gpio.ClearBits(s.clock)
		if activate == s.doubleRows-1-row {
			gpio.ClearBits(s.data)
		} else {
			gpio.SetBits(s.data)
		}
		gpio.SetBits(s.clock)
	}
	gpio.ClearBits(s.clock)
	gpio.SetBits(s.clock)
	s.lastRow = row
}

// directABCDLine selects one of 4 rows for 1:4-multiplexed 32x16 matrices
// by driving a low level on the corresponding address line while holding
// the other three lines high.
type directABCDLine struct {
	rowLines [4]uint32
	rowMask  uint32
	lastRow  int
}

func newDirectABCDLine(h hubmap.HardwareMapping) *directABCDLine {
	return &directABCDLine{
		rowLines: [4]uint32{
			h.B | h.C | h.D,
			h.A | h.C | h.D,
			h.A | h.B | h.D,
			h.A | h.B | h.C,
		},
		rowMask: h.A | h.B | h.C | h.D,
		lastRow: -1,
	}
}

func (d *directABCDLine) UsedBits() uint32 { return d.rowMask }

func (d *directABCDLine) SetRowAddress(gpio *hubgpio.GPIO, row int) {
	if d.lastRow == row {
		return
	}
	gpio.WriteMaskedBits(d.rowLines[row%4], d.rowMask)
	d.lastRow = row
}
