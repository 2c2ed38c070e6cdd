// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

const (
	gpOffset    = 0x00200000
	gpSizeBytes = 41 * 4
	gpFSEL0     = 0x0
	gpSET0      = 0x1C
	gpCLR0      = 0x28
	gpLEV0      = 0x34
)

// Function selects the mode of a single GPIO pin.
type Function uint32

const (
	Input Function = iota
	Output
	Alt0
	Alt1
	Alt2
	Alt3
	Alt4
	Alt5
)

func (f Function) bits() uint32 {
	switch f {
	case Input:
		return 0b000
	case Output:
		return 0b001
	case Alt0:
		return 0b100
	case Alt1:
		return 0b101
	case Alt2:
		return 0b110
	case Alt3:
		return 0b111
	case Alt4:
		return 0b011
	case Alt5:
		return 0b010
	default:
		return 0b000
	}
}

// GPIO is the general purpose I/O register block: function select, and the
// set/clear/level registers for the first 32 pins.
type GPIO struct {
	r *region
}

// NewGPIO maps the GPIO register block for the given peripheral base
// address (see rpi.Chip.PeripheralsBase).
func NewGPIO(peripheralsBase uint64) (*GPIO, error) {
	r, err := mmapRegister(peripheralsBase, gpOffset, gpSizeBytes)
	if err != nil {
		return nil, err
	}
	return &GPIO{r: r}, nil
}

// SelectFunction sets the alternate function of a single pin, 0-31.
func (g *GPIO) SelectFunction(pin uint, fn Function) {
	registerIndex := pin / 10
	byteOffset := gpFSEL0 + int(registerIndex)*4
	shift := (pin % 10) * 3
	clear := ^(uint32(0b111) << shift)
	set := fn.bits() << shift
	before := g.r.load(byteOffset)
	g.r.store(byteOffset, (before&clear)|set)
}

// WriteSetBits sets to 1 every GPIO output bit present in value.
func (g *GPIO) WriteSetBits(value uint32) {
	g.r.store(gpSET0, value)
}

// WriteClrBits clears to 0 every GPIO output bit present in value.
func (g *GPIO) WriteClrBits(value uint32) {
	g.r.store(gpCLR0, value)
}

// ReadLevel0 reads the current level of GPIO pins 0-31.
func (g *GPIO) ReadLevel0() uint32 {
	return g.r.load(gpLEV0)
}

// Close unmaps the register block.
func (g *GPIO) Close() error {
	return g.r.Close()
}
