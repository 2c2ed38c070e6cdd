// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hubgpio initializes the Raspberry Pi's GPIO pins for a HUB75
// hardware mapping and provides the slowdown-aware bit-banging primitives
// the rest of the driver is built on.
package hubgpio

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rpi-hub75/rgbmatrix/bcm283x"
	"github.com/rpi-hub75/rgbmatrix/hubmap"
	"github.com/rpi-hub75/rgbmatrix/pinpulse"
	"github.com/rpi-hub75/rgbmatrix/rpi"
)

// ErrSoundModuleLoaded is returned when the on-board sound driver is loaded;
// it shares GPIO pins with every hardware mapping this package supports.
var ErrSoundModuleLoaded = errors.New("hubgpio: snd_bcm2835 is loaded; disable on-board sound (dtparam=audio=off) and reboot")

// ErrOneWireEnabled is returned when the kernel's one-wire driver has
// claimed GPIO4 while the hardware mapping drives GPIO4 as its strobe or
// output-enable line.
var ErrOneWireEnabled = errors.New("hubgpio: the one-wire protocol is enabled on GPIO4; disable it in raspi-config")

const maxAvailableBit = 31

// GPIO owns every register block the driver touches and knows which bits
// are outputs, inputs, or reserved.
type GPIO struct {
	gpio         *bcm283x.GPIO
	timer        *bcm283x.Timer
	pwm          *bcm283x.PWM
	clk          *bcm283x.ClockManager
	pulser       *pinpulse.Pulser
	inputBits    uint32
	outputBits   uint32
	reservedBits uint32
	slowdown     uint32
}

// New maps the GPIO, timer, PWM, and clock-manager register blocks and
// configures every pin used by mapping or addressSetter as an output,
// except for the GPIO4/GPIO18 pair shared by the Adafruit HAT PWM mod,
// which is left as input until whichever one is actually in use is known.
func New(chip rpi.Chip, mapping hubmap.HardwareMapping, addressSetterUsedBits uint32, bitplaneTimingsNS []uint32, slowdown uint32) (*GPIO, error) {
	if linuxHasModuleLoaded("snd_bcm2835") {
		return nil, ErrSoundModuleLoaded
	}

	base := chip.PeripheralsBase()
	gpioRegs, err := bcm283x.NewGPIO(base)
	if err != nil {
		return nil, fmt.Errorf("hubgpio: %w", err)
	}
	timer, err := bcm283x.NewTimer(base)
	if err != nil {
		return nil, fmt.Errorf("hubgpio: %w", err)
	}
	pwm, err := bcm283x.NewPWM(base)
	if err != nil {
		return nil, fmt.Errorf("hubgpio: %w", err)
	}
	clk, err := bcm283x.NewClockManager(base)
	if err != nil {
		return nil, fmt.Errorf("hubgpio: %w", err)
	}

	allUsedBits := mapping.UsedBits() | addressSetterUsedBits
	outputBits := allUsedBits
	var reservedBits uint32

	// The PWM mod solders GPIO18 (new output-enable) to GPIO4 (old
	// output-enable). Whatever the outside system set as pinmux, make sure
	// the unused one of the pair stays an input so the two outputs never
	// fight each other.
	gpioRegs.SelectFunction(4, bcm283x.Input)
	gpioRegs.SelectFunction(18, bcm283x.Input)
	const gpio4Bit = 1 << 4
	reservedBits |= gpio4Bit &^ outputBits

	outputBits &^= reservedBits

	if outputBits&gpio4Bit != 0 && linuxHasModuleLoaded("w1_gpio") {
		return nil, ErrOneWireEnabled
	}

	for b := uint(0); b <= maxAvailableBit; b++ {
		if outputBits&(1<<b) != 0 {
			gpioRegs.SelectFunction(b, bcm283x.Output)
		}
	}
	if outputBits != allUsedBits {
		return nil, fmt.Errorf("hubgpio: could not reserve every required GPIO bit (got %#x, want %#x)", outputBits, allUsedBits)
	}

	pulser, err := pinpulse.New(mapping.OutputEnable, bitplaneTimingsNS, pwm, gpioRegs, clk)
	if err != nil {
		return nil, err
	}

	return &GPIO{
		gpio:         gpioRegs,
		timer:        timer,
		pwm:          pwm,
		clk:          clk,
		pulser:       pulser,
		outputBits:   outputBits,
		reservedBits: reservedBits,
		slowdown:     slowdown,
	}, nil
}

// WriteMaskedBits sets every bit in mask to the corresponding bit of value.
func (g *GPIO) WriteMaskedBits(value, mask uint32) {
	g.ClearBits(^value & mask)
	g.SetBits(value & mask)
}

// ClearBits clears the given bits, repeating the write gpio_slowdown extra
// times so fast Pis still give slow panels enough settling time.
func (g *GPIO) ClearBits(value uint32) {
	if value == 0 {
		return
	}
	for i := uint32(0); i <= g.slowdown; i++ {
		g.gpio.WriteClrBits(value)
	}
}

// SetBits sets the given bits, repeating the write gpio_slowdown extra
// times so fast Pis still give slow panels enough settling time.
func (g *GPIO) SetBits(value uint32) {
	if value == 0 {
		return
	}
	for i := uint32(0); i <= g.slowdown; i++ {
		g.gpio.WriteSetBits(value)
	}
}

// SendPulse starts the output-enable pulse for the given bit-plane.
func (g *GPIO) SendPulse(bitplane int) {
	g.pulser.SendPulse(bitplane, g.pwm, g.timer)
}

// WaitPulseFinished blocks until the last SendPulse has completed.
func (g *GPIO) WaitPulseFinished() {
	g.pulser.WaitPulseFinished(g.timer, g.pwm)
}

// RequestEnabledInputs configures every bit in enabledBits not already
// claimed as output/input/reserved to be an input, and returns the subset
// that was actually granted.
func (g *GPIO) RequestEnabledInputs(enabledBits uint32) uint32 {
	enabledBits = maskEnabledInputs(enabledBits, g.outputBits, g.inputBits, g.reservedBits)
	for b := uint(0); b <= maxAvailableBit; b++ {
		if enabledBits&(1<<b) != 0 {
			g.gpio.SelectFunction(b, bcm283x.Input)
		}
	}
	g.inputBits |= enabledBits
	return enabledBits
}

// maskEnabledInputs removes from requested any bit already claimed as
// output, input, or reserved.
func maskEnabledInputs(requested, outputBits, inputBits, reservedBits uint32) uint32 {
	return requested &^ (outputBits | inputBits | reservedBits)
}

// Read returns the current level of every requested input bit.
func (g *GPIO) Read() uint32 {
	return g.gpio.ReadLevel0() & g.inputBits
}

// Now returns the free-running system timer value, in microseconds.
func (g *GPIO) Now() uint64 {
	return g.timer.Now()
}

// Sleep blocks for exactly durationUS microseconds.
func (g *GPIO) Sleep(durationUS uint64) {
	g.timer.Sleep(durationUS)
}

// Close unmaps every register block this GPIO owns.
func (g *GPIO) Close() error {
	return errors.Join(g.gpio.Close(), g.timer.Close(), g.pwm.Close(), g.clk.Close())
}

// linuxHasModuleLoaded reports whether the named kernel module appears in
// /proc/modules. A read failure is treated as "not loaded".
func linuxHasModuleLoaded(name string) bool {
	f, err := os.Open("/proc/modules")
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 && fields[0] == name {
			return true
		}
	}
	return false
}
