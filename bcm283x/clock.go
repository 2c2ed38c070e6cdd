// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "fmt"

const (
	cmOffset     = 0x00101000
	cmSizeBytes  = 452
	cmPasswd     = 0x5A << 24
	cmPWMCTL     = 0xA0
	cmPWMDIV     = 0xA4
	cmPWMCTLEnab = 0x1 << 4
	cmPWMCTLKill = 0x1 << 5
	cmSrcPLLD    = 6 // 500.0 MHz
)

// ClockManager configures the clock source and divider feeding the PWM
// peripheral, which determines the actual tick rate of PinPulser periods.
type ClockManager struct {
	r *region
}

// NewClockManager maps the clock manager register block.
func NewClockManager(peripheralsBase uint64) (*ClockManager, error) {
	r, err := mmapRegister(peripheralsBase, cmOffset, cmSizeBytes)
	if err != nil {
		return nil, err
	}
	return &ClockManager{r: r}, nil
}

// InitPWMDivider resets the PWM clock, sources it from the 500MHz PLLD, and
// sets the given integer divider before re-enabling it. divider must fit in
// 12 bits.
func (c *ClockManager) InitPWMDivider(divider uint32) error {
	if divider >= 1<<12 {
		return fmt.Errorf("bcm283x: clock divider %d does not fit in 12 bits", divider)
	}

	// Reset the PWM clock.
	c.r.store(cmPWMCTL, cmPasswd|cmPWMCTLKill)

	// Set PWM clock source as the 500MHz PLLD.
	c.r.store(cmPWMCTL, cmPasswd|cmSrcPLLD)

	// Set the PWM clock divider (integer part only, no fraction).
	c.r.store(cmPWMDIV, cmPasswd|(divider<<12))

	// Enable the PWM clock.
	c.r.store(cmPWMCTL, cmPasswd|cmPWMCTLEnab|cmSrcPLLD)

	return nil
}

// Close unmaps the register block.
func (c *ClockManager) Close() error {
	return c.r.Close()
}
