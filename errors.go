// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix

import "errors"

// Sentinel errors distinguishing the taxonomy of ways a Controller can fail
// to start or run. Wrap these with fmt.Errorf("...: %w", ...) for context;
// callers that need to branch on the kind of failure should use
// errors.Is against these values.
var (
	// ErrMemoryAccess is returned when /dev/mem cannot be opened, usually
	// because the process lacks the privilege to do so.
	ErrMemoryAccess = errors.New("rgbmatrix: cannot open /dev/mem; are you running as root?")
	// ErrChipDetermination is returned when /proc/cpuinfo could not be
	// parsed to identify the Broadcom SoC generation.
	ErrChipDetermination = errors.New("rgbmatrix: could not determine Raspberry Pi chip generation")
	// ErrInvalidConfiguration is returned for a bad enum name, an invalid
	// dither_bits value, bad pixel-mapper arguments, or a parallel chain
	// count beyond what the hardware mapping supports.
	ErrInvalidConfiguration = errors.New("rgbmatrix: invalid configuration")
	// ErrGpioInit is returned when a kernel driver is holding a GPIO pin
	// this driver needs: the on-board sound driver, or the one-wire
	// driver on GPIO4.
	ErrGpioInit = errors.New("rgbmatrix: could not claim the GPIO pins this configuration needs")
	// ErrThreadStartup is returned when the refresh goroutine failed to
	// report its start result within the startup timeout.
	ErrThreadStartup = errors.New("rgbmatrix: refresh goroutine did not start in time")
)
