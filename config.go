// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgbmatrix drives HUB75 RGB LED matrix panels directly through
// Raspberry Pi GPIO, without any kernel driver: it owns the /dev/mem
// mapping, the binary-code-modulation timing, and a dedicated refresh
// goroutine, and exposes a Canvas clients draw into and hand back at
// vsync.
package rgbmatrix

import (
	"fmt"
	"log"
	"os"

	"github.com/rpi-hub75/rgbmatrix/hubmap"
	"github.com/rpi-hub75/rgbmatrix/pixelmap"
	"github.com/rpi-hub75/rgbmatrix/rowaddress"
	"github.com/rpi-hub75/rgbmatrix/rpi"
)

// Logger is the minimal sink the refresh goroutine reports advisory,
// non-fatal problems to (failed RT-throttle/governor/affinity/priority
// tuning). A nil Logger in Config is replaced by one writing to stderr.
type Logger interface {
	Printf(format string, v ...any)
}

func defaultLogger() Logger {
	return log.New(os.Stderr, "rgbmatrix: ", log.LstdFlags)
}

// Config describes one HUB75 matrix chain. Zero-valued fields are replaced
// by the documented default in Controller.New; the Config a Controller
// reports back (e.g. via String) always reflects the resolved values.
type Config struct {
	// Rows and Cols are a single panel's physical size.
	Rows, Cols int
	// ChainLength is how many panels are daisy-chained on one data line.
	// Must be >= 1.
	ChainLength int
	// Parallel is how many chains run side by side, driven by distinct
	// GPIO color lines of the same HardwareMapping. Must be between 1 and
	// HardwareMapping.MaxParallelChains().
	Parallel int

	// RefreshRateHz is the target frame rate. Default 120.
	RefreshRateHz int
	// PWMBits is how many of the 11 bit planes are driven, trading color
	// depth for refresh rate. 1..11, default 11.
	PWMBits int
	// PWMLSBNanoseconds is the display time of the least-significant bit
	// plane; every other plane's time is a power-of-two multiple of it.
	// Default 130.
	PWMLSBNanoseconds uint32
	// Slowdown is how many redundant times each GPIO write is repeated,
	// to give slow panels enough settling time on a fast Pi. 0 selects
	// the chip-dependent default (see rpi.Chip.GPIOSlowdown).
	Slowdown uint32
	// Interlaced row-pair-interleaves the refresh order, trading a slight
	// flicker for a doubled apparent refresh rate.
	Interlaced bool
	// DitherBits selects the temporal dithering pattern: 0 (none), 1, or 2.
	DitherBits int

	// HardwareMapping names a built-in adapter board wiring.
	HardwareMapping hubmap.Name
	// LEDSequence names the physical color-wire order; default RGB.
	LEDSequence hubmap.LedSequence
	// LEDBrightness is clamped to [1, 100]. Default 100.
	LEDBrightness uint8

	// RowSetter names the row-address wiring scheme.
	RowSetter rowaddress.Name
	// Multiplexing optionally names one of 18 scan-pattern scramblers;
	// empty for an unmultiplexed (regular scan) panel.
	Multiplexing pixelmap.MultiplexName
	// PixelMapperSpecs is an ordered list of arrangement directives
	// ("Mirror:H", "Rotate:90", "U-mapper") applied after multiplexing.
	PixelMapperSpecs []string

	// PanelType optionally selects a panel-controller init sequence that
	// must run once before the refresh goroutine starts streaming frames.
	// Built-in FM6126/FM6127PanelInit values are provided; a caller may
	// also supply its own PanelInitFunc for an unlisted driver IC.
	PanelType PanelInitFunc

	// Chip is the Broadcom SoC generation. The zero value is rpi.BCM2708;
	// set DetectChip to detect it via rpi.Determine instead.
	Chip rpi.Chip
	// DetectChip, if true, ignores Chip and always calls rpi.Determine.
	DetectChip bool

	// Logger receives advisory warnings from the refresh goroutine's
	// best-effort startup tuning. Defaults to a stderr logger.
	Logger Logger
}

// resolved is a Config with every default applied and every enum parsed,
// ready for Controller.New to act on without re-checking zero values.
type resolved struct {
	Config
	hardwareMapping hubmap.HardwareMapping
	rowSetterName   rowaddress.Name
	ditherPattern   []int
}

var ditherPatterns = [][]int{
	0: {0, 0, 0, 0},
	1: {0, 1, 0, 1},
	2: {0, 1, 2, 2},
}

func resolveConfig(cfg Config) (resolved, error) {
	if cfg.RefreshRateHz <= 0 {
		cfg.RefreshRateHz = 120
	}
	if cfg.PWMBits <= 0 {
		cfg.PWMBits = 11
	}
	if cfg.PWMBits > 11 {
		return resolved{}, fmtErrInvalid("pwm_bits must be in [1, 11], got %d", cfg.PWMBits)
	}
	if cfg.PWMLSBNanoseconds == 0 {
		cfg.PWMLSBNanoseconds = 130
	}
	if cfg.ChainLength <= 0 {
		cfg.ChainLength = 1
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 1
	}
	if cfg.LEDBrightness == 0 {
		cfg.LEDBrightness = 100
	}
	if cfg.LEDBrightness > 100 {
		return resolved{}, fmtErrInvalid("led_brightness must be in [1, 100], got %d", cfg.LEDBrightness)
	}
	if cfg.DitherBits < 0 || cfg.DitherBits > 2 {
		return resolved{}, fmtErrInvalid("dither_bits must be 0, 1, or 2, got %d", cfg.DitherBits)
	}
	if cfg.Logger == nil {
		cfg.Logger = defaultLogger()
	}
	if cfg.RowSetter == "" {
		cfg.RowSetter = rowaddress.Direct
	}

	mappingName := cfg.HardwareMapping
	if mappingName == "" {
		mappingName = hubmap.Regular
	}
	hw, err := hubmap.Parse(string(mappingName))
	if err != nil {
		return resolved{}, fmtErrInvalidWrap(err)
	}
	if cfg.Parallel > hw.MaxParallelChains() {
		return resolved{}, fmtErrInvalid("parallel=%d exceeds %s's %d supported chains", cfg.Parallel, mappingName, hw.MaxParallelChains())
	}

	r := resolved{
		Config:          cfg,
		hardwareMapping: hw,
		rowSetterName:   cfg.RowSetter,
		ditherPattern:   ditherPatterns[cfg.DitherBits],
	}
	return r, nil
}

func fmtErrInvalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, a...))
}

func fmtErrInvalidWrap(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
}
