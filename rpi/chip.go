// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rpi identifies the Raspberry Pi SoC generation a process is
// running on, so that callers can pick the correct peripheral base address
// and a sensible default for GPIO write pacing.
package rpi

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Chip identifies a Broadcom SoC generation found on a Raspberry Pi board.
type Chip int

const (
	// BCM2708 covers the Pi Model 0 and 1 (single core, ARM11).
	BCM2708 Chip = iota
	// BCM2709 covers the Pi 2 and 3 (BCM2836/BCM2837, quad core).
	BCM2709
	// BCM2711 covers the Pi 4 (quad core, faster peripheral bus).
	BCM2711
)

func (c Chip) String() string {
	switch c {
	case BCM2708:
		return "BCM2708"
	case BCM2709:
		return "BCM2709"
	case BCM2711:
		return "BCM2711"
	default:
		return fmt.Sprintf("Chip(%d)", int(c))
	}
}

// ParseChip accepts the chip name as well as the concrete model numbers
// (BCM2835, BCM2836, BCM2837) that alias to a generation.
func ParseChip(s string) (Chip, error) {
	switch strings.ToUpper(s) {
	case "BCM2708", "BCM2835":
		return BCM2708, nil
	case "BCM2709", "BCM2836", "BCM2837":
		return BCM2709, nil
	case "BCM2711":
		return BCM2711, nil
	default:
		return 0, fmt.Errorf("rpi: %q is not a valid chip model", s)
	}
}

// NumCores returns the number of CPU cores on this chip generation.
func (c Chip) NumCores() int {
	switch c {
	case BCM2708:
		return 1
	default:
		return 4
	}
}

// PeripheralsBase returns the physical base address of the peripheral
// register range for this chip generation.
func (c Chip) PeripheralsBase() uint64 {
	switch c {
	case BCM2708:
		return 0x20000000
	case BCM2709:
		return 0x3F000000
	case BCM2711:
		return 0xFE000000
	default:
		return 0
	}
}

// GPIOSlowdown is the default number of redundant register writes used to
// pace GPIO output for this chip generation; faster chips need more.
func (c Chip) GPIOSlowdown() uint32 {
	switch c {
	case BCM2711:
		return 3
	default:
		return 1
	}
}

// Determine inspects /proc/cpuinfo to figure out which chip generation the
// current process is running on. It returns an error if /proc/cpuinfo is
// unreadable or its content is not recognized.
func Determine() (Chip, error) {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return 0, fmt.Errorf("rpi: could not open /proc/cpuinfo: %w", err)
	}
	defer f.Close()

	var revisionLine, cpuRevisionLine string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Revision"):
			revisionLine = line
		case strings.HasPrefix(line, "CPU revision"):
			cpuRevisionLine = line
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("rpi: could not read /proc/cpuinfo: %w", err)
	}

	var revisionNumber uint64
	switch {
	case revisionLine != "":
		fields := strings.Fields(revisionLine)
		revisionStr := fields[len(fields)-1]
		if len(revisionStr) == 4 {
			// Old-style 4-hex-digit revision codes are all BCM2708.
			return BCM2708, nil
		}
		revision, err := strconv.ParseUint(revisionStr, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("rpi: could not parse revision %q: %w", revisionStr, err)
		}
		// Bits: NOQuuuWuFMMMCCCCPPPPTTTTTTTTRRRR
		//                       ^^^^ processor model
		revisionNumber = (revision >> 12) & 0b1111
	case cpuRevisionLine != "":
		fields := strings.Fields(cpuRevisionLine)
		revisionStr := fields[len(fields)-1]
		n, err := strconv.ParseUint(revisionStr, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("rpi: could not parse CPU revision %q: %w", revisionStr, err)
		}
		revisionNumber = n
	default:
		return 0, fmt.Errorf("rpi: /proc/cpuinfo has neither a Revision nor a CPU revision line")
	}

	switch revisionNumber {
	case 0: // BCM2835
		return BCM2708, nil
	case 1, 2: // BCM2836, BCM2837
		return BCM2709, nil
	case 3: // BCM2711
		return BCM2711, nil
	default:
		return 0, fmt.Errorf("rpi: unrecognized processor model number %d", revisionNumber)
	}
}
