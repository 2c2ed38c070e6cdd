// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pinpulse times the HUB75 output-enable line in hardware, using
// the BCM283x PWM peripheral's FIFO so a bit-plane's on-time does not
// depend on the refresh goroutine being scheduled promptly.
package pinpulse

import (
	"fmt"
	"runtime"

	"github.com/rpi-hub75/rgbmatrix/bcm283x"
)

// pwmBaseTimeNS is the shortest PWM clock tick the hardware can resolve.
const pwmBaseTimeNS = 2

type pulse struct {
	startTime   uint64
	sleepHintUS uint32
}

// Pulser drives the output-enable line through the PWM peripheral: one
// pulse per bit-plane, with length proportional to 2^bitplane.
type Pulser struct {
	sleepHintsUS []uint32
	pulsePeriods []uint32
	current      *pulse
}

// New configures the PWM peripheral and its clock divider for the given
// output-enable pin (only GPIO18/Alt5 or GPIO12/Alt0 can drive PWM channel
// 1) and the nanosecond on-time of each bit-plane.
func New(outputEnablePin uint32, bitplaneTimingsNS []uint32, pwm *bcm283x.PWM, gpio *bcm283x.GPIO, clk *bcm283x.ClockManager) (*Pulser, error) {
	if len(bitplaneTimingsNS) == 0 {
		return nil, fmt.Errorf("pinpulse: no bit-plane timings given")
	}

	switch outputEnablePin {
	case 1 << 18:
		gpio.SelectFunction(18, bcm283x.Alt5)
	case 1 << 12:
		gpio.SelectFunction(12, bcm283x.Alt0)
	default:
		return nil, fmt.Errorf("pinpulse: output-enable must be GPIO18 or GPIO12, got mask %#x", outputEnablePin)
	}

	timeBase := bitplaneTimingsNS[0]

	pwm.ResetPWM()
	if err := clk.InitPWMDivider((timeBase / 2) / pwmBaseTimeNS); err != nil {
		return nil, fmt.Errorf("pinpulse: %w", err)
	}

	return &Pulser{
		sleepHintsUS: sleepHints(bitplaneTimingsNS),
		pulsePeriods: pulsePeriods(bitplaneTimingsNS, timeBase),
	}, nil
}

func sleepHints(timingsNS []uint32) []uint32 {
	hints := make([]uint32, len(timingsNS))
	for i, t := range timingsNS {
		hints[i] = t / 1000
	}
	return hints
}

func pulsePeriods(timingsNS []uint32, timeBase uint32) []uint32 {
	periods := make([]uint32, len(timingsNS))
	for i, t := range timingsNS {
		periods[i] = 2 * t / timeBase
	}
	return periods
}

// SendPulse starts the output-enable pulse for the given bit-plane. The
// pulse runs asynchronously in hardware; call WaitPulseFinished before
// relying on it having completed.
func (p *Pulser) SendPulse(bitplane int, pwm *bcm283x.PWM, timer *bcm283x.Timer) {
	period := p.pulsePeriods[bitplane]
	if period < 16 {
		pwm.SetPulsePeriod(period)
		pwm.PushFIFO(period)
	} else {
		// Keep the actual range as short as possible, since we wait for one
		// full period of these during the zero phase. The hardware can't
		// deal with values below 2, so this is only done when there are
		// enough of them.
		fraction := period / 8
		pwm.SetPulsePeriod(fraction)
		for i := 0; i < 8; i++ {
			pwm.PushFIFO(fraction)
		}
	}

	// A sentinel zero value is needed so the FIFO returns to the default
	// state afterward (otherwise it just repeats the last value, staying
	// constantly "on"). A second, empty sentinel is needed too, or the
	// "is the queue empty" end-of-pulse detection does not work.
	pwm.PushFIFO(0)
	pwm.PushFIFO(0)

	p.current = &pulse{
		startTime:   timer.Now(),
		sleepHintUS: p.sleepHintsUS[bitplane],
	}
	pwm.EnablePWM()
}

// WaitPulseFinished blocks until the pulse started by the last SendPulse
// call has completed. It sleeps most of the expected duration, then
// busy-waits on the FIFO-empty flag for the remainder.
func (p *Pulser) WaitPulseFinished(timer *bcm283x.Timer, pwm *bcm283x.PWM) {
	cur := p.current
	if cur == nil {
		return
	}
	p.current = nil

	elapsed := timer.Now() - cur.startTime
	var remaining uint64
	if uint64(cur.sleepHintUS) > elapsed {
		remaining = uint64(cur.sleepHintUS) - elapsed
	}
	timer.SleepAtMost(remaining)

	for !pwm.FIFOEmpty() {
		runtime.Gosched()
	}

	pwm.ResetPWM()
}
