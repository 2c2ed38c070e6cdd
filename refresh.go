// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rpi-hub75/rgbmatrix/canvas"
	"github.com/rpi-hub75/rgbmatrix/hubgpio"
	"github.com/rpi-hub75/rgbmatrix/rowaddress"
	"github.com/rpi-hub75/rgbmatrix/rpi"
)

const bitPlanes = canvas.BitPlanes

// bitplaneTimingsNS computes each bit plane's output-enable pulse width:
// planes 0 through ditherBits get pwmLSBNanoseconds, and every plane after
// plane ditherBits doubles the previous plane's width.
func bitplaneTimingsNS(pwmLSBNanoseconds uint32, ditherBits int) []uint32 {
	timings := make([]uint32, bitPlanes)
	timing := pwmLSBNanoseconds
	for b := 0; b < bitPlanes; b++ {
		timings[b] = timing
		if b >= ditherBits {
			timing *= 2
		}
	}
	return timings
}

// runRefresh is the dedicated refresh goroutine body: it owns every
// peripheral register mapping, initializes them, reports the outcome on
// report, then streams frames until shutdown is closed.
func (c *Controller) runRefresh(chip rpi.Chip, slowdown uint32, rowSetter rowaddress.Setter, backCanvas *canvas.Canvas, requestedInputs uint32, report chan<- startReport) {
	// Affinity and priority are OS-thread properties; keep this goroutine
	// pinned to the one OS thread pinRefreshThread tunes for the rest of its
	// life, never calling UnlockOSThread.
	runtime.LockOSThread()
	defer c.wg.Done()

	pinRefreshThread(chip, c.cfg.Logger)

	timings := bitplaneTimingsNS(c.cfg.PWMLSBNanoseconds, c.cfg.DitherBits)
	gpio, err := hubgpio.New(chip, c.cfg.hardwareMapping, rowSetter.UsedBits(), timings, slowdown)
	if err != nil {
		report <- startReport{err: fmt.Errorf("%w: %v", ErrGpioInit, err)}
		return
	}
	defer gpio.Close()

	enabled := gpio.RequestEnabledInputs(requestedInputs)

	if c.cfg.PanelType != nil {
		c.cfg.PanelType(gpio, c.cfg.hardwareMapping, c.cfg.Cols)
	}

	report <- startReport{enabledInputBits: enabled}

	current := backCanvas
	framePeriod := time.Second / time.Duration(c.cfg.RefreshRateHz)
	var seq uint64
	var lastInputs uint32
	haveLastInputs := false

	for {
		frameStart := time.Now()

		if done := c.pollForShutdownOrSwap(gpio, &current, &lastInputs, &haveLastInputs); done {
			current.Fill(0, 0, 0)
			current.DumpToMatrix(gpio, rowSetter, 0)
			return
		}

		ditherOffset := c.cfg.ditherPattern[seq%4]
		current.DumpToMatrix(gpio, rowSetter, ditherOffset)
		seq++

		elapsed := time.Since(frameStart)
		if elapsed < framePeriod {
			c.frameRate.update(float64(time.Second) / float64(framePeriod))
			gpio.Sleep(uint64((framePeriod - elapsed) / time.Microsecond))
		} else {
			c.frameRate.update(float64(time.Second) / float64(elapsed))
		}
	}
}

// pollForShutdownOrSwap runs the bounded inner poll loop: forward input
// pin changes, and watch for either shutdown or a new canvas. It returns
// true once shutdown has been observed. lastInputs and haveLastInputs carry
// the last forwarded input level across calls.
func (c *Controller) pollForShutdownOrSwap(gpio *hubgpio.GPIO, current **canvas.Canvas, lastInputs *uint32, haveLastInputs *bool) bool {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-c.shutdown:
			return true
		case next := <-c.swapOut:
			c.swapIn <- *current
			*current = next
			return false
		case <-ticker.C:
			if c.enabledInputBits == 0 {
				continue
			}
			bits := gpio.Read()
			if !*haveLastInputs || bits != *lastInputs {
				*lastInputs = bits
				*haveLastInputs = true
				// Every transition must reach ReceiveNewInputs: block rather
				// than drop if inputEventBacklog is ever exhausted.
				c.inputs <- bits
			}
		}
	}
}

// pinRefreshThread pins the calling OS thread to the last CPU core and
// raises its scheduling priority and the kernel's RT throttle/governor
// tunables, best-effort: every failure is logged and never fatal.
func pinRefreshThread(chip rpi.Chip, logger Logger) {
	lastCore := chip.NumCores() - 1

	var set unix.CPUSet
	set.Zero()
	set.Set(lastCore)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		logger.Printf("could not pin refresh thread to cpu%d: %v", lastCore, err)
	}

	tid := unix.Gettid()
	if _, _, errno := unix.Syscall(unix.SYS_SETPRIORITY, 0, uintptr(tid), ^uintptr(19)); errno != 0 {
		logger.Printf("could not raise refresh thread priority: %v", errno)
	}

	writeTunable(logger, "/proc/sys/kernel/sched_rt_runtime_us", "999000")
	writeTunable(logger, fmt.Sprintf("/sys/devices/system/cpu/cpu%d/cpufreq/scaling_governor", lastCore), "performance")
}

// writeTunable writes one advisory kernel tunable, logging a failure
// instead of returning it.
func writeTunable(logger Logger, path, value string) {
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		logger.Printf("could not write %s: %v", path, err)
	}
}
