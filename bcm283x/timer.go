// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "time"

const (
	stOffset          = 0x3000
	stSizeBytes       = 28
	stCLO             = 0x4
	minSysSleepTimeUS = 100
)

// Timer reads the free-running 64-bit BCM283x system timer (microsecond
// resolution) used to time row strobes and frame pacing precisely.
type Timer struct {
	r           *region
	sleepFactor float32
}

// NewTimer maps the system timer register block.
func NewTimer(peripheralsBase uint64) (*Timer, error) {
	r, err := mmapRegister(peripheralsBase, stOffset, stSizeBytes)
	if err != nil {
		return nil, err
	}
	return &Timer{r: r, sleepFactor: 0.4}, nil
}

// Now returns the current timer value in microseconds.
func (t *Timer) Now() uint64 {
	low := t.r.load(stCLO)
	high := t.r.load(stCLO + 4)
	return uint64(high)<<32 | uint64(low)
}

// Sleep blocks for exactly durationUS microseconds: it sleeps most of the
// duration via the OS scheduler, then busy-spins on the timer register for
// the remainder to get microsecond-accurate wakeups.
func (t *Timer) Sleep(durationUS uint64) {
	end := t.Now() + durationUS
	t.SleepAtMost(durationUS)
	for t.Now() < end {
	}
}

// SleepAtMost sleeps for no more than durationUS microseconds, using the OS
// scheduler; callers needing exact timing follow up with a busy-wait.
func (t *Timer) SleepAtMost(durationUS uint64) {
	if durationUS > minSysSleepTimeUS {
		sysSleepTime := time.Duration(float32(durationUS)*t.sleepFactor) * time.Microsecond
		time.Sleep(sysSleepTime)
	}
}

// Close unmaps the register block.
func (t *Timer) Close() error {
	return t.r.Close()
}
