// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pinpulse

import (
	"reflect"
	"testing"
)

func TestSleepHints(t *testing.T) {
	got := sleepHints([]uint32{1000, 2000, 500000})
	want := []uint32{1, 2, 500}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sleepHints = %v, want %v", got, want)
	}
}

func TestPulsePeriods(t *testing.T) {
	timings := []uint32{130, 260, 520, 1040}
	got := pulsePeriods(timings, timings[0])
	want := []uint32{2, 4, 8, 16}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pulsePeriods = %v, want %v", got, want)
	}
}

func TestNewRejectsBadPin(t *testing.T) {
	if _, err := New(1<<5, []uint32{130}, nil, nil, nil); err == nil {
		t.Error("New with GPIO5 should have failed")
	}
}
