// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix

import (
	"math"
	"testing"

	"github.com/rpi-hub75/rgbmatrix/pixelmap"
)

func TestFrameRateMeterFirstUpdateIsExact(t *testing.T) {
	var m frameRateMeter
	m.update(120)
	if got := m.value(); got != 120 {
		t.Errorf("value() = %v, want 120", got)
	}
}

func TestFrameRateMeterSmoothsTowardNewValue(t *testing.T) {
	var m frameRateMeter
	m.update(100)
	m.update(200)
	got := m.value()
	want := 100 + frameRateSmoothing*(200-100)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("value() = %v, want %v", got, want)
	}
	if got <= 100 || got >= 200 {
		t.Errorf("value() = %v, want strictly between 100 and 200", got)
	}
}

func TestBuildPipelineNoMultiplexingOrMappers(t *testing.T) {
	r := resolved{Config: Config{Rows: 32, Cols: 64}}
	pipeline, rows, cols, err := buildPipeline(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(pipeline) != 0 {
		t.Errorf("pipeline length = %d, want 0", len(pipeline))
	}
	if rows != 32 || cols != 64 {
		t.Errorf("rows/cols = %d/%d, want 32/64", rows, cols)
	}
}

func TestBuildPipelineRejectsUnknownMultiplexing(t *testing.T) {
	r := resolved{Config: Config{Rows: 32, Cols: 64, Multiplexing: pixelmap.MultiplexName("not-a-pattern")}}
	_, _, _, err := buildPipeline(r)
	if err == nil {
		t.Fatal("expected an error for an unknown multiplexing pattern")
	}
}

func TestBuildPipelineRejectsUnknownArrangementSpec(t *testing.T) {
	r := resolved{Config: Config{Rows: 32, Cols: 64, PixelMapperSpecs: []string{"Nonsense:xyz"}}}
	_, _, _, err := buildPipeline(r)
	if err == nil {
		t.Fatal("expected an error for an unparsable arrangement spec")
	}
}
