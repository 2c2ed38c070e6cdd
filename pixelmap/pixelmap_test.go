// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pixelmap

import "testing"

func TestNewMultiplexMapperUnknown(t *testing.T) {
	if _, err := NewMultiplexMapper("bogus"); err == nil {
		t.Error("NewMultiplexMapper(bogus) should have failed")
	}
}

func TestNewMultiplexMapperEveryBuiltin(t *testing.T) {
	names := []MultiplexName{
		Stripe, Checkered, Spiral, ZStripe08, ZStripe44, ZStripe80, Coreman,
		Kaler2Scan, P10Z, QiangLiQ8, InversedZStripe, P10Outdoor1R1G1B1,
		P10Outdoor1R1G1B2, P10Outdoor1R1G1B3, P10Coreman, P8Outdoor1R1G1B,
		FlippedStripe, P10Outdoor32x16HalfScan,
	}
	for _, name := range names {
		m, err := NewMultiplexMapper(name)
		if err != nil {
			t.Errorf("NewMultiplexMapper(%s): %v", name, err)
			continue
		}
		rows, cols := 32, 32
		EditRowsCols(m, &rows, &cols)
		w, h, err := m.GetSizeMapping(64, 16)
		if err != nil {
			t.Errorf("%s: GetSizeMapping: %v", name, err)
		}
		if w <= 0 || h <= 0 {
			t.Errorf("%s: GetSizeMapping(64, 16) = (%d, %d), want positive", name, w, h)
		}
		// Every visible coordinate of a 64x16 matrix must map somewhere;
		// this only checks the call does not panic for in-range input.
		for y := 0; y < 16; y++ {
			for x := 0; x < 64; x++ {
				m.MapVisibleToMatrix(64, 16, x, y)
			}
		}
	}
}

func TestStripeMapperKnownPoints(t *testing.T) {
	m := newStripeMapper()
	rows, cols := 32, 32
	m.editRowsCols(&rows, &cols)
	// Top-left pixel of the single panel lies in a top stripe, which is
	// shifted right by one panel width.
	x, y := m.mapSingle(0, 0)
	if x != 32 || y != 0 {
		t.Errorf("mapSingle(0, 0) = (%d, %d), want (32, 0)", x, y)
	}
}

func TestMirrorMapperHorizontal(t *testing.T) {
	m := &mirrorMapper{horizontal: true}
	x, y := m.MapVisibleToMatrix(64, 32, 0, 5)
	if x != 63 || y != 5 {
		t.Errorf("MapVisibleToMatrix(0, 5) = (%d, %d), want (63, 5)", x, y)
	}
}

func TestMirrorMapperVertical(t *testing.T) {
	m := &mirrorMapper{horizontal: false}
	x, y := m.MapVisibleToMatrix(64, 32, 5, 0)
	if x != 5 || y != 31 {
		t.Errorf("MapVisibleToMatrix(5, 0) = (%d, %d), want (5, 31)", x, y)
	}
}

func TestRotateMapperSizeSwapsOnQuarterTurn(t *testing.T) {
	r := &rotateMapper{angle: 90}
	w, h, _ := r.GetSizeMapping(64, 32)
	if w != 32 || h != 64 {
		t.Errorf("GetSizeMapping = (%d, %d), want (32, 64)", w, h)
	}
}

func TestRotateMapper180KeepsSize(t *testing.T) {
	r := &rotateMapper{angle: 180}
	w, h, _ := r.GetSizeMapping(64, 32)
	if w != 64 || h != 32 {
		t.Errorf("GetSizeMapping = (%d, %d), want (64, 32)", w, h)
	}
}

func TestParseArrangementSpecMirror(t *testing.T) {
	spec, err := ParseArrangementSpec("Mirror:H")
	if err != nil {
		t.Fatal(err)
	}
	m, err := spec.Build(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(*mirrorMapper); !ok {
		t.Errorf("Build returned %T, want *mirrorMapper", m)
	}
}

func TestParseArrangementSpecRotateNormalizesAngle(t *testing.T) {
	spec, err := ParseArrangementSpec("Rotate:450")
	if err != nil {
		t.Fatal(err)
	}
	rm, err := spec.Build(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	rot := rm.(*rotateMapper)
	if rot.angle != 90 {
		t.Errorf("Rotate:450 normalized angle = %d, want 90", rot.angle)
	}
}

func TestParseArrangementSpecRotateRejectsNonMultipleOf90(t *testing.T) {
	if _, err := ParseArrangementSpec("Rotate:45"); err == nil {
		t.Error("Rotate:45 should have failed")
	}
}

func TestParseArrangementSpecUMapper(t *testing.T) {
	spec, err := ParseArrangementSpec("U-mapper")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := spec.Build(2, 1); err != nil {
		t.Errorf("Build(chain=2): %v", err)
	}
	if _, err := spec.Build(1, 1); err == nil {
		t.Error("Build(chain=1) should have failed: chain too short")
	}
	if _, err := spec.Build(3, 1); err == nil {
		t.Error("Build(chain=3) should have failed: chain not divisible by 2")
	}
}

func TestParseArrangementSpecInvalid(t *testing.T) {
	if _, err := ParseArrangementSpec("NotAMapping"); err == nil {
		t.Error("NotAMapping should have failed")
	}
	if _, err := ParseArrangementSpec("Mirror:X"); err == nil {
		t.Error("Mirror:X should have failed")
	}
}

func TestUArrangeMapperFoldsChainIntoU(t *testing.T) {
	u, err := newUArrangeMapper(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	// A 128x32 matrix (2 chained 64x32 panels) folds into a 64x64 visible U.
	w, h, err := u.GetSizeMapping(128, 32)
	if err != nil {
		t.Fatal(err)
	}
	if w != 64 || h != 64 {
		t.Errorf("GetSizeMapping(128, 32) = (%d, %d), want (64, 64)", w, h)
	}
	// Top-left of the upper panel sits at the chain's midpoint.
	x, y := u.MapVisibleToMatrix(128, 32, 0, 0)
	if x != 64 || y != 0 {
		t.Errorf("MapVisibleToMatrix(0, 0) = (%d, %d), want (64, 0)", x, y)
	}
}
