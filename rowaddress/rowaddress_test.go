// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rowaddress

import (
	"testing"

	"github.com/rpi-hub75/rgbmatrix/hubmap"
)

func TestNewUnknownName(t *testing.T) {
	if _, err := New("bogus", hubmap.NewRegular(), 32); err == nil {
		t.Error("New(bogus) should have failed")
	}
}

func TestNewEveryBuiltinName(t *testing.T) {
	h := hubmap.NewRegular()
	for _, name := range []Name{Direct, ShiftRegister, DirectABCDLine, ABCShiftRegister, SM5266} {
		if _, err := New(name, h, 32); err != nil {
			t.Errorf("New(%s): %v", name, err)
		}
	}
}

func TestDirectRowMaskGrowsWithDoubleRows(t *testing.T) {
	h := hubmap.NewRegular()
	d4 := newDirect(h, 4)
	d32 := newDirect(h, 32)
	if d4.rowMask&h.C != 0 {
		t.Error("4 double-rows should not need line C")
	}
	if d32.rowMask&(h.B|h.C|h.D|h.E) != h.B|h.C|h.D|h.E {
		t.Error("32 double-rows should need lines A-E")
	}
}

func TestDirectRowLookupBitPattern(t *testing.T) {
	h := hubmap.NewRegular()
	d := newDirect(h, 32)
	if d.rowLookup[0] != 0 {
		t.Errorf("rowLookup[0] = %#x, want 0", d.rowLookup[0])
	}
	if d.rowLookup[1] != h.A {
		t.Errorf("rowLookup[1] = %#x, want %#x", d.rowLookup[1], h.A)
	}
	if d.rowLookup[31] != h.A|h.B|h.C|h.D|h.E {
		t.Errorf("rowLookup[31] = %#x, want all lines set", d.rowLookup[31])
	}
}

func TestSM5266RejectsTooManyDoubleRows(t *testing.T) {
	if _, err := newSM5266(hubmap.NewRegular(), 33); err == nil {
		t.Error("newSM5266(33) should have failed")
	}
}

func TestSM5266RowLookupUsesDandEOnly(t *testing.T) {
	h := hubmap.NewRegular()
	s, err := newSM5266(h, 32)
	if err != nil {
		t.Fatal(err)
	}
	if s.rowLookup[0x08] != h.D {
		t.Errorf("rowLookup[8] = %#x, want %#x", s.rowLookup[0x08], h.D)
	}
	if s.rowLookup[0x10] != h.E {
		t.Errorf("rowLookup[16] = %#x, want %#x", s.rowLookup[0x10], h.E)
	}
}

func TestShiftRegisterUsesAAndB(t *testing.T) {
	h := hubmap.NewRegular()
	s := newShiftRegister(h, 32, h.B)
	if s.clock != h.A || s.data != h.B {
		t.Errorf("clock=%#x data=%#x, want clock=%#x data=%#x", s.clock, s.data, h.A, h.B)
	}
}

func TestABCShiftRegisterUsesAAndC(t *testing.T) {
	h := hubmap.NewRegular()
	s := newShiftRegister(h, 32, h.C)
	if s.clock != h.A || s.data != h.C {
		t.Errorf("clock=%#x data=%#x, want clock=%#x data=%#x", s.clock, s.data, h.A, h.C)
	}
}

func TestDirectABCDLineRowLines(t *testing.T) {
	h := hubmap.NewRegular()
	d := newDirectABCDLine(h)
	want := [4]uint32{
		h.B | h.C | h.D,
		h.A | h.C | h.D,
		h.A | h.B | h.D,
		h.A | h.B | h.C,
	}
	if d.rowLines != want {
		t.Errorf("rowLines = %#v, want %#v", d.rowLines, want)
	}
}
