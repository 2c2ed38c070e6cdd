// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pixelmap

import (
	"fmt"
	"strconv"
	"strings"
)

// ArrangementSpec describes one `--pixelmapper`-style directive: mirror the
// output, rotate it, or fold a long chain into a U shape. Unlike multiplex
// mappers, these can be chained in any order and combination.
type ArrangementSpec struct {
	kind    arrangementKind
	mirrorH bool
	angle   int
}

type arrangementKind int

const (
	mirrorKind arrangementKind = iota
	rotateKind
	uArrangeKind
)

// ParseArrangementSpec parses a directive such as "Mirror:H", "Mirror:V",
// "Rotate:90", or "U-mapper".
func ParseArrangementSpec(s string) (ArrangementSpec, error) {
	command, param, hasParam := strings.Cut(s, ":")
	if !hasParam {
		if s == "U-mapper" {
			return ArrangementSpec{kind: uArrangeKind}, nil
		}
		return ArrangementSpec{}, fmt.Errorf("pixelmap: %q is not a valid pixel mapping", s)
	}

	switch command {
	case "Mirror":
		switch param {
		case "H", "h":
			return ArrangementSpec{kind: mirrorKind, mirrorH: true}, nil
		case "V", "v":
			return ArrangementSpec{kind: mirrorKind, mirrorH: false}, nil
		default:
			return ArrangementSpec{}, fmt.Errorf("pixelmap: %q is not valid; Mirror parameter should be either 'V' or 'H'", param)
		}
	case "Rotate":
		angle, err := strconv.Atoi(param)
		if err != nil {
			return ArrangementSpec{}, fmt.Errorf("pixelmap: rotation angle is missing or invalid: %w", err)
		}
		if angle%90 != 0 {
			return ArrangementSpec{}, fmt.Errorf("pixelmap: %d is not valid; rotation needs to be a multiple of 90 degrees", angle)
		}
		return ArrangementSpec{kind: rotateKind, angle: ((angle % 360) + 360) % 360}, nil
	default:
		return ArrangementSpec{}, fmt.Errorf("pixelmap: %q is not a valid pixel mapping", s)
	}
}

// Build constructs the Mapper this spec describes. chain and parallel are
// only consulted for the U-mapper arrangement.
func (s ArrangementSpec) Build(chain, parallel int) (Mapper, error) {
	switch s.kind {
	case mirrorKind:
		return &mirrorMapper{horizontal: s.mirrorH}, nil
	case rotateKind:
		return &rotateMapper{angle: s.angle}, nil
	case uArrangeKind:
		return newUArrangeMapper(chain, parallel)
	default:
		return nil, fmt.Errorf("pixelmap: invalid arrangement spec")
	}
}

type mirrorMapper struct {
	horizontal bool
}

func (m *mirrorMapper) GetSizeMapping(matrixWidth, matrixHeight int) (int, int, error) {
	return matrixWidth, matrixHeight, nil
}

func (m *mirrorMapper) MapVisibleToMatrix(matrixWidth, matrixHeight, x, y int) (int, int) {
	if m.horizontal {
		return matrixWidth - 1 - x, y
	}
	return x, matrixHeight - 1 - y
}

type rotateMapper struct {
	angle int
}

func (r *rotateMapper) GetSizeMapping(matrixWidth, matrixHeight int) (int, int, error) {
	if r.angle%180 == 0 {
		return matrixWidth, matrixHeight, nil
	}
	return matrixHeight, matrixWidth, nil
}

func (r *rotateMapper) MapVisibleToMatrix(matrixWidth, matrixHeight, x, y int) (int, int) {
	switch r.angle {
	case 0:
		return x, y
	case 90:
		return matrixWidth - y - 1, x
	case 180:
		return matrixWidth - x - 1, matrixHeight - y - 1
	case 270:
		return y, matrixHeight - x - 1
	default:
		return x, y
	}
}

// uArrangeMapper folds a long single chain of panels into a U shape, so a
// display built from one data chain can be stacked into two (or more)
// visual rows without needing extra chains.
type uArrangeMapper struct {
	parallel int
}

func newUArrangeMapper(chain, parallel int) (*uArrangeMapper, error) {
	if chain < 2 {
		return nil, fmt.Errorf("pixelmap: U-mapper needs a chain length of at least 2 for useful folding")
	}
	if chain%2 != 0 {
		return nil, fmt.Errorf("pixelmap: U-mapper needs a chain length divisible by 2")
	}
	return &uArrangeMapper{parallel: parallel}, nil
}

func (u *uArrangeMapper) GetSizeMapping(matrixWidth, matrixHeight int) (int, int, error) {
	visibleWidth := (matrixWidth / 64) * 32 // Divide at the 32px boundary.
	visibleHeight := 2 * matrixHeight
	if matrixHeight%u.parallel != 0 {
		return 0, 0, fmt.Errorf("pixelmap: U-mapper expects height=%d to be divisible by parallel=%d", matrixHeight, u.parallel)
	}
	return visibleWidth, visibleHeight, nil
}

func (u *uArrangeMapper) MapVisibleToMatrix(matrixWidth, matrixHeight, x, y int) (int, int) {
	panelHeight := matrixHeight / u.parallel
	visibleWidth := (matrixWidth / 64) * 32
	slabHeight := 2 * panelHeight // One folded U-shape.
	baseY := (y / slabHeight) * panelHeight
	yInSlab := y % slabHeight

	var matrixX, matrixY int
	if yInSlab < panelHeight {
		// Upper panel of the slab.
		matrixX, matrixY = x+matrixWidth/2, yInSlab
	} else {
		// Lower panel of the slab.
		matrixX, matrixY = visibleWidth-x-1, slabHeight-yInSlab-1
	}
	return matrixX, baseY + matrixY
}
