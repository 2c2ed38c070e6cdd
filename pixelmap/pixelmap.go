// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pixelmap translates between the pixel layout an application draws
// to (the "visible" canvas) and the scrambled layout a multiplexed or
// unusually-wired panel actually expects on its data lines.
package pixelmap

import "fmt"

// Mapper remaps pixel coordinates between a visible canvas and the
// underlying matrix wiring. Multiple Mappers can be chained: each is given
// the (width, height) produced by the previous one.
type Mapper interface {
	// GetSizeMapping returns the visible (width, height) that results from
	// applying this mapper to a matrix of the given (width, height).
	GetSizeMapping(matrixWidth, matrixHeight int) (int, int, error)
	// MapVisibleToMatrix returns where a visible pixel (x, y) lives on the
	// underlying matrix.
	MapVisibleToMatrix(matrixWidth, matrixHeight, visibleX, visibleY int) (int, int)
}

// multiplexMapper holds the logic shared by every scan-pattern scrambler:
// dividing the matrix into same-sized panels, delegating the within-panel
// remap to mapSingle, then reassembling chained/parallel panels.
type multiplexMapper struct {
	panelRows, panelCols int
	stretchFactor        int
	mapSingle            func(x, y int) (int, int)
}

// editRowsCols records the matrix's true (rows, cols) as the panel size,
// then rewrites rows/cols to the post-multiplexing logical matrix size a
// caller should configure the rest of the driver with.
func (m *multiplexMapper) editRowsCols(rows, cols *int) {
	m.panelRows = *rows
	m.panelCols = *cols
	*rows /= m.stretchFactor
	*cols *= m.stretchFactor
}

func (m *multiplexMapper) GetSizeMapping(matrixWidth, matrixHeight int) (int, int, error) {
	return matrixWidth / m.stretchFactor, matrixHeight * m.stretchFactor, nil
}

func (m *multiplexMapper) MapVisibleToMatrix(_, _, visibleX, visibleY int) (int, int) {
	chainedPanel := visibleX / m.panelCols
	parallelPanel := visibleY / m.panelRows

	withinX := visibleX % m.panelCols
	withinY := visibleY % m.panelRows

	newX, newY := m.mapSingle(withinX, withinY)
	matrixX := chainedPanel*m.stretchFactor*m.panelCols + newX
	matrixY := parallelPanel*m.panelRows/m.stretchFactor + newY
	return matrixX, matrixY
}

// EditRowsCols exposes the panel-size bookkeeping so a caller configuring a
// matrix with multiplexing can learn the logical (rows, cols) it must drive
// the rest of the driver with, before any mapping is actually applied.
func EditRowsCols(m Mapper, rows, cols *int) {
	if mm, ok := m.(*multiplexMapper); ok {
		mm.editRowsCols(rows, cols)
	}
}

// Pipeline composes Mappers in order: the first mapper's visible space is
// the caller-facing one, each subsequent mapper's visible space is the
// previous mapper's matrix space.
type Pipeline []Mapper

// Size returns the outermost visible (width, height) after applying every
// stage of the pipeline to the given true matrix size, inner stage first.
func (p Pipeline) Size(matrixWidth, matrixHeight int) (int, int, error) {
	w, h := matrixWidth, matrixHeight
	for i := len(p) - 1; i >= 0; i-- {
		var err error
		w, h, err = p[i].GetSizeMapping(w, h)
		if err != nil {
			return 0, 0, fmt.Errorf("pixelmap: stage %d: %w", i, err)
		}
	}
	return w, h, nil
}

// MapVisibleToMatrix runs a pixel through every stage of the pipeline, from
// the outermost visible coordinate down to the true matrix coordinate.
func (p Pipeline) MapVisibleToMatrix(matrixWidth, matrixHeight, visibleX, visibleY int) (int, int) {
	// Sizes must be recomputed going outward-in so each stage sees the
	// matrix size it was actually configured against.
	sizes := make([][2]int, len(p)+1)
	sizes[len(p)] = [2]int{matrixWidth, matrixHeight}
	for i := len(p) - 1; i >= 0; i-- {
		w, h, _ := p[i].GetSizeMapping(sizes[i+1][0], sizes[i+1][1])
		sizes[i] = [2]int{w, h}
	}

	x, y := visibleX, visibleY
	for i := 0; i < len(p); i++ {
		x, y = p[i].MapVisibleToMatrix(sizes[i+1][0], sizes[i+1][1], x, y)
	}
	return x, y
}
