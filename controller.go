// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix

import (
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rpi-hub75/rgbmatrix/canvas"
	"github.com/rpi-hub75/rgbmatrix/pixelmap"
	"github.com/rpi-hub75/rgbmatrix/rowaddress"
	"github.com/rpi-hub75/rgbmatrix/rpi"

	"periph.io/x/conn/v3"
)

// inputEventBacklog bounds the inputs channel: transitions are rare, so this
// only needs headroom for a burst a slow ReceiveNewInputs caller hasn't
// drained yet, never as a substitute for actually draining it.
const inputEventBacklog = 64

// startReport is how the refresh goroutine reports its one-shot startup
// result back to Controller.New.
type startReport struct {
	enabledInputBits uint32
	err              error
}

// Controller is the user-facing facade: it owns the refresh goroutine and
// the channels a client swaps canvases and reads input changes through.
type Controller struct {
	cfg       resolved
	chip      rpi.Chip
	rowSetter rowaddress.Setter

	shutdown chan struct{}
	inputs   chan uint32
	swapOut  chan *canvas.Canvas
	swapIn   chan *canvas.Canvas

	enabledInputBits uint32
	frameRate        frameRateMeter

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New builds the pixel-mapper pipeline and designator map, spawns the
// refresh goroutine, and blocks up to 10 seconds for it to report whether
// startup (peripheral mapping, GPIO reservation, panel init) succeeded. It
// returns the Controller plus the Canvas a client should start drawing
// into; a second, refresh-thread-side Canvas is held internally.
func New(cfg Config, requestedInputs uint32) (*Controller, *canvas.Canvas, error) {
	r, err := resolveConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	if f, err := os.OpenFile("/dev/mem", os.O_RDWR, 0); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMemoryAccess, err)
	} else {
		f.Close()
	}

	chip := r.Chip
	if r.DetectChip {
		chip, err = rpi.Determine()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrChipDetermination, err)
		}
	}
	slowdown := r.Slowdown
	if slowdown == 0 {
		slowdown = chip.GPIOSlowdown()
	}

	pipeline, rows, cols, err := buildPipeline(r)
	if err != nil {
		return nil, nil, err
	}

	geo := canvas.Geometry{
		Rows:            rows,
		Cols:            cols,
		Parallel:        r.Parallel,
		ChainLength:     r.ChainLength,
		HardwareMapping: r.hardwareMapping,
		LEDSequence:     r.LEDSequence,
	}
	physicalWidth := cols * r.ChainLength
	physicalHeight := rows * r.Parallel
	designatorMap := canvas.NewPixelDesignatorMap(geo, physicalWidth, physicalHeight)

	visibleWidth, visibleHeight, err := pipeline.Size(physicalWidth, physicalHeight)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	designatorMap = remapThroughPipeline(designatorMap, pipeline, physicalWidth, physicalHeight, visibleWidth, visibleHeight)

	opts := canvas.Options{
		Geometry:     geo,
		PWMBits:      r.PWMBits,
		Brightness:   r.LEDBrightness,
		Interlaced:   r.Interlaced,
		SharedMapper: designatorMap,
	}
	doubleRows := geo.Rows * geo.Parallel / 2
	frontCanvas := canvas.New(physicalWidth, doubleRows, opts)
	backCanvas := canvas.New(physicalWidth, doubleRows, opts)

	rowSetter, err := rowaddress.New(r.rowSetterName, r.hardwareMapping, doubleRows)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	c := &Controller{
		cfg:       r,
		chip:      chip,
		rowSetter: rowSetter,
		shutdown:  make(chan struct{}),
		inputs:    make(chan uint32, inputEventBacklog),
		swapOut:   make(chan *canvas.Canvas),
		swapIn:    make(chan *canvas.Canvas, 1),
	}

	report := make(chan startReport, 1)
	c.wg.Add(1)
	go c.runRefresh(chip, slowdown, rowSetter, backCanvas, requestedInputs, report)

	select {
	case rep := <-report:
		if rep.err != nil {
			return nil, nil, rep.err
		}
		c.enabledInputBits = rep.enabledInputBits
	case <-time.After(10 * time.Second):
		return nil, nil, ErrThreadStartup
	}

	return c, frontCanvas, nil
}

// buildPipeline assembles the multiplex mapper (if configured) and every
// arrangement mapper, and returns the physical (rows, cols) a client's
// multiplexed panel should be described with.
func buildPipeline(r resolved) (pixelmap.Pipeline, int, int, error) {
	rows, cols := r.Rows, r.Cols
	var pipeline pixelmap.Pipeline

	if r.Multiplexing != "" {
		m, err := pixelmap.NewMultiplexMapper(r.Multiplexing)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		pixelmap.EditRowsCols(m, &rows, &cols)
		pipeline = append(pipeline, m)
	}

	for _, spec := range r.PixelMapperSpecs {
		as, err := pixelmap.ParseArrangementSpec(spec)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		am, err := as.Build(r.ChainLength, r.Parallel)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		pipeline = append(pipeline, am)
	}

	return pipeline, rows, cols, nil
}

// remapThroughPipeline rebuilds the designator map through every pipeline
// stage so a client drawing in the outermost visible coordinate space gets
// the right physical pixel, per pixelmap.Pipeline.MapVisibleToMatrix.
func remapThroughPipeline(m *canvas.PixelDesignatorMap, pipeline pixelmap.Pipeline, physicalWidth, physicalHeight, visibleWidth, visibleHeight int) *canvas.PixelDesignatorMap {
	if len(pipeline) == 0 {
		return m
	}
	return canvas.Remap(m, visibleWidth, visibleHeight, func(x, y int) (int, int) {
		return pipeline.MapVisibleToMatrix(physicalWidth, physicalHeight, x, y)
	})
}

// UpdateOnVsync hands newCanvas to the refresh goroutine and returns the
// canvas it was previously drawing with. It blocks until the refresh
// goroutine has accepted newCanvas and relinquished its old one: at most
// one frame period.
func (c *Controller) UpdateOnVsync(newCanvas *canvas.Canvas) *canvas.Canvas {
	c.swapOut <- newCanvas
	return <-c.swapIn
}

// EnabledInputBits returns the subset of the caller-requested input GPIO
// bits that were actually free to claim as inputs.
func (c *Controller) EnabledInputBits() uint32 {
	return c.enabledInputBits
}

// ReceiveNewInputs blocks until an input pin transition is reported, or
// timeout elapses, returning ok=false on timeout.
func (c *Controller) ReceiveNewInputs(timeout time.Duration) (bits uint32, ok bool) {
	select {
	case bits := <-c.inputs:
		return bits, true
	case <-time.After(timeout):
		return 0, false
	}
}

// Framerate returns the exponentially smoothed measured refresh rate, in Hz.
func (c *Controller) Framerate() float64 {
	return c.frameRate.value()
}

// Halt signals the refresh goroutine to render one black frame and exit,
// then waits for it to finish. It implements conn.Resource.
func (c *Controller) Halt() error {
	c.closeOnce.Do(func() {
		close(c.shutdown)
	})
	c.wg.Wait()
	return nil
}

func (c *Controller) String() string {
	return fmt.Sprintf("rgbmatrix.Controller{%s, %dx%d, chain=%d, parallel=%d}", c.chip, c.cfg.Cols, c.cfg.Rows, c.cfg.ChainLength, c.cfg.Parallel)
}

var _ conn.Resource = &Controller{}

// frameRateMeter is a lock-free exponentially smoothed frame-rate
// estimate: one write per dump_to_matrix call, any number of lock-free
// reads from other goroutines.
type frameRateMeter struct {
	bits atomic.Uint64
}

const frameRateSmoothing = 0.1

func (m *frameRateMeter) update(instantHz float64) {
	prev := math.Float64frombits(m.bits.Load())
	var next float64
	switch {
	case prev == 0:
		next = instantHz
	default:
		next = prev + frameRateSmoothing*(instantHz-prev)
	}
	m.bits.Store(math.Float64bits(next))
}

func (m *frameRateMeter) value() float64 {
	return math.Float64frombits(m.bits.Load())
}
