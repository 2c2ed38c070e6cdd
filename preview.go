// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"periph.io/x/conn/v3"
)

// PreviewOpts configures a terminal Preview.
type PreviewOpts struct {
	Width, Height int
	Palette       *ansi256.Palette

	_ struct{}
}

// Preview is a terminal emulator of a HUB75 panel: useful for developing
// animations on a machine with no panel wired up. It draws independently of
// Canvas, since Canvas's bit-plane buffer is write-only from a client's
// perspective.
type Preview struct {
	w       io.Writer
	width   int
	height  int
	palette ansi256.Palette

	pixels []byte
	buf    bytes.Buffer
}

// NewPreview returns a Preview sized opts.Width by opts.Height.
func NewPreview(opts PreviewOpts) *Preview {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Preview{
		w:       colorable.NewColorableStdout(),
		width:   opts.Width,
		height:  opts.Height,
		palette: *p,
		pixels:  make([]byte, 3*opts.Width*opts.Height),
	}
}

// SetPixel sets one pixel's color; out-of-range coordinates are a no-op.
func (p *Preview) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return
	}
	i := 3 * (y*p.width + x)
	p.pixels[i], p.pixels[i+1], p.pixels[i+2] = r, g, b
}

// Render draws the current frame, moving the cursor back to the top-left so
// consecutive frames overwrite each other instead of scrolling.
func (p *Preview) Render() error {
	p.buf.Reset()
	_, _ = p.buf.WriteString("\033[H\033[0m")
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			i := 3 * (y*p.width + x)
			c := color.NRGBA{p.pixels[i], p.pixels[i+1], p.pixels[i+2], 255}
			_, _ = io.WriteString(&p.buf, p.palette.Block(c))
		}
		_, _ = p.buf.WriteString("\033[0m\r\n")
	}
	_, err := p.buf.WriteTo(p.w)
	return err
}

func (p *Preview) String() string {
	return fmt.Sprintf("rgbmatrix.Preview{%dx%d}", p.width, p.height)
}

// Halt implements conn.Resource: it resets the terminal's color state.
func (p *Preview) Halt() error {
	_, err := p.w.Write([]byte("\033[0m"))
	return err
}

var _ conn.Resource = &Preview{}
