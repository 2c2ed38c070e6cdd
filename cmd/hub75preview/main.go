// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command hub75preview renders a gradient test pattern to the terminal using
// rgbmatrix.Preview, so a panel's layout and pixel mapping can be sanity
// checked without any GPIO hardware attached.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpi-hub75/rgbmatrix"
)

func main() {
	width := flag.Int("width", 64, "panel width in pixels")
	height := flag.Int("height", 32, "panel height in pixels")
	fps := flag.Int("fps", 30, "frames per second")
	flag.Parse()

	log.Printf("previewing a %dx%d panel at %d fps; ctrl-c to stop", *width, *height, *fps)

	preview := rgbmatrix.NewPreview(rgbmatrix.PreviewOpts{Width: *width, Height: *height})
	defer preview.Halt()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	var frame int
	for {
		select {
		case <-sigCh:
			log.Println("stopped")
			return
		case <-ticker.C:
			drawGradient(preview, *width, *height, frame)
			if err := preview.Render(); err != nil {
				log.Fatalf("render: %v", err)
			}
			frame++
		}
	}
}

// drawGradient paints three horizontal bars, one per color channel, each
// sweeping brightness left to right and cycling phase with frame so a
// reader can see the whole panel is addressed and not just its corners.
func drawGradient(preview *rgbmatrix.Preview, width, height, frame int) {
	barHeight := height / 3
	if barHeight == 0 {
		barHeight = 1
	}
	for y := 0; y < height; y++ {
		bar := y / barHeight
		for x := 0; x < width; x++ {
			phase := (x + frame) % width
			intensity := uint8((phase * 255) / width)
			switch bar {
			case 0:
				preview.SetPixel(x, y, intensity, 0, 0)
			case 1:
				preview.SetPixel(x, y, 0, intensity, 0)
			default:
				preview.SetPixel(x, y, 0, 0, intensity)
			}
		}
	}
}
