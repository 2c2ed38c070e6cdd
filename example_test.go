// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix_test

import (
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/rpi-hub75/rgbmatrix"
)

// Example starts a 64x32 matrix, watches an external pushbutton wired to a
// GPIO pin the matrix itself doesn't use, and fills the panel red or green
// depending on whether it's held.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	button := gpioreg.ByName("GPIO21")
	if button == nil {
		log.Fatal("GPIO21 not found")
	}
	if err := button.In(gpio.PullUp, gpio.BothEdges); err != nil {
		log.Fatal(err)
	}

	ctrl, canvas, err := rgbmatrix.New(rgbmatrix.Config{
		Rows: 32, Cols: 64, ChainLength: 1, Parallel: 1,
	}, 0)
	if err != nil {
		log.Fatal(err)
	}
	defer ctrl.Halt()

	for {
		if button.Read() == gpio.Low {
			canvas.Fill(255, 0, 0)
		} else {
			canvas.Fill(0, 255, 0)
		}
		canvas = ctrl.UpdateOnVsync(canvas)
		time.Sleep(16 * time.Millisecond)
	}
}
