// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

const (
	pwmOffset    = 0x0020C000
	pwmSizeBytes = 32
	pwmCTL       = 0x00
	pwmSTA       = 0x04
	pwmRNG1      = 0x10
	pwmFIF1      = 0x18
	pwmSTAEmpt1  = 0x1 << 1
)

const (
	// PWMCtlPWEN1 enables channel 1 (0=disable 1=enable).
	PWMCtlPWEN1 = 1 << 0
	// PWMCtlPOLA1 inverts channel 1's polarity (0: 0=low 1=high, 1: 1=low 0=high).
	PWMCtlPOLA1 = 1 << 4
	// PWMCtlUSEF1 makes channel 1 consume its FIFO rather than the data register.
	PWMCtlUSEF1 = 1 << 5
	// PWMCtlCLRF1 clears the FIFO; self-clearing, has no effect when 0.
	PWMCtlCLRF1 = 1 << 6
)

// PWM is the pulse-width-modulator register block. Its channel 1 FIFO
// drives the HUB75 output-enable line so the refresh engine can time a
// bit-plane's on-time in hardware instead of busy-waiting in software.
type PWM struct {
	r *region
}

// NewPWM maps the PWM register block.
func NewPWM(peripheralsBase uint64) (*PWM, error) {
	r, err := mmapRegister(peripheralsBase, pwmOffset, pwmSizeBytes)
	if err != nil {
		return nil, err
	}
	return &PWM{r: r}, nil
}

// EnablePWM configures channel 1 for FIFO-driven output with inverted
// polarity (low=on) and enables it.
func (p *PWM) EnablePWM() {
	p.setCtl(PWMCtlUSEF1 | PWMCtlPOLA1 | PWMCtlPWEN1)
}

// ResetPWM clears channel 1's FIFO, keeping FIFO mode and inverted polarity.
func (p *PWM) ResetPWM() {
	p.setCtl(PWMCtlUSEF1 | PWMCtlPOLA1 | PWMCtlCLRF1)
}

func (p *PWM) setCtl(value uint32) {
	p.r.store(pwmCTL, value)
}

// SetPulsePeriod sets channel 1's range register (period, in clock ticks).
func (p *PWM) SetPulsePeriod(value uint32) {
	p.r.store(pwmRNG1, value)
}

// PushFIFO pushes one value into channel 1's FIFO.
func (p *PWM) PushFIFO(value uint32) {
	p.r.store(pwmFIF1, value)
}

// FIFOEmpty reports whether channel 1's FIFO has drained.
func (p *PWM) FIFOEmpty() bool {
	return p.r.load(pwmSTA)&pwmSTAEmpt1 != 0
}

// Close unmaps the register block.
func (p *PWM) Close() error {
	return p.r.Close()
}
