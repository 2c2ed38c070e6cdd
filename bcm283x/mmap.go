// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bcm283x maps the BCM283x/BCM2711 peripheral register blocks used
// to drive a HUB75 panel directly: GPIO function-select/set/clear, the
// free-running system timer, the PWM peripheral and its clock-manager
// divider. See https://elinux.org/BCM2835_registers.
package bcm283x

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// region is a mmap'd window into /dev/mem over one peripheral's register
// block. Register reads/writes go through sync/atomic on the backing byte
// slice: Go has no volatile keyword, and atomic access is the idiomatic
// substitute that keeps the compiler from caching or reordering accesses to
// memory it otherwise assumes no one else touches.
type region struct {
	mem []byte
}

func mmapRegister(base, offset uint64, sizeBytes int) (*region, error) {
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("bcm283x: open /dev/mem: %w", err)
	}
	defer f.Close()

	mem, err := unix.Mmap(int(f.Fd()), int64(base+offset), sizeBytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("bcm283x: mmap offset %#x: %w", base+offset, err)
	}
	return &region{mem: mem}, nil
}

func (r *region) word(byteOffset int) *uint32 {
	return (*uint32)(unsafe.Pointer(&r.mem[byteOffset]))
}

func (r *region) load(byteOffset int) uint32 {
	return atomic.LoadUint32(r.word(byteOffset))
}

func (r *region) store(byteOffset int, value uint32) {
	atomic.StoreUint32(r.word(byteOffset), value)
}

func (r *region) Close() error {
	if r.mem == nil {
		return nil
	}
	err := unix.Munmap(r.mem)
	r.mem = nil
	return err
}
