// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pixelmap

import "fmt"

// MultiplexName identifies a built-in scan-pattern scrambler.
type MultiplexName string

const (
	Stripe                  MultiplexName = "Stripe"
	Checkered               MultiplexName = "Checkered"
	Spiral                  MultiplexName = "Spiral"
	ZStripe08               MultiplexName = "ZStripe08"
	ZStripe44               MultiplexName = "ZStripe44"
	ZStripe80               MultiplexName = "ZStripe80"
	Coreman                 MultiplexName = "Coreman"
	Kaler2Scan              MultiplexName = "Kaler2Scan"
	P10Z                    MultiplexName = "P10Z"
	QiangLiQ8               MultiplexName = "QiangLiQ8"
	InversedZStripe         MultiplexName = "InversedZStripe"
	P10Outdoor1R1G1B1       MultiplexName = "P10Outdoor1R1G1B1"
	P10Outdoor1R1G1B2       MultiplexName = "P10Outdoor1R1G1B2"
	P10Outdoor1R1G1B3       MultiplexName = "P10Outdoor1R1G1B3"
	P10Coreman              MultiplexName = "P10Coreman"
	P8Outdoor1R1G1B         MultiplexName = "P8Outdoor1R1G1B"
	FlippedStripe           MultiplexName = "FlippedStripe"
	P10Outdoor32x16HalfScan MultiplexName = "P10Outdoor32x16HalfScan"
)

// NewMultiplexMapper builds the named scan-pattern scrambler.
func NewMultiplexMapper(name MultiplexName) (Mapper, error) {
	switch name {
	case Stripe:
		return newStripeMapper(), nil
	case FlippedStripe:
		return newFlippedStripeMapper(), nil
	case Checkered:
		return newCheckeredMapper(), nil
	case Spiral:
		return newSpiralMapper(), nil
	case ZStripe08:
		return newZStripeMapper(0, 8), nil
	case ZStripe44:
		return newZStripeMapper(4, 4), nil
	case ZStripe80:
		return newZStripeMapper(8, 0), nil
	case Coreman:
		return newCoremanMapper(), nil
	case Kaler2Scan:
		return newKaler2ScanMapper(), nil
	case P10Z:
		return newP10ZMapper(), nil
	case QiangLiQ8:
		return newQiangLiQ8Mapper(), nil
	case InversedZStripe:
		return newInversedZStripeMapper(), nil
	case P10Outdoor1R1G1B1:
		return newP10Outdoor1R1G1B1Mapper(), nil
	case P10Outdoor1R1G1B2:
		return newP10Outdoor1R1G1B2Mapper(), nil
	case P10Outdoor1R1G1B3:
		return newP10Outdoor1R1G1B3Mapper(), nil
	case P10Coreman:
		return newP10CoremanMapper(), nil
	case P8Outdoor1R1G1B:
		return newP8Outdoor1R1G1BMapper(), nil
	case P10Outdoor32x16HalfScan:
		return newP10Outdoor32x16HalfScanMapper(), nil
	default:
		return nil, fmt.Errorf("pixelmap: unknown multiplex mapper %q", name)
	}
}

func newStripeMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		isTopStripe := (y % (m.panelRows / 2)) < m.panelRows/4
		mx := x
		if isTopStripe {
			mx = x + m.panelCols
		}
		my := (y/(m.panelRows/2))*(m.panelRows/4) + y%(m.panelRows/4)
		return mx, my
	}
	return m
}

func newFlippedStripeMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		isTopStripe := (y % (m.panelRows / 2)) >= m.panelRows/4
		mx := x
		if isTopStripe {
			mx = x + m.panelCols
		}
		my := (y/(m.panelRows/2))*(m.panelRows/4) + y%(m.panelRows/4)
		return mx, my
	}
	return m
}

func newCheckeredMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		isTopCheck := (y % (m.panelRows / 2)) < m.panelRows/4
		isLeftCheck := x < m.panelCols/2
		var mx int
		switch {
		case isTopCheck && isLeftCheck:
			mx = x + m.panelCols/2
		case isTopCheck:
			mx = x + m.panelCols
		case isLeftCheck:
			mx = x
		default:
			mx = x + m.panelCols/2
		}
		my := (y/(m.panelRows/2))*(m.panelRows/4) + y%(m.panelRows/4)
		return mx, my
	}
	return m
}

func newSpiralMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		isTopStripe := (y % (m.panelRows / 2)) < m.panelRows/4
		panelQuarter := m.panelCols / 4
		quarter := x / panelQuarter
		offset := x % panelQuarter
		var within int
		if isTopStripe {
			within = panelQuarter - 1 - offset
		} else {
			within = panelQuarter + offset
		}
		mx := 2*quarter*panelQuarter + within
		my := (y/(m.panelRows/2))*(m.panelRows/4) + y%(m.panelRows/4)
		return mx, my
	}
	return m
}

func newZStripeMapper(evenVblockOffset, oddVblockOffset int) *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		const tileWidth, tileHeight = 8, 4
		vertBlockIsOdd := (y / tileHeight) % 2
		evenShift := (1 - vertBlockIsOdd) * evenVblockOffset
		oddShift := vertBlockIsOdd * oddVblockOffset
		mx := x + ((x+evenShift)/tileWidth)*tileWidth + oddShift
		my := (y % tileHeight) + tileHeight*(y/(tileHeight*2))
		return mx, my
	}
	return m
}

func newCoremanMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		isLeftCheck := x < m.panelCols/2
		if y <= 7 || (y >= 16 && y <= 23) {
			mx := (x/(m.panelCols/2))*m.panelCols + x%(m.panelCols/2)
			var my int
			if y&(m.panelRows/4) == 0 {
				my = (y/(m.panelRows/2))*(m.panelRows/4) + y%(m.panelRows/4)
			}
			return mx, my
		}
		var mx int
		if isLeftCheck {
			mx = x + m.panelCols/2
		} else {
			mx = x + m.panelCols
		}
		my := (y/(m.panelRows/2))*(m.panelRows/4) + y%(m.panelRows/4)
		return mx, my
	}
	return m
}

func newKaler2ScanMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 4}
	m.mapSingle = func(x, y int) (int, int) {
		// Operates on a 128x4 matrix.
		offset := -1
		if (y%4)/2 != 0 {
			offset = 1
		}
		deltaOffset := 7
		if offset > 0 {
			deltaOffset = 8
		}
		deltaColumn := 0
		if (y%8)/4 == 0 {
			deltaColumn = 64
		}
		my := y%2 + (y/8)*2
		mx := deltaColumn + 16*(x/8) + deltaOffset + (x%8)*offset
		return mx, my
	}
	return m
}

func newP10ZMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 4}
	m.mapSingle = func(x, y int) (int, int) {
		var yComp int
		switch y {
		case 0, 1, 8, 9:
			yComp = 127
		case 2, 3, 10, 11:
			yComp = 112
		case 4, 5, 12, 13:
			yComp = 111
		case 6, 7, 14, 15:
			yComp = 96
		}

		var mx int
		switch y {
		case 0, 1, 4, 5, 8, 9, 12, 13:
			mx = yComp - x - 24*(x/8)
		default:
			mx = yComp + x - 40*(x/8)
		}

		var my int
		switch y {
		case 0, 2, 4, 6:
			my = 3
		case 1, 3, 5, 7:
			my = 2
		case 8, 10, 12, 14:
			my = 1
		case 9, 11, 13, 15:
			my = 0
		default:
			my = y
		}
		return mx, my
	}
	return m
}

func newQiangLiQ8Mapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		var mx int
		if (y >= 15 && y <= 19) || (y >= 5 && y <= 9) {
			mx = x + 4*(x/4)
		} else {
			mx = x + 4 + 4*(x/4)
		}
		my := y%5 + (y/10)*5
		return mx, my
	}
	return m
}

func newInversedZStripeMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	evenOffset := [8]int{15, 13, 11, 9, 7, 5, 3, 1}
	m.mapSingle = func(x, y int) (int, int) {
		const tileWidth, tileHeight = 8, 4
		vertBlockIsEven := (y/tileHeight)%2 == 0
		mx := x + (x/tileWidth)*tileWidth
		if vertBlockIsEven {
			mx += evenOffset[x%8]
		}
		my := (y % tileHeight) + tileHeight*(y/(tileHeight*2))
		return mx, my
	}
	return m
}

// P10 1R1G1B outdoor modules wire their 16x16 tiles in one of three common
// scan orders; these three mappers cover each wiring variant.
const (
	p10TileWidth       = 8
	p10TileHeight      = 4
	p10EvenVblockOffset = 0
	p10OddVblockOffset  = 8
)

func newP10Outdoor1R1G1B1Mapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		vblockIsEven := (y/p10TileHeight)%2 == 0
		evenBit := 0
		if vblockIsEven {
			evenBit = 1
		}
		mx := p10TileWidth*(1+evenBit+2*(x/p10TileWidth)) - (x % p10TileWidth) - 1
		my := (y % p10TileHeight) + p10TileHeight*(y/(p10TileHeight*2))
		return mx, my
	}
	return m
}

func newP10Outdoor1R1G1B2Mapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		vblockIsEven := (y/p10TileHeight)%2 == 0
		evenShift, oddShift := 0, 0
		if vblockIsEven {
			evenShift = p10EvenVblockOffset
		} else {
			oddShift = p10OddVblockOffset
		}
		var mx int
		if vblockIsEven {
			mx = p10TileWidth*(1+2*(x/p10TileWidth)) - (x % p10TileWidth) - 1
		} else {
			mx = x + ((x+evenShift)/p10TileWidth)*p10TileWidth + oddShift
		}
		my := (y % p10TileHeight) + p10TileHeight*(y/(p10TileHeight*2))
		return mx, my
	}
	return m
}

func newP10Outdoor1R1G1B3Mapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		vblockIsEven := (y/p10TileHeight)%2 == 0
		evenShift, oddShift := 0, 0
		if vblockIsEven {
			evenShift = p10EvenVblockOffset
		} else {
			oddShift = p10OddVblockOffset
		}
		var mx int
		if vblockIsEven {
			mx = x + ((x+evenShift)/p10TileWidth)*p10TileWidth + oddShift
		} else {
			mx = p10TileWidth*(2+2*(x/p10TileWidth)) - (x % p10TileWidth) - 1
		}
		my := (y % p10TileHeight) + p10TileHeight*(y/(p10TileHeight*2))
		return mx, my
	}
	return m
}

func newP10CoremanMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 4}
	m.mapSingle = func(x, y int) (int, int) {
		// Row offset 8,8,8,8,0,0,0,0,8,8,8,8,0,0,0,0
		mulY := 8
		if y&4 > 0 {
			mulY = 0
		}
		// Row offset 9,9,8,8,1,1,0,0,9,9,8,8,1,1,0,0
		if y&2 == 0 {
			mulY++
		}
		mulY += (x >> 2) &^ 1 // Drop lsb.

		mx := (mulY << 3) + x%8
		my := (y & 1) + ((y >> 2) &^ 1)
		return mx, my
	}
	return m
}

func newP10Outdoor32x16HalfScanMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 4}
	m.mapSingle = func(x, y int) (int, int) {
		base := (x / 8) * 32
		reverse := (y%4)/2 == 0
		offset := (3 - (y%8)/2) * 8
		dx := x % 8

		var my int
		switch {
		case y/8 == 0 && y%2 == 0:
			my = 0
		case y/8 == 0:
			my = 1
		case y%2 == 0:
			my = 2
		default:
			my = 3
		}

		var mx int
		if reverse {
			mx = base + offset + (7 - dx)
		} else {
			mx = base + offset + dx
		}
		return mx, my
	}
	return m
}

// P8Outdoor1R1G1B is the scan pattern of the P8-5S-V3.2-HX 20x40 module.
const p8TileWidth, p8TileHeight = 8, 5

func newP8Outdoor1R1G1BMapper() *multiplexMapper {
	m := &multiplexMapper{stretchFactor: 2}
	m.mapSingle = func(x, y int) (int, int) {
		// The original driver's P8 mapper reuses the P10 tile-height
		// constant here rather than its own; preserved for compatibility
		// with panels calibrated against it.
		vblockIsEven := (y/p10TileHeight)%2 == 0
		var mx int
		if vblockIsEven {
			mx = p8TileWidth*(1+p8TileWidth-2*(x/p8TileWidth)) + p8TileWidth - (x % p8TileWidth) - 1
		} else {
			mx = p8TileWidth*(1+p8TileWidth-2*(x/p8TileWidth)) - p8TileWidth + (x % p8TileWidth)
		}
		my := (p8TileHeight - y%p8TileHeight) + p8TileHeight*(1-y/(p8TileHeight*2)) - 1
		return mx, my
	}
	return m
}
