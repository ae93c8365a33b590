package output

import "image/color"

// WS2812 pixels are clocked out over SPI MOSI at three SPI bits per data
// bit: 1 is sent as 110 and 0 as 100, which at 2.4 MHz gives the 0.4/0.8 us
// high times the LEDs expect.
const (
	ws2812SPIHz = 2_400_000
	// resetBytes of low level latch the frame (>= 280 us at 2.4 MHz).
	resetBytes = 90
)

// EncodeWS2812 appends the SPI encoding of the pixel chain to dst and
// returns the extended slice. Strips are chained in argument order, each
// pixel sent as G, R, B. A latch gap follows the data.
func EncodeWS2812(dst []byte, strips ...[]color.RGBA) []byte {
	for _, strip := range strips {
		for _, px := range strip {
			dst = appendByte(dst, px.G)
			dst = appendByte(dst, px.R)
			dst = appendByte(dst, px.B)
		}
	}
	for i := 0; i < resetBytes; i++ {
		dst = append(dst, 0)
	}
	return dst
}

func appendByte(dst []byte, b byte) []byte {
	var bits uint32
	for i := 7; i >= 0; i-- {
		bits <<= 3
		if b&(1<<uint(i)) != 0 {
			bits |= 0b110
		} else {
			bits |= 0b100
		}
	}
	return append(dst, byte(bits>>16), byte(bits>>8), byte(bits))
}

// EncodedLen returns the size of the SPI buffer for n chained pixels.
func EncodedLen(n int) int {
	return n*9 + resetBytes
}
