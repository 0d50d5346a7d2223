// Package yay0 decompresses Nintendo Yay0 streams.
package yay0

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic opens every Yay0 stream.
const Magic = "Yay0"

const headerSize = 0x10

// ErrCorrupt is returned when a stream references data it does not contain.
var ErrCorrupt = errors.New("yay0: corrupt stream")

// Decompress expands a Yay0 stream. Layout: magic, u32 output size,
// u32 link table offset, u32 literal chunk offset, then 32-bit mask words.
// A set mask bit copies one literal; a clear bit copies a back-reference
// described by one 16-bit link (4-bit length, 12-bit distance).
func Decompress(src []byte) ([]byte, error) {
	if len(src) < headerSize || string(src[:4]) != Magic {
		return nil, fmt.Errorf("yay0: missing %q header", Magic)
	}
	size := int(binary.BigEndian.Uint32(src[4:8]))
	linkOff := int(binary.BigEndian.Uint32(src[8:12]))
	chunkOff := int(binary.BigEndian.Uint32(src[12:16]))
	maskOff := headerSize

	dst := make([]byte, 0, size)
	var mask uint32
	bits := 0

	for len(dst) < size {
		if bits == 0 {
			if maskOff+4 > len(src) {
				return dst, fmt.Errorf("%w: mask word at 0x%X", ErrCorrupt, maskOff)
			}
			mask = binary.BigEndian.Uint32(src[maskOff:])
			maskOff += 4
			bits = 32
		}

		if mask&0x80000000 != 0 {
			if chunkOff >= len(src) {
				return dst, fmt.Errorf("%w: literal at 0x%X", ErrCorrupt, chunkOff)
			}
			dst = append(dst, src[chunkOff])
			chunkOff++
		} else {
			if linkOff+2 > len(src) {
				return dst, fmt.Errorf("%w: link at 0x%X", ErrCorrupt, linkOff)
			}
			link := int(binary.BigEndian.Uint16(src[linkOff:]))
			linkOff += 2

			dist := link&0xFFF + 1
			n := link >> 12
			if n == 0 {
				if chunkOff >= len(src) {
					return dst, fmt.Errorf("%w: length byte at 0x%X", ErrCorrupt, chunkOff)
				}
				n = int(src[chunkOff]) + 0x12
				chunkOff++
			} else {
				n += 2
			}

			from := len(dst) - dist
			if from < 0 {
				return dst, fmt.Errorf("%w: back-reference %d before start", ErrCorrupt, dist)
			}
			// Byte-wise: the copy may overlap its own output.
			for i := 0; i < n && len(dst) < size; i++ {
				dst = append(dst, dst[from+i])
			}
		}

		mask <<= 1
		bits--
	}

	return dst, nil
}
