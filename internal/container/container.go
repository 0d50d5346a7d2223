// Package container strips the outer wrappers a fragment file may carry
// before its FRAGMENT payload can be parsed.
package container

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"fragment-decoder/internal/yay0"
)

// SZPMagic marks a Yay0-compressed payload.
const SZPMagic = "PERS-SZP"

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Unwrap returns the decompressed payload of raw. Inputs without a known
// wrapper are returned as-is.
func Unwrap(raw []byte) ([]byte, error) {
	data := raw
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("container: zstd init: %w", err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("container: zstd: %w", err)
		}
	}

	if len(data) < 12 || string(data[:8]) != SZPMagic {
		return data, nil
	}

	off := binary.BigEndian.Uint32(data[8:12])
	if int64(off) >= int64(len(data)) {
		return nil, fmt.Errorf("container: compressed offset 0x%X past end (size 0x%X)", off, len(data))
	}
	out, err := yay0.Decompress(data[off:])
	if err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}
	return out, nil
}

// IsCompressed reports whether raw starts with a wrapper Unwrap removes.
func IsCompressed(raw []byte) bool {
	return bytes.HasPrefix(raw, zstdMagic) || bytes.HasPrefix(raw, []byte(SZPMagic))
}
