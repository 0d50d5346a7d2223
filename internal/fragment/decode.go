// Package fragment decodes FRAGMENT model containers: it patches the
// relocation table, reads the texture and palette bank, runs the scene
// opcode stream into bones, meshes and materials, and merges duplicate
// textures.
package fragment

import (
	"encoding/binary"
	"errors"

	"fragment-decoder/internal/bytecursor"
	"fragment-decoder/internal/container"
	"fragment-decoder/internal/model"
)

// Options tunes a decode pass.
type Options struct {
	// Logf receives diagnostics such as skipped textures and unrigged
	// meshes. Nil discards them.
	Logf func(format string, args ...any)
}

func (o Options) logf() func(string, ...any) {
	if o.Logf != nil {
		return o.Logf
	}
	return func(string, ...any) {}
}

// Decode parses one uncompressed FRAGMENT buffer. data is copied, never
// modified. On failure the model built so far is returned together with a
// *DecodeError; a missing signature yields an empty model.
func Decode(data []byte, opts Options) (*model.Model, error) {
	logf := opts.logf()
	m := model.New()

	arena := append([]byte(nil), data...)
	c := bytecursor.New(arena, binary.BigEndian)

	h, err := ReadHeader(c)
	if err != nil {
		if errors.Is(err, ErrBadMagic) {
			return m, stageErr("header", MagicOffset, err)
		}
		return m, stageErr("header", headerOffset, err)
	}
	if err := relocate(c, int(h.RelocOffset)); err != nil {
		return m, stageErr("relocate", int(h.RelocOffset), err)
	}
	bh, err := locateBank(c, h)
	if err != nil {
		return m, stageErr("bank header", int(h.DataOffset), err)
	}
	logf("bank at 0x%X: %d textures, %d palettes, stream at 0x%X",
		bh.Base, bh.TextureCount, bh.PaletteCount, bh.ObjectOffset)

	bank, err := readBank(c, bh, logf)
	if err != nil {
		return m, stageErr("bank", bh.Base, err)
	}

	st := newState(c, m, bank, logf)
	err = interpret(st, bh.ObjectOffset)
	if n := Dedup(m); n > 0 {
		logf("merged %d duplicate textures, %d remain", n, len(m.Textures))
	}
	return m, err
}

// DecodeFile unwraps a PERS-SZP or zstd compressed file and decodes it.
func DecodeFile(raw []byte, opts Options) (*model.Model, error) {
	data, err := container.Unwrap(raw)
	if err != nil {
		return model.New(), stageErr("unwrap", 0, err)
	}
	return Decode(data, opts)
}

// Layout patches a copy of data and returns its header and bank header
// without reading the bank or running the opcode stream.
func Layout(data []byte) (Header, BankHeader, error) {
	c := bytecursor.New(append([]byte(nil), data...), binary.BigEndian)
	h, err := ReadHeader(c)
	if err != nil {
		return h, BankHeader{}, stageErr("header", MagicOffset, err)
	}
	if err := relocate(c, int(h.RelocOffset)); err != nil {
		return h, BankHeader{}, stageErr("relocate", int(h.RelocOffset), err)
	}
	bh, err := locateBank(c, h)
	if err != nil {
		return h, bh, stageErr("bank header", int(h.DataOffset), err)
	}
	return h, bh, nil
}
