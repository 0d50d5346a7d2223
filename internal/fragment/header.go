package fragment

import (
	"fmt"

	"fragment-decoder/internal/bytecursor"
)

// Magic is the container signature stored at MagicOffset.
const (
	Magic       = "FRAGMENT"
	MagicOffset = 0x08
)

const (
	headerOffset    = 0x10
	mainPointerSkip = 0x10
	bankPointerSkip = 0x08
	bankPadding     = 0x1C
	offsetMask      = 0x1FFFF
)

// Header is the fixed file header following the magic.
type Header struct {
	DataOffset  uint32
	RelocOffset uint32
	FileSize    uint32 // informational
	TableOffset uint32 // duplicate of RelocOffset, unused
}

// BankHeader describes the texture/palette bank and the opcode stream.
type BankHeader struct {
	Base         int
	TextureCount int
	PaletteCount int
	VertexCount  int // unused
	TextureTable int
	PaletteTable int
	VertexTable  int // unused
	ObjectOffset int
}

// ReadHeader checks the magic and reads the fixed header.
func ReadHeader(c *bytecursor.Cursor) (Header, error) {
	var h Header
	if err := c.Seek(MagicOffset); err != nil {
		return h, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	magic, err := c.ReadString(len(Magic))
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if magic != Magic {
		return h, fmt.Errorf("%w: got %q", ErrBadMagic, magic)
	}

	if err := c.Seek(headerOffset); err != nil {
		return h, err
	}
	for _, f := range []*uint32{&h.DataOffset, &h.RelocOffset, &h.FileSize, &h.TableOffset} {
		if *f, err = c.ReadU32(); err != nil {
			return h, err
		}
	}
	return h, nil
}

// locateBank follows data → main record → bank pointer and reads the bank
// header. Must run after relocation.
func locateBank(c *bytecursor.Cursor, h Header) (BankHeader, error) {
	var bh BankHeader

	mainOff, err := c.PeekU32At(int(h.DataOffset) + mainPointerSkip)
	if err != nil {
		return bh, err
	}
	ptrOff, err := c.PeekU32At(int(mainOff) + bankPointerSkip)
	if err != nil {
		return bh, err
	}
	base, err := c.PeekU32At(int(ptrOff))
	if err != nil {
		return bh, err
	}
	bh.Base = int(base)

	if err := c.Seek(bh.Base); err != nil {
		return bh, err
	}
	texCount, err := c.ReadU32()
	if err != nil {
		return bh, err
	}
	// High half carries a constant tag (0x17 in shipped files).
	bh.TextureCount = int(texCount & 0xFFFF)

	palCount, err := c.ReadI16()
	if err != nil {
		return bh, err
	}
	bh.PaletteCount = max(int(palCount), 0)

	vtxCount, err := c.ReadI16()
	if err != nil {
		return bh, err
	}
	bh.VertexCount = int(vtxCount)

	for _, f := range []*int{&bh.TextureTable, &bh.PaletteTable, &bh.VertexTable} {
		v, err := c.ReadU32()
		if err != nil {
			return bh, err
		}
		*f = int(v)
	}
	if err := c.Skip(bankPadding); err != nil {
		return bh, err
	}
	obj, err := c.ReadU32()
	if err != nil {
		return bh, err
	}
	bh.ObjectOffset = int(obj)
	return bh, nil
}
