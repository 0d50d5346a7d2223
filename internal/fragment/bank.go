package fragment

import (
	"fmt"

	"fragment-decoder/internal/bytecursor"
	"fragment-decoder/internal/model"
)

const (
	paletteEntrySize = 12
	textureEntrySize = 12
)

// Source texture format codes.
const (
	srcFormatIndexed = 2
	srcFormatRaw     = 4
)

// Bank holds the raw textures and palettes a file declares. Textures keep
// their table position; unsupported entries stay empty.
type Bank struct {
	Textures []*model.Texture
	Palettes [][]byte
}

// TextureEntry is one row of the texture table.
type TextureEntry struct {
	Format     uint8
	BitSize    uint8
	Width      int
	Height     int
	Size       int
	DataOffset int
}

// texelLayout maps a format/bit-size pair to its byte length and pixel
// format. ok is false for combinations with no known decoding.
func texelLayout(e TextureEntry) (n int, f model.PixelFormat, ok bool) {
	switch {
	case e.Format == srcFormatRaw && e.BitSize == 1:
		return e.Size, model.FormatLuminance8, true
	case e.Format == srcFormatIndexed && e.BitSize == 0:
		return e.Size / 2, model.FormatIndexed4, true
	case e.Format == srcFormatIndexed && e.BitSize == 1:
		return e.Size, model.FormatIndexed8, true
	case e.Format != srcFormatRaw && e.Format != srcFormatIndexed && e.BitSize == 2:
		return e.Size * 2, model.FormatRGB5A1, true
	case e.Format != srcFormatRaw && e.Format != srcFormatIndexed && e.BitSize == 3:
		return e.Size * 4, model.FormatRGBA8, true
	}
	return 0, model.FormatNone, false
}

func readBank(c *bytecursor.Cursor, bh BankHeader, logf func(string, ...any)) (*Bank, error) {
	b := &Bank{}

	if err := c.Seek(bh.PaletteTable); err != nil {
		return b, err
	}
	for i := 0; i < bh.PaletteCount; i++ {
		colors, err := c.ReadI32()
		if err != nil {
			return b, err
		}
		off, err := c.ReadU32()
		if err != nil {
			return b, err
		}
		if err := c.Skip(4); err != nil {
			return b, err
		}
		if colors < 0 {
			return b, fmt.Errorf("palette %d: negative color count %d", i, colors)
		}
		pal, err := c.Extract(int(off), int(colors)*2)
		if err != nil {
			return b, fmt.Errorf("palette %d: %w", i, err)
		}
		b.Palettes = append(b.Palettes, pal)
	}

	if err := c.Seek(bh.TextureTable); err != nil {
		return b, err
	}
	for i := 0; i < bh.TextureCount; i++ {
		e, err := readTextureEntry(c)
		if err != nil {
			return b, err
		}
		tex, err := extractTexture(c, e, i, logf)
		if err != nil {
			return b, fmt.Errorf("texture %d: %w", i, err)
		}
		b.Textures = append(b.Textures, tex)
	}
	return b, nil
}

func readTextureEntry(c *bytecursor.Cursor) (TextureEntry, error) {
	var e TextureEntry
	var err error
	if e.Format, err = c.ReadU8(); err != nil {
		return e, err
	}
	if e.BitSize, err = c.ReadU8(); err != nil {
		return e, err
	}
	for _, f := range []*int{&e.Width, &e.Height, &e.Size} {
		v, err := c.ReadU16()
		if err != nil {
			return e, err
		}
		*f = int(v)
	}
	off, err := c.ReadU32()
	if err != nil {
		return e, err
	}
	e.DataOffset = int(off & offsetMask)
	return e, nil
}

func extractTexture(c *bytecursor.Cursor, e TextureEntry, i int, logf func(string, ...any)) (*model.Texture, error) {
	tex := &model.Texture{
		Name:   fmt.Sprintf("Texture_%d", i),
		Width:  e.Width,
		Height: e.Height,
	}
	n, format, ok := texelLayout(e)
	if !ok {
		logf("texture %d: unsupported format %d bitsize %d, left empty", i, e.Format, e.BitSize)
		return tex, nil
	}
	logf("texture %d: %s %dx%d size %d at 0x%X", i, format, e.Width, e.Height, e.Size, e.DataOffset)

	data, err := c.Extract(e.DataOffset, n)
	if err != nil {
		return nil, err
	}
	if format == model.FormatRGB5A1 {
		// Stored in the opposite byte order from the rest of the file.
		swapPairs(data)
	}
	tex.Format = format
	tex.Mipmaps = [][]byte{data}
	return tex, nil
}

func swapPairs(b []byte) {
	for j := 0; j+1 < len(b); j += 2 {
		b[j], b[j+1] = b[j+1], b[j]
	}
}
