package fragment

import (
	"fmt"

	"fragment-decoder/internal/model"
)

// A palette longer than 16 entries marks an 8bpp source.
const ci4PaletteBytes = 32

// Depalettize expands an indexed texture against palettes[pid] into
// little-endian RGB5A1. pid -1, or a source that is not CI4/CI8, returns an
// unexpanded copy. The source texture and palette are not modified.
func Depalettize(t *model.Texture, pid int, palettes [][]byte) (*model.Texture, error) {
	out := &model.Texture{
		Name:    t.Name,
		Width:   t.Width,
		Height:  t.Height,
		Format:  t.Format,
		Mipmaps: cloneMips(t.Mipmaps),
	}
	if pid == -1 || t.Empty() {
		return out, nil
	}
	if pid < 0 || pid >= len(palettes) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPaletteIndex, pid, len(palettes))
	}
	if t.Format != model.FormatIndexed4 && t.Format != model.FormatIndexed8 {
		return out, nil
	}
	out.Format = model.FormatRGB5A1
	out.Mipmaps = [][]byte{expand(t.Primary(), palettes[pid], t.Width*t.Height*2)}
	return out, nil
}

func expand(src, palette []byte, size int) []byte {
	dst := make([]byte, size)
	// put writes palette entry idx byte-swapped at dst[o:o+2].
	put := func(o, idx int) {
		if o+1 >= len(dst) || idx*2+1 >= len(palette) {
			return
		}
		dst[o] = palette[idx*2+1]
		dst[o+1] = palette[idx*2]
	}

	if len(palette) > ci4PaletteBytes {
		for i, v := range src {
			put(i*2, int(v))
		}
		return dst
	}
	for i, v := range src {
		put(i*4, int(v>>4))
		put(i*4+2, int(v&0x0F))
	}
	return dst
}

func cloneMips(mips [][]byte) [][]byte {
	if mips == nil {
		return nil
	}
	out := make([][]byte, len(mips))
	for i, m := range mips {
		out[i] = append([]byte(nil), m...)
	}
	return out
}
