package model

import "fmt"

// PixelFormat describes how a texture's mip bytes are laid out.
type PixelFormat int

const (
	FormatNone       PixelFormat = iota
	FormatLuminance8             // 1 byte per pixel
	FormatIndexed4               // 2 pixels per byte, high nibble first
	FormatIndexed8               // 1 index per byte
	FormatRGB5A1                 // little-endian uint16 r5 g5 b5 a1
	FormatRGBA8                  // r, g, b, a bytes
)

func (f PixelFormat) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatLuminance8:
		return "L8"
	case FormatIndexed4:
		return "CI4"
	case FormatIndexed8:
		return "CI8"
	case FormatRGB5A1:
		return "RGB5A1"
	case FormatRGBA8:
		return "RGBA8"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// BitsPerPixel returns the storage density of f.
func (f PixelFormat) BitsPerPixel() int {
	switch f {
	case FormatIndexed4:
		return 4
	case FormatLuminance8, FormatIndexed8:
		return 8
	case FormatRGB5A1:
		return 16
	case FormatRGBA8:
		return 32
	}
	return 0
}

// Texture holds pixel data copied out of the source buffer.
type Texture struct {
	Name    string
	Width   int
	Height  int
	Format  PixelFormat
	Mipmaps [][]byte
}

// Primary returns the first mip level, or nil for an empty texture.
func (t *Texture) Primary() []byte {
	if len(t.Mipmaps) == 0 {
		return nil
	}
	return t.Mipmaps[0]
}

// Empty reports whether the texture carries no pixel data.
func (t *Texture) Empty() bool {
	return len(t.Mipmaps) == 0
}
