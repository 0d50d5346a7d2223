package texture

import (
	"errors"
	"fmt"
	"image"

	"fragment-decoder/internal/model"
)

// ErrEmpty is returned for textures that carry no pixel data.
var ErrEmpty = errors.New("texture: no pixel data")

// ToNRGBA expands a bank texture to 8-bit NRGBA. Indexed textures that were
// never depalettized come out as grayscale indices. Missing trailing data
// decodes as transparent black.
func ToNRGBA(t *model.Texture) (*image.NRGBA, error) {
	if t.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, t.Name)
	}
	if t.Width <= 0 || t.Height <= 0 {
		return nil, fmt.Errorf("texture: %s has size %dx%d", t.Name, t.Width, t.Height)
	}
	src := t.Primary()
	dst := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	n := t.Width * t.Height

	switch t.Format {
	case model.FormatLuminance8, model.FormatIndexed8:
		for i := 0; i < n && i < len(src); i++ {
			setGray(dst.Pix[i*4:], src[i])
		}
	case model.FormatIndexed4:
		for i := 0; i < n && i/2 < len(src); i++ {
			v := src[i/2] >> 4
			if i%2 == 1 {
				v = src[i/2] & 0x0F
			}
			setGray(dst.Pix[i*4:], v*17)
		}
	case model.FormatRGB5A1:
		for i := 0; i < n && i*2+1 < len(src); i++ {
			p := uint16(src[i*2]) | uint16(src[i*2+1])<<8
			px := dst.Pix[i*4:]
			px[0] = expand5(p >> 11)
			px[1] = expand5(p >> 6)
			px[2] = expand5(p >> 1)
			px[3] = 0
			if p&1 != 0 {
				px[3] = 0xFF
			}
		}
	case model.FormatRGBA8:
		copy(dst.Pix, src)
	default:
		return nil, fmt.Errorf("texture: %s has unsupported format %s", t.Name, t.Format)
	}
	return dst, nil
}

func setGray(px []byte, v byte) {
	px[0], px[1], px[2], px[3] = v, v, v, 0xFF
}

func expand5(v uint16) byte {
	v &= 0x1F
	return byte(v<<3 | v>>2)
}
