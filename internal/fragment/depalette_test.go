package fragment

import (
	"bytes"
	"errors"
	"testing"

	"fragment-decoder/internal/model"
)

func ci4Palette() []byte {
	pal := make([]byte, 32)
	for i := range 16 {
		pal[i*2] = byte(i)
		pal[i*2+1] = byte(0xF0 | i)
	}
	return pal
}

func TestDepalettize4bpp(t *testing.T) {
	src := &model.Texture{Name: "raw", Width: 2, Height: 1, Format: model.FormatIndexed4, Mipmaps: [][]byte{{0xAB}}}
	pal := ci4Palette()
	palCopy := append([]byte(nil), pal...)

	out, err := Depalettize(src, 0, [][]byte{pal})
	if err != nil {
		t.Fatalf("Depalettize: %v", err)
	}
	want := []byte{0xFA, 0x0A, 0xFB, 0x0B}
	if !bytes.Equal(out.Primary(), want) {
		t.Errorf("pixels = % X, want % X", out.Primary(), want)
	}
	if out.Format != model.FormatRGB5A1 {
		t.Errorf("format = %s", out.Format)
	}
	if !bytes.Equal(src.Primary(), []byte{0xAB}) || src.Format != model.FormatIndexed4 {
		t.Error("source texture modified")
	}
	if !bytes.Equal(pal, palCopy) {
		t.Error("palette modified")
	}
}

func TestDepalettize8bpp(t *testing.T) {
	pal := make([]byte, 256*2)
	for i := range 256 {
		pal[i*2] = byte(i)
		pal[i*2+1] = 0x80
	}
	src := &model.Texture{Width: 2, Height: 2, Format: model.FormatIndexed8, Mipmaps: [][]byte{{3, 200, 0, 255}}}
	out, err := Depalettize(src, 0, [][]byte{pal})
	if err != nil {
		t.Fatalf("Depalettize: %v", err)
	}
	want := []byte{0x80, 3, 0x80, 200, 0x80, 0, 0x80, 255}
	if !bytes.Equal(out.Primary(), want) {
		t.Errorf("pixels = % X", out.Primary())
	}
}

func TestDepalettizeOutputLength(t *testing.T) {
	for _, tc := range []struct {
		w, h   int
		format model.PixelFormat
		src    int
		pal    int
	}{
		{4, 4, model.FormatIndexed4, 8, 32},
		{8, 2, model.FormatIndexed8, 16, 512},
		{4, 4, model.FormatIndexed4, 32, 32}, // oversized source is clipped
		{4, 4, model.FormatIndexed8, 4, 512}, // short source leaves zeros
	} {
		src := &model.Texture{Width: tc.w, Height: tc.h, Format: tc.format, Mipmaps: [][]byte{bytes.Repeat([]byte{0xFF}, tc.src)}}
		out, err := Depalettize(src, 0, [][]byte{make([]byte, tc.pal)})
		if err != nil {
			t.Fatalf("Depalettize: %v", err)
		}
		if got := len(out.Primary()); got != tc.w*tc.h*2 {
			t.Errorf("%dx%d %s: %d bytes", tc.w, tc.h, tc.format, got)
		}
	}
}

func TestDepalettizePassThrough(t *testing.T) {
	src := &model.Texture{Width: 2, Height: 1, Format: model.FormatIndexed4, Mipmaps: [][]byte{{0x12}}}
	out, err := Depalettize(src, -1, nil)
	if err != nil {
		t.Fatalf("Depalettize: %v", err)
	}
	if out.Format != model.FormatIndexed4 || !bytes.Equal(out.Primary(), []byte{0x12}) {
		t.Errorf("pass-through = %+v", out)
	}
	out.Mipmaps[0][0] = 0
	if src.Mipmaps[0][0] != 0x12 {
		t.Error("pass-through shares pixel storage with source")
	}

	if _, err := Depalettize(src, 3, [][]byte{ci4Palette()}); !errors.Is(err, ErrPaletteIndex) {
		t.Errorf("bad palette index error = %v", err)
	}
}

func TestDepalettizeDirectColorUnchanged(t *testing.T) {
	for _, src := range []*model.Texture{
		{Width: 1, Height: 1, Format: model.FormatRGBA8, Mipmaps: [][]byte{{1, 2, 3, 4}}},
		{Width: 2, Height: 1, Format: model.FormatRGB5A1, Mipmaps: [][]byte{{0xAA, 0xBB, 0xCC, 0xDD}}},
		{Width: 2, Height: 2, Format: model.FormatLuminance8, Mipmaps: [][]byte{{9, 8, 7, 6}}},
	} {
		want := append([]byte(nil), src.Primary()...)
		out, err := Depalettize(src, 0, [][]byte{ci4Palette()})
		if err != nil {
			t.Fatalf("%s: Depalettize: %v", src.Format, err)
		}
		if out.Format != src.Format || !bytes.Equal(out.Primary(), want) {
			t.Errorf("%s: got %s % X, want % X", src.Format, out.Format, out.Primary(), want)
		}
		out.Mipmaps[0][0]++
		if src.Mipmaps[0][0] != want[0] {
			t.Errorf("%s: copy shares pixel storage with source", src.Format)
		}
	}

	rgba := &model.Texture{Width: 1, Height: 1, Format: model.FormatRGBA8, Mipmaps: [][]byte{{1, 2, 3, 4}}}
	if _, err := Depalettize(rgba, 4, [][]byte{ci4Palette()}); !errors.Is(err, ErrPaletteIndex) {
		t.Errorf("bad palette index on direct-color texture: %v", err)
	}
}
