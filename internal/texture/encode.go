package texture

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Format names an on-disk image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatTGA  Format = "tga"
	FormatWebP Format = "webp"
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(s), ".")); f {
	case FormatPNG, FormatTGA, FormatWebP:
		return f, nil
	}
	return "", fmt.Errorf("texture: unknown image format %q", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Encode writes img to w in format f. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatTGA:
		err = tga.Encode(w, img)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("texture: unknown image format %q", f)
	}
	if err != nil {
		return fmt.Errorf("texture: encode %s: %w", f, err)
	}
	return nil
}

// WriteFile encodes img into a new file at path.
func WriteFile(path string, img image.Image, f Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: create %s: %w", path, err)
	}
	bw := bufio.NewWriter(out)
	if err := Encode(bw, img, f); err != nil {
		out.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("texture: write %s: %w", path, err)
	}
	return out.Close()
}
