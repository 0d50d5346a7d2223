package raster

import (
	"image"
	"math"

	"fragment-decoder/internal/model"
)

// Sampler reads a texture with per-axis addressing.
type Sampler struct {
	Tex   *image.NRGBA
	WrapS model.WrapMode
	WrapT model.WrapMode
}

// address maps texel coordinate i into [0, n) under mode.
func address(i, n int, mode model.WrapMode) int {
	switch mode {
	case model.WrapClampToEdge, model.WrapClampToEdgeLegacy:
		return min(max(i, 0), n-1)
	case model.WrapMirroredRepeat:
		p := i % (2 * n)
		if p < 0 {
			p += 2 * n
		}
		if p >= n {
			p = 2*n - 1 - p
		}
		return p
	}
	p := i % n
	if p < 0 {
		p += n
	}
	return p
}

// Sample performs bilinear filtering at (u, v) in texture space.
func (s *Sampler) Sample(u, v float64) (r, g, b, a uint8) {
	tex := s.Tex
	w, h := tex.Rect.Dx(), tex.Rect.Dy()

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	dx, dy := fx-x0f, fy-y0f
	x0, y0 := int(x0f), int(y0f)

	xa, xb := address(x0, w, s.WrapS), address(x0+1, w, s.WrapS)
	ya, yb := address(y0, h, s.WrapT), address(y0+1, h, s.WrapT)

	stride := tex.Stride
	pix := tex.Pix
	i00 := ya*stride + xa*4
	i10 := ya*stride + xb*4
	i01 := yb*stride + xa*4
	i11 := yb*stride + xb*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	mix := func(o int) uint8 {
		return uint8(float64(pix[i00+o])*w00 + float64(pix[i10+o])*w10 +
			float64(pix[i01+o])*w01 + float64(pix[i11+o])*w11 + 0.5)
	}
	return mix(0), mix(1), mix(2), mix(3)
}
