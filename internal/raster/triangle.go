package raster

import (
	"math"

	"fragment-decoder/internal/mathutil"
)

// ScreenVertex is a projected vertex: X and Y in pixels, Z grows toward
// the viewer.
type ScreenVertex struct {
	X, Y, Z float64
	U, V    float64
}

// Untextured faces use this color.
var defaultColor = [4]uint8{170, 170, 180, 255}

// RasterizeTriangle fills one triangle with a z-test, flat shading and
// optional texturing. Blended triangles are composited over what is
// already drawn and do not write depth.
func RasterizeTriangle(fb *FrameBuffer, tri [3]ScreenVertex, s *Sampler, blend bool, lc *LightConfig) {
	p0, p1, p2 := tri[0], tri[1], tri[2]

	v0 := mathutil.Vec3{p0.X, p0.Y, p0.Z}
	e1 := mathutil.Vec3{p1.X, p1.Y, p1.Z}.Sub(v0)
	e2 := mathutil.Vec3{p2.X, p2.Y, p2.Z}.Sub(v0)
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return
	}
	shade := lc.ComputeShade(n.Normalize())

	minX := max(int(math.Floor(min(p0.X, p1.X, p2.X))), 0)
	maxX := min(int(math.Ceil(max(p0.X, p1.X, p2.X))), fb.Width-1)
	minY := max(int(math.Floor(min(p0.Y, p1.Y, p2.Y))), 0)
	maxY := min(int(math.Ceil(max(p0.Y, p1.Y, p2.Y))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	det := (p1.Y-p2.Y)*(p0.X-p2.X) + (p2.X-p1.X)*(p0.Y-p2.Y)
	if math.Abs(det) < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12, dx21 := p1.Y-p2.Y, p2.X-p1.X
	dy20, dx02 := p2.Y-p0.Y, p0.X-p2.X

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - p2.Y
		row := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - p2.X
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*p0.Z + w1*p1.Z + w2*p2.Z
			zi := row + sx
			if z <= fb.ZBuf[zi] {
				continue
			}

			c := defaultColor
			if s != nil {
				u := w0*p0.U + w1*p1.U + w2*p2.U
				v := w0*p0.V + w1*p1.V + w2*p2.V
				c[0], c[1], c[2], c[3] = s.Sample(u, v)
			}
			if c[3] < 8 {
				continue
			}

			px := fb.Color[zi*4 : zi*4+4]
			r := lc.shadePixel(c[0], shade)
			g := lc.shadePixel(c[1], shade)
			b := lc.shadePixel(c[2], shade)
			if !blend {
				fb.ZBuf[zi] = z
				px[0], px[1], px[2], px[3] = r, g, b, c[3]
				continue
			}
			a := float64(c[3]) / 255
			px[0] = clamp255(float64(r)*a + float64(px[0])*(1-a))
			px[1] = clamp255(float64(g)*a + float64(px[1])*(1-a))
			px[2] = clamp255(float64(b)*a + float64(px[2])*(1-a))
			px[3] = clamp255(float64(c[3]) + float64(px[3])*(1-a))
		}
	}
}
