package raster

import (
	"image"
	"math"

	"fragment-decoder/internal/mathutil"
	"fragment-decoder/internal/model"
	"fragment-decoder/internal/texture"
)

// Options controls the preview camera.
type Options struct {
	Size        int     // output edge in pixels before supersampling
	Supersample int     // render scale factor, 1 for none
	Yaw         float64 // degrees about +Y
	Pitch       float64 // degrees about +X, applied after yaw
	Margin      int     // border in output pixels
}

// RenderModel draws m with an orthographic camera fitted to its bounds.
// The result is Size*Supersample pixels square; callers downsample it.
// Opaque meshes are drawn first so blended ones composite over them.
func RenderModel(m *model.Model, res texture.Resolver, opts Options) *image.NRGBA {
	ss := max(opts.Supersample, 1)
	renderSize := max(opts.Size, 1) * ss
	fb := NewFrameBuffer(renderSize, renderSize)

	R := mathutil.Mat3Mul(
		mathutil.RotX(mathutil.Deg2Rad(opts.Pitch)),
		mathutil.RotY(mathutil.Deg2Rad(opts.Yaw)),
	)

	view := make([][]mathutil.Vec3, len(m.Meshes))
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i, mesh := range m.Meshes {
		view[i] = make([]mathutil.Vec3, len(mesh.Vertices))
		for j, v := range mesh.Vertices {
			p := R.MulVec3(mathutil.Vec3{float64(v.Position[0]), float64(v.Position[1]), float64(v.Position[2])})
			view[i][j] = p
			for k := range p {
				lo[k] = math.Min(lo[k], p[k])
				hi[k] = math.Max(hi[k], p[k])
			}
		}
	}
	if math.IsInf(lo[0], 1) {
		return fb.Image()
	}

	span := math.Max(math.Max(hi[0]-lo[0], hi[1]-lo[1]), 0.001)
	margin := opts.Margin * ss
	scale := float64(renderSize-2*margin) / span
	center := lo.Add(hi).Scale(0.5)
	cx, cy := center[0], center[1]
	half := float64(renderSize) / 2

	lc := DefaultLightConfig()
	for _, pass := range []bool{false, true} {
		for i, mesh := range m.Meshes {
			mat := m.Material(mesh.Material)
			blend := mat != nil && mat.Blend
			if blend != pass {
				continue
			}
			sampler := meshSampler(m, mat, res)

			for _, t := range mesh.Triangles {
				var tri [3]ScreenVertex
				ok := true
				for k, idx := range t {
					if int(idx) >= len(mesh.Vertices) {
						ok = false
						break
					}
					p := view[i][idx]
					uv := mesh.Vertices[idx].UV
					tri[k] = ScreenVertex{
						X: (p[0]-cx)*scale + half,
						Y: half - (p[1]-cy)*scale,
						Z: p[2],
						U: float64(uv[0]),
						V: float64(uv[1]),
					}
				}
				if ok {
					RasterizeTriangle(fb, tri, sampler, blend, &lc)
				}
			}
		}
	}
	return fb.Image()
}

func meshSampler(m *model.Model, mat *model.Material, res texture.Resolver) *Sampler {
	if mat == nil || res == nil || m.Texture(mat.Diffuse) == nil {
		return nil
	}
	tex := res.Resolve(mat.Diffuse)
	if tex == nil {
		return nil
	}
	return &Sampler{Tex: tex, WrapS: mat.WrapS, WrapT: mat.WrapT}
}
