package raster

import (
	"math"

	"fragment-decoder/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir mathutil.Vec3
	FillDir  mathutil.Vec3
	Ambient  float64
	Direct   float64
	Fill     float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a key light from the upper front right and a
// weaker fill from the back left.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		LightDir: mathutil.Vec3{0.4, 0.7, 0.6}.Normalize(),
		FillDir:  mathutil.Vec3{-0.5, 0.3, -0.8}.Normalize(),
		Ambient:  0.45,
		Direct:   0.85,
		Fill:     0.30,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// ComputeShade returns the lighting scalar for a unit face normal. Faces
// are lit from both sides.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	return lc.Ambient +
		math.Abs(normal.Dot(lc.LightDir))*lc.Direct +
		math.Abs(normal.Dot(lc.FillDir))*lc.Fill
}

// Precomputed sRGB-to-linear lookup table.
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadePixel lights one texel and returns it encoded back to sRGB.
func (lc *LightConfig) shadePixel(c uint8, shade float64) uint8 {
	lin := srgbToLinear[c] * shade * lc.Exposure
	return clamp255(math.Pow(ACESTonemap(lin), lc.InvGamma) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
