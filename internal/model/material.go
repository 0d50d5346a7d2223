package model

// WrapMode is a per-axis texture addressing mode.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapMirroredRepeat
	WrapClampToEdge
	WrapClampToEdgeLegacy
)

func (w WrapMode) String() string {
	switch w {
	case WrapRepeat:
		return "repeat"
	case WrapMirroredRepeat:
		return "mirrored-repeat"
	case WrapClampToEdge:
		return "clamp-to-edge"
	case WrapClampToEdgeLegacy:
		return "clamp-to-edge-legacy"
	}
	return "unknown"
}

// Material binds at most one diffuse texture, by name.
type Material struct {
	Name    string
	Diffuse string // texture bank name, "" for none
	WrapS   WrapMode
	WrapT   WrapMode
	Blend   bool
}
