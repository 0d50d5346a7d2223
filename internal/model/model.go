// Package model holds the in-memory representation a decoder populates:
// skeleton, meshes, and name-addressed texture and material banks.
package model

// Model is the output of one decode pass.
type Model struct {
	Skeleton  Skeleton
	Meshes    []*Mesh
	Textures  []*Texture // insertion order is significant
	Materials []*Material
}

// New returns an empty model.
func New() *Model {
	return &Model{}
}

// AddTexture appends t to the texture bank.
func (m *Model) AddTexture(t *Texture) {
	m.Textures = append(m.Textures, t)
}

// Texture returns the texture registered under name, or nil.
func (m *Model) Texture(name string) *Texture {
	if name == "" {
		return nil
	}
	for _, t := range m.Textures {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AddMaterial appends mat to the material bank.
func (m *Model) AddMaterial(mat *Material) {
	m.Materials = append(m.Materials, mat)
}

// Material returns the material registered under name, or nil.
func (m *Model) Material(name string) *Material {
	if name == "" {
		return nil
	}
	for _, mat := range m.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// MeshTexture resolves the diffuse texture a mesh is drawn with.
func (m *Model) MeshTexture(mesh *Mesh) *Texture {
	mat := m.Material(mesh.Material)
	if mat == nil {
		return nil
	}
	return m.Texture(mat.Diffuse)
}
