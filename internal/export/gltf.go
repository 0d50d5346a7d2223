// Package export writes decoded models to interchange formats.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"fragment-decoder/internal/mathutil"
	"fragment-decoder/internal/model"
	"fragment-decoder/internal/texture"
)

// BuildGLTF converts m into a glTF document. Bones become a node hierarchy
// carrying the bind pose; meshes are already in model space and hang off
// the scene root. Textures are embedded as PNG via res.
func BuildGLTF(m *model.Model, res texture.Resolver, generator string) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = generator

	addSkeleton(doc, &m.Skeleton)

	images := make(map[string]int)
	materials := make(map[string]int)
	for _, mat := range m.Materials {
		idx, err := addMaterial(doc, m, mat, res, images)
		if err != nil {
			return nil, err
		}
		materials[mat.Name] = idx
	}

	for _, mesh := range m.Meshes {
		if len(mesh.Triangles) == 0 {
			continue
		}
		prim := writePrimitive(doc, mesh)
		if idx, ok := materials[mesh.Material]; ok {
			prim.Material = gltf.Index(idx)
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: mesh.Name, Primitives: []*gltf.Primitive{prim}})
		node := &gltf.Node{Name: mesh.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)}
		doc.Nodes = append(doc.Nodes, node)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc, nil
}

// WriteGLB encodes m as binary glTF to w.
func WriteGLB(w io.Writer, m *model.Model, res texture.Resolver) error {
	doc, err := BuildGLTF(m, res, "fragment-decoder")
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: encode glb: %w", err)
	}
	return nil
}

// SaveGLB writes m as a .glb file.
func SaveGLB(path string, m *model.Model, res texture.Resolver) error {
	doc, err := BuildGLTF(m, res, "fragment-decoder")
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

func addSkeleton(doc *gltf.Document, s *model.Skeleton) {
	base := len(doc.Nodes)
	for _, b := range s.Bones {
		q := mathutil.QuatFromMat3(mathutil.EulerZYX(b.Rotation[0], b.Rotation[1], b.Rotation[2]))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        b.Name,
			Translation: b.Position,
			Rotation:    q,
			Scale:       b.Scale,
		})
	}
	for i, b := range s.Bones {
		if b.Parent >= 0 && b.Parent < i {
			parent := doc.Nodes[base+b.Parent]
			parent.Children = append(parent.Children, base+i)
			continue
		}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, base+i)
	}
}

func gltfWrap(w model.WrapMode) gltf.WrappingMode {
	switch w {
	case model.WrapMirroredRepeat:
		return gltf.WrapMirroredRepeat
	case model.WrapClampToEdge, model.WrapClampToEdgeLegacy:
		return gltf.WrapClampToEdge
	}
	return gltf.WrapRepeat
}

func addMaterial(doc *gltf.Document, m *model.Model, mat *model.Material, res texture.Resolver, images map[string]int) (int, error) {
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float64{1, 1, 1, 1},
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	out := &gltf.Material{Name: mat.Name, PBRMetallicRoughness: pbr, DoubleSided: true}
	if mat.Blend {
		out.AlphaMode = gltf.AlphaBlend
	} else {
		out.AlphaMode = gltf.AlphaOpaque
	}

	if img := res.Resolve(mat.Diffuse); img != nil && m.Texture(mat.Diffuse) != nil {
		source, ok := images[mat.Diffuse]
		if !ok {
			var buf bytes.Buffer
			if err := texture.Encode(&buf, img, texture.FormatPNG); err != nil {
				return 0, err
			}
			idx, err := modeler.WriteImage(doc, mat.Diffuse, "image/png", &buf)
			if err != nil {
				return 0, fmt.Errorf("export: embed %s: %w", mat.Diffuse, err)
			}
			images[mat.Diffuse] = idx
			source = idx
		}
		doc.Samplers = append(doc.Samplers, &gltf.Sampler{
			MagFilter: gltf.MagLinear,
			WrapS:     gltfWrap(mat.WrapS),
			WrapT:     gltfWrap(mat.WrapT),
		})
		doc.Textures = append(doc.Textures, &gltf.Texture{
			Sampler: gltf.Index(len(doc.Samplers) - 1),
			Source:  gltf.Index(source),
		})
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: len(doc.Textures) - 1}
	}

	doc.Materials = append(doc.Materials, out)
	return len(doc.Materials) - 1, nil
}

func writePrimitive(doc *gltf.Document, mesh *model.Mesh) *gltf.Primitive {
	n := len(mesh.Vertices)
	positions := make([][3]float32, n)
	normals := make([][3]float32, n)
	colors := make([][4]float32, n)
	uvs := make([][2]float32, n)
	for i, v := range mesh.Vertices {
		positions[i] = v.Position
		normals[i] = unit(v.Normal)
		colors[i] = v.Color
		uvs[i] = v.UV
	}
	indices := make([]uint32, 0, len(mesh.Triangles)*3)
	for _, tri := range mesh.Triangles {
		indices = append(indices, tri[0], tri[1], tri[2])
	}

	return &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{
			gltf.POSITION:   modeler.WritePosition(doc, positions),
			gltf.NORMAL:     modeler.WriteNormal(doc, normals),
			gltf.COLOR_0:    modeler.WriteColor(doc, colors),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
		},
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
	}
}

// unit normalises n; glTF rejects non-unit normals, so zero becomes +Y.
func unit(n [3]float32) [3]float32 {
	l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l < 1e-6 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{n[0] / l, n[1] / l, n[2] / l}
}
