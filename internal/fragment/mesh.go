package fragment

import (
	"fragment-decoder/internal/displaylist"
	"fragment-decoder/internal/model"
)

// meshFromList converts decoded display-list geometry into a mesh fully
// weighted to bone.
func meshFromList(dl *displaylist.DisplayList, bone int) *model.Mesh {
	mesh := &model.Mesh{
		Bone:     bone,
		Vertices: make([]model.Vertex, len(dl.Vertices)),
	}
	for i, v := range dl.Vertices {
		mesh.Vertices[i] = model.Vertex{
			Position: v.Position,
			Normal:   v.Normal,
			Color:    v.Color,
			UV:       v.UV,
			Bones:    [4]int{bone},
			Weights:  [4]float32{1},
		}
	}
	for i := 0; i+2 < len(dl.Faces); i += 3 {
		mesh.Triangles = append(mesh.Triangles, [3]uint32{dl.Faces[i], dl.Faces[i+1], dl.Faces[i+2]})
	}
	return mesh
}
