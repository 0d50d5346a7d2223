package model

// Vertex is one skinned vertex. Bones/Weights hold up to four influences.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32 // normal, or vertex color rgb for lit-off geometry
	Color    [4]float32
	UV       [2]float32
	Bones    [4]int
	Weights  [4]float32
}

// Mesh is one display-list chunk. Meshes are never merged, even when they
// share a bone.
type Mesh struct {
	Name      string
	Bone      int // index into Skeleton.Bones, -1 when unrigged
	Vertices  []Vertex
	Triangles [][3]uint32
	Material  string
}
