package model

import (
	"fragment-decoder/internal/mathutil"
)

// Bone holds the local bind pose of one joint. Rotation is Euler radians
// applied X, then Y, then Z.
type Bone struct {
	Name     string
	ID       int // id from the source data, not the bone's index
	Parent   int // index into Skeleton.Bones, -1 for a root
	Position mathutil.Vec3
	Rotation mathutil.Vec3
	Scale    mathutil.Vec3
}

// Skeleton is an ordered bone list; parents always precede children.
type Skeleton struct {
	Bones []Bone
}

// Add appends b and returns its index.
func (s *Skeleton) Add(b Bone) int {
	s.Bones = append(s.Bones, b)
	return len(s.Bones) - 1
}

// IndexByID returns the index of the first bone with the given source id,
// or -1.
func (s *Skeleton) IndexByID(id int) int {
	for i, b := range s.Bones {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// LocalTransform returns translation × rotation × scale for bone i.
func (s *Skeleton) LocalTransform(i int) mathutil.Mat4 {
	b := s.Bones[i]
	rot := mathutil.EulerZYX(b.Rotation[0], b.Rotation[1], b.Rotation[2])
	return mathutil.FromTRS(b.Position, rot, b.Scale)
}

// WorldTransform chains local transforms up to the root. An index outside
// the skeleton yields identity.
func (s *Skeleton) WorldTransform(i int) mathutil.Mat4 {
	if i < 0 || i >= len(s.Bones) {
		return mathutil.Mat4Identity()
	}
	world := s.LocalTransform(i)
	// Parents precede children, so the walk terminates.
	for p := s.Bones[i].Parent; p >= 0 && p < i; p = s.Bones[p].Parent {
		world = mathutil.Mat4Mul(s.LocalTransform(p), world)
		i = p
	}
	return world
}

// WorldTransforms computes the world matrix of every bone in one pass.
func (s *Skeleton) WorldTransforms() []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, len(s.Bones))
	for i, bone := range s.Bones {
		local := s.LocalTransform(i)
		if bone.Parent >= 0 && bone.Parent < i {
			worlds[i] = mathutil.Mat4Mul(worlds[bone.Parent], local)
		} else {
			worlds[i] = local
		}
	}
	return worlds
}
