package fragment

import (
	"fmt"
	"math"

	"fragment-decoder/internal/bytecursor"
	"fragment-decoder/internal/displaylist"
	"fragment-decoder/internal/mathutil"
	"fragment-decoder/internal/model"
)

// Scene opcodes.
const (
	opXref       = 0x03
	opPush       = 0x05
	opPop        = 0x06
	opSpecial    = 0x08
	opUnknown18  = 0x18
	opBone       = 0x1D
	opDrawBone   = 0x1E
	opDrawParent = 0x22
	opMaterial   = 0x23
	opMatrixHint = 0x24
	opUnknown25  = 0x25
)

// The stream starts with 4 unknown bytes and an unused record count.
const streamPreamble = 8

// Texture parameter sub-record commands.
const (
	subSetTile     = 0xF5
	subOtherModeL  = 0xE2
	subEnd         = 0xDF
	subRecordSize  = 8
	forceBlendFlag = 0x4000
)

// state is the interpreter's working set for one pass.
type state struct {
	c      *bytecursor.Cursor
	m      *model.Model
	bank   *Bank
	logf   func(string, ...any)
	worlds map[int]mathutil.Mat4

	stack        []int // output bone indices, -1 for "no bone"
	current      int
	materialName string
	material     *model.Material
	done         bool
}

func newState(c *bytecursor.Cursor, m *model.Model, bank *Bank, logf func(string, ...any)) *state {
	return &state{
		c:        c,
		m:        m,
		bank:     bank,
		logf:     logf,
		worlds:   make(map[int]mathutil.Mat4),
		current:  -1,
		material: &model.Material{},
	}
}

func (st *state) top() int {
	if len(st.stack) == 0 {
		return -1
	}
	return st.stack[len(st.stack)-1]
}

// interpret runs the opcode stream at objectOffset until an unknown opcode.
func interpret(st *state, objectOffset int) error {
	if err := st.c.Seek(objectOffset + streamPreamble); err != nil {
		return stageErr("stream", objectOffset, err)
	}
	for !st.done {
		at := st.c.Pos()
		op, err := st.c.ReadU8()
		if err != nil {
			return stageErr("stream", at, err)
		}
		if err := st.step(op); err != nil {
			return stageErr(fmt.Sprintf("opcode 0x%02X", op), at, err)
		}
	}
	return nil
}

func (st *state) step(op uint8) error {
	switch op {
	case opXref, opUnknown18:
		return st.c.Skip(7)
	case opPush:
		st.stack = append(st.stack, st.current)
		return st.c.Skip(3)
	case opPop:
		if len(st.stack) > 0 {
			st.stack = st.stack[:len(st.stack)-1]
		}
		return st.c.Skip(3)
	case opSpecial:
		return st.special()
	case opBone:
		return st.defineBone()
	case opDrawBone:
		return st.drawBone()
	case opDrawParent:
		return st.drawParent()
	case opMaterial:
		return st.bindMaterial()
	case opMatrixHint, opUnknown25:
		// 0x24 and 0x25 are 4-byte records, opcode included.
		return st.c.Skip(3)
	}
	st.done = true
	return nil
}

func (st *state) special() error {
	if err := st.c.Skip(3); err != nil {
		return err
	}
	a, err := st.c.ReadU8()
	if err != nil {
		return err
	}
	if err := st.c.Skip(1); err != nil {
		return err
	}
	b, err := st.c.ReadI16()
	if err != nil {
		return err
	}
	st.logf("opcode 0x08: %d %d", a&0x7F, b)
	return st.c.Skip(4)
}

func (st *state) defineBone() error {
	id, err := st.c.ReadU8()
	if err != nil {
		return err
	}
	// kind and the stored parent byte; linkage comes from the stack.
	if err := st.c.Skip(2); err != nil {
		return err
	}

	var raw [6]int16
	for i := range raw {
		if raw[i], err = st.c.ReadI16(); err != nil {
			return err
		}
	}
	var scale mathutil.Vec3
	for i := range scale {
		whole, err := st.c.ReadI16()
		if err != nil {
			return err
		}
		frac, err := st.c.ReadU16()
		if err != nil {
			return err
		}
		scale[i] = float64(whole) + float64(frac)/0xFFFF
	}

	bone := model.Bone{
		Name:     fmt.Sprintf("Bone_%d", id),
		ID:       int(id),
		Parent:   st.top(),
		Position: mathutil.Vec3{float64(raw[0]), float64(raw[1]), float64(raw[2])},
		Scale:    scale,
	}
	for i := range bone.Rotation {
		// Stored as degrees × 180.
		bone.Rotation[i] = float64(raw[3+i]) / 180 * math.Pi / 180
	}
	st.current = st.m.Skeleton.Add(bone)
	return nil
}

func (st *state) drawBone() error {
	if err := st.c.Skip(1); err != nil {
		return err
	}
	id, err := st.c.ReadU16()
	if err != nil {
		return err
	}
	off, err := st.c.ReadU32()
	if err != nil {
		return err
	}
	bone := st.m.Skeleton.IndexByID(int(id))
	if bone < 0 {
		st.logf("opcode 0x1E: no bone with id %d, mesh left unrigged", id)
	}
	return st.addMesh(int(off), bone)
}

func (st *state) drawParent() error {
	if err := st.c.Skip(3); err != nil {
		return err
	}
	off, err := st.c.ReadU32()
	if err != nil {
		return err
	}
	if off == 0 {
		return nil
	}
	bone := st.top()
	if bone < 0 {
		st.logf("opcode 0x22: no parent bone, mesh left unrigged")
	}
	return st.addMesh(int(off), bone)
}

func (st *state) world(bone int) mathutil.Mat4 {
	if w, ok := st.worlds[bone]; ok {
		return w
	}
	w := st.m.Skeleton.WorldTransform(bone)
	st.worlds[bone] = w
	return w
}

func (st *state) addMesh(off, bone int) error {
	return st.c.Jump(off, func() error {
		dl, err := displaylist.Decode(st.c, bone, st.world(bone))
		if err != nil {
			return err
		}
		mesh := meshFromList(dl, bone)
		mesh.Name = fmt.Sprintf("Mesh_%d", len(st.m.Meshes))
		mesh.Material = st.materialName
		st.m.Meshes = append(st.m.Meshes, mesh)
		return nil
	})
}

func (st *state) bindMaterial() error {
	if err := st.c.Skip(3); err != nil {
		return err
	}
	paramOff, err := st.c.ReadU32()
	if err != nil {
		return err
	}
	tid, err := st.c.ReadI16()
	if err != nil {
		return err
	}
	pid, err := st.c.ReadI16()
	if err != nil {
		return err
	}
	if err := st.c.Skip(4); err != nil {
		return err
	}

	mat := &model.Material{Name: fmt.Sprintf("material_%d", len(st.m.Materials))}
	if tid == -1 {
		mat.Diffuse = st.material.Diffuse
	} else {
		if int(tid) < 0 || int(tid) >= len(st.bank.Textures) {
			return fmt.Errorf("%w: %d of %d", ErrTextureIndex, tid, len(st.bank.Textures))
		}
		src := st.bank.Textures[tid]
		if src.Empty() {
			st.logf("%s: texture %d has no data, bound without diffuse", mat.Name, tid)
		} else {
			tex, err := Depalettize(src, int(pid), st.bank.Palettes)
			if err != nil {
				return err
			}
			tex.Name = fmt.Sprintf("texture_%d", len(st.m.Textures))
			st.m.AddTexture(tex)
			mat.Diffuse = tex.Name
		}
	}
	st.m.AddMaterial(mat)
	st.material = mat
	st.materialName = mat.Name

	return st.c.Jump(int(paramOff), func() error { return readTextureParams(st.c, mat) })
}

// readTextureParams walks a texture parameter sub-record up to its end
// marker, applying tile wrap modes and the blend flag to mat.
func readTextureParams(c *bytecursor.Cursor, mat *model.Material) error {
	for {
		cmd, err := c.ReadU8()
		if err != nil {
			return err
		}
		switch cmd {
		case subEnd:
			return nil
		case subSetTile, subOtherModeL:
			if err := c.Skip(3); err != nil {
				return err
			}
			w1, err := c.ReadU32()
			if err != nil {
				return err
			}
			if cmd == subSetTile {
				mat.WrapS, mat.WrapT = WrapModes(w1)
			} else {
				mat.Blend = w1&forceBlendFlag != 0
			}
		default:
			if err := c.Skip(subRecordSize - 1); err != nil {
				return err
			}
		}
	}
}

// WrapModes extracts the S and T clamp/mirror codes of a G_SETTILE word.
func WrapModes(w1 uint32) (s, t model.WrapMode) {
	return wrapMode((w1 >> 8) & 3), wrapMode((w1 >> 18) & 3)
}

func wrapMode(code uint32) model.WrapMode {
	switch code {
	case 1:
		return model.WrapMirroredRepeat
	case 2:
		return model.WrapClampToEdge
	case 3:
		return model.WrapClampToEdgeLegacy
	}
	return model.WrapRepeat
}
