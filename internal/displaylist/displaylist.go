// Package displaylist decodes F3DEX2 display lists into indexed triangles.
//
// Only the geometry-relevant commands are interpreted: vertex loads,
// triangles, nested lists and the tile size used to normalise texture
// coordinates. Every other command is an 8-byte record that is skipped.
package displaylist

import (
	"fmt"

	"github.com/chewxy/math32"

	"fragment-decoder/internal/bytecursor"
	"fragment-decoder/internal/mathutil"
)

// F3DEX2 opcodes.
const (
	opVtx         = 0x01
	opTri1        = 0x05
	opTri2        = 0x06
	opQuad        = 0x07
	opTexture     = 0xD7
	opDL          = 0xDE
	opEndDL       = 0xDF
	opSetTileSize = 0xF2
)

const (
	cacheSize   = 32
	maxDepth    = 18
	maxCommands = 1 << 16
	vertexSize  = 16
	addressMask = 0x00FFFFFF
	defaultTile = 32
)

// Vertex is one decoded vertex, already moved into model space.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
	UV       [2]float32
	Bone     int
}

// DisplayList is the decoded geometry of one list.
type DisplayList struct {
	Vertices []Vertex
	Faces    []uint32 // triangle index triples into Vertices
}

type decoder struct {
	c     *bytecursor.Cursor
	bone  int
	world mathutil.Mat4
	out   *DisplayList

	cache    [cacheSize]int
	tileW    float32
	tileH    float32
	scaleS   float32
	scaleT   float32
	commands int
}

// Decode walks the list at the cursor position. The cursor is left after the
// terminating G_ENDDL. Positions and normals are transformed by world and
// every vertex is tagged with bone.
func Decode(c *bytecursor.Cursor, bone int, world mathutil.Mat4) (*DisplayList, error) {
	d := &decoder{
		c:      c,
		bone:   bone,
		world:  world,
		out:    &DisplayList{},
		tileW:  defaultTile,
		tileH:  defaultTile,
		scaleS: 1,
		scaleT: 1,
	}
	for i := range d.cache {
		d.cache[i] = -1
	}
	if err := d.run(0); err != nil {
		return d.out, err
	}
	return d.out, nil
}

func (d *decoder) run(depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("displaylist: nesting deeper than %d at 0x%X", maxDepth, d.c.Pos())
	}
	for {
		d.commands++
		if d.commands > maxCommands {
			return fmt.Errorf("displaylist: more than %d commands, list does not terminate", maxCommands)
		}

		w0, err := d.c.ReadU32()
		if err != nil {
			return err
		}
		w1, err := d.c.ReadU32()
		if err != nil {
			return err
		}

		switch w0 >> 24 {
		case opVtx:
			n := int(w0>>12) & 0xFF
			v0 := int(w0>>1)&0x7F - n
			if err := d.loadVertices(int(w1&addressMask), v0, n); err != nil {
				return err
			}
		case opTri1:
			d.triangle(w0)
		case opTri2, opQuad:
			d.triangle(w0)
			d.triangle(w1)
		case opTexture:
			d.scaleS = float32(w1>>16) / 65536
			d.scaleT = float32(w1&0xFFFF) / 65536
			if d.scaleS == 0 {
				d.scaleS = 1
			}
			if d.scaleT == 0 {
				d.scaleT = 1
			}
		case opSetTileSize:
			lrs := (w1 >> 12) & 0xFFF
			lrt := w1 & 0xFFF
			d.tileW = float32(lrs>>2) + 1
			d.tileH = float32(lrt>>2) + 1
		case opDL:
			addr := int(w1 & addressMask)
			if (w0>>16)&0xFF == 0 {
				if err := d.c.Jump(addr, func() error { return d.run(depth + 1) }); err != nil {
					return err
				}
			} else if err := d.c.Seek(addr); err != nil {
				return err
			}
		case opEndDL:
			return nil
		}
	}
}

func (d *decoder) loadVertices(addr, v0, n int) error {
	if v0 < 0 || v0+n > cacheSize {
		return fmt.Errorf("displaylist: vertex load %d+%d exceeds cache of %d", v0, n, cacheSize)
	}
	return d.c.Jump(addr, func() error {
		for i := 0; i < n; i++ {
			v, err := d.readVertex()
			if err != nil {
				return err
			}
			d.cache[v0+i] = len(d.out.Vertices)
			d.out.Vertices = append(d.out.Vertices, v)
		}
		return nil
	})
}

func (d *decoder) readVertex() (Vertex, error) {
	var raw [vertexSize]byte
	for i := range raw {
		b, err := d.c.ReadU8()
		if err != nil {
			return Vertex{}, err
		}
		raw[i] = b
	}
	i16 := func(o int) float64 { return float64(int16(uint16(raw[o])<<8 | uint16(raw[o+1]))) }

	pos := d.world.MulPoint(mathutil.Vec3{i16(0), i16(2), i16(4)})
	s, t := i16(8), i16(10)

	nrm := d.world.MulDir(mathutil.Vec3{
		float64(int8(raw[12])) / 127,
		float64(int8(raw[13])) / 127,
		float64(int8(raw[14])) / 127,
	})
	n := [3]float32{float32(nrm[0]), float32(nrm[1]), float32(nrm[2])}
	if l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]); l > 1e-6 {
		n[0], n[1], n[2] = n[0]/l, n[1]/l, n[2]/l
	}

	return Vertex{
		Position: [3]float32{float32(pos[0]), float32(pos[1]), float32(pos[2])},
		Normal:   n,
		Color: [4]float32{
			float32(raw[12]) / 255,
			float32(raw[13]) / 255,
			float32(raw[14]) / 255,
			float32(raw[15]) / 255,
		},
		// st are 10.5 fixed point texel coordinates.
		UV: [2]float32{
			float32(s) / 32 * d.scaleS / d.tileW,
			float32(t) / 32 * d.scaleT / d.tileH,
		},
		Bone: d.bone,
	}, nil
}

// triangle appends the face packed in the low 24 bits of w as three
// doubled cache slots. Faces that touch an unloaded slot are dropped.
func (d *decoder) triangle(w uint32) {
	slots := [3]int{int(w>>16) & 0xFF / 2, int(w>>8) & 0xFF / 2, int(w) & 0xFF / 2}
	var face [3]uint32
	for i, s := range slots {
		if s >= cacheSize || d.cache[s] < 0 {
			return
		}
		face[i] = uint32(d.cache[s])
	}
	d.out.Faces = append(d.out.Faces, face[:]...)
}
