package fragment

import (
	"encoding/binary"
)

// Synthetic file layout used by the tests.
const (
	fxSize         = 0x2000
	fxData         = 0x40
	fxMain         = 0x60
	fxBankPtr      = 0x70
	fxBank         = 0x80
	fxTexTable     = 0x100
	fxPalTable     = 0x180
	fxReloc        = 0x1C0
	fxObject       = 0x200
	fxList         = 0x400 // display lists, 0x80 apart
	fxParams       = 0x600 // texture parameter sub-records, 0x20 apart
	fxTexData      = 0x800
	fxPalData      = 0xC00
	segmentTag     = 0x0A000000
	fxTexCountTag  = 0x00170000
	fxListStride   = 0x80
	fxParamsStride = 0x20
)

var be = binary.BigEndian

type fixture struct {
	buf      []byte
	relocs   []int
	stream   []byte
	textures int
	palettes int
	texData  int
	palData  int
	lists    int
	nparams  int
	object   int
}

func newFixture() *fixture {
	f := &fixture{
		buf:     make([]byte, fxSize),
		texData: fxTexData,
		palData: fxPalData,
		object:  fxObject,
	}
	copy(f.buf[0x08:], Magic)
	be.PutUint32(f.buf[0x10:], fxData)
	be.PutUint32(f.buf[0x14:], fxReloc)
	be.PutUint32(f.buf[0x18:], fxSize)
	be.PutUint32(f.buf[0x1C:], fxReloc)
	f.pointer(fxData+0x10, fxMain)
	f.pointer(fxMain+0x08, fxBankPtr)
	f.pointer(fxBankPtr, fxBank)
	return f
}

// pointer stores a segment-tagged offset the relocation pass must clean.
func (f *fixture) pointer(at int, v uint32) {
	be.PutUint32(f.buf[at:], v|segmentTag)
	f.relocs = append(f.relocs, at)
}

func (f *fixture) textureEntry(format, bitsize uint8, w, h, size, off int) int {
	e := f.buf[fxTexTable+f.textures*textureEntrySize:]
	e[0], e[1] = format, bitsize
	be.PutUint16(e[2:], uint16(w))
	be.PutUint16(e[4:], uint16(h))
	be.PutUint16(e[6:], uint16(size))
	be.PutUint32(e[8:], uint32(off)|0x00800000)
	f.textures++
	return f.textures - 1
}

func (f *fixture) texture(format, bitsize uint8, w, h, size int, data []byte) int {
	off := f.texData
	copy(f.buf[off:], data)
	f.texData += (len(data) + 7) &^ 7
	return f.textureEntry(format, bitsize, w, h, size, off)
}

// palette stores 16-bit entries and returns the palette index.
func (f *fixture) palette(entries ...uint16) int {
	e := f.buf[fxPalTable+f.palettes*paletteEntrySize:]
	be.PutUint32(e[0:], uint32(len(entries)))
	be.PutUint32(e[4:], uint32(f.palData))
	for i, v := range entries {
		be.PutUint16(f.buf[f.palData+i*2:], v)
	}
	f.palData += len(entries) * 2
	f.palettes++
	return f.palettes - 1
}

// triangleList writes a display list drawing one triangle with the given
// x offsets and returns its offset.
func (f *fixture) triangleList(xs ...int16) int {
	off := fxList + f.lists*fxListStride
	f.lists++
	verts := off + 0x40
	for i, x := range xs[:3] {
		v := f.buf[verts+i*16:]
		be.PutUint16(v[0:], uint16(x))
		be.PutUint16(v[2:], uint16(i))
		v[15] = 0xFF
	}
	be.PutUint32(f.buf[off:], 0x01<<24|3<<12|3<<1)
	be.PutUint32(f.buf[off+4:], uint32(verts))
	be.PutUint32(f.buf[off+8:], 0x05<<24|0<<16|2<<8|4)
	be.PutUint32(f.buf[off+16:], 0xDF<<24)
	return off
}

// params writes a texture parameter sub-record with a G_SETTILE word.
func (f *fixture) params(cmS, cmT uint32, extra ...[8]byte) int {
	off := fxParams + f.nparams*fxParamsStride
	f.nparams++
	p := off
	for _, e := range extra {
		copy(f.buf[p:], e[:])
		p += 8
	}
	f.buf[p] = subSetTile
	be.PutUint32(f.buf[p+4:], cmS<<8|cmT<<18)
	f.buf[p+8] = subEnd
	return off
}

func (f *fixture) op(b ...byte) *fixture {
	f.stream = append(f.stream, b...)
	return f
}

func (f *fixture) push() *fixture { return f.op(opPush, 0, 0, 0) }
func (f *fixture) pop() *fixture  { return f.op(opPop, 0, 0, 0) }

func (f *fixture) bone(id uint8, trans, rot [3]int16) *fixture {
	r := []byte{opBone, id, 0, 0xFF}
	for _, v := range trans {
		r = be.AppendUint16(r, uint16(v))
	}
	for _, v := range rot {
		r = be.AppendUint16(r, uint16(v))
	}
	for range 3 {
		r = be.AppendUint16(r, 1)
		r = be.AppendUint16(r, 0)
	}
	return f.op(r...)
}

func (f *fixture) drawBone(id uint16, list int) *fixture {
	r := []byte{opDrawBone, 0}
	r = be.AppendUint16(r, id)
	r = be.AppendUint32(r, uint32(list))
	return f.op(r...)
}

func (f *fixture) drawParent(list int) *fixture {
	r := []byte{opDrawParent, 0, 0xFF, 0xFF}
	r = be.AppendUint32(r, uint32(list))
	return f.op(r...)
}

func (f *fixture) material(params int, tid, pid int16) *fixture {
	r := []byte{opMaterial, 0, 0, 0}
	r = be.AppendUint32(r, uint32(params))
	r = be.AppendUint16(r, uint16(tid))
	r = be.AppendUint16(r, uint16(pid))
	r = append(r, 0xFF, 0xFF, 0xFF, 0xFF)
	return f.op(r...)
}

// bytes finalises the bank header, relocation table and stream.
func (f *fixture) bytes() []byte {
	b := f.buf[fxBank:]
	be.PutUint32(b[0:], fxTexCountTag|uint32(f.textures))
	be.PutUint16(b[4:], uint16(f.palettes))
	be.PutUint32(b[8:], fxTexTable)
	be.PutUint32(b[12:], fxPalTable)
	be.PutUint32(b[20+bankPadding:], uint32(f.object))

	be.PutUint32(f.buf[fxReloc:], uint32(len(f.relocs)))
	for i, at := range f.relocs {
		be.PutUint32(f.buf[fxReloc+4+i*4:], uint32(at))
	}
	copy(f.buf[f.object+streamPreamble:], f.stream)
	return f.buf
}
