package fragment

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"fragment-decoder/internal/container"
)

func sampleFixture() *fixture {
	f := newFixture()
	a := f.texture(2, 0, 4, 2, 8, []byte{0x01, 0x23, 0x45, 0x67})
	b := f.texture(0, 2, 2, 2, 4, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	pal := f.palette(0x0001, 0x0002, 0x0003, 0x0004, 0x0005, 0x0006, 0x0007, 0x0008)
	body := f.triangleList(0, 10, 20)
	head := f.triangleList(5, 6, 7)

	var zero [3]int16
	f.bone(0, zero, zero).
		push().
		material(f.params(0, 0), int16(a), int16(pal)).
		bone(1, [3]int16{0, 30, 0}, [3]int16{0, 0, 90 * 180}).
		drawBone(1, head).
		material(f.params(2, 2), int16(a), int16(pal)).
		drawParent(body).
		material(f.params(1, 1), int16(b), -1).
		drawBone(0, body).
		pop()
	return f
}

func TestDecodeSample(t *testing.T) {
	f := sampleFixture()
	raw := f.bytes()
	orig := append([]byte(nil), raw...)

	m, err := Decode(raw, Options{Logf: t.Logf})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(raw, orig) {
		t.Error("Decode modified its input")
	}
	if len(m.Skeleton.Bones) != 2 || m.Skeleton.Bones[1].Parent != 0 {
		t.Errorf("skeleton = %+v", m.Skeleton.Bones)
	}
	if len(m.Meshes) != 3 {
		t.Fatalf("meshes = %d", len(m.Meshes))
	}
	if len(m.Materials) != 3 {
		t.Fatalf("materials = %d", len(m.Materials))
	}
	// The first two bindings expand the same texture and palette.
	if len(m.Textures) != 2 {
		t.Fatalf("textures = %d, want duplicates merged", len(m.Textures))
	}
	if m.Materials[0].Diffuse != "texture_0" || m.Materials[1].Diffuse != "texture_0" || m.Materials[2].Diffuse != "texture_1" {
		t.Errorf("diffuse = %q %q %q", m.Materials[0].Diffuse, m.Materials[1].Diffuse, m.Materials[2].Diffuse)
	}
	for _, mesh := range m.Meshes {
		if m.MeshTexture(mesh) == nil {
			t.Errorf("%s has no texture", mesh.Name)
		}
	}
	if got := len(m.Texture("texture_0").Primary()); got != 4*2*2 {
		t.Errorf("depalettized size = %d", got)
	}

	// Bone 1 is rotated 90 degrees about Z: local (6, 1) lands on (-1, 6).
	p := m.Meshes[0].Vertices[1].Position
	if p[0] > -0.999 || p[0] < -1.001 || p[1] < 35.999 || p[1] > 36.001 {
		t.Errorf("rotated vertex = %v", p)
	}
}

func TestDecodeTwice(t *testing.T) {
	raw := sampleFixture().bytes()
	a, errA := Decode(raw, Options{})
	b, errB := Decode(raw, Options{})
	if errA != nil || errB != nil {
		t.Fatalf("Decode: %v / %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two decodes of one buffer differ")
	}
}

func TestDecodeBadMagic(t *testing.T) {
	raw := sampleFixture().bytes()
	copy(raw[MagicOffset:], "FRAGMENX")
	m, err := Decode(raw, Options{})
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("err = %v", err)
	}
	if len(m.Skeleton.Bones) != 0 || len(m.Meshes) != 0 || len(m.Textures) != 0 {
		t.Error("bad magic produced a non-empty model")
	}

	if _, err := Decode([]byte("short"), Options{}); !errors.Is(err, ErrBadMagic) {
		t.Errorf("short buffer err = %v", err)
	}
}

func TestDecodeFileSZP(t *testing.T) {
	payload := sampleFixture().bytes()

	var masks []byte
	for i := 0; i < len(payload); i += 32 {
		masks = binary.BigEndian.AppendUint32(masks, 0xFFFFFFFF)
	}
	raw := []byte(container.SZPMagic)
	raw = binary.BigEndian.AppendUint32(raw, 16)
	raw = append(raw, 0, 0, 0, 0)
	raw = append(raw, "Yay0"...)
	raw = binary.BigEndian.AppendUint32(raw, uint32(len(payload)))
	raw = binary.BigEndian.AppendUint32(raw, uint32(16+len(masks)))
	raw = binary.BigEndian.AppendUint32(raw, uint32(16+len(masks)))
	raw = append(raw, masks...)
	raw = append(raw, payload...)

	m, err := DecodeFile(raw, Options{})
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if len(m.Meshes) != 3 {
		t.Errorf("meshes = %d", len(m.Meshes))
	}
}

func TestLayout(t *testing.T) {
	raw := sampleFixture().bytes()
	h, bh, err := Layout(raw)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if h.DataOffset != fxData || h.RelocOffset != fxReloc {
		t.Errorf("header = %+v", h)
	}
	if bh.Base != fxBank || bh.TextureCount != 2 || bh.PaletteCount != 1 || bh.ObjectOffset != fxObject {
		t.Errorf("bank header = %+v", bh)
	}
	if be.Uint32(raw[fxBankPtr:])&segmentTag == 0 {
		t.Error("Layout patched its input")
	}
}
