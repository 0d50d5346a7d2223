package fragment

import (
	"testing"

	"fragment-decoder/internal/model"
)

func tex(name string, data ...byte) *model.Texture {
	return &model.Texture{Name: name, Width: 1, Height: 1, Format: model.FormatRGB5A1, Mipmaps: [][]byte{data}}
}

func TestDedup(t *testing.T) {
	m := model.New()
	m.AddTexture(tex("texture_0", 1, 2))
	m.AddTexture(tex("texture_1", 3, 4))
	m.AddTexture(tex("texture_2", 1, 2))
	m.AddTexture(tex("texture_3", 5, 6))
	m.AddMaterial(&model.Material{Name: "material_0", Diffuse: "texture_2"})
	m.AddMaterial(&model.Material{Name: "material_1", Diffuse: "texture_3"})
	m.AddMaterial(&model.Material{Name: "material_2"})
	m.AddMaterial(&model.Material{Name: "material_3", Diffuse: "texture_0"})

	if n := Dedup(m); n != 1 {
		t.Errorf("dropped = %d", n)
	}
	if len(m.Textures) != 3 {
		t.Fatalf("textures = %d", len(m.Textures))
	}
	for i, want := range []byte{1, 3, 5} {
		tx := m.Textures[i]
		if tx.Name != "texture_"+string(rune('0'+i)) || tx.Primary()[0] != want {
			t.Errorf("texture %d = %s % X", i, tx.Name, tx.Primary())
		}
	}
	for i, want := range []string{"texture_0", "texture_2", "", "texture_0"} {
		if got := m.Materials[i].Diffuse; got != want {
			t.Errorf("material %d diffuse = %q, want %q", i, got, want)
		}
	}

	// A second pass finds nothing left to merge.
	if n := Dedup(m); n != 0 {
		t.Errorf("second pass dropped %d", n)
	}
}
